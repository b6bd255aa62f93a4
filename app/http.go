package app

import (
	"net/http"
	"strings"
)

// ServeHTTP dispatches between the websocket endpoint, the NIP-11
// information document and any extra handlers mounted on the router.
func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-rl.Ctx.Done():
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}
	switch {
	case strings.EqualFold(r.Header.Get("Upgrade"), "websocket"):
		rl.HandleWebsocket(w, r)
	case strings.Contains(r.Header.Get("Accept"), "application/nostr+json"):
		rl.HandleRelayInfo(w, r)
	default:
		rl.serveMux.ServeHTTP(w, r)
	}
}
