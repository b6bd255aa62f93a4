package app

import (
	"encoding/json"
	"net/http"
)

// HandleRelayInfo serves the NIP-11 information document.
func (rl *Relay) HandleRelayInfo(w http.ResponseWriter, r *http.Request) {
	log.T.F("serving relay information document to %s", GetIP(r))
	w.Header().Set("Content-Type", "application/nostr+json")
	chk.E(json.NewEncoder(w).Encode(rl.Info))
}
