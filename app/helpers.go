package app

import (
	"context"
	"hash/maphash"
	"net/http"
	"os"
	"strings"
	"unsafe"

	"github.com/castrlabs/castr/pkg/relayws"
	"github.com/castrlabs/castr/pkg/slog"
	"github.com/sebest/xff"
)

type contextKey int

const (
	wsKey contextKey = iota
	subscriptionIdKey
)

var log, chk = slog.New(os.Stderr)

// GetConnection recovers the websocket from a session context.
func GetConnection(c context.Context) *relayws.WebSocket {
	v, ok := c.Value(wsKey).(*relayws.WebSocket)
	if !ok {
		return nil
	}
	return v
}

// GetIP returns the best guess at the real client address, looking through
// forwarding proxies.
func GetIP(r *http.Request) string {
	return xff.GetRemoteAddr(r)
}

// GetSubscriptionID returns the subscription id a backlog query is running
// for.
func GetSubscriptionID(c context.Context) string {
	s, _ := c.Value(subscriptionIdKey).(string)
	return s
}

// PointerHasher hashes map keys that are pointers by their address.
func PointerHasher[V any](_ maphash.Seed, k *V) uint64 {
	return uint64(uintptr(unsafe.Pointer(k)))
}

// reason prefixes a rejection message with its machine readable category
// unless it already carries one.
func reason(msg, prefix string) string {
	if msg == "" {
		return prefix
	}
	if strings.HasPrefix(msg, prefix) {
		return msg
	}
	return prefix + ": " + msg
}
