package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/castrlabs/castr/pkg/nostr/kind"
	"github.com/castrlabs/castr/pkg/nostr/kinds"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
	"github.com/castrlabs/castr/pkg/relayinfo"
	"github.com/castrlabs/castr/pkg/relayws"
	"github.com/fasthttp/websocket"
	"github.com/puzpuzpuz/xsync/v2"
)

var Version = "v0.1.0"
var Software = "https://github.com/castrlabs/castr"

const (
	PongWait        = 60 * time.Second
	PingPeriod      = 30 * time.Second
	ReadBufferSize  = 4096
	WriteBufferSize = 4096
	MaxMessageSize  = 512000
)

// function types used in the relay state
type (
	RejectEvent func(c context.Context, ev *event.T) (rej bool, msg string)
	RejectFilter func(c context.Context, id subscriptionid.T,
		f *filter.T) (rej bool, msg string)
	StoreEvents func(c context.Context, ev *event.T) (err error)
	QueryEvents func(c context.Context, f *filter.T) (ch event.C, err error)
	CountEvents func(c context.Context, f *filter.T) (cnt int, err error)
	Hook        func(c context.Context)
	OnEventSaved func(c context.Context, ev *event.T)
)

// Relay holds the shared state of one relay: the subscription registry, the
// storage hooks and the policy chains. The hook slices are filled in by the
// caller before Start; the zero value of each is simply "no policy".
type Relay struct {
	Ctx    context.Context
	Cancel context.CancelFunc
	WG     sync.WaitGroup

	Config *Config
	Info   *relayinfo.T

	RejectEvent  []RejectEvent
	RejectFilter []RejectFilter
	StoreEvent   []StoreEvents
	QueryEvents  []QueryEvents
	CountEvents  []CountEvents
	DeleteEvent  []StoreEvents
	OnConnect    []Hook
	OnDisconnect []Hook
	OnEventSaved []OnEventSaved

	// listeners is the subscription registry, the source of truth for who
	// wants what: connection -> subscription id -> listener.
	listeners *xsync.MapOf[*relayws.WebSocket, ListenerMap]

	upgrader websocket.Upgrader
	// clients keeps a reference to every open connection for Shutdown.
	clients *xsync.MapOf[*websocket.Conn, struct{}]

	Addr       string
	serveMux   *http.ServeMux
	httpServer *http.Server
}

// NewRelay wires a relay from its configuration. Storage hooks are appended
// by the caller; policies implied by the config (allowed kinds, timestamp
// bounds) are installed here.
func NewRelay(c context.Context, cancel context.CancelFunc,
	inf *relayinfo.T, conf *Config) (rl *Relay) {

	inf.Software = Software
	inf.Version = Version
	if inf.Limitation == nil {
		inf.Limitation = &relayinfo.Limits{}
	}
	if inf.Limitation.MaxMessageLength == 0 {
		inf.Limitation.MaxMessageLength = MaxMessageSize
	}
	inf.AddNIPs(1, 9, 11, 45)
	rl = &Relay{
		Ctx:    c,
		Cancel: cancel,
		Config: conf,
		Info:   inf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  ReadBufferSize,
			WriteBufferSize: WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		listeners: xsync.NewTypedMapOf[*relayws.WebSocket,
			ListenerMap](PointerHasher[relayws.WebSocket]),
		clients: xsync.NewTypedMapOf[*websocket.Conn,
			struct{}](PointerHasher[websocket.Conn]),
		serveMux: &http.ServeMux{},
	}
	if len(conf.AllowedKinds) > 0 {
		var ks kinds.T
		for _, k := range conf.AllowedKinds {
			ks = append(ks, kind.T(k))
		}
		rl.RejectEvent = append(rl.RejectEvent,
			RestrictToSpecifiedKinds(ks...))
	}
	if conf.MaxEventAge > 0 {
		rl.RejectEvent = append(rl.RejectEvent,
			PreventTimestampsInThePast(conf.MaxEventAge))
	}
	rl.RejectEvent = append(rl.RejectEvent,
		PreventTimestampsInTheFuture(conf.FutureSkew))
	return
}

// Router returns the relay's HTTP mux for mounting extra handlers.
func (rl *Relay) Router() *http.ServeMux { return rl.serveMux }
