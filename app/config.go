package app

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/castrlabs/castr/pkg/nostr/timestamp"
)

// Config is the relay configuration, populated from flags and environment
// by go-arg and optionally persisted as JSON in the profile directory.
type Config struct {
	Listen      string `arg:"-l,--listen" default:"0.0.0.0:3334" json:"listen" help:"network address to listen on"`
	Profile     string `arg:"-p,--profile" default:"castr" json:"-" help:"profile directory name under the user home dir"`
	Name        string `arg:"-n,--name" default:"castr relay" json:"name" help:"name of relay for NIP-11"`
	Description string `arg:"-d,--description" json:"description" help:"description of relay for NIP-11"`
	Pubkey      string `arg:"--pubkey" json:"pubkey" help:"public key of relay operator"`
	Contact     string `arg:"-c,--contact" json:"contact,omitempty" help:"relay operator contact details"`
	Icon        string `arg:"-i,--icon" json:"icon,omitempty" help:"icon to show on relay information pages"`
	// AllowedKinds restricts the accepted event kinds; empty means all
	// kinds are accepted.
	AllowedKinds []int `arg:"-k,--kind,separate" json:"allowed_kinds" help:"event kinds accepted by this relay (repeat flag for multiple)"`
	// FutureSkew is the tolerated clock skew for events dated in the
	// future, in seconds.
	FutureSkew timestamp.T `arg:"--futureskew" default:"900" json:"future_skew" help:"seconds of future clock skew tolerated on created_at"`
	// MaxEventAge rejects events older than this many seconds; zero
	// disables the bound.
	MaxEventAge timestamp.T `arg:"--maxage" default:"0" json:"max_event_age" help:"reject events with created_at older than this many seconds, 0 for no limit"`
	// Whitelist permits ONLY inbound connections from specified IP
	// addresses.
	Whitelist []string `arg:"-w,--whitelist,separate" json:"ip_whitelist" help:"IP addresses exclusively allowed to connect"`
	LogLevel  string   `arg:"--loglevel" default:"info" json:"-" help:"set log level [off,fatal,error,warn,info,debug,trace]"`
}

// DefaultKinds is the allowed-kind set the daemon installs when none are
// configured: profile metadata, group chat messages and group metadata.
var DefaultKinds = []int{0, 9, 39000}

func (c *Config) Save(filename string) (err error) {
	if c == nil {
		return errors.New("cannot save nil relay config")
	}
	var b []byte
	if b, err = json.MarshalIndent(c, "", "    "); chk.E(err) {
		return
	}
	if err = os.WriteFile(filename, b, 0600); chk.E(err) {
		return
	}
	return
}

func (c *Config) Load(filename string) (err error) {
	if c == nil {
		return errors.New("cannot load into nil config")
	}
	var b []byte
	if b, err = os.ReadFile(filename); chk.E(err) {
		return
	}
	if err = json.Unmarshal(b, c); chk.E(err) {
		return
	}
	return
}
