// Package relayinfo implements the NIP-11 relay information document served
// on requests with Accept: application/nostr+json.
package relayinfo

// Limits is the server limitation section of the document.
type Limits struct {
	MaxMessageLength int  `json:"max_message_length,omitempty"`
	MaxSubscriptions int  `json:"max_subscriptions,omitempty"`
	MaxFilters       int  `json:"max_filters,omitempty"`
	MaxLimit         int  `json:"max_limit,omitempty"`
	MaxSubidLength   int  `json:"max_subid_length,omitempty"`
	MinPowDifficulty int  `json:"min_pow_difficulty,omitempty"`
	AuthRequired     bool `json:"auth_required"`
	PaymentRequired  bool `json:"payment_required"`
	RestrictedWrites bool `json:"restricted_writes"`
	// Oldest is the oldest accepted created_at, unix seconds; zero means
	// no bound.
	Oldest int64 `json:"created_at_lower_limit,omitempty"`
}

// T is the relay information document.
type T struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PubKey        string  `json:"pubkey,omitempty"`
	Contact       string  `json:"contact,omitempty"`
	SupportedNIPs []int   `json:"supported_nips"`
	Software      string  `json:"software"`
	Version       string  `json:"version"`
	Icon          string  `json:"icon,omitempty"`
	Limitation    *Limits `json:"limitation,omitempty"`
}

// AddNIPs appends NIP numbers to the supported list, skipping ones already
// present.
func (inf *T) AddNIPs(nips ...int) {
next:
	for _, n := range nips {
		for _, have := range inf.SupportedNIPs {
			if have == n {
				continue next
			}
		}
		inf.SupportedNIPs = append(inf.SupportedNIPs, n)
	}
}
