// Package subinfo implements the subscription registry: the mapping from
// subscription id to the SIM's MCC/MNC and carrier id.
//
// On a device this information comes from the telephony stack; here it is
// declared in a subscriptions.yaml file:
//
//	subscriptions:
//	  - id: 1
//	    mcc: "310"
//	    mnc: "260"
//	  - id: 2
//	    mcc: "262"
//	    mnc: "02"
//	    carrier_id: 5
//
// A subscription's carrier id may be omitted, in which case it is derived
// from the MCC/MNC via the carriermeta registry; if that fails the
// subscription carries the unknown-carrier sentinel.
package subinfo

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ovlkit/ovlkit/carriermeta"
	"github.com/ovlkit/ovlkit/overlay"
)

// Subscription describes one SIM/subscription profile.
type Subscription struct {
	// ID is the subscription id.
	ID int `yaml:"id"`
	// MCC is the mobile country code (3 digits).
	MCC string `yaml:"mcc"`
	// MNC is the mobile network code (2–3 digits).
	MNC string `yaml:"mnc"`
	// CarrierID identifies the carrier; 0 means "derive from MCC/MNC".
	CarrierID int `yaml:"carrier_id,omitempty"`
}

// Registry holds the known subscriptions keyed by id.
type Registry struct {
	subs map[int]Subscription
}

// fileSchema is the top-level subscriptions.yaml structure.
type fileSchema struct {
	Subscriptions []Subscription `yaml:"subscriptions"`
}

// Load builds a Registry from a subscription list, validating each entry
// and deriving missing carrier ids.
func Load(subs []Subscription) (*Registry, error) {
	r := &Registry{subs: make(map[int]Subscription)}
	for i, sub := range subs {
		if sub.ID <= 0 {
			return nil, fmt.Errorf("subscription #%d: id must be positive, got %d", i+1, sub.ID)
		}
		if _, exists := r.subs[sub.ID]; exists {
			return nil, fmt.Errorf("subscription #%d: duplicate id %d", i+1, sub.ID)
		}
		if !isDigits(sub.MCC, 3, 3) {
			return nil, fmt.Errorf("subscription %d: mcc %q must be 3 digits", sub.ID, sub.MCC)
		}
		if !isDigits(sub.MNC, 2, 3) {
			return nil, fmt.Errorf("subscription %d: mnc %q must be 2-3 digits", sub.ID, sub.MNC)
		}
		if sub.CarrierID == 0 {
			if id, ok := carriermeta.FromMCCMNC(sub.MCC, sub.MNC); ok {
				sub.CarrierID = id
			} else {
				sub.CarrierID = overlay.UnknownCarrierID
			}
		}
		r.subs[sub.ID] = sub
	}
	return r, nil
}

// LoadFile loads subscriptions.yaml from path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var fs fileSchema
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	r, err := Load(fs.Subscriptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Lookup returns the subscription for an id. An unknown id returns a
// placeholder subscription carrying the unknown-carrier sentinel, so
// resolution degrades to base strings instead of failing.
func (r *Registry) Lookup(id int) (Subscription, bool) {
	if sub, ok := r.subs[id]; ok {
		return sub, true
	}
	return Subscription{ID: id, CarrierID: overlay.UnknownCarrierID}, false
}

// IDs returns the registered subscription ids in ascending order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func isDigits(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
