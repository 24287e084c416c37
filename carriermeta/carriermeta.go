// Package carriermeta provides a shared mobile carrier metadata registry
// (display names and MCC/MNC tuples) used across CLI output and
// subscription resolution.
package carriermeta

import "fmt"

// Meta describes carrier display metadata.
type Meta struct {
	Name    string
	MCCMNCs []string
}

// Registry contains the carrier ids known to this toolkit's overlay
// bundles. Ids are bundle-local: override arrays and subscription
// configs must agree on them.
var Registry = map[int]Meta{
	1:  {Name: "T-Mobile US", MCCMNCs: []string{"310160", "310200", "310260", "310490"}},
	2:  {Name: "AT&T", MCCMNCs: []string{"310030", "310070", "310410", "310560"}},
	3:  {Name: "Verizon", MCCMNCs: []string{"310004", "310012", "311480"}},
	4:  {Name: "Deutsche Telekom", MCCMNCs: []string{"26201", "26206"}},
	5:  {Name: "Vodafone DE", MCCMNCs: []string{"26202", "26204", "26209"}},
	6:  {Name: "O2 DE", MCCMNCs: []string{"26203", "26207"}},
	7:  {Name: "Orange FR", MCCMNCs: []string{"20801", "20802"}},
	8:  {Name: "SFR", MCCMNCs: []string{"20810", "20813"}},
	9:  {Name: "O2 UK", MCCMNCs: []string{"23410", "23411"}},
	10: {Name: "EE", MCCMNCs: []string{"23430", "23433"}},
	11: {Name: "NTT DOCOMO", MCCMNCs: []string{"44010", "44020"}},
	12: {Name: "SoftBank", MCCMNCs: []string{"44021", "44101"}},
}

// Resolve returns the metadata for a carrier id.
func Resolve(id int) (Meta, bool) {
	m, ok := Registry[id]
	return m, ok
}

// Name returns a display name for a carrier id, falling back to
// "carrier <id>" for ids not in the registry.
func Name(id int) string {
	if m, ok := Registry[id]; ok {
		return m.Name
	}
	return fmt.Sprintf("carrier %d", id)
}

// FromMCCMNC returns the carrier id owning an MCC/MNC pair, or ok=false
// if no registered carrier claims it.
func FromMCCMNC(mcc, mnc string) (int, bool) {
	code := mcc + mnc
	for id, m := range Registry {
		for _, mccmnc := range m.MCCMNCs {
			if mccmnc == code {
				return id, true
			}
		}
	}
	return 0, false
}
