// Package bundle loads Android-style resource overlay bundles and exposes
// them as an overlay string provider.
//
// A bundle is a res/ directory with a base values/strings.xml and optional
// MCC/MNC-qualified overlays (values-mcc310-mnc260/strings.xml). Loading
// selects the best qualifier for a SIM's MCC/MNC — exact MCC+MNC first,
// then MCC-only, then base — and merges per key, qualified entry winning.
// Carrier override arrays are decoded once here, so resolution never
// touches raw prefix strings.
package bundle

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/ovlkit/ovlkit/overlay"
	"github.com/ovlkit/ovlkit/resxml"
	"github.com/ovlkit/ovlkit/subinfo"
)

// Bundle is a loaded resource bundle for one MCC/MNC context.
// It implements overlay.Provider.
type Bundle struct {
	base      *resxml.File // values/strings.xml, nil when absent
	qualified *resxml.File // best matching qualifier, nil when absent
	qualifier resxml.Qualifier
	overrides map[string][]overlay.Override
}

var _ overlay.Provider = (*Bundle)(nil)

// Load reads the bundle under resDir for the given MCC/MNC. A missing
// directory or strings.xml is not an error — the bundle simply has no
// strings for the missing layer. Malformed XML is an error.
func Load(resDir, mcc, mnc string) (*Bundle, error) {
	b := &Bundle{overrides: make(map[string][]overlay.Override)}

	var err error
	b.base, err = loadFile(resxml.StringsPath(resDir, resxml.Qualifier{}))
	if err != nil {
		return nil, err
	}

	if mcc != "" {
		for _, q := range []resxml.Qualifier{{MCC: mcc, MNC: mnc}, {MCC: mcc}} {
			f, err := loadFile(resxml.StringsPath(resDir, q))
			if err != nil {
				return nil, err
			}
			if f != nil {
				b.qualified, b.qualifier = f, q
				break
			}
		}
	}

	// Decode override arrays up front: qualified layer wins per array.
	for _, f := range []*resxml.File{b.base, b.qualified} {
		if f == nil {
			continue
		}
		for _, name := range f.ArrayNames() {
			key, ok := strings.CutSuffix(name, overlay.OverridesSuffix)
			if !ok || key == "" {
				continue
			}
			items, _ := f.StringArray(name)
			b.overrides[key] = overlay.ParseOverrides(items)
		}
	}

	return b, nil
}

// loadFile parses a strings.xml file, mapping "does not exist" to nil.
func loadFile(path string) (*resxml.File, error) {
	f, err := resxml.ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return f, err
}

// Qualifier returns the qualifier of the selected overlay layer, or the
// zero Qualifier when resolution fell back to the base layer only.
func (b *Bundle) Qualifier() resxml.Qualifier { return b.qualifier }

// BaseString returns the template for a string resource, preferring the
// qualified layer.
func (b *Bundle) BaseString(name string) (string, bool) {
	if b.qualified != nil {
		if v, ok := b.qualified.String(name); ok {
			return v, true
		}
	}
	if b.base != nil {
		return b.base.String(name)
	}
	return "", false
}

// Overrides returns the decoded carrier override entries for a string
// resource name.
func (b *Bundle) Overrides(name string) ([]overlay.Override, bool) {
	ovs, ok := b.overrides[name]
	return ovs, ok
}

// StringNames returns the union of string resource names across both
// layers, base order first, qualified-only names appended.
func (b *Bundle) StringNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range []*resxml.File{b.base, b.qualified} {
		if f == nil {
			continue
		}
		for _, name := range f.StringNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// OverrideNames returns the string resource names that carry an override
// array, in no particular order.
func (b *Bundle) OverrideNames() []string {
	names := make([]string, 0, len(b.overrides))
	for name := range b.overrides {
		names = append(names, name)
	}
	return names
}

// ForSubscription loads the bundle matching a subscription's SIM and
// builds a resolver fixed to its carrier id.
func ForSubscription(resDir string, sub subinfo.Subscription, onError overlay.LogFunc) (*overlay.Resolver, error) {
	b, err := Load(resDir, sub.MCC, sub.MNC)
	if err != nil {
		return nil, err
	}
	return overlay.NewResolver(b, sub.ID, sub.CarrierID, onError), nil
}
