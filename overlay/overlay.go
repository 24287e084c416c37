// Package overlay implements carrier-specific string override resolution
// for Android-style resource overlay bundles.
//
// Carrier overrides live next to the base string as a string-array whose
// name carries a "_carrier_overrides" suffix. Each item embeds the carrier
// id it applies to as a ":::<id>:::" prefix:
//
//	<string name="eap_error_32760">EAP authentication error %d</string>
//	<string-array name="eap_error_32760_carrier_overrides">
//	    <item>:::1839:::EAP error %d — contact support</item>
//	    <item>:::2032:::EAP error %d</item>
//	</string-array>
//
// Entries are decoded once at load time into Override values; resolution
// is a pure scan over the decoded list. Malformed carrier override content
// never propagates a failure to the caller — a resolver swallows formatting
// errors and reports the string as absent.
package overlay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Separator delimits the carrier id prefix inside an override entry.
const Separator = ":::"

// OverridesSuffix is appended to a string resource name to form the name
// of its carrier override array.
const OverridesSuffix = "_carrier_overrides"

// UnknownCarrierID is the sentinel for "no carrier / not applicable".
// A resolver constructed with it never consults override arrays.
const UnknownCarrierID = -1

// ---------------------------------------------------------------------------
// Override entries
// ---------------------------------------------------------------------------

// Override is a decoded carrier override entry: the carrier it applies to
// and the format template that replaces the base string.
type Override struct {
	CarrierID int
	Template  string
}

// ParseOverride decodes a raw override entry of the form
// ":::<id>:::<template>". The id section must be a canonical base-10
// integer: re-rendering the parsed id must reproduce the raw token, so
// ":::012:::…" does not decode to carrier 12. This keeps decoded matching
// equivalent to exact string-prefix matching on ":::<id>:::".
func ParseOverride(raw string) (Override, bool) {
	rest, ok := strings.CutPrefix(raw, Separator)
	if !ok {
		return Override{}, false
	}
	idStr, template, ok := strings.Cut(rest, Separator)
	if !ok {
		return Override{}, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || strconv.Itoa(id) != idStr {
		return Override{}, false
	}
	return Override{CarrierID: id, Template: template}, true
}

// ParseOverrides decodes a raw override array in document order.
// Entries without a well-formed carrier prefix are dropped — they can
// never match any carrier, so they are not an error.
func ParseOverrides(raws []string) []Override {
	var overrides []Override
	for _, raw := range raws {
		if ov, ok := ParseOverride(raw); ok {
			overrides = append(overrides, ov)
		}
	}
	return overrides
}

// ---------------------------------------------------------------------------
// Resolver
// ---------------------------------------------------------------------------

// Provider supplies string resources for one resource context (overlay
// package + locale/qualifier selection). Implementations must be
// read-only; an unavailable provider simply reports no strings.
type Provider interface {
	// BaseString returns the unoverridden template for a resource name,
	// or ok=false if the resource does not exist.
	BaseString(name string) (string, bool)
	// Overrides returns the decoded carrier override entries for a
	// resource name, or ok=false if it has no override array.
	Overrides(name string) ([]Override, bool)
}

// LogFunc receives resolver diagnostics (printf-style). Used for
// formatting failures, which are swallowed rather than returned.
type LogFunc func(format string, args ...any)

// Resolver resolves carrier-overridden strings for a single subscription.
// The subscription and carrier ids are fixed at construction; a Resolver
// holds no other state and is safe for concurrent use when its Provider is.
type Resolver struct {
	provider  Provider
	subID     int
	carrierID int
	onError   LogFunc
}

// NewResolver builds a Resolver over the given provider. Pass
// UnknownCarrierID as carrierID to disable override matching entirely.
// onError may be nil.
func NewResolver(provider Provider, subID, carrierID int, onError LogFunc) *Resolver {
	if onError == nil {
		onError = func(string, ...any) {}
	}
	return &Resolver{
		provider:  provider,
		subID:     subID,
		carrierID: carrierID,
		onError:   onError,
	}
}

// SubscriptionID returns the subscription id fixed at construction.
func (r *Resolver) SubscriptionID() int { return r.subID }

// CarrierID returns the carrier id fixed at construction.
func (r *Resolver) CarrierID() int { return r.carrierID }

// GetString resolves the string resource name for the resolver's carrier
// and formats it with args. The first override entry matching the carrier
// wins (document order, not specificity); without a match the base string
// is used. Returns ok=false when the resource does not exist at all, or
// when the template's format directives do not match args — the latter is
// reported through the resolver's log callback, never as an error.
func (r *Resolver) GetString(name string, args ...any) (string, bool) {
	template, found := r.lookupTemplate(name)
	if !found {
		return "", false
	}

	out := fmt.Sprintf(template, args...)
	if i := strings.Index(out, "%!"); i >= 0 {
		// fmt reports argument/verb mismatches inline rather than
		// failing; treat any such marker as a formatting error.
		r.onError("resource formatting error - %q - %s", name, out[i:])
		return "", false
	}
	return out, true
}

// lookupTemplate picks the override or base template for name.
func (r *Resolver) lookupTemplate(name string) (string, bool) {
	if r.carrierID != UnknownCarrierID {
		if overrides, ok := r.provider.Overrides(name); ok {
			for _, ov := range overrides {
				if ov.CarrierID == r.carrierID {
					return ov.Template, true
				}
			}
		}
	}
	return r.provider.BaseString(name)
}

// ---------------------------------------------------------------------------
// Template inspection
// ---------------------------------------------------------------------------

// reVerb matches a printf conversion: optional argument index, flags,
// width and precision, then the verb letter. "%%" is handled separately.
var reVerb = regexp.MustCompile(`%(?:\[[0-9]+\])?[#+\- 0]*[0-9]*(?:\.[0-9]*)?[a-zA-Z]`)

// Verbs returns the format verbs of a template in order, normalized to
// bare "%<letter>" form ("%1$d"-style templates are not supported; use
// "%[1]d"). Literal "%%" is not a verb.
func Verbs(template string) []string {
	var verbs []string
	rest := template
	for {
		i := strings.IndexByte(rest, '%')
		if i < 0 || i == len(rest)-1 {
			return verbs
		}
		if rest[i+1] == '%' {
			rest = rest[i+2:]
			continue
		}
		loc := reVerb.FindStringIndex(rest[i:])
		if loc == nil || loc[0] != 0 {
			rest = rest[i+1:]
			continue
		}
		m := rest[i : i+loc[1]]
		verbs = append(verbs, "%"+m[len(m)-1:])
		rest = rest[i+loc[1]:]
	}
}
