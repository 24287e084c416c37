package overlay

import (
	"fmt"
	"reflect"
	"testing"
)

// mapProvider is a test Provider backed by plain maps.
type mapProvider struct {
	strings   map[string]string
	overrides map[string][]Override

	overrideCalls int
}

func (p *mapProvider) BaseString(name string) (string, bool) {
	v, ok := p.strings[name]
	return v, ok
}

func (p *mapProvider) Overrides(name string) ([]Override, bool) {
	p.overrideCalls++
	v, ok := p.overrides[name]
	return v, ok
}

// ---------------------------------------------------------------------------
// ParseOverride
// ---------------------------------------------------------------------------

func TestParseOverride(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Override
		ok   bool
	}{
		{
			name: "basic entry",
			raw:  ":::42:::Hello %s",
			want: Override{CarrierID: 42, Template: "Hello %s"},
			ok:   true,
		},
		{
			name: "template may contain the separator",
			raw:  ":::7:::a:::b",
			want: Override{CarrierID: 7, Template: "a:::b"},
			ok:   true,
		},
		{
			name: "empty template",
			raw:  ":::1839:::",
			want: Override{CarrierID: 1839, Template: ""},
			ok:   true,
		},
		{name: "no prefix at all", raw: "plain text", ok: false},
		{name: "missing closing separator", raw: ":::42 Hello", ok: false},
		{name: "non-numeric id", raw: ":::abc:::x", ok: false},
		{name: "empty id", raw: ":::::::x", ok: false},
		{name: "leading zero is not canonical", raw: ":::012:::x", ok: false},
		{name: "leading plus is not canonical", raw: ":::+12:::x", ok: false},
		{name: "id with spaces", raw: "::: 12:::x", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseOverride(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ParseOverride(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("ParseOverride(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseOverridesDropsMalformedEntries(t *testing.T) {
	raws := []string{
		"no prefix",
		":::12:::twelve",
		":::oops:::bad id",
		":::123:::one two three",
	}
	got := ParseOverrides(raws)
	want := []Override{
		{CarrierID: 12, Template: "twelve"},
		{CarrierID: 123, Template: "one two three"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseOverrides() = %+v, want %+v", got, want)
	}
}

// Decoding must preserve exact-token matching: carrier 12 is not a prefix
// match for carrier 123 and vice versa.
func TestOverrideMatchingIsExact(t *testing.T) {
	p := &mapProvider{
		overrides: map[string][]Override{
			"msg": ParseOverrides([]string{":::123:::for 123", ":::12:::for 12"}),
		},
	}

	r12 := NewResolver(p, 1, 12, nil)
	if got, ok := r12.GetString("msg"); !ok || got != "for 12" {
		t.Fatalf("carrier 12: got %q ok=%v, want %q", got, ok, "for 12")
	}

	r123 := NewResolver(p, 1, 123, nil)
	if got, ok := r123.GetString("msg"); !ok || got != "for 123" {
		t.Fatalf("carrier 123: got %q ok=%v, want %q", got, ok, "for 123")
	}
}

// ---------------------------------------------------------------------------
// Resolver
// ---------------------------------------------------------------------------

func TestGetStringCarrierOverride(t *testing.T) {
	p := &mapProvider{
		strings: map[string]string{"greeting": "Hi %s"},
		overrides: map[string][]Override{
			"greeting": {{CarrierID: 42, Template: "Hello %s"}},
		},
	}

	r := NewResolver(p, 3, 42, nil)
	if got, ok := r.GetString("greeting", "World"); !ok || got != "Hello World" {
		t.Fatalf("GetString() = %q ok=%v, want %q", got, ok, "Hello World")
	}
}

func TestGetStringOverrideWithoutBase(t *testing.T) {
	p := &mapProvider{
		overrides: map[string][]Override{
			"msg": {{CarrierID: 42, Template: "Hello %s"}},
		},
	}

	t.Run("matching carrier resolves", func(t *testing.T) {
		r := NewResolver(p, 1, 42, nil)
		if got, ok := r.GetString("msg", "World"); !ok || got != "Hello World" {
			t.Fatalf("GetString() = %q ok=%v, want %q", got, ok, "Hello World")
		}
	})

	t.Run("non-matching carrier is absent", func(t *testing.T) {
		r := NewResolver(p, 1, 7, nil)
		if got, ok := r.GetString("msg", "World"); ok {
			t.Fatalf("GetString() = %q ok=true, want absent", got)
		}
	})
}

func TestGetStringFirstMatchWins(t *testing.T) {
	p := &mapProvider{
		overrides: map[string][]Override{
			"msg": {
				{CarrierID: 42, Template: "first"},
				{CarrierID: 42, Template: "second"},
			},
		},
	}

	r := NewResolver(p, 1, 42, nil)
	if got, ok := r.GetString("msg"); !ok || got != "first" {
		t.Fatalf("GetString() = %q ok=%v, want %q", got, ok, "first")
	}
}

func TestGetStringUnknownCarrierSkipsOverrides(t *testing.T) {
	p := &mapProvider{
		strings: map[string]string{"msg": "base"},
		overrides: map[string][]Override{
			"msg": {{CarrierID: UnknownCarrierID, Template: "never"}},
		},
	}

	r := NewResolver(p, 1, UnknownCarrierID, nil)
	got, ok := r.GetString("msg")
	if !ok || got != "base" {
		t.Fatalf("GetString() = %q ok=%v, want %q", got, ok, "base")
	}
	if p.overrideCalls != 0 {
		t.Fatalf("override list consulted %d times, want 0", p.overrideCalls)
	}
}

func TestGetStringBaseFallback(t *testing.T) {
	p := &mapProvider{
		strings: map[string]string{"code": "Code %d"},
		overrides: map[string][]Override{
			"code": {{CarrierID: 7, Template: "Carrier code %d"}},
		},
	}

	r := NewResolver(p, 1, 42, nil)
	if got, ok := r.GetString("code", 32760); !ok || got != "Code 32760" {
		t.Fatalf("GetString() = %q ok=%v, want %q", got, ok, "Code 32760")
	}
}

func TestGetStringMissingKey(t *testing.T) {
	r := NewResolver(&mapProvider{}, 1, 42, nil)
	if got, ok := r.GetString("nope"); ok {
		t.Fatalf("GetString(missing) = %q ok=true, want absent", got)
	}
}

func TestGetStringFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []any
	}{
		{name: "type mismatch", template: "Code %d", args: []any{"not-a-number"}},
		{name: "missing argument", template: "Hello %s", args: nil},
		{name: "extra argument", template: "Hello", args: []any{"World"}},
		{name: "bad verb", template: "100%"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &mapProvider{strings: map[string]string{"msg": tc.template}}
			logged := 0
			r := NewResolver(p, 1, UnknownCarrierID, func(string, ...any) { logged++ })

			got, ok := r.GetString("msg", tc.args...)
			if ok {
				t.Fatalf("GetString() = %q ok=true, want absent", got)
			}
			if logged != 1 {
				t.Fatalf("onError called %d times, want 1", logged)
			}
		})
	}
}

func TestGetStringLiteralPercentIsNotAnError(t *testing.T) {
	p := &mapProvider{strings: map[string]string{"pct": "%d%% done"}}
	r := NewResolver(p, 1, UnknownCarrierID, nil)

	if got, ok := r.GetString("pct", 50); !ok || got != "50% done" {
		t.Fatalf("GetString() = %q ok=%v, want %q", got, ok, "50% done")
	}
}

func TestGetStringIsIdempotent(t *testing.T) {
	p := &mapProvider{
		strings: map[string]string{"msg": "Hi %s"},
		overrides: map[string][]Override{
			"msg": {{CarrierID: 42, Template: "Hello %s"}},
		},
	}
	r := NewResolver(p, 1, 42, nil)

	first, ok1 := r.GetString("msg", "World")
	second, ok2 := r.GetString("msg", "World")
	if first != second || ok1 != ok2 {
		t.Fatalf("GetString not idempotent: (%q, %v) then (%q, %v)", first, ok1, second, ok2)
	}
}

// ---------------------------------------------------------------------------
// Verbs
// ---------------------------------------------------------------------------

func TestVerbs(t *testing.T) {
	tests := []struct {
		template string
		want     []string
	}{
		{"Hello %s", []string{"%s"}},
		{"Code %d (%s)", []string{"%d", "%s"}},
		{"%[1]s and %[1]s again", []string{"%s", "%s"}},
		{"%05.2f", []string{"%f"}},
		{"100%% done", nil},
		{"no verbs", nil},
		{"trailing %", nil},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%q", tc.template), func(t *testing.T) {
			if got := Verbs(tc.template); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Verbs(%q) = %v, want %v", tc.template, got, tc.want)
			}
		})
	}
}
