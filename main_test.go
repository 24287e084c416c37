package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestCoerceArg(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"32760", 32760},
		{"-1", -1},
		{"2.5", 2.5},
		{"World", "World"},
		{"12abc", "12abc"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := coerceArg(tc.raw); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("coerceArg(%q) = %#v, want %#v", tc.raw, got, tc.want)
		}
	}
}

func TestLintOverrideArrayCleanInput(t *testing.T) {
	got := lintOverrideArray("msg_carrier_overrides", "Error %d", true, []string{
		":::1:::T-Mobile error %d",
		":::5:::Vodafone error %d",
	})
	if len(got) != 0 {
		t.Fatalf("lintOverrideArray() = %v, want no problems", got)
	}
}

func TestLintOverrideArrayProblems(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		hasBase bool
		items   []string
		want    string
	}{
		{
			name:    "malformed prefix",
			base:    "Error %d",
			hasBase: true,
			items:   []string{"no prefix here"},
			want:    "no well-formed",
		},
		{
			name:    "duplicate carrier",
			base:    "Error %d",
			hasBase: true,
			items:   []string{":::1:::first %d", ":::1:::second %d"},
			want:    "duplicate override for carrier 1",
		},
		{
			name:    "verb mismatch",
			base:    "Error %d",
			hasBase: true,
			items:   []string{":::1:::oops %s"},
			want:    "format verbs",
		},
		{
			name:  "orphan array",
			items: []string{":::1:::fine %d"},
			want:  "no base string",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := lintOverrideArray("msg_carrier_overrides", tc.base, tc.hasBase, tc.items)
			if len(got) == 0 {
				t.Fatal("expected a problem, got none")
			}
			found := false
			for _, p := range got {
				if strings.Contains(p, tc.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("problems %v do not mention %q", got, tc.want)
			}
		})
	}
}

func TestLintOverrideArrayNonCanonicalIDIsMalformed(t *testing.T) {
	got := lintOverrideArray("msg_carrier_overrides", "x", true, []string{":::007:::never matches"})
	if len(got) != 1 || !strings.Contains(got[0], "no well-formed") {
		t.Fatalf("lintOverrideArray() = %v, want malformed-prefix problem", got)
	}
}
