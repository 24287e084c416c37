// Package resxml implements read-only parsing of Android strings.xml
// resource files for overlay bundles.
//
// Supported resource types:
//   - <string>        — simple key/value string
//   - <string-array>  — ordered list of strings (carrier override arrays)
//
// Inline <xliff:g> wrappers are stripped to their inner text, matching what
// resource compilation does — a carrier prefix written as
// <xliff:g id="carrier_id_prefix">:::1839:::</xliff:g> reads back as the
// plain ":::1839:::" token. Android apostrophe escapes (\') are unescaped.
package resxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// EntryKind identifies the type of a resource entry.
type EntryKind int

const (
	// KindString is a plain <string> resource.
	KindString EntryKind = iota
	// KindStringArray is a <string-array> resource.
	KindStringArray
)

// Entry represents a single resource in a strings.xml file.
type Entry struct {
	// Kind is the resource type.
	Kind EntryKind
	// Name is the resource name (attribute name="…").
	Name string
	// Value is the string content (KindString only).
	Value string
	// Items holds the <item> values in document order (KindStringArray only).
	Items []string
}

// File represents a parsed strings.xml file.
type File struct {
	// Entries in document order.
	Entries []*Entry
	// byName maps resource name to index in Entries.
	byName map[string]int
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a strings.xml file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse parses strings.xml data.
func Parse(data []byte) (*File, error) {
	f := &File{byName: make(map[string]int)}

	dec := xml.NewDecoder(strings.NewReader(string(data)))
	inResources := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "resources" {
				inResources = true
				continue
			}
			if !inResources {
				continue
			}

			switch t.Name.Local {
			case "string":
				name := attrName(t)
				value, err := readInnerText(dec)
				if err != nil {
					return nil, fmt.Errorf("reading <string name=%q>: %w", name, err)
				}
				f.addEntry(&Entry{Kind: KindString, Name: name, Value: value})

			case "string-array":
				e, err := parseStringArray(dec, t)
				if err != nil {
					return nil, err
				}
				f.addEntry(e)

			default:
				// Unknown element — skip entirely
				dec.Skip()
			}

		case xml.EndElement:
			if t.Name.Local == "resources" {
				inResources = false
			}
		}
	}

	return f, nil
}

// addEntry appends an entry and registers it in byName.
func (f *File) addEntry(e *Entry) {
	idx := len(f.Entries)
	f.Entries = append(f.Entries, e)
	if e.Name != "" {
		f.byName[e.Name] = idx
	}
}

// attrName extracts the name attribute from a start element.
func attrName(elem xml.StartElement) string {
	for _, attr := range elem.Attr {
		if attr.Name.Local == "name" {
			return attr.Value
		}
	}
	return ""
}

// parseStringArray parses a <string-array> element already opened.
func parseStringArray(dec *xml.Decoder, elem xml.StartElement) (*Entry, error) {
	name := attrName(elem)
	e := &Entry{Kind: KindStringArray, Name: name}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading <string-array name=%q>: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "item" && depth == 1 {
				value, err := readInnerText(dec)
				if err != nil {
					return nil, fmt.Errorf("reading <item> in <string-array name=%q>: %w", name, err)
				}
				e.Items = append(e.Items, value)
			} else {
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return e, nil
}

// readInnerText reads the text content of an XML element until its matching
// close tag. Inline child elements such as <xliff:g> are stripped — only
// their inner text is kept, as after resource compilation. Apostrophe
// escapes (\') are unescaped.
func readInnerText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.WriteString(unescapeApostrophe(string(t)))
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}

// unescapeApostrophe converts Android-escaped apostrophes (\') to plain
// apostrophes (').
func unescapeApostrophe(s string) string {
	return strings.ReplaceAll(s, `\'`, `'`)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// String returns the value of a KindString entry. Returns ("", false) for
// non-string entries or missing names.
func (f *File) String(name string) (string, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return "", false
	}
	e := f.Entries[idx]
	if e.Kind != KindString {
		return "", false
	}
	return e.Value, true
}

// StringArray returns the items of a KindStringArray entry. Returns
// (nil, false) for non-array entries or missing names.
func (f *File) StringArray(name string) ([]string, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	e := f.Entries[idx]
	if e.Kind != KindStringArray {
		return nil, false
	}
	return e.Items, true
}

// StringNames returns the names of all KindString entries in document order.
func (f *File) StringNames() []string {
	var names []string
	for _, e := range f.Entries {
		if e.Kind == KindString {
			names = append(names, e.Name)
		}
	}
	return names
}

// ArrayNames returns the names of all KindStringArray entries in document order.
func (f *File) ArrayNames() []string {
	var names []string
	for _, e := range f.Entries {
		if e.Kind == KindStringArray {
			names = append(names, e.Name)
		}
	}
	return names
}

// ---------------------------------------------------------------------------
// Qualifier directories (values-mccXXX[-mncYYY])
// ---------------------------------------------------------------------------

// Qualifier identifies an MCC/MNC-qualified values directory. MNC is empty
// for MCC-only qualifiers.
type Qualifier struct {
	MCC string
	MNC string
}

// Dir returns the values directory name for the qualifier
// (e.g. "values-mcc310-mnc260", "values-mcc262", "values").
func (q Qualifier) Dir() string {
	if q.MCC == "" {
		return "values"
	}
	dir := "values-mcc" + q.MCC
	if q.MNC != "" {
		dir += "-mnc" + q.MNC
	}
	return dir
}

// String renders the qualifier for display ("310/260", "262/-", "base").
func (q Qualifier) String() string {
	if q.MCC == "" {
		return "base"
	}
	if q.MNC == "" {
		return q.MCC + "/-"
	}
	return q.MCC + "/" + q.MNC
}

// StringsPath returns the strings.xml path for a qualifier under resDir.
func StringsPath(resDir string, q Qualifier) string {
	return filepath.Join(resDir, q.Dir(), "strings.xml")
}

// DetectQualifiers scans a res/ directory for values-mccXXX[-mncYYY]
// directories containing strings.xml and returns their qualifiers sorted
// by directory name. The base "values" directory is not included.
func DetectQualifiers(resDir string) []Qualifier {
	entries, err := os.ReadDir(resDir)
	if err != nil {
		return nil
	}

	var quals []Qualifier
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		q, ok := parseQualifierDir(entry.Name())
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(resDir, entry.Name(), "strings.xml")); err == nil {
			quals = append(quals, q)
		}
	}
	sort.Slice(quals, func(i, j int) bool { return quals[i].Dir() < quals[j].Dir() })
	return quals
}

// parseQualifierDir decodes "values-mcc310-mnc260" style directory names.
func parseQualifierDir(name string) (Qualifier, bool) {
	rest, ok := strings.CutPrefix(name, "values-mcc")
	if !ok {
		return Qualifier{}, false
	}
	mcc, mnc, hasMNC := strings.Cut(rest, "-mnc")
	if !isDigits(mcc) || len(mcc) != 3 {
		return Qualifier{}, false
	}
	if hasMNC && (!isDigits(mnc) || len(mnc) < 2 || len(mnc) > 3) {
		return Qualifier{}, false
	}
	if !hasMNC {
		mnc = ""
	}
	return Qualifier{MCC: mcc, MNC: mnc}, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
