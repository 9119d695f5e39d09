package spell

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Index is the manifest each collection directory carries as index.json.
type Index struct {
	Spells []IndexSpell `json:"spells"`
}

// IndexSpell is one manifest entry.
type IndexSpell struct {
	Trigger     string         `json:"trigger"`
	Description string         `json:"description,omitempty"`
	Entry       IndexEntry     `json:"entry"`
	Settings    *IndexSettings `json:"settings,omitempty"`
}

// IndexEntry holds the spell's command line.
type IndexEntry struct {
	Default string `json:"default"`
}

// IndexSettings carries per-spell policy. All fields are optional.
type IndexSettings struct {
	OutputMode   OutputMode `json:"outputMode,omitempty"`
	StreamMode   bool       `json:"streamMode,omitempty"`
	AcceptsInput bool       `json:"acceptsInput,omitempty"`
}

// Skip records one catalog entry that failed to parse during a scan.
type Skip struct {
	Path   string
	Reason string
}

// Catalog is an ordered, immutable snapshot of the discovered spells.
type Catalog struct {
	Spells  []Descriptor
	Skipped []Skip
}

// Scan walks the collections root and builds a catalog snapshot. Each
// subdirectory contributes the spells of its index.json; each plain .txt file
// at the root is a static spell. Malformed entries are skipped with a
// recorded reason; only an unreadable root aborts the scan.
func Scan(root string) (*Catalog, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, root, err)
	}

	cat := &Catalog{}
	seen := map[string]bool{}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		switch {
		case entry.IsDir():
			scanCollection(cat, path, seen)
		case strings.EqualFold(filepath.Ext(entry.Name()), ".txt"):
			d := Descriptor{
				Trigger: entry.Name(),
				Kind:    KindStatic,
				Entry:   path,
				Dir:     root,
				Output:  OutputPaste,
			}
			addSpell(cat, d, path, seen)
		}
	}
	return cat, nil
}

// scanCollection reads one collection's index.json into the catalog.
func scanCollection(cat *Catalog, dir string, seen map[string]bool) {
	manifest := filepath.Join(dir, "index.json")
	b, err := os.ReadFile(manifest)
	if err != nil {
		cat.Skipped = append(cat.Skipped, Skip{Path: dir, Reason: fmt.Sprintf("no readable index.json: %v", err)})
		return
	}
	var idx Index
	if err := json.Unmarshal(b, &idx); err != nil {
		cat.Skipped = append(cat.Skipped, Skip{Path: manifest, Reason: fmt.Sprintf("invalid manifest: %v", err)})
		return
	}
	for _, def := range idx.Spells {
		d, err := def.descriptor(dir)
		if err != nil {
			cat.Skipped = append(cat.Skipped, Skip{Path: manifest, Reason: err.Error()})
			continue
		}
		addSpell(cat, d, manifest, seen)
	}
}

// descriptor validates a manifest entry and derives its Kind from the
// declared input policy.
func (s IndexSpell) descriptor(dir string) (Descriptor, error) {
	trigger := strings.TrimSpace(s.Trigger)
	if trigger == "" {
		return Descriptor{}, fmt.Errorf("spell with empty trigger")
	}
	if strings.TrimSpace(s.Entry.Default) == "" {
		return Descriptor{}, fmt.Errorf("spell %q has no entry command", trigger)
	}
	d := Descriptor{
		Trigger:     trigger,
		Description: s.Description,
		Kind:        KindDynamic,
		Entry:       s.Entry.Default,
		Dir:         dir,
		Output:      OutputPaste,
	}
	if s.Settings != nil {
		if s.Settings.OutputMode != "" {
			switch s.Settings.OutputMode {
			case OutputNone, OutputClipboard, OutputPreview, OutputPaste:
				d.Output = s.Settings.OutputMode
			default:
				return Descriptor{}, fmt.Errorf("spell %q has unknown outputMode %q", trigger, s.Settings.OutputMode)
			}
		}
		d.Stream = s.Settings.StreamMode
		if s.Settings.AcceptsInput {
			d.AcceptsInput = true
			d.Kind = KindTransform
		}
	}
	return d, nil
}

// addSpell appends d unless its trigger is already taken (first wins).
func addSpell(cat *Catalog, d Descriptor, path string, seen map[string]bool) {
	if seen[d.Trigger] {
		cat.Skipped = append(cat.Skipped, Skip{Path: path, Reason: fmt.Sprintf("duplicate trigger %q", d.Trigger)})
		return
	}
	seen[d.Trigger] = true
	cat.Spells = append(cat.Spells, d)
}

// Lookup returns the descriptor for trigger, if present.
func (c *Catalog) Lookup(trigger string) (Descriptor, bool) {
	for _, d := range c.Spells {
		if d.Trigger == trigger {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Search filters the catalog by a case-insensitive substring match against
// trigger and description. The result is a stable subsequence of the scan
// order; an empty query returns the full catalog unmodified.
func (c *Catalog) Search(query string) []Descriptor {
	if query == "" {
		return c.Spells
	}
	q := strings.ToLower(query)
	out := make([]Descriptor, 0, len(c.Spells))
	for _, d := range c.Spells {
		if strings.Contains(strings.ToLower(d.Trigger), q) ||
			strings.Contains(strings.ToLower(d.Description), q) {
			out = append(out, d)
		}
	}
	return out
}

// Infos returns the UI view of every spell, in catalog order.
func (c *Catalog) Infos() []Info {
	out := make([]Info, 0, len(c.Spells))
	for _, d := range c.Spells {
		out = append(out, d.Info())
	}
	return out
}

// defaultIndex is the sample collection written on first run.
const defaultIndex = `{
  "spells": [
    {
      "trigger": "hello",
      "description": "Generate \"Hello, World!\"",
      "entry": {
        "default": "echo Hello, World!"
      }
    }
  ]
}
`

// EnsureRoot creates the collections root with a sample collection when it
// does not exist yet. Existing roots are left untouched.
func EnsureRoot(root string) error {
	if _, err := os.Stat(root); err == nil {
		return nil
	}
	helloDir := filepath.Join(root, "hello")
	if err := os.MkdirAll(helloDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(helloDir, "index.json"), []byte(defaultIndex), 0o644)
}
