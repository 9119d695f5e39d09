// Package spell defines the spell catalog: descriptors for every castable
// spell, the on-disk collection layout, and catalog search.
package spell

import "errors"

// Kind classifies how a spell produces output.
type Kind string

const (
	// KindStatic spells are fixed text files; no subprocess runs.
	KindStatic Kind = "static"
	// KindDynamic spells generate output from a command, ignoring input.
	KindDynamic Kind = "dynamic"
	// KindTransform spells receive the captured selection on stdin.
	KindTransform Kind = "transform"
)

// OutputMode declares where a spell's output goes.
type OutputMode string

const (
	// OutputNone discards the output (side-effect spells).
	OutputNone OutputMode = "none"
	// OutputClipboard leaves the output on the clipboard.
	OutputClipboard OutputMode = "clipboard"
	// OutputPreview shows the output read-only in the palette.
	OutputPreview OutputMode = "preview"
	// OutputPaste replaces the selection in the host app. Default.
	OutputPaste OutputMode = "paste"
)

// ErrUnreadable is returned by Scan when the collections root is missing or
// inaccessible. Individual malformed entries never trigger it; they are
// skipped and recorded instead.
var ErrUnreadable = errors.New("collections directory unreadable")

// Descriptor describes one castable spell. Triggers are unique within a
// catalog snapshot; the snapshot is immutable for the duration of one
// palette session.
type Descriptor struct {
	// Trigger is the unique user-facing name, derived from the source
	// location (file name or manifest entry).
	Trigger     string
	Description string
	Kind        Kind
	// Entry is the shell command for dynamic/transform spells, or the
	// payload file path for static ones.
	Entry string
	// Dir is the working directory spells run in (their collection dir).
	Dir string
	// AcceptsInput reports whether the captured selection is piped to stdin.
	// Spells that do not accept input always get a closed, empty stdin.
	AcceptsInput bool
	Output       OutputMode
	Stream       bool
}

// Info is the trimmed view handed across the UI boundary.
type Info struct {
	Trigger     string `json:"trigger"`
	Description string `json:"description,omitempty"`
}

// Info returns the UI view of the descriptor.
func (d Descriptor) Info() Info {
	return Info{Trigger: d.Trigger, Description: d.Description}
}
