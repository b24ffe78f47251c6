package types

// ParsedLink is a link occurrence addressed by byte offset within the raw
// text of a file. Start and End delimit the href itself.
type ParsedLink struct {
	Href  string
	Start int
	End   int
	Line  int
}

// ReplacementKind classifies a computed replacement.
type ReplacementKind string

const (
	// KindRelocated rewrites a link after its file or its target moved.
	KindRelocated ReplacementKind = "relocated"
	// KindNormalized rewrites a root-style link into a relative one.
	KindNormalized ReplacementKind = "normalized"
	// KindUnresolved records a link that could not be resolved; it never
	// changes content.
	KindUnresolved ReplacementKind = "unresolved"
)

// ChangesContent reports whether applying replacements of this kind
// modifies the file.
func (k ReplacementKind) ChangesContent() bool {
	return k != KindUnresolved
}

// Replacement is a single href substitution. Replacements for one file are
// applied in descending Start order so earlier offsets stay valid.
type Replacement struct {
	Line    int
	OldHref string
	NewHref string
	Start   int
	End     int
	Kind    ReplacementKind
}
