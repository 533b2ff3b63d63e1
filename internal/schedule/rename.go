package schedule

import (
	"maps"
	"strings"
)

// Renamer substitutes long class titles with short display aliases. A title
// may carry a bracketed class-type tag (" [Лек]", " [Лаб]", ...); only the
// part before the tag is looked up and the tag is re-attached untouched.
type Renamer struct {
	aliases map[string]string
}

// NewRenamer builds a Renamer from a long-title-to-alias table. The table is
// copied, so later mutation of the argument has no effect.
func NewRenamer(aliases map[string]string) Renamer {
	return Renamer{aliases: maps.Clone(aliases)}
}

// Rename returns the display title for a raw class title. Titles without an
// alias pass through unchanged.
func (r Renamer) Rename(title string) string {
	base, tag := title, ""
	if i := strings.Index(title, " ["); i >= 0 {
		base, tag = title[:i], title[i:]
	}
	if alias, ok := r.aliases[base]; ok {
		base = alias
	}
	return base + tag
}
