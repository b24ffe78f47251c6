package markdown

import (
	"bytes"
	"sort"

	"github.com/arthur-debert/docsync/pkg/types"
)

// ApplyReplacements splices replacements into content in descending Start
// order so earlier offsets stay valid after each splice. A replacement is
// applied only if OldHref is found inside its byte span; the returned
// slice lists the replacements that were actually applied.
func ApplyReplacements(content []byte, replacements []types.Replacement) ([]byte, []types.Replacement) {
	pending := make([]types.Replacement, 0, len(replacements))
	for _, r := range replacements {
		if r.Kind.ChangesContent() && r.OldHref != r.NewHref {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		return content, nil
	}

	sort.SliceStable(pending, func(i, j int) bool { return pending[i].Start > pending[j].Start })

	out := append([]byte(nil), content...)
	applied := make([]types.Replacement, 0, len(pending))
	lastStart := len(out) + 1
	for _, r := range pending {
		if r.Start < 0 || r.End > len(out) || r.Start >= r.End || r.End > lastStart {
			continue
		}
		idx := bytes.Index(out[r.Start:r.End], []byte(r.OldHref))
		if idx < 0 {
			continue
		}
		from := r.Start + idx
		to := from + len(r.OldHref)

		spliced := make([]byte, 0, len(out)-len(r.OldHref)+len(r.NewHref))
		spliced = append(spliced, out[:from]...)
		spliced = append(spliced, r.NewHref...)
		spliced = append(spliced, out[to:]...)
		out = spliced

		lastStart = r.Start
		applied = append(applied, r)
	}
	return out, applied
}
