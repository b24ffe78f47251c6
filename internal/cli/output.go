package cli

import (
	"fmt"
	"io"

	"github.com/arthur-debert/docsync/pkg/linkbatch"
	"github.com/arthur-debert/docsync/pkg/pathops"
	"github.com/arthur-debert/docsync/pkg/types"
)

func printResult(w io.Writer, verb, target string, r *pathops.Result, dryRun bool) {
	if target == "" {
		target = "."
	}
	fmt.Fprintf(w, MsgCopiedFormat, verb, len(r.Copied), target)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, MsgSkippedFormat, len(r.Skipped))
	}
	if len(r.Deleted) > 0 {
		fmt.Fprintf(w, MsgDeletedFormat, len(r.Deleted))
	}
	printLinks(w, &r.Links)
	for _, plan := range r.Symlinks {
		fmt.Fprintf(w, MsgSymlinkFormat, plan.Path, plan.LinkText)
	}
	if dryRun {
		fmt.Fprintln(w, MsgDryRunNotice)
	}
}

func printLinks(w io.Writer, s *linkbatch.Summary) {
	changed := s.Total() - s.Counts[types.KindUnresolved]
	fmt.Fprintf(w, MsgLinksFormat, changed, s.FilesChanged)
	if n := s.Counts[types.KindUnresolved]; n > 0 {
		fmt.Fprintf(w, MsgUnresolvedFormat, n)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(w, MsgLinkErrorFormat, e.Error())
	}
}
