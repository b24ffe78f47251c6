// Package links recomputes relative link hrefs for files whose directory
// changed.
//
// ComputeHref resolves an href against the file's original directory and
// re-expresses it from the new one. References into the source content
// tree are re-rooted onto the installed copy, so a distributed file links
// to its installed siblings rather than back into the source layout.
// RewriteMappings drives ComputeHref over every markdown file named by a
// list of path mapping entries through a linkbatch.Processor.
package links
