package markdown

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]+:`)

// IsExternal reports whether href points outside the local dataset:
// anything with a URL scheme (http:, mailto:, data:, ...) or a
// protocol-relative "//host" reference.
func IsExternal(href string) bool {
	return strings.HasPrefix(href, "//") || schemeRe.MatchString(href)
}

// IsAnchorOnly reports whether href only addresses a heading in the same
// document.
func IsAnchorOnly(href string) bool {
	return strings.HasPrefix(href, "#")
}

// ShouldSkip reports whether href is never rewritten.
func ShouldSkip(href string) bool {
	href = strings.TrimSpace(href)
	return href == "" || IsExternal(href) || IsAnchorOnly(href)
}

// SplitHref separates the path part of href from its query and anchor.
// The returned suffix keeps its leading '?' or '#'.
func SplitHref(href string) (p, suffix string) {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		return href[:i], href[i:]
	}
	return href, ""
}

// DecodePath unescapes percent-encoded bytes in a link path. The second
// result reports whether the path was encoded at all.
func DecodePath(p string) (string, bool, error) {
	if !strings.Contains(p, "%") {
		return p, false, nil
	}
	decoded, err := url.PathUnescape(p)
	if err != nil {
		return "", false, err
	}
	return decoded, true, nil
}

// EncodePath percent-encodes each segment of a slash-separated path.
func EncodePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if s == "." || s == ".." {
			continue
		}
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// FormatRelative turns a slash-separated relative path into link form,
// forcing a leading "./" unless the path already starts with a dot.
func FormatRelative(rel string) string {
	rel = path.Clean(strings.ReplaceAll(rel, "\\", "/"))
	if rel == "." {
		return "./"
	}
	if strings.HasPrefix(rel, ".") {
		return rel
	}
	return "./" + rel
}

// IsMarkdownFile reports whether name has a markdown extension.
func IsMarkdownFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown", ".mdx":
		return true
	default:
		return false
	}
}
