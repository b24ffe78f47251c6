// Package markdown extracts link hrefs from markdown text together with
// their exact byte offsets, and splices replacement hrefs back into the
// text.
//
// Inline links and images, reference definitions and HTML anchor/image
// tags are recognized. Anything inside fenced, indented or inline code is
// ignored; goldmark is used to find those code regions so the offsets of
// the remaining links can be trusted for in-place replacement.
package markdown
