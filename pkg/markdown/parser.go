package markdown

import (
	"regexp"
	"sort"

	"github.com/arthur-debert/docsync/pkg/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	// [label](href "title") and ![alt](href)
	inlineLinkRe = regexp.MustCompile(`!?\[(?:[^\[\]]|\[[^\[\]]*\])*\]\(\s*(<[^<>\n]*>|[^\s()<>]+(?:\([^\s()]*\)[^\s()<>]*)*)(?:\s+(?:"[^"\n]*"|'[^'\n]*'|\([^()\n]*\)))?\s*\)`)
	// [label]: href "title"
	refDefinitionRe = regexp.MustCompile(`(?m)^ {0,3}\[[^\]\n]+\]:[ \t]*(<[^<>\n]*>|\S+)`)
	// <a href="..."> and <img src="...">
	htmlLinkRe = regexp.MustCompile(`(?i)<(?:a|img)\b[^>]*?\s(?:href|src)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

type byteRange struct {
	start, stop int
}

// ParseLinks returns every link href in content ordered by offset. Start
// and End delimit the href bytes exactly, so content[Start:End] == Href.
func ParseLinks(content []byte) []types.ParsedLink {
	code := codeRanges(content)
	lines := lineStarts(content)

	var links []types.ParsedLink
	seen := make(map[int]bool)
	add := func(start, end int) {
		if start < 0 || end <= start || seen[start] || insideAny(code, start) {
			return
		}
		// Angle-bracketed destinations: keep the brackets out of the span.
		if content[start] == '<' && content[end-1] == '>' {
			start++
			end--
			if end <= start {
				return
			}
		}
		seen[start] = true
		links = append(links, types.ParsedLink{
			Href:  string(content[start:end]),
			Start: start,
			End:   end,
			Line:  lineOf(lines, start),
		})
	}

	for _, m := range inlineLinkRe.FindAllSubmatchIndex(content, -1) {
		add(m[2], m[3])
	}
	for _, m := range refDefinitionRe.FindAllSubmatchIndex(content, -1) {
		add(m[2], m[3])
	}
	for _, m := range htmlLinkRe.FindAllSubmatchIndex(content, -1) {
		if m[2] >= 0 {
			add(m[2], m[3])
		} else {
			add(m[4], m[5])
		}
	}

	sort.Slice(links, func(i, j int) bool { return links[i].Start < links[j].Start })
	return links
}

// codeRanges returns the byte ranges covered by code blocks and code spans.
func codeRanges(content []byte) []byteRange {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var ranges []byteRange
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				ranges = append(ranges, byteRange{seg.Start, seg.Stop})
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					ranges = append(ranges, byteRange{t.Segment.Start, t.Segment.Stop})
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return ranges
}

func insideAny(ranges []byteRange, offset int) bool {
	for _, r := range ranges {
		if offset >= r.start && offset < r.stop {
			return true
		}
	}
	return false
}

func lineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the 1-based line number of offset.
func lineOf(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
}
