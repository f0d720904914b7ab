// Package notebody formats and parses the body of secure notes created from
// arbitrary files: a single fenced code block whose info string is the file
// name.
package notebody

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// File is a file carried in a note body.
type File struct {
	Name    string
	Content string
}

// Format returns content wrapped in a fence labelled with filename:
// fence, filename, newline, content, newline, fence. The fence is three
// backticks unless content itself has a line starting with a backtick fence,
// in which case it is made longer.
func Format(filename, content string) string {
	fence := strings.Repeat("`", fenceLen(content))
	return fence + filename + "\n" + content + "\n" + fence
}

func fenceLen(content string) int {
	n := 3
	for _, line := range strings.Split(content, "\n") {
		run := 0
		for run < len(line) && line[run] == '`' {
			run++
		}
		if run >= n {
			n = run + 1
		}
	}
	return n
}

// Parse returns the first fenced code block in body. The newline that Format
// puts before the closing fence is dropped, so Parse(Format(n, c)) yields c.
// The second result is false when body has no fenced block.
func Parse(body string) (File, bool) {
	src := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var found *ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if block, ok := n.(*ast.FencedCodeBlock); ok {
			found = block
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if found == nil {
		return File{}, false
	}

	var name string
	if found.Info != nil {
		name = strings.TrimSpace(string(found.Info.Segment.Value(src)))
	}

	var buf bytes.Buffer
	lines := found.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}

	content := strings.TrimSuffix(buf.String(), "\n")
	return File{Name: name, Content: content}, true
}
