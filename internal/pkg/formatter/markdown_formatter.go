package formatter

import (
	"bytes"
	"fmt"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", doc.title())

	for i, f := range doc.FAQs {
		fmt.Fprintf(&buf, "\n## %d. %s\n\n", i+1, f.Question)
		if c := category(f); c != "" {
			fmt.Fprintf(&buf, "_%s_\n\n", c)
		}
		fmt.Fprintf(&buf, "%s\n", f.Answer)
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
