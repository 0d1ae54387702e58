package formatter

import (
	"fmt"

	"github.com/gabot/faq-backend/internal/entity"
)

const baseTitle = "FAQ"

// Document is the exported FAQ set of one client.
type Document struct {
	Title string
	FAQs  []*entity.FAQ
}

func (d Document) title() string {
	if d.Title == "" {
		return baseTitle
	}
	return d.Title
}

type Formatter interface {
	Format(doc Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatCSV:
		return NewCSVFormatter(), nil
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

func category(f *entity.FAQ) string {
	if f.Category == nil {
		return ""
	}
	return *f.Category
}
