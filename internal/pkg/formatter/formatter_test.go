package formatter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	general := "general"
	return Document{
		Title: "FAQ acme",
		FAQs: []*entity.FAQ{
			{Question: "What are your hours?", Answer: "9-5", Category: &general},
			{Question: "Where are you, \"exactly\"?", Answer: "Downtown,\nnext to the park"},
		},
	}
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	for format, ext := range map[entity.ExportFormat]string{
		entity.FormatCSV:      ".csv",
		entity.FormatMarkdown: ".md",
		entity.FormatPDF:      ".pdf",
		entity.FormatDOCX:     ".docx",
	} {
		fm, err := f.Create(format)
		require.NoError(t, err)
		assert.Equal(t, ext, fm.FileExtension())
		assert.NotEmpty(t, fm.ContentType())
	}

	_, err := f.Create("xls")
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestCSVFormatter_RoundTripsThroughCSVReader(t *testing.T) {
	out, err := NewCSVFormatter().Format(sampleDocument())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"question", "answer", "category"},
		{"What are your hours?", "9-5", "general"},
		{"Where are you, \"exactly\"?", "Downtown,\nnext to the park", ""},
	}, records)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleDocument())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "# FAQ acme\n")
	assert.Contains(t, s, "## 1. What are your hours?\n\n_general_\n\n9-5\n")
	assert.Contains(t, s, "## 2. Where are you")

	out, err = NewMarkdownFormatter().Format(Document{})
	require.NoError(t, err)
	assert.Equal(t, "# FAQ\n", string(out))
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
