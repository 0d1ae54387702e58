package formatter

import (
	"bytes"
	"encoding/csv"
)

const (
	csvContentType   = "text/csv; charset=utf-8"
	csvFileExtension = ".csv"
)

// CSVFormatter writes question,answer,category rows that the importer reads back.
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (cf *CSVFormatter) Format(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"question", "answer", "category"}); err != nil {
		return nil, err
	}
	for _, f := range doc.FAQs {
		if err := w.Write([]string{f.Question, f.Answer, category(f)}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cf *CSVFormatter) ContentType() string {
	return csvContentType
}

func (cf *CSVFormatter) FileExtension() string {
	return csvFileExtension
}
