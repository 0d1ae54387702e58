package formatter

import (
	"bytes"
	"fmt"

	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(d Document) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(d.title())

	for i, f := range d.FAQs {
		qPar := doc.AddParagraph()
		qPar.SetStyle("Heading2")
		qPar.AddRun().AddText(fmt.Sprintf("%d. %s", i+1, f.Question))

		if c := category(f); c != "" {
			catRun := doc.AddParagraph().AddRun()
			catRun.Properties().SetItalic(true)
			catRun.AddText(c)
		}

		doc.AddParagraph().AddRun().AddText(f.Answer)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
