package faq

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabot/faq-backend/internal/entity"
)

type parsedCSV struct {
	faqs    []entity.FAQ
	invalid int
}

// parseCSV reads question,answer[,category] rows. Rows with fewer than two
// columns or a blank question or answer count as invalid. A leading
// question,answer header row is ignored.
func parseCSV(r io.Reader) (*parsedCSV, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	out := &parsedCSV{}
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", entity.ErrInvalidFile, err)
		}

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}

		if len(record) < 2 {
			out.invalid++
			continue
		}

		question := strings.TrimSpace(strings.TrimPrefix(record[0], "\ufeff"))
		answer := strings.TrimSpace(record[1])
		if question == "" || answer == "" {
			out.invalid++
			continue
		}

		f := entity.FAQ{Question: question, Answer: answer}
		if len(record) > 2 {
			if c := strings.TrimSpace(record[2]); c != "" {
				f.Category = &c
			}
		}
		out.faqs = append(out.faqs, f)
	}

	return out, nil
}

func isHeader(record []string) bool {
	return len(record) >= 2 &&
		strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(record[0], "\ufeff")), "question") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "answer")
}
