package analysis

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"survey-dashboard/internal/state"

	"golang.org/x/text/unicode/norm"
)

var ErrEmptyFile = errors.New("csv file is empty")

type CSVService struct{}

func NewCSVService() *CSVService {
	return &CSVService{}
}

// ParseFile reads a survey CSV from disk
func (s *CSVService) ParseFile(path string) (*state.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	df, err := s.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	df.FileName = filepath.Base(path)
	return df, nil
}

// Parse reads a CSV stream into a DataFrame. The delimiter is detected from
// the header line (comma, semicolon or tab).
func (s *CSVService) Parse(r io.Reader) (*state.DataFrame, error) {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(4096)
	if len(bytes.TrimSpace(peek)) == 0 {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(peek)
	reader.FieldsPerRecord = -1 // Allow variable fields
	reader.LazyQuotes = true    // Allow bare quotes in non-quoted fields
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = cleanHeader(h)
	}

	rows := [][]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}

	return &state.DataFrame{
		Headers: headers,
		Rows:    rows,
		Source:  "csv",
	}, nil
}

// cleanHeader strips a byte-order mark and surrounding space and applies NFKC
// so visually identical headers compare equal.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.TrimSpace(norm.NFKC.String(h))
}

func detectDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
