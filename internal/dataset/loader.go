package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrDataUnavailable is returned when the dataset cannot be opened or parsed.
var ErrDataUnavailable = errors.New("data unavailable")

// Source loads the raw listing table from some backing store.
type Source interface {
	Load(ctx context.Context) (*Table, error)
}

// CSVSource reads the table from a delimited text file.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a Source backed by the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Load implements Source.
func (s *CSVSource) Load(_ context.Context) (*Table, error) {
	return Load(s.Path)
}

// Load reads a delimited file into a Table.
// Any failure to open or parse the file is reported as ErrDataUnavailable.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrDataUnavailable, path, err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrDataUnavailable, path, err)
	}
	return table, nil
}

// Parse reads delimited text from r. The delimiter is sniffed from the header
// line among comma, semicolon and tab.
func Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(bytes.TrimSpace(peek)) == 0 {
		return nil, errors.New("empty file")
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(peek)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[i] = strings.TrimSpace(name)
	}

	var rows [][]string
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(record) > len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", line, len(record), len(columns))
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		rows = append(rows, record)
	}

	return NewTable(columns, rows), nil
}

func sniffDelimiter(sample []byte) rune {
	firstLine := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		firstLine = sample[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(firstLine, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
