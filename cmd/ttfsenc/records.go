package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/ttfs/encoder"
	"github.com/arloliu/ttfs/ranges"
)

// Input record syntaxes.
const (
	inputAuto  = "auto"
	inputJSONL = "jsonl"
	inputCSV   = "csv"
)

const maxJSONLLine = 4 << 20

// recordReader yields records until io.EOF.
type recordReader interface {
	Next() (encoder.Record, error)
}

// resolveInputFormat maps "auto" to csv or jsonl from the input file extension.
func resolveInputFormat(format, path string) (string, error) {
	switch strings.ToLower(format) {
	case inputJSONL, inputCSV:
		return strings.ToLower(format), nil
	case inputAuto, "":
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			return inputCSV, nil
		}

		return inputJSONL, nil
	default:
		return "", errors.WithHint(errors.Newf("unknown input format %q", format),
			"use auto, jsonl or csv")
	}
}

// newRecordReader reads only the columns or keys naming a feature of reg.
// Other fields, such as labels, are ignored.
func newRecordReader(r io.Reader, format string, reg *ranges.Registry) (recordReader, error) {
	switch format {
	case inputJSONL:
		return newJSONLReader(r, reg), nil
	case inputCSV:
		return newCSVReader(r, reg)
	default:
		return nil, errors.Newf("unknown input format %q", format)
	}
}

type jsonlReader struct {
	sc   *bufio.Scanner
	reg  *ranges.Registry
	line int
}

func newJSONLReader(r io.Reader, reg *ranges.Registry) *jsonlReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	return &jsonlReader{sc: sc, reg: reg}
}

func (r *jsonlReader) Next() (encoder.Record, error) {
	for r.sc.Scan() {
		r.line++
		line := bytes.TrimSpace(r.sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(line, &obj); err != nil {
			return nil, errors.WithHint(errors.Wrapf(err, "line %d", r.line),
				"JSONL input holds one JSON object per line")
		}

		rec := make(encoder.Record, r.reg.Len())
		for _, name := range r.reg.Names() {
			raw, ok := obj[name]
			if !ok || string(raw) == "null" {
				continue
			}
			var v float64
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, errors.Newf("line %d: feature %q: %s is not a number", r.line, name, raw)
			}
			rec[name] = v
		}

		return rec, nil
	}

	if err := r.sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read line %d", r.line+1)
	}

	return nil, io.EOF
}

type csvReader struct {
	r       *csv.Reader
	columns map[int]string
	line    int
}

func newCSVReader(r io.Reader, reg *ranges.Registry) (*csvReader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.WithHint(errors.New("empty CSV input"), "the first CSV row must name the columns")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read CSV header")
	}

	columns := make(map[int]string)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := reg.Get(name); ok {
			columns[i] = name
		}
	}

	return &csvReader{r: cr, columns: columns, line: 1}, nil
}

// Next treats empty cells as missing values.
func (r *csvReader) Next() (encoder.Record, error) {
	row, err := r.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrap(err, "read CSV row")
	}
	r.line, _ = r.r.FieldPos(0)

	rec := make(encoder.Record, len(r.columns))
	for i, name := range r.columns {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.Newf("line %d: column %q: %q is not a number", r.line, name, cell)
		}
		rec[name] = v
	}

	return rec, nil
}
