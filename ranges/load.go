package ranges

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/ttfs/errs"
)

// Kind identifies the document syntax of a range source.
type Kind uint8

const (
	KindJSON Kind = iota // KindJSON is a JSON object of name -> [min, max].
	KindYAML             // KindYAML is a YAML mapping of name -> [min, max].
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// SQLiteScheme prefixes range sources stored in a SQLite database.
const SQLiteScheme = "sqlite://"

// KindFromPath picks the document kind from the file extension.
// Anything other than .yaml/.yml is treated as JSON.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindYAML
	default:
		return KindJSON
	}
}

// Load reads a range file and returns its Registry.
//
// Returns:
//   - *NotFoundError (errs.ErrNotFound) when path does not exist
//   - *FormatError (errs.ErrInvalidFormat) when the document or any entry is malformed
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.NewNotFoundError(path, err)
		}

		return nil, fmt.Errorf("read range source %s: %w", path, err)
	}

	return parse(data, KindFromPath(path), path)
}

// LoadSource loads a registry from either a file path or a "sqlite://PATH" source.
func LoadSource(ctx context.Context, source string) (*Registry, error) {
	dbPath, ok := strings.CutPrefix(source, SQLiteScheme)
	if !ok {
		return Load(source)
	}

	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.NewNotFoundError(source, err)
		}

		return nil, fmt.Errorf("stat range database %s: %w", dbPath, err)
	}

	store, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Load(ctx)
}

// Parse decodes a range document held in memory.
func Parse(data []byte, kind Kind) (*Registry, error) {
	return parse(data, kind, "<"+kind.String()+">")
}

func parse(data []byte, kind Kind, source string) (*Registry, error) {
	var (
		doc any
		err error
	)

	switch kind {
	case KindJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
		if err == nil && dec.More() {
			err = errors.New("trailing data after document")
		}
	case KindYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errs.NewFormatError(source, "", fmt.Sprintf("unsupported document kind %d", kind), nil)
	}

	if err != nil {
		return nil, errs.NewFormatError(source, "", "malformed "+kind.String()+" document", err)
	}

	entries, ok := doc.(map[string]any)
	if !ok {
		return nil, errs.NewFormatError(source, "", fmt.Sprintf("document must be a mapping, got %T", doc), nil)
	}

	m := make(map[string]Range, len(entries))
	for name, raw := range entries {
		rng, err := parseEntry(source, name, raw)
		if err != nil {
			return nil, err
		}
		m[name] = rng
	}

	return New(m), nil
}

func parseEntry(source, name string, raw any) (Range, error) {
	pair, ok := raw.([]any)
	if !ok {
		return Range{}, errs.NewFormatError(source, name, fmt.Sprintf("expected [min, max] array, got %T", raw), nil)
	}
	if len(pair) != 2 {
		return Range{}, errs.NewFormatError(source, name, fmt.Sprintf("expected 2 elements, got %d", len(pair)), nil)
	}

	lo, err := toFloat(pair[0])
	if err != nil {
		return Range{}, errs.NewFormatError(source, name, "min: "+err.Error(), nil)
	}

	hi, err := toFloat(pair[1])
	if err != nil {
		return Range{}, errs.NewFormatError(source, name, "max: "+err.Error(), nil)
	}

	return Range{Min: lo, Max: hi}, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("number %q out of range", n.String())
		}

		return f, nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return math.NaN(), fmt.Errorf("expected number, got %T", v)
	}
}
