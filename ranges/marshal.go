package ranges

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/ttfs/errs"
)

// Marshal renders reg as a range document of the given kind, one entry per
// feature in name order. The output is accepted by Parse.
//
// Non-finite bounds have no JSON representation; marshaling them as KindJSON
// fails with errs.ErrInvalidFormat.
func Marshal(reg *Registry, kind Kind) ([]byte, error) {
	switch kind {
	case KindJSON:
		return marshalJSON(reg)
	case KindYAML:
		return marshalYAML(reg)
	default:
		return nil, fmt.Errorf("%w: unknown document kind %d", errs.ErrInvalidFormat, kind)
	}
}

func marshalJSON(reg *Registry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	i := 0
	for name, rng := range reg.All() {
		if math.IsNaN(rng.Min) || math.IsInf(rng.Min, 0) || math.IsNaN(rng.Max) || math.IsInf(rng.Max, 0) {
			return nil, errs.NewFormatError("json", name, "bounds are not finite", nil)
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, errs.NewFormatError("json", name, "name is not encodable", err)
		}
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": [")
		buf.WriteString(formatBound(rng.Min))
		buf.WriteString(", ")
		buf.WriteString(formatBound(rng.Max))
		buf.WriteString("]")
		i++
	}

	if i > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

func marshalYAML(reg *Registry) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for name, rng := range reg.All() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		pair := &yaml.Node{
			Kind:  yaml.SequenceNode,
			Style: yaml.FlowStyle,
			Content: []*yaml.Node{
				yamlBound(rng.Min),
				yamlBound(rng.Max),
			},
		}
		doc.Content = append(doc.Content, key, pair)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, errs.NewFormatError("yaml", "", "encode document", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errs.NewFormatError("yaml", "", "encode document", err)
	}

	return buf.Bytes(), nil
}

// yamlBound emits v as a plain scalar; integral bounds read back as YAML ints.
func yamlBound(v float64) *yaml.Node {
	value := formatBound(v)
	switch {
	case math.IsNaN(v):
		value = ".nan"
	case math.IsInf(v, 1):
		value = ".inf"
	case math.IsInf(v, -1):
		value = "-.inf"
	}

	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
