package config

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"

	ferrors "github.com/arthur-debert/filedb/pkg/errors"
)

const rulesKey = "rules"

// tableOrder returns the names of a name-keyed rules table in the order the
// document writes them. The decoded table has lost that order.
func tableOrder(path string, data []byte) ([]string, error) {
	var (
		names []string
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		names, err = jsonTableOrder(data)
	case ".yaml", ".yml":
		names, err = yamlTableOrder(data)
	default:
		names, err = tomlTableOrder(data)
	}
	if err != nil {
		return nil, ferrors.Wrapf(err, ferrors.ErrConfigParse, "failed to read rule order from %s", path)
	}
	return names, nil
}

func jsonTableOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if !expectDelim(dec, '{') {
		return nil, nil
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key, _ := tok.(string); key == rulesKey {
			return jsonObjectKeys(dec)
		}
		if err := skipJSONValue(dec); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func jsonObjectKeys(dec *json.Decoder) ([]string, error) {
	if !expectDelim(dec, '{') {
		return nil, nil
	}
	var names []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key, ok := tok.(string); ok {
			names = append(names, key)
		}
		if err := skipJSONValue(dec); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func expectDelim(dec *json.Decoder, d json.Delim) bool {
	tok, err := dec.Token()
	if err != nil {
		return false
	}
	got, ok := tok.(json.Delim)
	return ok && got == d
}

func skipJSONValue(dec *json.Decoder) error {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func yamlTableOrder(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != rulesKey {
			continue
		}
		table := root.Content[i+1]
		if table.Kind != yaml.MappingNode {
			return nil, nil
		}
		names := make([]string, 0, len(table.Content)/2)
		for j := 0; j+1 < len(table.Content); j += 2 {
			names = append(names, table.Content[j].Value)
		}
		return names, nil
	}
	return nil, nil
}

// tomlTableOrder walks the document's expressions, so rules written as
// [rules.name] headers, dotted keys or inline tables are all seen in place.
func tomlTableOrder(data []byte) ([]string, error) {
	var (
		p       unstable.Parser
		current []string
		names   []string
		seen    = map[string]bool{}
	)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	p.Reset(data)
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			current = keyParts(e)
			if len(current) >= 2 && current[0] == rulesKey {
				add(current[1])
			}
		case unstable.KeyValue:
			full := append(append([]string{}, current...), keyParts(e)...)
			switch {
			case len(full) >= 2 && full[0] == rulesKey:
				add(full[1])
			case len(full) == 1 && full[0] == rulesKey && e.Value().Kind == unstable.InlineTable:
				it := e.Value().Children()
				for it.Next() {
					if kv := it.Node(); kv.Kind == unstable.KeyValue {
						if parts := keyParts(kv); len(parts) > 0 {
							add(parts[0])
						}
					}
				}
			}
		}
	}
	return names, p.Error()
}

func keyParts(n *unstable.Node) []string {
	var parts []string
	it := n.Key()
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}
