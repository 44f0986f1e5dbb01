// Package config loads default argument values from files and the
// environment. Values are token lists keyed by the destination, prefixed by
// the canonical subcommand path: "epsilon.omega.akarmi".
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Values maps dotted keys to raw argument tokens.
type Values map[string][]string

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads a configuration file, choosing the format by extension.
func Load(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var values Values
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		values, err = DecodeTOML(data)
	case ".yaml", ".yml":
		values, err = DecodeYAML(data)
	case ".json":
		values, err = DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return values, nil
}

// DecodeTOML flattens a TOML document.
func DecodeTOML(data []byte) (Values, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, err
	}
	out := make(Values)
	if err := flattenMap("", doc, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeYAML flattens a YAML mapping.
func DecodeYAML(data []byte) (Values, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make(Values)
	if err := flattenMap("", doc, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeJSON flattens a JSON object. Numbers keep their literal spelling.
func DecodeJSON(data []byte) (Values, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("top level must be an object")
	}

	out := make(Values)
	var walk func(prefix string, obj gjson.Result) error
	walk = func(prefix string, obj gjson.Result) error {
		var err error
		obj.ForEach(func(k, v gjson.Result) bool {
			key := joinKey(prefix, k.String())
			switch {
			case v.IsObject():
				err = walk(key, v)
			case v.IsArray():
				tokens := []string{}
				for _, item := range v.Array() {
					if item.IsObject() || item.IsArray() {
						err = fmt.Errorf("%s: nested values are not supported in lists", key)
						return false
					}
					tokens = append(tokens, jsonToken(item))
				}
				out[key] = tokens
			case v.Type == gjson.Null:
			default:
				out[key] = []string{jsonToken(v)}
			}
			return err == nil
		})
		return err
	}
	if err := walk("", doc); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonToken(v gjson.Result) string {
	if v.Type == gjson.Number {
		return v.Raw
	}
	return v.String()
}

// flattenMap converts nested maps to dotted keys ({"a":{"b":1}} => "a.b": ["1"]).
func flattenMap(prefix string, src map[string]any, dst Values) error {
	for k, v := range src {
		key := joinKey(prefix, k)
		switch v := v.(type) {
		case map[string]any:
			if err := flattenMap(key, v, dst); err != nil {
				return err
			}
		case []any:
			tokens := make([]string, 0, len(v))
			for _, item := range v {
				tok, err := token(key, item)
				if err != nil {
					return err
				}
				tokens = append(tokens, tok)
			}
			dst[key] = tokens
		case nil:
		default:
			tok, err := token(key, v)
			if err != nil {
				return err
			}
			dst[key] = []string{tok}
		}
	}
	return nil
}

func token(key string, v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("%s: unsupported value %v (%T)", key, v, v)
}

func joinKey(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "." + k
}

// FromEnv collects variables starting with prefix. The rest of the name is
// lowercased and "__" separates path elements: DEMO_EPSILON__OMEGA__AKARMI
// becomes "epsilon.omega.akarmi".
func FromEnv(prefix string, environ []string) Values {
	out := make(Values)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(name[len(prefix):], "__", "."))
		out[key] = []string{value}
	}
	return out
}
