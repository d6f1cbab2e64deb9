package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/quill/pkg"
)

// loadConfig is a [kong.ConfigurationLoader] that reads a YAML configuration
// file, such as the one written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadConfig, "/path/to/config.yaml")
//
// Keys name flags without their leading dashes. Nested mappings are joined
// to their parent key with a hyphen, so both of the following set
// --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// config file values.
func loadConfig(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrReadConfig.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, pkg.ErrReadConfig.Wrap(err)
	}

	cfg := make(config, len(doc))
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flat map of flag names.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten stores each leaf of m under its hyphen-joined key path.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = configValue(value)
	}
}

// configValue converts a decoded YAML value to the form Kong's mappers
// accept. Numbers are passed as strings for Kong to parse.
func configValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = configValue(e)
		}

		return out
	case nil, bool, string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
