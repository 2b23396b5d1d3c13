package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. NOTESEARCH_SERVER_PORT.
const EnvPrefix = "NOTESEARCH"

// Load reads settings from the optional file at path, then environment
// variables, then built-in defaults. The result is validated.
func Load(path string) (*Settings, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-provided viper instance, letting command-line
// flags bound to v take part in the lookup.
func LoadWith(v *viper.Viper, path string) (*Settings, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	settings.ApplyDefaults()

	if problems := settings.Validate(); len(problems) > 0 {
		return nil, errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return settings, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.max_request_size", d.Server.MaxRequestSize)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("search.content_kind", d.Search.ContentKind)
	v.SetDefault("search.default_page_size", d.Search.DefaultPageSize)
	v.SetDefault("search.max_page_size", d.Search.MaxPageSize)
	v.SetDefault("rating.exact_points", d.Rating.ExactPoints)
	v.SetDefault("rating.approximate_points", d.Rating.ApproximatePoints)
	v.SetDefault("rating.adjacent_points", d.Rating.AdjacentPoints)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
