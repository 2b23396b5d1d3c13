// Package config provides configuration structures for the note search service.
// It defines server, storage, search and rating settings and how they are loaded.
package config

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/note-search/internal/matching"
	"github.com/gcbaptista/note-search/model"
)

// Storage drivers understood by the engine.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Port           string `mapstructure:"port" json:"port"`
	MaxRequestSize int64  `mapstructure:"max_request_size" json:"max_request_size"` // bytes
}

// StorageSettings selects and configures the note store.
type StorageSettings struct {
	Driver  string `mapstructure:"driver" json:"driver"`     // "memory" or "sqlite"
	DataDir string `mapstructure:"data_dir" json:"data_dir"` // snapshot directory (memory) or database directory (sqlite)
}

// SearchSettings controls how candidates are scored and paged.
type SearchSettings struct {
	ContentKind     string `mapstructure:"content_kind" json:"content_kind"` // input kind scored next to the title
	DefaultPageSize int    `mapstructure:"default_page_size" json:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size" json:"max_page_size"`
}

// RatingSettings holds the point value of each match rating.
// Exact must outrank Approximate; Adjacent is a flat bonus.
type RatingSettings struct {
	ExactPoints       float64 `mapstructure:"exact_points" json:"exact_points"`
	ApproximatePoints float64 `mapstructure:"approximate_points" json:"approximate_points"`
	AdjacentPoints    float64 `mapstructure:"adjacent_points" json:"adjacent_points"`
}

// LogSettings configures structured logging.
type LogSettings struct {
	Level  string `mapstructure:"level" json:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" json:"format"` // text or json
}

// Settings is the full service configuration.
type Settings struct {
	Server  ServerSettings  `mapstructure:"server" json:"server"`
	Storage StorageSettings `mapstructure:"storage" json:"storage"`
	Search  SearchSettings  `mapstructure:"search" json:"search"`
	Rating  RatingSettings  `mapstructure:"rating" json:"rating"`
	Log     LogSettings     `mapstructure:"log" json:"log"`
}

// Default returns settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults applies default values to unset settings
func (s *Settings) ApplyDefaults() {
	if s.Server.Port == "" {
		s.Server.Port = "8080"
	}
	if s.Server.MaxRequestSize == 0 {
		s.Server.MaxRequestSize = 10 << 20
	}

	if s.Storage.Driver == "" {
		s.Storage.Driver = StorageMemory
	}
	if s.Storage.DataDir == "" {
		s.Storage.DataDir = "./note_data"
	}

	if s.Search.ContentKind == "" {
		s.Search.ContentKind = string(model.InputKindRichText)
	}
	if s.Search.DefaultPageSize == 0 {
		s.Search.DefaultPageSize = 20
	}
	if s.Search.MaxPageSize == 0 {
		s.Search.MaxPageSize = 100
	}

	// Rating points only default as a whole so a partial override is caught by Validate
	if s.Rating == (RatingSettings{}) {
		points := matching.DefaultPoints()
		s.Rating = RatingSettings{
			ExactPoints:       points.Exact,
			ApproximatePoints: points.Approximate,
			AdjacentPoints:    points.Adjacent,
		}
	}

	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if s.Log.Format == "" {
		s.Log.Format = "text"
	}
}

// Validate checks the settings and returns one message per problem found.
func (s *Settings) Validate() []string {
	var errors []string

	if strings.TrimSpace(s.Server.Port) == "" {
		errors = append(errors, "server.port cannot be empty")
	}
	if s.Server.MaxRequestSize < 0 {
		errors = append(errors, "server.max_request_size cannot be negative")
	}

	switch s.Storage.Driver {
	case StorageMemory, StorageSQLite:
	default:
		errors = append(errors, fmt.Sprintf("Invalid storage.driver '%s' (must be '%s' or '%s')", s.Storage.Driver, StorageMemory, StorageSQLite))
	}
	if s.Storage.Driver == StorageSQLite && strings.TrimSpace(s.Storage.DataDir) == "" {
		errors = append(errors, "storage.data_dir is required for the sqlite driver")
	}

	if _, ok := model.ParseInputKind(s.Search.ContentKind); !ok {
		errors = append(errors, "Invalid search.content_kind '"+s.Search.ContentKind+"'")
	}
	if s.Search.DefaultPageSize < 0 {
		errors = append(errors, "search.default_page_size cannot be negative")
	}
	if s.Search.MaxPageSize < 0 {
		errors = append(errors, "search.max_page_size cannot be negative")
	}
	if s.Search.MaxPageSize > 0 && s.Search.DefaultPageSize > s.Search.MaxPageSize {
		errors = append(errors, "search.default_page_size cannot exceed search.max_page_size")
	}

	if s.Rating.ApproximatePoints <= 0 {
		errors = append(errors, "rating.approximate_points must be positive")
	}
	if s.Rating.ExactPoints <= s.Rating.ApproximatePoints {
		errors = append(errors, "rating.exact_points must be greater than rating.approximate_points")
	}
	if s.Rating.AdjacentPoints < 0 {
		errors = append(errors, "rating.adjacent_points cannot be negative")
	}

	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, "Invalid log.level '"+s.Log.Level+"'")
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		errors = append(errors, "Invalid log.format '"+s.Log.Format+"' (must be 'text' or 'json')")
	}

	return errors
}

// Points converts the rating settings into matcher points.
func (s *Settings) Points() matching.Points {
	return matching.Points{
		Exact:       s.Rating.ExactPoints,
		Approximate: s.Rating.ApproximatePoints,
		Adjacent:    s.Rating.AdjacentPoints,
	}
}

// ContentKind returns the designated searchable input kind.
func (s *Settings) ContentKind() model.InputKind {
	kind, _ := model.ParseInputKind(s.Search.ContentKind)
	return kind
}
