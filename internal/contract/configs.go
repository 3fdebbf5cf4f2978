package contract

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/annolab/pivot/schema"
)

// Default values for configuration.
const (
	DefaultMaxSlices   = 10
	MinMaxSlices       = 2
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultPageSize    = 500
	DefaultServePort   = 8090
)

// ConfigRawInput holds the raw, unvalidated configuration from all sources
// (file, env, flags). Viper unmarshals into this struct.
type ConfigRawInput struct {
	SchemaID      int64    `mapstructure:"schema"`
	FieldPath     string   `mapstructure:"field"`
	RunID         int64    `mapstructure:"run"`
	Axis          string   `mapstructure:"axis"`
	SplitField    string   `mapstructure:"split-field"`
	SplitSchemaID int64    `mapstructure:"split-schema"`
	MaxSlices     int      `mapstructure:"max-slices"`
	AliasesStr    string   `mapstructure:"aliases"`
	IncludeFailed bool     `mapstructure:"include-failed"`
	Filters       []string `mapstructure:"filter"`
	FilterLogic   string   `mapstructure:"filter-logic"`

	SelectCategory string `mapstructure:"select-category"`
	SelectAxis     string `mapstructure:"select-axis"`
	SelectBucket   string `mapstructure:"select-bucket"`

	Granularity  string `mapstructure:"granularity"`
	TimeAxis     string `mapstructure:"time-axis"`
	TimeField    string `mapstructure:"time-field"`
	TimeSchemaID int64  `mapstructure:"time-schema"`

	Output      string `mapstructure:"output"`
	OutputFile  string `mapstructure:"output-file"`
	Precision   int    `mapstructure:"precision"`
	ResultLimit int    `mapstructure:"limit"`
	Width       int    `mapstructure:"width"`
	Color       string `mapstructure:"color"`

	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	APIBaseURL string `mapstructure:"api-base-url"`
	APIToken   string `mapstructure:"api-token"`
	PageSize   int    `mapstructure:"page-size"`
	ImportFile string `mapstructure:"from-file"`

	Port int `mapstructure:"port"`
}

// Config holds the runtime configuration for aggregation commands. This
// struct remains the final, validated config.
type Config struct {
	SchemaID      int64
	FieldPath     string
	RunID         int64
	Axis          schema.GroupAxis
	SplitField    string
	SplitSchemaID int64
	MaxSlices     int
	Aliases       map[string]string
	IncludeFailed bool
	// Filters holds raw field:op[:value] specs, parsed by the engine and
	// combined with FilterLogic.
	Filters     []string
	FilterLogic schema.FilterLogic

	// SelectCategory, SelectAxis and SelectBucket identify a chart point for
	// drill-down.
	SelectCategory string
	SelectAxis     string
	SelectBucket   string

	Granularity  schema.Granularity
	TimeAxis     schema.TimeAxisMode
	TimeField    string
	TimeSchemaID int64

	Output      schema.OutputMode
	OutputFile  string
	Precision   int
	ResultLimit int
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	APIBaseURL string
	APIToken   string // Please use env var as this is plaintext
	PageSize   int
	ImportFile string

	Port int
}

// Clone returns a deep copy of the config so MCP and HTTP handlers can vary
// per-request settings without racing.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Aliases = maps.Clone(c.Aliases)
	clone.Filters = slices.Clone(c.Filters)
	return &clone
}

// ProcessAndValidate populates a final Config from raw input, validating
// enum values and numeric bounds.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	var err error

	if cfg.Axis, err = schema.ParseGroupAxis(orDefault(input.Axis, string(schema.AggregatedAxis))); err != nil {
		return err
	}
	if cfg.Granularity, err = schema.ParseGranularity(orDefault(input.Granularity, string(schema.MonthGranularity))); err != nil {
		return err
	}
	if cfg.TimeAxis, err = schema.ParseTimeAxisMode(orDefault(input.TimeAxis, string(schema.ResultTimeAxis))); err != nil {
		return err
	}
	if cfg.Output, err = schema.ParseOutputMode(orDefault(input.Output, string(schema.TextOut))); err != nil {
		return err
	}
	if cfg.StoreBackend, err = schema.ParseDatabaseBackend(orDefault(input.StoreBackend, string(schema.SQLiteBackend))); err != nil {
		return err
	}
	if cfg.FilterLogic, err = schema.ParseFilterLogic(orDefault(input.FilterLogic, string(schema.AndFilterLogic))); err != nil {
		return err
	}
	if err = ValidateDatabaseConnectionString(cfg.StoreBackend, input.StoreDBConnect); err != nil {
		return err
	}

	if (cfg.Axis == schema.SplitAxis || cfg.Axis == schema.SplitSourceAxis) && input.SplitField == "" {
		return fmt.Errorf("axis %s requires --split-field", cfg.Axis)
	}
	if cfg.TimeAxis == schema.FieldTimeAxis && input.TimeField == "" {
		return fmt.Errorf("time axis %s requires --time-field", cfg.TimeAxis)
	}

	if input.MaxSlices != 0 && input.MaxSlices < MinMaxSlices {
		return fmt.Errorf("max-slices must be at least %d (or 0 to disable the Other bucket)", MinMaxSlices)
	}
	cfg.MaxSlices = input.MaxSlices

	cfg.ResultLimit = input.ResultLimit
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = DefaultResultLimit
	}
	if cfg.ResultLimit > MaxResultLimit {
		return fmt.Errorf("limit must be at most %d", MaxResultLimit)
	}

	cfg.Precision = input.Precision
	if cfg.Precision < 0 || cfg.Precision > 10 {
		return fmt.Errorf("precision must be between 0 and 10")
	}

	cfg.Aliases, err = ParseAliases(input.AliasesStr)
	if err != nil {
		return err
	}

	cfg.Port = input.Port
	if cfg.Port == 0 {
		cfg.Port = DefaultServePort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	cfg.PageSize = input.PageSize
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	cfg.SchemaID = input.SchemaID
	cfg.FieldPath = input.FieldPath
	cfg.RunID = input.RunID
	cfg.SplitField = input.SplitField
	cfg.SplitSchemaID = input.SplitSchemaID
	cfg.IncludeFailed = input.IncludeFailed
	cfg.Filters = input.Filters
	cfg.SelectCategory = input.SelectCategory
	cfg.SelectAxis = orDefault(input.SelectAxis, schema.AggregatedKey)
	cfg.SelectBucket = input.SelectBucket
	cfg.TimeField = input.TimeField
	cfg.TimeSchemaID = input.TimeSchemaID
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.UseColors = parseBoolish(input.Color, true)
	cfg.StoreDBConnect = input.StoreDBConnect
	cfg.APIBaseURL = strings.TrimRight(input.APIBaseURL, "/")
	cfg.APIToken = input.APIToken
	cfg.ImportFile = input.ImportFile

	return nil
}

// ParseAliases parses "label=canonical" pairs separated by commas into an
// alias map.
func ParseAliases(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	aliases := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		from, to, ok := strings.Cut(pair, "=")
		from = strings.TrimSpace(from)
		to = strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid alias %q: expected label=canonical", pair)
		}
		aliases[from] = to
	}
	return aliases, nil
}

// ValidateDatabaseConnectionString performs basic shape checks on store
// connection strings before a connection is attempted.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("mysql backend requires a connection string (user:pass@tcp(host:port)/dbname)")
		}
		if !strings.Contains(connStr, "@") {
			return fmt.Errorf("mysql connection string must be of the form user:pass@tcp(host:port)/dbname")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("postgresql backend requires a connection string (host=... user=... dbname=...)")
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func parseBoolish(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	default:
		return def
	}
}
