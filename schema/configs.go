package schema

import "fmt"

// Granularity is the time-bucket width for series aggregation.
type Granularity string

// Supported bucket granularities.
const (
	DayGranularity     Granularity = "day"
	WeekGranularity    Granularity = "week"
	MonthGranularity   Granularity = "month"
	QuarterGranularity Granularity = "quarter"
	YearGranularity    Granularity = "year"
)

// ParseGranularity validates a granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case DayGranularity, WeekGranularity, MonthGranularity, QuarterGranularity, YearGranularity:
		return Granularity(s), nil
	default:
		return "", fmt.Errorf("invalid granularity %q: must be day, week, month, quarter, or year", s)
	}
}

// GroupAxis selects how categorical buckets are partitioned.
type GroupAxis string

// Grouping axes. SplitSourceAxis combines the split dimension with the
// per-source breakdown.
const (
	AggregatedAxis  GroupAxis = "aggregated"
	SourceAxis      GroupAxis = "source"
	SplitAxis       GroupAxis = "split"
	SplitSourceAxis GroupAxis = "split-source"
)

// ParseGroupAxis validates a grouping axis string.
func ParseGroupAxis(s string) (GroupAxis, error) {
	switch GroupAxis(s) {
	case AggregatedAxis, SourceAxis, SplitAxis, SplitSourceAxis:
		return GroupAxis(s), nil
	default:
		return "", fmt.Errorf("invalid axis %q: must be aggregated, source, split, or split-source", s)
	}
}

// TimeAxisMode selects which timestamp a result is bucketed by.
type TimeAxisMode string

// Time axis modes. FieldTimeAxis reads the timestamp from a schema field of
// the result value.
const (
	ResultTimeAxis TimeAxisMode = "result"
	AssetTimeAxis  TimeAxisMode = "asset"
	FieldTimeAxis  TimeAxisMode = "field"
)

// ParseTimeAxisMode validates a time axis string.
func ParseTimeAxisMode(s string) (TimeAxisMode, error) {
	switch TimeAxisMode(s) {
	case ResultTimeAxis, AssetTimeAxis, FieldTimeAxis:
		return TimeAxisMode(s), nil
	default:
		return "", fmt.Errorf("invalid time axis %q: must be result, asset, or field", s)
	}
}

// FilterLogic selects how multiple filter rules combine.
type FilterLogic string

// Filter combinators. AndFilterLogic requires every rule to match,
// OrFilterLogic any rule.
const (
	AndFilterLogic FilterLogic = "and"
	OrFilterLogic  FilterLogic = "or"
)

// ParseFilterLogic validates a filter logic string.
func ParseFilterLogic(s string) (FilterLogic, error) {
	switch FilterLogic(s) {
	case AndFilterLogic, OrFilterLogic:
		return FilterLogic(s), nil
	default:
		return "", fmt.Errorf("invalid filter logic %q: must be \"and\" or \"or\"", s)
	}
}

// OutputMode controls how results are rendered.
type OutputMode string

// Output modes.
const (
	TextOut    OutputMode = "text"
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	ChartOut   OutputMode = "chart"
)

// ParseOutputMode validates an output mode string.
func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(s) {
	case TextOut, CSVOut, JSONOut, ParquetOut, ChartOut:
		return OutputMode(s), nil
	default:
		return "", fmt.Errorf("invalid output %q: must be text, csv, json, parquet, or chart", s)
	}
}

// DatabaseBackend identifies a result store backend.
type DatabaseBackend string

// Store backends. NoneBackend keeps everything in memory for the current
// invocation.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ParseDatabaseBackend validates a backend string.
func ParseDatabaseBackend(s string) (DatabaseBackend, error) {
	switch DatabaseBackend(s) {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend:
		return DatabaseBackend(s), nil
	default:
		return "", fmt.Errorf("invalid backend %q: must be sqlite, mysql, postgresql, or none", s)
	}
}
