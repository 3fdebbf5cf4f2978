package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/pivot/schema"
)

func TestProcessAndValidate(t *testing.T) {
	t.Run("success minimal", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{
			SchemaID:  7,
			FieldPath: "sentiment",
		}

		err := ProcessAndValidate(cfg, input)
		require.NoError(t, err)
		assert.Equal(t, schema.AggregatedAxis, cfg.Axis)
		assert.Equal(t, schema.MonthGranularity, cfg.Granularity)
		assert.Equal(t, schema.ResultTimeAxis, cfg.TimeAxis)
		assert.Equal(t, schema.TextOut, cfg.Output)
		assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
		assert.Equal(t, DefaultServePort, cfg.Port)
		assert.Equal(t, schema.AggregatedKey, cfg.SelectAxis)
		assert.Equal(t, schema.AndFilterLogic, cfg.FilterLogic)
		assert.True(t, cfg.UseColors)
	})

	t.Run("failure invalid filter logic", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{FilterLogic: "nand"}

		err := ProcessAndValidate(cfg, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid filter logic")
	})

	t.Run("failure invalid axis", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{Axis: "sideways"}

		err := ProcessAndValidate(cfg, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid axis")
	})

	t.Run("failure split axis without split field", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{Axis: string(schema.SplitAxis)}

		err := ProcessAndValidate(cfg, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--split-field")
	})

	t.Run("failure field time axis without time field", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{TimeAxis: string(schema.FieldTimeAxis)}

		err := ProcessAndValidate(cfg, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--time-field")
	})

	t.Run("failure max slices below minimum", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{MaxSlices: 1}

		err := ProcessAndValidate(cfg, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max-slices")
	})

	t.Run("max slices zero disables collapse", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{MaxSlices: 0}

		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 0, cfg.MaxSlices)
	})

	t.Run("failure limit above maximum", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{ResultLimit: MaxResultLimit + 1}

		err := ProcessAndValidate(cfg, input)
		require.Error(t, err)
	})

	t.Run("trailing slash trimmed from api base url", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{APIBaseURL: "http://localhost:8000/"}

		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	})
}

func TestParseAliases(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		aliases, err := ParseAliases("")
		require.NoError(t, err)
		assert.Nil(t, aliases)
	})

	t.Run("pairs with whitespace", func(t *testing.T) {
		aliases, err := ParseAliases("pos=Positive, neg = Negative")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"pos": "Positive", "neg": "Negative"}, aliases)
	})

	t.Run("failure missing canonical", func(t *testing.T) {
		_, err := ParseAliases("pos=")
		require.Error(t, err)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "no-at-sign"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "root:pw@tcp(localhost:3306)/pivot"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost user=postgres"))
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", TruncateLabel("short", 20))
	assert.Equal(t, "...rics/latency", TruncateLabel("service/api/metrics/latency", 15))
}

func TestCloneIsolation(t *testing.T) {
	cfg := &Config{
		Aliases: map[string]string{"pos": "Positive"},
		Filters: []string{"sentiment:eq:Positive"},
	}
	clone := cfg.Clone()
	clone.Aliases["neg"] = "Negative"
	clone.Filters[0] = "changed"

	assert.NotContains(t, cfg.Aliases, "neg")
	assert.Equal(t, "sentiment:eq:Positive", cfg.Filters[0])
}
