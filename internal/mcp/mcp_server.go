// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/annolab/pivot/internal/contract"
)

// NewMCPServer initializes and configures the Pivot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Pivot Aggregation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_category_breakdown ---
	s.AddTool(mcp.NewTool("get_category_breakdown",
		mcp.WithDescription("Aggregate annotation results into per-category counts for a schema field."),
		mcp.WithNumber("schema_id", mcp.Description("Annotation schema whose results participate."), mcp.Required()),
		mcp.WithString("field", mcp.Description("Dot-separated path of the grouped field."), mcp.Required()),
		mcp.WithString("axis", mcp.Description("Bucket partitioning (aggregated, source, split, split-source). Defaults to 'aggregated'."), mcp.Enum("aggregated", "source", "split", "split-source")),
		mcp.WithString("split_field", mcp.Description("Field path of the split dimension for split axes.")),
		mcp.WithNumber("max_slices", mcp.Description("Cap on categories per bucket before the tail collapses into 'Other'.")),
		mcp.WithNumber("run_id", mcp.Description("Restrict results to a single annotation run.")),
	), h.handleGetCategoryBreakdown)

	// --- 2. Tool: get_timeseries ---
	s.AddTool(mcp.NewTool("get_timeseries",
		mcp.WithDescription("Bucket annotation results over time and compute per-field numeric aggregates."),
		mcp.WithNumber("schema_id", mcp.Description("Annotation schema whose results participate (0 admits all).")),
		mcp.WithString("granularity", mcp.Description("Bucket granularity (day, week, month, quarter, year). Defaults to 'day'."), mcp.Enum("day", "week", "month", "quarter", "year")),
		mcp.WithString("time_axis", mcp.Description("Timestamp source (result, event, field). Defaults to 'result'."), mcp.Enum("result", "event", "field")),
		mcp.WithString("time_field", mcp.Description("Field path of the timestamp when time_axis is 'field'.")),
		mcp.WithNumber("run_id", mcp.Description("Restrict results to a single annotation run.")),
	), h.handleGetTimeseries)

	// --- 3. Tool: get_field_stats ---
	s.AddTool(mcp.NewTool("get_field_stats",
		mcp.WithDescription("Compute per-field statistic sketches (counts, numeric summaries, top values) over a result set."),
		mcp.WithNumber("schema_id", mcp.Description("Restrict sketches to results of one schema.")),
		mcp.WithNumber("run_id", mcp.Description("Restrict results to a single annotation run.")),
	), h.handleGetFieldStats)

	// --- 4. Tool: drill_down ---
	s.AddTool(mcp.NewTool("drill_down",
		mcp.WithDescription("List the underlying results behind a chart point, either a category slice or a time bucket."),
		mcp.WithNumber("schema_id", mcp.Description("Annotation schema whose results participate."), mcp.Required()),
		mcp.WithString("field", mcp.Description("Grouped field path for category drill-down.")),
		mcp.WithString("category", mcp.Description("Category label of the clicked slice ('Other' resolves its collapsed membership).")),
		mcp.WithString("axis_key", mcp.Description("Axis bucket of the slice. Defaults to 'all'.")),
		mcp.WithString("bucket", mcp.Description("Time bucket key (e.g. '2024-03') for bucket drill-down.")),
		mcp.WithString("granularity", mcp.Description("Bucket granularity for bucket drill-down."), mcp.Enum("day", "week", "month", "quarter", "year")),
	), h.handleDrillDown)

	// --- 5. Tool: get_store_status ---
	s.AddTool(mcp.NewTool("get_store_status",
		mcp.WithDescription("Report how many results, schemas, assets and sources the configured store holds."),
	), h.handleGetStoreStatus)

	return s
}

// StartMCPServer starts the Pivot MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
