package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/annolab/pivot/core"
	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleGetCategoryBreakdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.SchemaID = int64(request.GetInt("schema_id", 0))
	cfg.FieldPath = request.GetString("field", "")
	if cfg.SchemaID == 0 || cfg.FieldPath == "" {
		return mcp.NewToolResultError("schema_id and field are required"), nil
	}
	if a := request.GetString("axis", ""); a != "" {
		axis, err := schema.ParseGroupAxis(a)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
		cfg.Axis = axis
	}
	if sf := request.GetString("split_field", ""); sf != "" {
		cfg.SplitField = sf
	}
	if m := request.GetInt("max_slices", 0); m > 0 {
		cfg.MaxSlices = m
	}
	if r := request.GetInt("run_id", 0); r > 0 {
		cfg.RunID = int64(r)
	}

	ds, err := core.LoadDataset(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}
	result := core.AggregateCategorical(ds, core.CategoricalRequest{
		SchemaID:      cfg.SchemaID,
		FieldPath:     cfg.FieldPath,
		Axis:          cfg.Axis,
		SplitField:    cfg.SplitField,
		SplitSchemaID: cfg.SplitSchemaID,
		MaxSlices:     cfg.MaxSlices,
		Aliases:       cfg.Aliases,
		IncludeFailed: cfg.IncludeFailed,
	})

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTimeseries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetInt("schema_id", 0); s > 0 {
		cfg.SchemaID = int64(s)
	}
	if g := request.GetString("granularity", ""); g != "" {
		gran, err := schema.ParseGranularity(g)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
		cfg.Granularity = gran
	}
	if ta := request.GetString("time_axis", ""); ta != "" {
		mode, err := schema.ParseTimeAxisMode(ta)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
		cfg.TimeAxis = mode
	}
	if tf := request.GetString("time_field", ""); tf != "" {
		cfg.TimeField = tf
	}
	if r := request.GetInt("run_id", 0); r > 0 {
		cfg.RunID = int64(r)
	}

	ds, err := core.LoadDataset(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}
	points := core.AggregateTimeSeries(ds, core.SeriesRequest{
		SchemaID:      cfg.SchemaID,
		TimeAxis:      cfg.TimeAxis,
		TimeField:     cfg.TimeField,
		TimeSchemaID:  cfg.TimeSchemaID,
		Granularity:   cfg.Granularity,
		IncludeFailed: cfg.IncludeFailed,
	})

	jsonData, _ := json.MarshalIndent(points, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetFieldStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetInt("schema_id", 0); s > 0 {
		cfg.SchemaID = int64(s)
	}
	if r := request.GetInt("run_id", 0); r > 0 {
		cfg.RunID = int64(r)
	}

	ds, err := core.LoadDataset(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	results := ds.Results
	if cfg.SchemaID != 0 {
		scoped := make([]schema.AnnotationResult, 0, len(results))
		for _, res := range results {
			if res.SchemaID == cfg.SchemaID {
				scoped = append(scoped, res)
			}
		}
		results = scoped
	}
	sketches := core.ComputeFieldSketches(results, cfg.IncludeFailed)

	jsonData, _ := json.MarshalIndent(sketches, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDrillDown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.SchemaID = int64(request.GetInt("schema_id", 0))
	cfg.FieldPath = request.GetString("field", "")
	category := request.GetString("category", "")
	bucket := request.GetString("bucket", "")
	if category == "" && bucket == "" {
		return mcp.NewToolResultError("one of category or bucket is required"), nil
	}
	if g := request.GetString("granularity", ""); g != "" {
		gran, err := schema.ParseGranularity(g)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
		cfg.Granularity = gran
	}

	ds, err := core.LoadDataset(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("drill-down failed: %v", err)), nil
	}

	var req core.DrilldownRequest
	if bucket != "" {
		req.Selection = core.Selection{Kind: core.BucketSelection, BucketKey: bucket}
		req.Series = &core.SeriesRequest{
			SchemaID:      cfg.SchemaID,
			TimeAxis:      cfg.TimeAxis,
			TimeField:     cfg.TimeField,
			TimeSchemaID:  cfg.TimeSchemaID,
			Granularity:   cfg.Granularity,
			IncludeFailed: cfg.IncludeFailed,
		}
	} else {
		axisKey := request.GetString("axis_key", schema.AggregatedKey)
		catReq := core.CategoricalRequest{
			SchemaID:      cfg.SchemaID,
			FieldPath:     cfg.FieldPath,
			Axis:          cfg.Axis,
			SplitField:    cfg.SplitField,
			SplitSchemaID: cfg.SplitSchemaID,
			MaxSlices:     cfg.MaxSlices,
			Aliases:       cfg.Aliases,
			IncludeFailed: cfg.IncludeFailed,
		}
		req.Selection = core.Selection{Kind: core.CategorySelection, AxisKey: axisKey, Category: category}
		req.Categorical = &catReq
		if category == schema.OtherCategory {
			result := core.AggregateCategorical(ds, catReq)
			if members := result.OtherMembers[axisKey]; len(members) > 0 {
				req.Selection.Other = true
				req.Selection.OtherMembers = members
			}
		}
	}

	rows := core.DrilldownRows(ds, core.ResolveDrilldown(ds, req))
	jsonData, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStoreStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.mgr.GetResultStore()
	if store == nil {
		return mcp.NewToolResultError("no result store is configured"), nil
	}
	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status check failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
