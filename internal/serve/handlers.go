package serve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/annolab/pivot/core"
	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/schema"
)

// listEnvelope mirrors the collaborator API's collection wrapper so frontends
// can treat both services uniformly.
type listEnvelope struct {
	Data  any `json:"data"`
	Count int `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	store := s.mgr.GetResultStore()
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("no result store is configured"))
		return
	}
	status, err := store.GetStatus()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"backend": status.Backend,
		"results": status.Results,
	})
}

// GET /api/categories
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ds, err := core.LoadDataset(r.Context(), cfg, s.mgr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
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
	writeJSON(w, http.StatusOK, listEnvelope{Data: result, Count: len(result.AxisKeys)})
}

// GET /api/timeseries
func (s *Server) handleTimeseries(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ds, err := core.LoadDataset(r.Context(), cfg, s.mgr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	points := core.AggregateTimeSeries(ds, core.SeriesRequest{
		SchemaID:      cfg.SchemaID,
		TimeAxis:      cfg.TimeAxis,
		TimeField:     cfg.TimeField,
		TimeSchemaID:  cfg.TimeSchemaID,
		Granularity:   cfg.Granularity,
		IncludeFailed: cfg.IncludeFailed,
	})
	writeJSON(w, http.StatusOK, listEnvelope{Data: points, Count: len(points)})
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ds, err := core.LoadDataset(r.Context(), cfg, s.mgr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	results := ds.Results
	if cfg.SchemaID != 0 {
		filtered := make([]schema.AnnotationResult, 0, len(results))
		for _, res := range results {
			if res.SchemaID == cfg.SchemaID {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}
	sketches := core.ComputeFieldSketches(results, cfg.IncludeFailed)
	writeJSON(w, http.StatusOK, listEnvelope{Data: sketches, Count: len(sketches)})
}

// POST /api/drilldown
//
// The body carries the clicked point; the aggregation parameters arrive as
// query parameters identical to the GET endpoints, so the server recomputes
// with exactly the rules that produced the chart.
func (s *Server) handleDrilldown(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.requestConfig(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var sel core.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid selection body: %w", err))
		return
	}
	if sel.Kind == core.CategorySelection && sel.AxisKey == "" {
		sel.AxisKey = schema.AggregatedKey
	}

	ds, err := core.LoadDataset(r.Context(), cfg, s.mgr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	req := core.DrilldownRequest{Selection: sel}
	if sel.Kind == core.BucketSelection {
		seriesReq := core.SeriesRequest{
			SchemaID:      cfg.SchemaID,
			TimeAxis:      cfg.TimeAxis,
			TimeField:     cfg.TimeField,
			TimeSchemaID:  cfg.TimeSchemaID,
			Granularity:   cfg.Granularity,
			IncludeFailed: cfg.IncludeFailed,
		}
		req.Series = &seriesReq
	} else {
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
		req.Categorical = &catReq
		// Recover collapsed membership server-side when the caller did not
		// send it. When nothing was collapsed the selection stays a literal
		// category match, so a genuine "Other" label still resolves.
		if sel.Category == schema.OtherCategory && len(sel.OtherMembers) == 0 {
			result := core.AggregateCategorical(ds, catReq)
			if members := result.OtherMembers[sel.AxisKey]; len(members) > 0 {
				req.Selection.Other = true
				req.Selection.OtherMembers = members
			}
		}
	}

	rows := core.DrilldownRows(ds, core.ResolveDrilldown(ds, req))
	writeJSON(w, http.StatusOK, listEnvelope{Data: rows, Count: len(rows)})
}

// requestConfig clones the base config and applies query overrides.
func (s *Server) requestConfig(q url.Values) (*contract.Config, error) {
	cfg := s.baseCfg.Clone()
	var err error

	if v := q.Get("schema"); v != "" {
		if cfg.SchemaID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
	}
	if v := q.Get("field"); v != "" {
		cfg.FieldPath = v
	}
	if v := q.Get("run"); v != "" {
		if cfg.RunID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid run: %w", err)
		}
	}
	if v := q.Get("axis"); v != "" {
		if cfg.Axis, err = schema.ParseGroupAxis(v); err != nil {
			return nil, err
		}
	}
	if v := q.Get("split_field"); v != "" {
		cfg.SplitField = v
	}
	if v := q.Get("split_schema"); v != "" {
		if cfg.SplitSchemaID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid split_schema: %w", err)
		}
	}
	if v := q.Get("max_slices"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return nil, fmt.Errorf("invalid max_slices: %w", convErr)
		}
		if n != 0 && n < contract.MinMaxSlices {
			return nil, fmt.Errorf("max_slices must be at least %d", contract.MinMaxSlices)
		}
		cfg.MaxSlices = n
	}
	if v := q.Get("aliases"); v != "" {
		if cfg.Aliases, err = contract.ParseAliases(v); err != nil {
			return nil, err
		}
	}
	if v := q.Get("granularity"); v != "" {
		if cfg.Granularity, err = schema.ParseGranularity(v); err != nil {
			return nil, err
		}
	}
	if v := q.Get("time_axis"); v != "" {
		if cfg.TimeAxis, err = schema.ParseTimeAxisMode(v); err != nil {
			return nil, err
		}
	}
	if v := q.Get("time_field"); v != "" {
		cfg.TimeField = v
	}
	if v := q.Get("time_schema"); v != "" {
		if cfg.TimeSchemaID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid time_schema: %w", err)
		}
	}
	if v := q.Get("include_failed"); v != "" {
		cfg.IncludeFailed = v == "true" || v == "1"
	}
	if filters, ok := q["filter"]; ok {
		cfg.Filters = filters
	}
	if v := q.Get("filter_logic"); v != "" {
		if cfg.FilterLogic, err = schema.ParseFilterLogic(v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
