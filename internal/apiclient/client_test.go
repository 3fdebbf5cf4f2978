package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/pivot/schema"
)

func TestFetchResultsPaginates(t *testing.T) {
	all := make([]schema.AnnotationResult, 5)
	for i := range all {
		all[i] = schema.AnnotationResult{ID: int64(i + 1), SchemaID: 7, Status: schema.StatusSuccess}
	}

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/annotations", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		end := min(skip+limit, len(all))
		start := min(skip, len(all))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  all[start:end],
			"count": len(all),
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "secret-token", 2)
	results, err := client.FetchResults(context.Background(), 0)
	require.NoError(t, err)

	assert.Len(t, results, 5)
	assert.Equal(t, int64(1), results[0].ID)
	assert.Equal(t, int64(5), results[4].ID)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestFetchResultsRunFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("run_id"))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []schema.AnnotationResult{}, "count": 0})
	}))
	defer srv.Close()

	client := New(srv.URL, "", 100)
	results, err := client.FetchResults(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFetchSchemasErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, "", 100)
	_, err := client.FetchSchemas(context.Background())
	assert.ErrorContains(t, err, "status 500")
}

func TestFetchAssetsDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 3, "title": "Launch memo", "source_id": 9},
			},
			"count": 1,
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "", 100)
	assets, err := client.FetchAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "Launch memo", assets[0].Title)
	assert.Equal(t, int64(9), assets[0].SourceID)
}
