package serve

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annolab/pivot/internal/contract"
	"github.com/annolab/pivot/internal/iostore"
	"github.com/annolab/pivot/schema"
)

type testManager struct {
	store contract.ResultStore
}

func (m *testManager) GetResultStore() contract.ResultStore { return m.store }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := iostore.NewMemoryStore()
	require.NoError(t, store.SaveSchemas([]schema.AnnotationSchema{
		{ID: 7, Name: "sentiment", OutputContract: map[string]any{
			"properties": map[string]any{
				"sentiment": map[string]any{"type": "string"},
			},
		}},
	}))
	require.NoError(t, store.SaveSources([]schema.Source{{ID: 1, Name: "Newswire"}}))
	require.NoError(t, store.SaveAssets([]schema.Asset{
		{ID: 10, Title: "Article A", SourceID: 1},
		{ID: 11, Title: "Article B", SourceID: 1},
	}))
	require.NoError(t, store.SaveResults([]schema.AnnotationResult{
		{ID: 1, AssetID: 10, SchemaID: 7, Value: map[string]any{"sentiment": "Positive"},
			Status: schema.StatusSuccess, Timestamp: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 2, AssetID: 11, SchemaID: 7, Value: map[string]any{"sentiment": "Positive"},
			Status: schema.StatusSuccess, Timestamp: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: 3, AssetID: 10, SchemaID: 7, Value: map[string]any{"sentiment": "Negative"},
			Status: schema.StatusSuccess, Timestamp: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
	}))

	cfg := &contract.Config{
		Granularity: schema.MonthGranularity,
		ResultLimit: contract.DefaultResultLimit,
	}
	srv := httptest.NewServer(NewServer(cfg, &testManager{store: store}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]any
	resp := getJSON(t, srv.URL+"/healthz", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["results"])
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Data  schema.CategoricalResult `json:"data"`
		Count int                      `json:"count"`
	}
	resp := getJSON(t, srv.URL+"/api/categories?schema=7&field=sentiment", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, body.Count)
	points := body.Data.Buckets[schema.AggregatedKey]
	require.Len(t, points, 2)
	assert.Equal(t, "Positive", points[0].Category)
	assert.Equal(t, 2, points[0].Count)
}

func TestCategoriesEndpointBadAxis(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/api/categories?schema=7&field=sentiment&axis=bogus", &body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "bogus")
}

func TestTimeseriesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Data  []schema.ChartPoint `json:"data"`
		Count int                 `json:"count"`
	}
	resp := getJSON(t, srv.URL+"/api/timeseries?schema=7&granularity=month", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "2024-01", body.Data[0].Key)
	assert.Equal(t, 2, body.Data[0].Count)
	assert.Equal(t, "2024-02", body.Data[1].Key)
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Data  []schema.FieldSketch `json:"data"`
		Count int                  `json:"count"`
	}
	resp := getJSON(t, srv.URL+"/api/stats?schema=7", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "sentiment", body.Data[0].FieldPath)
	assert.Equal(t, schema.TopKSketch, body.Data[0].Sketch)
}

func TestDrilldownEndpoint(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"kind":"category","category":"Positive"}`
	resp, err := http.Post(srv.URL+"/api/drilldown?schema=7&field=sentiment", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Data  []schema.DrilldownRow `json:"data"`
		Count int                   `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Article A", body.Data[0].AssetTitle)
	assert.Equal(t, "Newswire", body.Data[0].SourceName)
}

func TestDrilldownEndpointBucket(t *testing.T) {
	srv := newTestServer(t)

	payload := `{"kind":"bucket","bucket_key":"2024-01"}`
	resp, err := http.Post(srv.URL+"/api/drilldown?schema=7", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Data  []schema.DrilldownRow `json:"data"`
		Count int                   `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, body.Count)
}

func TestDrilldownEndpointBadBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/drilldown", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFilterQueryParam(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Data  schema.CategoricalResult `json:"data"`
		Count int                      `json:"count"`
	}
	resp := getJSON(t, srv.URL+"/api/categories?schema=7&field=sentiment&filter=sentiment:eq:Negative", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	points := body.Data.Buckets[schema.AggregatedKey]
	require.Len(t, points, 1)
	assert.Equal(t, "Negative", points[0].Category)
}

func TestFilterLogicQueryParam(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Data  schema.CategoricalResult `json:"data"`
		Count int                      `json:"count"`
	}
	url := srv.URL + "/api/categories?schema=7&field=sentiment" +
		"&filter=sentiment:eq:Negative&filter=sentiment:eq:Positive&filter_logic=or"
	resp := getJSON(t, url, &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body.Data.Buckets[schema.AggregatedKey], 2)

	var errBody map[string]string
	resp = getJSON(t, srv.URL+"/api/categories?schema=7&field=sentiment&filter_logic=nand", &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errBody["error"], "invalid filter logic")
}
