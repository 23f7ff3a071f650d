package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/beamtime/internal/config"
	"github.com/jpl-au/beamtime/internal/path"
	"github.com/jpl-au/beamtime/internal/queue"
	"github.com/jpl-au/beamtime/internal/service"
	"github.com/jpl-au/beamtime/internal/store"
	"github.com/jpl-au/beamtime/internal/validate"
)

// fakeService records calls and returns canned data.
type fakeService struct {
	records   map[store.Kind][]store.Record
	templates map[[2]int64]string
	exps      []service.Experiment
	expFilter store.ExperimentFilter
	ingested  []queue.Row
	ingestErr error
	checkErr  error
	panicOn   string
}

func (f *fakeService) Close() error { return nil }

func (f *fakeService) List(_ context.Context, k store.Kind) ([]store.Record, error) {
	return f.records[k], nil
}

func (f *fakeService) Filtered(_ context.Context, k store.Kind, _ store.Filter) ([]store.Record, error) {
	return f.records[k], nil
}

func (f *fakeService) Experiments(_ context.Context, filter store.ExperimentFilter) ([]service.Experiment, error) {
	f.expFilter = filter
	return f.exps, nil
}

func (f *fakeService) DataPath(_ context.Context, station, technique int64) (string, error) {
	return f.templates[[2]int64{station, technique}], nil
}

func (f *fakeService) LastModified(context.Context) (string, error) { return "2025-03-14 09:26:53", nil }
func (f *fakeService) Beamline() string                             { return "13-BM-C" }
func (f *fakeService) DefaultPath() string                          { return "/cars5/Data/2025/Oct" }

func (f *fakeService) CheckPath(_ context.Context, p string, _ service.Origin) (path.Result, error) {
	if p == f.panicOn {
		panic("probe exploded")
	}
	if f.checkErr != nil {
		return path.Result{}, f.checkErr
	}
	return path.Check(p), nil
}

func (f *fakeService) Ingest(_ context.Context, rows []queue.Row, _ service.Origin) (queue.Result, error) {
	if f.ingestErr != nil {
		return queue.Result{}, f.ingestErr
	}
	f.ingested = rows
	kept := queue.Filter(rows)
	return queue.Result{Success: len(kept)}, nil
}

func (f *fakeService) QueueRows(context.Context) ([]store.Queue, error) { return nil, nil }

func (f *fakeService) Seed(context.Context, *service.Reference) (map[store.Kind]int, error) {
	return nil, nil
}

func (f *fakeService) Config() *config.Config                        { return &config.Config{} }
func (f *fakeService) SetConfig(*config.Config)                      {}
func (f *fakeService) DB() *sql.DB                                   { return nil }
func (f *fakeService) Tx(context.Context, func(*sql.Tx) error) error { return nil }
func (f *fakeService) Checkpoint(context.Context) error              { return nil }

func newFake() *fakeService {
	return &fakeService{
		records: map[store.Kind][]store.Record{
			store.KindAcknowledgment: {{"id": int64(1), "title": "NSF", "text": "Supported by NSF"}},
			store.KindRun:            {{"id": int64(1), "name": "2025-1"}, {"id": int64(2), "name": "2025-2"}},
			store.KindBeamline:       {{"id": int64(10), "name": "13-BM-C"}},
		},
		templates: map[[2]int64]string{{3, 4}: "/cars5/Data/{YEAR}/{MONTH}"},
		exps: []service.Experiment{
			{ID: 100, Title: "Powder <XRD>", Proposal: "5001", ProcessStatus: "Processed", UserFolder: "N/A"},
		},
	}
}

func serve(t *testing.T, svc service.Service, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	s, err := New(svc, Options{LogLevel: "off"})
	require.NoError(t, err)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestRedirect(t *testing.T) {
	rec := serve(t, newFake(), http.MethodGet, "/?run=2&beamline=10", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/v1/?run=2&beamline=10", rec.Header().Get(echo.HeaderLocation))

	rec = serve(t, newFake(), http.MethodGet, "/", "")
	assert.Equal(t, "/api/v1/", rec.Header().Get(echo.HeaderLocation))
}

func TestHealthz(t *testing.T) {
	rec := serve(t, newFake(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["message"])
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHome(t *testing.T) {
	f := newFake()
	rec := serve(t, f, http.MethodGet, "/api/v1/?run=2&beamline=bogus", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, store.ExperimentFilter{Run: 2}, f.expFilter)
	assert.Contains(t, body, "13-BM-C")
	assert.Contains(t, body, "/cars5/Data/2025/Oct")
	assert.Contains(t, body, "Powder &lt;XRD&gt;")
	assert.Contains(t, body, "Catalog updated 2025-03-14 09:26:53")
	assert.Contains(t, body, `<option value="2" selected>2025-2</option>`)
	assert.Contains(t, body, `<option value="1">2025-1</option>`)
}

func TestAcknowledgments(t *testing.T) {
	rec := serve(t, newFake(), http.MethodGet, "/api/v1/get_acknowledgments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "NSF", rows[0]["title"])

	rec = serve(t, &fakeService{}, http.MethodGet, "/api/v1/get_acknowledgments", "")
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDataPath(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  int
		body  string
	}{
		{"found", "station_id=3&technique_id=4", http.StatusOK, "/cars5/Data/{YEAR}/{MONTH}"},
		{"none configured", "station_id=3&technique_id=5", http.StatusOK, ""},
		{"missing technique", "station_id=3", http.StatusBadRequest, ""},
		{"invalid station", "station_id=x&technique_id=4", http.StatusBadRequest, ""},
		{"zero station", "station_id=0&technique_id=4", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, newFake(), http.MethodGet, "/api/v1/get_data_path?"+tt.query, "")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestQueue(t *testing.T) {
	f := newFake()
	rec := serve(t, f, http.MethodPost, "/api/v1/create_update_queue",
		`{"rows":[{"title":"A","experiment_number":7},{"title":"N/A","doi":true}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":1,"failure":0}`, rec.Body.String())
	require.Len(t, f.ingested, 2)
	assert.Equal(t, json.Number("7"), f.ingested[0]["experiment_number"])

	rec = serve(t, f, http.MethodPost, "/api/v1/create_update_queue", `{"rows":[]}`)
	assert.JSONEq(t, `{"success":0,"failure":0}`, rec.Body.String())
}

func TestQueue_Errors(t *testing.T) {
	rec := serve(t, newFake(), http.MethodPost, "/api/v1/create_update_queue", `{"rows":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid JSON body", decode(t, rec)["error"])

	f := newFake()
	f.ingestErr = validate.ErrBatchTooLarge
	rec = serve(t, f, http.MethodPost, "/api/v1/create_update_queue", `{"rows":[{"title":"A"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.ingestErr = errors.New("disk on fire")
	rec = serve(t, f, http.MethodPost, "/api/v1/create_update_queue", `{"rows":[{"title":"A"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decode(t, rec)["error"])
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	rec := serve(t, newFake(), http.MethodPost, "/api/v1/validate_data_path", `{"path":`+strconvQuote(dir)+`}`)
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode(t, rec)
	assert.Equal(t, true, m["valid"])
	assert.Equal(t, true, m["exists"])
	assert.Equal(t, path.MsgExists, m["message"])

	rec = serve(t, newFake(), http.MethodPost, "/api/v1/validate_data_path", `{"path":"https://example.com/x"}`)
	assert.JSONEq(t, `{"valid":true,"exists":false,"normalized":"https://example.com/x","message":"Path is valid"}`, rec.Body.String())

	rec = serve(t, newFake(), http.MethodPost, "/api/v1/validate_data_path", `{"path":"a<b"}`)
	assert.JSONEq(t, `{"valid":false,"exists":false,"normalized":"","message":"Path contains invalid characters"}`, rec.Body.String())
}

func TestValidatePath_Required(t *testing.T) {
	for _, body := range []string{`{}`, `{"path":null}`, `{"path":""}`, `{"path":"   "}`, `{"path":3}`, `not json`} {
		t.Run(body, func(t *testing.T) {
			rec := serve(t, newFake(), http.MethodPost, "/api/v1/validate_data_path", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, MsgPathRequired, decode(t, rec)["error"])
		})
	}
}

func TestValidatePath_Failures(t *testing.T) {
	f := newFake()
	f.panicOn = "/boom"
	rec := serve(t, f, http.MethodPost, "/api/v1/validate_data_path", `{"path":"/boom"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error validating path: probe exploded", decode(t, rec)["error"])

	f = newFake()
	f.checkErr = validate.ErrPathTooLong
	rec = serve(t, f, http.MethodPost, "/api/v1/validate_data_path", `{"path":"/data"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.checkErr = errors.New("stat failed")
	rec = serve(t, f, http.MethodPost, "/api/v1/validate_data_path", `{"path":"/data"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error validating path: stat failed", decode(t, rec)["error"])
}

func TestNotFound(t *testing.T) {
	rec := serve(t, newFake(), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decode(t, rec)["error"])
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
