package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyleft/internal/log"
	"moneyleft/internal/storage/memory"
	"moneyleft/internal/tax"
	"moneyleft/internal/tools"
)

type envelope struct {
	OK     bool             `json:"ok"`
	Result json.RawMessage  `json:"result"`
	Error  *tools.ErrorBody `json:"error"`
}

func newTestServer(t *testing.T, opts Options) (*Server, *memory.Store) {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	store := memory.NewWithClock(now)
	svcs, err := tools.NewServices(store, tax.DefaultTable(), now)
	require.NoError(t, err)

	var logs bytes.Buffer
	opts.Logger = log.New(log.Config{Writer: &logs})
	reg := tools.NewRegistry(tools.WithLogger(opts.Logger))
	tools.RegisterLedgerTools(reg, svcs)

	srv := NewServer(":0", reg, store, opts)
	t.Cleanup(func() { srv.limiter.Stop() })
	return srv, store
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func TestHealthAndReady(t *testing.T) {
	srv, store := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = do(t, srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, store.Close())
	rr = do(t, srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
}

func TestListTools(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Tools []tools.Info `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Tools, 21)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
}

func TestCallTool_RecordThenVisualize(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodPost, "/tools/record_cash_flow", `{"amount":-12.5,"category":"food","description":"lunch"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decodeEnvelope(t, rr).OK)

	rr = do(t, srv, http.MethodPost, "/tools/spending_visualizer", `{"filter":{"type":"Today"}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var totals map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Result, &totals))
	assert.Equal(t, map[string]string{"FOOD": "-12.5"}, totals)
}

func TestCallTool_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantType string
	}{
		{"unknown tool", "/tools/nope", `{}`, http.StatusNotFound, tools.ErrorTypeNotFound},
		{"malformed json", "/tools/simulate_tax", `{"year":`, http.StatusBadRequest, tools.ErrorTypeInvalidInput},
		{"unknown field", "/tools/simulate_tax", `{"year":2025,"extra":1}`, http.StatusBadRequest, tools.ErrorTypeInvalidInput},
		{"reversed range", "/tools/spending_scanner",
			`{"filter":{"type":"Custom","value":{"start":"2025-02-01","end":"2025-01-01"}}}`,
			http.StatusBadRequest, tools.ErrorTypeInvalidInput},
		{"missing id", "/tools/remove_tax_deduction_list", `{"id":999}`, http.StatusNotFound, tools.ErrorTypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, Options{})
			rr := do(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rr.Code, rr.Body.String())

			env := decodeEnvelope(t, rr)
			assert.False(t, env.OK)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantType, env.Error.Type)
		})
	}
}

func TestCallTool_StorageUnavailable(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	require.NoError(t, store.Close())

	rr := do(t, srv, http.MethodPost, "/tools/view_all_debts", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, tools.ErrorTypeStorageUnavailable, decodeEnvelope(t, rr).Error.Type)
}

func TestCallTool_BodyLimit(t *testing.T) {
	srv, _ := newTestServer(t, Options{MaxBodyBytes: 16})

	rr := do(t, srv, http.MethodPost, "/tools/simulate_tax", `{"year":2025,"padding":"xxxxxxxxxxxxxxxx"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, tools.ErrorTypeInvalidInput, decodeEnvelope(t, rr).Error.Type)
}

func TestCallTool_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rr := do(t, srv, http.MethodGet, "/tools/simulate_tax", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCallTool_RateLimited(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		rr := do(t, srv, http.MethodPost, "/tools/view_all_debts", `{}`)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	rr := do(t, srv, http.MethodPost, "/tools/view_all_debts", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "rate_limited", decodeEnvelope(t, rr).Error.Type)

	rr = do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code, "health checks are not rate limited")

	assert.Equal(t, int64(1), srv.Metrics().RateLimit.TotalHits)
}

func TestResponsesCarryHeaders(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rr := do(t, srv, http.MethodGet, "/tools", "")

	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", rr.Header().Get("Content-Security-Policy"))
	assert.Equal(t, int64(1), srv.Metrics().Trace.TotalRequests)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(tools.Envelope{OK: true}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errorEnvelope(tools.ErrorTypeInternal, "x")))
}
