package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinityps/rental-engine/app"
	"github.com/infinityps/rental-engine/calendar"
	"github.com/infinityps/rental-engine/loyalty"
	"github.com/infinityps/rental-engine/store"
)

var wib = time.FixedZone("WIB", 7*3600)

// Tuesday, 2026-W36.
var t0 = time.Date(2026, 9, 1, 10, 0, 0, 0, wib)

func newTestServer(t *testing.T) (*httptest.Server, *app.State) {
	t.Helper()
	state, err := app.New(context.Background(), app.Options{
		Storage:    store.NewMemory(),
		Clock:      calendar.FixedClock{Instant: t0},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Location:   wib,
		UnitCount:  2,
		HourlyRate: decimal.NewFromInt(6000),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(NewHandler(state)))
	t.Cleanup(srv.Close)
	return srv, state
}

func doJSON(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func TestRecordSessionEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	// GIVEN a new student name WHEN a 3-hour session is posted
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/players/sessions",
		`{"name":"Budi","category":"SD","hours":"3"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var res SessionResultDTO
	decodeBody(t, resp, &res)
	assert.True(t, res.Created)
	assert.Equal(t, "Budi", res.PlayerName)
	assert.Zero(t, res.VouchersEarned)

	// A second session crosses the 5-hour line and earns one voucher.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/players/sessions",
		`{"name":"budi","category":"SD","hours":"3"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &res)
	assert.False(t, res.Created)
	assert.Equal(t, 1, res.VouchersEarned)
	assert.Equal(t, 1, res.Vouchers)
}

func TestRecordSessionRejectsPromoOverrun(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/players/sessions",
		`{"name":"Budi","category":"SMP","hours":"4"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e ErrorResponse
	decodeBody(t, resp, &e)
	assert.Equal(t, "Session rejected", e.Error)
}

func TestPlayerLifecycleEndpoints(t *testing.T) {
	srv, state := newTestServer(t)
	ctx := context.Background()

	res, err := state.RecordSession(ctx, "Budi", loyalty.CategoryPrimary, decimal.NewFromInt(2))
	require.NoError(t, err)
	id := res.Player.ID

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/players/"+id,
		`{"name":"Budi Santoso","category":"Umum","notes":"regular","accumulatedHours":"1.5"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/players?search=santoso", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var players []loyalty.Player
	decodeBody(t, resp, &players)
	require.Len(t, players, 1)
	assert.Equal(t, loyalty.CategoryGeneral, players[0].Category)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/players/"+id, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/players/"+id, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUnitEndpoints(t *testing.T) {
	srv, state := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/units/1/start",
		`{"customerName":"Budi","minutes":30}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Starting an occupied unit conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/units/1/start",
		`{"customerName":"Sari","minutes":60}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// A made-up unit is 404.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/units/99/stop", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/units/1/stop", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/units/1/confirm", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	require.Len(t, state.History(), 1)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/units/estimate?minutes=120", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var est map[string]string
	decodeBody(t, resp, &est)
	assert.Equal(t, "12000", est["cost"])
}

func TestRentalEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rentals",
		`{"customerName":"Sari","address":"Jl. Melati 5","type":"PS_TV","hours":12,"discount":"5000"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID         string `json:"id"`
		TotalPrice string `json:"totalPrice"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, "55000", created.TotalPrice)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rentals", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []RentalDTO
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "12:00:00", list[0].Countdown)
	assert.False(t, list[0].IsOverdue)

	// The sticky preference follows the last created rental.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rentals/preference", "")
	var pref map[string]string
	decodeBody(t, resp, &pref)
	assert.Equal(t, "PS_TV", pref["type"])

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/rentals/"+created.ID+"/return", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/rentals/"+created.ID+"/return", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRentalValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing address", `{"customerName":"Sari","type":"PS_ONLY","hours":6}`},
		{"unknown package", `{"customerName":"Sari","address":"x","type":"PS_VR","hours":6}`},
		{"unknown tier", `{"customerName":"Sari","address":"x","type":"PS_ONLY","hours":7}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/rentals", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			resp.Body.Close()
		})
	}
}

func TestReportAndExportEndpoints(t *testing.T) {
	srv, state := newTestServer(t)
	ctx := context.Background()

	r, err := state.CreateRental(ctx, "Sari", "Jl. Melati 5", "PS_ONLY", 6, decimal.Zero)
	require.NoError(t, err)
	_, err = state.ReturnRental(ctx, r.ID)
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/reports?type=RENTAL", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rep struct {
		TotalRevenue string `json:"totalRevenue"`
		Count        int    `json:"count"`
	}
	decodeBody(t, resp, &rep)
	assert.Equal(t, 1, rep.Count)
	assert.Equal(t, "25000", rep.TotalRevenue)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/reports?from=oops", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/exports/history.xlsx", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "laporan.xlsx")
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/exports/history.pdf", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/history", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	assert.Empty(t, state.History())
}

func TestMetaAndThemeEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/meta", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var meta MetaDTO
	decodeBody(t, resp, &meta)
	assert.Equal(t, 36, meta.WeekNumber)
	assert.Equal(t, "dark", meta.Theme)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/theme", `{"theme":"light"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/theme", `{"theme":"neon"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestResetEndpoint(t *testing.T) {
	srv, state := newTestServer(t)
	ctx := context.Background()

	_, err := state.RecordSession(ctx, "Budi", loyalty.CategoryPrimary, decimal.NewFromInt(2))
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/reset", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, state.Players(loyalty.ListOptions{}))
}
