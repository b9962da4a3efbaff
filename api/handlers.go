/*
handlers.go - HTTP handlers for the operator API

PURPOSE:
  Exposes the rental engine to the desk view. Handlers parse and validate
  the request, delegate to the state controller, and serialize the result.
  No business rules live here.

ENDPOINTS:
  Players:
    GET    /api/players                List (search/category/sort query)
    POST   /api/players/sessions      Record a loyalty session
    GET    /api/players/top            Lifetime-hours leaderboard
    PUT    /api/players/{id}           Edit profile
    DELETE /api/players/{id}           Remove player
    POST   /api/players/{id}/redeem    Burn one voucher
    POST   /api/players/reset-week     Force the weekly reset
    GET    /api/players/export         JSON backup
    POST   /api/players/import         Wholesale restore

  Units:
    GET    /api/units                  Fleet snapshot
    GET    /api/units/estimate         Price a preset (?minutes=)
    POST   /api/units/{id}/start       Start the timer
    POST   /api/units/{id}/stop        Stop early
    POST   /api/units/{id}/confirm     Bill and free the unit
    POST   /api/units/{id}/cancel      Discard without billing

  Rentals:
    GET    /api/rentals                Active rentals with countdowns
    POST   /api/rentals                Open a rental
    POST   /api/rentals/{id}/extend    Add a tier
    POST   /api/rentals/{id}/return    Close and bill
    GET    /api/rentals/preference     Sticky package type

  Reports:
    GET    /api/reports                Filtered aggregation
    GET    /api/ranks                  Customer spend tiers
    GET    /api/history                Raw log, DELETE clears it
    GET    /api/exports/history.{json,xlsx,pdf}

  Misc:
    GET    /api/meta                   Week number, countdown, theme
    PUT    /api/theme                  Persist theme preference
    POST   /api/reset                  Wholesale application reset

ERROR HANDLING:
  Errors come back as JSON:
  - 400: validation failures, malformed bodies
  - 404: unknown unit or rental
  - 409: unit in the wrong state for the action
  - 500: storage failures

SEE ALSO:
  - dto.go: wire shapes
  - server.go: routing and middleware
  - app/state.go: the controller every handler delegates to
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/infinityps/rental-engine/app"
	"github.com/infinityps/rental-engine/loyalty"
	"github.com/infinityps/rental-engine/rentals"
	"github.com/infinityps/rental-engine/reporting"
	"github.com/infinityps/rental-engine/sessions"
)

// PDFTitle heads the exported financial report.
const PDFTitle = "Laporan Keuangan Infinity PS"

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	State *app.State
}

// NewHandler wraps a state controller.
func NewHandler(state *app.State) *Handler {
	return &Handler{State: state}
}

// =============================================================================
// PLAYER ENDPOINTS
// =============================================================================

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	players := h.State.Players(loyalty.ListOptions{
		Search:   q.Get("search"),
		Category: loyalty.Category(q.Get("category")),
		SortBy:   loyalty.SortKey(q.Get("sort")),
	})
	writeJSON(w, http.StatusOK, players)
}

func (h *Handler) TopPlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.State.TopPlayers(5))
}

func (h *Handler) RecordSession(w http.ResponseWriter, r *http.Request) {
	var req RecordSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	hours, err := decimal.NewFromString(req.Hours)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hours value", err)
		return
	}

	res, err := h.State.RecordSession(r.Context(), req.Name, loyalty.Category(req.Category), hours)
	if err != nil {
		if loyalty.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "Session rejected", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record session", err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, SessionResultDTO{
		PlayerID:       res.Player.ID,
		PlayerName:     res.Player.Name,
		VouchersEarned: res.VouchersEarned,
		Vouchers:       res.Player.Vouchers,
		Created:        res.Created,
	})
}

func (h *Handler) RedeemVoucher(w http.ResponseWriter, r *http.Request) {
	redeemed, err := h.State.RedeemVoucher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to redeem voucher", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"redeemed": redeemed})
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ok, err := h.State.UpdateProfile(r.Context(), chi.URLParam(r, "id"), loyalty.ProfileUpdate{
		Name:             req.Name,
		Category:         loyalty.Category(req.Category),
		Notes:            req.Notes,
		AccumulatedHours: req.AccumulatedHours,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update player", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Player not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ok, err := h.State.DeletePlayer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete player", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Player not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResetWeek(w http.ResponseWriter, r *http.Request) {
	if err := h.State.ResetWeek(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset week", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportPlayers(w http.ResponseWriter, r *http.Request) {
	data, err := h.State.ExportPlayers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export players", err)
		return
	}
	writeAttachment(w, "players.json", "application/json", data)
}

func (h *Handler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}
	n, err := h.State.ImportPlayers(r.Context(), data)
	if err != nil {
		if errors.Is(err, loyalty.ErrMalformedBackup) {
			writeError(w, http.StatusBadRequest, "Backup payload rejected", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to import players", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// =============================================================================
// UNIT ENDPOINTS
// =============================================================================

func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units := h.State.Units()
	dtos := make([]UnitDTO, len(units))
	for i, u := range units {
		dtos[i] = UnitDTO{Unit: u, HourlyRate: h.State.EstimateCost(60).StringFixed(0)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) EstimateCost(w http.ResponseWriter, r *http.Request) {
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid minutes value", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"cost": h.State.EstimateCost(minutes).StringFixed(0),
	})
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	id, err := unitID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid unit id", err)
		return
	}
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.State.StartSession(id, req.Minutes, req.CustomerName); err != nil {
		writeUnitError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	id, err := unitID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid unit id", err)
		return
	}
	if err := h.State.StopSession(id); err != nil {
		writeUnitError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	id, err := unitID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid unit id", err)
		return
	}
	rec, err := h.State.ConfirmSession(r.Context(), id)
	if err != nil {
		writeUnitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	id, err := unitID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid unit id", err)
		return
	}
	if err := h.State.CancelSession(id); err != nil {
		writeUnitError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RENTAL ENDPOINTS
// =============================================================================

func (h *Handler) ListRentals(w http.ResponseWriter, r *http.Request) {
	now := h.State.Now()
	active := h.State.Rentals()
	dtos := make([]RentalDTO, len(active))
	for i, rental := range active {
		cd := rental.Clock(now)
		dtos[i] = RentalDTO{Rental: rental, Countdown: cd.Text, IsOverdue: cd.IsOverdue}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req CreateRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	discount := decimal.Zero
	if req.Discount != "" {
		var err error
		if discount, err = decimal.NewFromString(req.Discount); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid discount value", err)
			return
		}
	}

	rental, err := h.State.CreateRental(r.Context(),
		req.CustomerName, req.Address, rentals.PackageType(req.Type), req.Hours, discount)
	if err != nil {
		writeRentalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *Handler) ExtendRental(w http.ResponseWriter, r *http.Request) {
	var req ExtendRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rental, err := h.State.ExtendRental(r.Context(), chi.URLParam(r, "id"), req.Hours)
	if err != nil {
		writeRentalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *Handler) ReturnRental(w http.ResponseWriter, r *http.Request) {
	rec, err := h.State.ReturnRental(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRentalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) RentalPreference(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"type": string(h.State.LastRentalType())})
}

// =============================================================================
// REPORT ENDPOINTS
// =============================================================================

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	f, err := h.parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}
	writeJSON(w, http.StatusOK, h.State.Report(f))
}

func (h *Handler) ListRanks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.State.CustomerRanks())
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.State.History())
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.State.ClearHistory(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportHistoryJSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.State.ExportHistoryJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export history", err)
		return
	}
	writeAttachment(w, "history.json", "application/json", data)
}

func (h *Handler) ExportHistoryXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.State.ExportHistoryXLSX()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export workbook", err)
		return
	}
	writeAttachment(w, "laporan.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) ExportHistoryPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.State.ExportHistoryPDF(PDFTitle)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export PDF", err)
		return
	}
	writeAttachment(w, "laporan.pdf", "application/pdf", data)
}

func (h *Handler) parseFilter(r *http.Request) (reporting.Filter, error) {
	q := r.URL.Query()
	f := reporting.Filter{
		Type:     reporting.RecordType(q.Get("type")),
		Package:  q.Get("package"),
		Customer: q.Get("customer"),
	}
	loc := h.State.Location()
	if v := q.Get("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			return reporting.Filter{}, err
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			return reporting.Filter{}, err
		}
		f.To = t
	}
	return f, nil
}

// =============================================================================
// META ENDPOINTS
// =============================================================================

func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MetaDTO{
		WeekNumber: h.State.WeekNumber(),
		Countdown:  h.State.PromoCountdown(),
		Theme:      h.State.Theme(),
	})
}

func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.State.SetTheme(r.Context(), req.Theme); err != nil {
		writeError(w, http.StatusBadRequest, "Theme rejected", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.State.ResetAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset application", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func unitID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func writeUnitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessions.ErrUnitNotFound):
		writeError(w, http.StatusNotFound, "Unit not found", err)
	case errors.Is(err, sessions.ErrUnitNotIdle),
		errors.Is(err, sessions.ErrUnitNotRunning),
		errors.Is(err, sessions.ErrUnitNotFinished):
		writeError(w, http.StatusConflict, "Unit is in the wrong state", err)
	case errors.Is(err, sessions.ErrEmptyCustomer),
		errors.Is(err, sessions.ErrInvalidPreset):
		writeError(w, http.StatusBadRequest, "Session rejected", err)
	default:
		writeError(w, http.StatusInternalServerError, "Session operation failed", err)
	}
}

func writeRentalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rentals.ErrRentalNotFound):
		writeError(w, http.StatusNotFound, "Rental not found", err)
	case errors.Is(err, rentals.ErrEmptyCustomer),
		errors.Is(err, rentals.ErrEmptyAddress),
		errors.Is(err, rentals.ErrUnknownPackage),
		errors.Is(err, rentals.ErrUnknownTier):
		writeError(w, http.StatusBadRequest, "Rental rejected", err)
	default:
		writeError(w, http.StatusInternalServerError, "Rental operation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
