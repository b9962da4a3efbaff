/*
Package app owns the live application state and its persistence.

PURPOSE:
  State is the single front door for every mutation: loyalty sessions,
  voucher redemptions, console timers, fixed-term rentals, history, and the
  two sticky preferences. It holds the domain aggregates in memory, guards
  them with one mutex, and writes the affected storage blob after each
  successful mutation (save-on-mutation, last writer wins).

STARTUP:
  New() loads every blob from Storage, tolerating absent keys, then eagerly
  reconciles stale loyalty weeks so a machine that slept through Monday
  comes up already reset.

SEE ALSO:
  - ticker.go: the background loops that drive timers and keep
    the week countdown fresh
  - store/store.go: the Storage capability and its keys
*/
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/infinityps/rental-engine/calendar"
	"github.com/infinityps/rental-engine/loyalty"
	"github.com/infinityps/rental-engine/rentals"
	"github.com/infinityps/rental-engine/reporting"
	"github.com/infinityps/rental-engine/sessions"
	"github.com/infinityps/rental-engine/store"
)

// =============================================================================
// STATE
// =============================================================================

// Options configures a State.
type Options struct {
	Storage    store.Storage
	Clock      calendar.Clock
	Logger     *slog.Logger
	Location   *time.Location
	UnitCount  int
	HourlyRate decimal.Decimal
}

// State is the application-state controller. All access goes through its
// methods; the zero value is not usable, construct with New.
type State struct {
	mu      sync.Mutex
	storage store.Storage
	clock   calendar.Clock
	log     *slog.Logger
	loc     *time.Location

	roster  *loyalty.Roster
	fleet   *sessions.Fleet
	tracker *rentals.Tracker
	history []reporting.HistoryRecord

	theme          string
	lastRentalType rentals.PackageType

	// countdown is refreshed by the slow ticker and served to the header.
	countdown calendar.WeekCountdown
}

// New loads persisted state and returns a ready controller.
func New(ctx context.Context, opts Options) (*State, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = calendar.SystemClock{Location: opts.Location}
	}

	s := &State{
		storage:        opts.Storage,
		clock:          opts.Clock,
		log:            opts.Logger,
		loc:            opts.Location,
		fleet:          sessions.NewFleet(opts.UnitCount, opts.HourlyRate),
		theme:          "dark",
		lastRentalType: rentals.PackagePSOnly,
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	s.countdown = calendar.UntilNextMonday(now)

	// Catch up any weeks that rolled over while the process was down.
	if n := s.roster.ReconcileAll(calendar.WeekLabel(now)); n > 0 {
		s.log.Info("reconciled stale loyalty weeks", "players", n)
		if err := s.savePlayers(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *State) load(ctx context.Context) error {
	var players []loyalty.Player
	if raw, ok, err := s.storage.Get(ctx, store.KeyPlayers); err != nil {
		return fmt.Errorf("load players: %w", err)
	} else if ok {
		players, err = loyalty.ParseBackup([]byte(raw))
		if err != nil {
			return fmt.Errorf("load players: %w", err)
		}
	}
	s.roster = loyalty.NewRoster(players)

	var active []rentals.Rental
	if raw, ok, err := s.storage.Get(ctx, store.KeyActiveRentals); err != nil {
		return fmt.Errorf("load rentals: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &active); err != nil {
			return fmt.Errorf("load rentals: %w", err)
		}
	}
	s.tracker = rentals.NewTracker(active)

	if raw, ok, err := s.storage.Get(ctx, store.KeyHistory); err != nil {
		return fmt.Errorf("load history: %w", err)
	} else if ok {
		history, err := reporting.ParseHistory([]byte(raw))
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		s.history = history
	}

	if raw, ok, err := s.storage.Get(ctx, store.KeyTheme); err != nil {
		return fmt.Errorf("load theme: %w", err)
	} else if ok {
		s.theme = raw
	}

	if raw, ok, err := s.storage.Get(ctx, store.KeyLastRentalType); err != nil {
		return fmt.Errorf("load rental-type preference: %w", err)
	} else if ok && rentals.PackageType(raw).Valid() {
		s.lastRentalType = rentals.PackageType(raw)
	}
	return nil
}

// =============================================================================
// PERSISTENCE (callers hold s.mu)
// =============================================================================

func (s *State) savePlayers(ctx context.Context) error {
	data, err := loyalty.MarshalBackup(s.roster.Players())
	if err != nil {
		return fmt.Errorf("save players: %w", err)
	}
	return s.storage.Set(ctx, store.KeyPlayers, string(data))
}

func (s *State) saveRentals(ctx context.Context) error {
	data, err := json.Marshal(s.tracker.Rentals())
	if err != nil {
		return fmt.Errorf("save rentals: %w", err)
	}
	return s.storage.Set(ctx, store.KeyActiveRentals, string(data))
}

func (s *State) saveHistory(ctx context.Context) error {
	data, err := reporting.MarshalHistory(s.history)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return s.storage.Set(ctx, store.KeyHistory, string(data))
}

// =============================================================================
// LOYALTY
// =============================================================================

// RecordSession credits promo hours to a player, creating them on first
// visit, and persists the roster.
func (s *State) RecordSession(ctx context.Context, name string, category loyalty.Category, hours decimal.Decimal) (loyalty.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	week := calendar.WeekLabel(s.clock.Now())
	res, err := s.roster.RecordSession(name, category, hours, week)
	if err != nil {
		return loyalty.SessionResult{}, err
	}
	if err := s.savePlayers(ctx); err != nil {
		return loyalty.SessionResult{}, err
	}
	s.log.Info("session recorded",
		"player", res.Player.Name,
		"hours", hours.String(),
		"vouchersEarned", res.VouchersEarned)
	return res, nil
}

// RedeemVoucher burns one voucher. Redeeming at zero is a silent no-op.
func (s *State) RedeemVoucher(ctx context.Context, playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.roster.RedeemVoucher(playerID) {
		return false, nil
	}
	if err := s.savePlayers(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateProfile edits a player in place. Unknown ids are a no-op.
func (s *State) UpdateProfile(ctx context.Context, playerID string, upd loyalty.ProfileUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.roster.UpdateProfile(playerID, upd) {
		return false, nil
	}
	if err := s.savePlayers(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// DeletePlayer removes a player permanently.
func (s *State) DeletePlayer(ctx context.Context, playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.roster.Delete(playerID) {
		return false, nil
	}
	if err := s.savePlayers(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ResetWeek forces the weekly reset for every player right now.
func (s *State) ResetWeek(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster.ResetWeekly(calendar.WeekLabel(s.clock.Now()))
	if err := s.savePlayers(ctx); err != nil {
		return err
	}
	s.log.Info("weekly loyalty reset applied", "players", s.roster.Len())
	return nil
}

// Players lists the roster through the given read-side options.
func (s *State) Players(opts loyalty.ListOptions) []loyalty.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.List(opts)
}

// TopPlayers returns the lifetime-hours leaderboard.
func (s *State) TopPlayers(n int) []loyalty.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Top(n)
}

// ExportPlayers renders the roster as a JSON backup.
func (s *State) ExportPlayers() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loyalty.MarshalBackup(s.roster.Players())
}

// ImportPlayers replaces the whole roster from a backup payload. The current
// roster is untouched if the payload does not parse.
func (s *State) ImportPlayers(ctx context.Context, data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := loyalty.ParseBackup(data)
	if err != nil {
		return 0, err
	}
	s.roster = loyalty.NewRoster(players)
	if err := s.savePlayers(ctx); err != nil {
		return 0, err
	}
	s.log.Info("roster imported", "players", len(players))
	return len(players), nil
}

// =============================================================================
// HOURLY SESSIONS
// =============================================================================

// Units snapshots the console fleet.
func (s *State) Units() []sessions.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fleet.Units()
}

// StartSession puts a unit on the clock for a preset duration.
func (s *State) StartSession(unitID, minutes int, customer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fleet.Start(unitID, minutes, customer, s.clock.Now())
}

// StopSession ends a running session early; the unit holds at FINISHED with
// the elapsed-time bill until confirmed or cancelled.
func (s *State) StopSession(unitID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fleet.Stop(unitID, s.clock.Now())
}

// ConfirmSession commits a finished session to the history and frees the unit.
func (s *State) ConfirmSession(ctx context.Context, unitID int) (reporting.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.fleet.Confirm(unitID, s.clock.Now())
	if err != nil {
		return reporting.HistoryRecord{}, err
	}
	s.history = append(s.history, rec)
	if err := s.saveHistory(ctx); err != nil {
		return reporting.HistoryRecord{}, err
	}
	s.log.Info("session confirmed",
		"unit", rec.UnitName,
		"customer", rec.CustomerName,
		"cost", rec.Cost.String())
	return rec, nil
}

// CancelSession discards a finished session without billing.
func (s *State) CancelSession(unitID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fleet.Cancel(unitID)
}

// EstimateCost prices a preset duration without starting anything.
func (s *State) EstimateCost(minutes int) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fleet.EstimateCost(minutes)
}

// tick advances every running timer by recomputing from wall time. Called by
// the fast ticker; also safe to call from tests.
func (s *State) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	finished := s.fleet.Tick(s.clock.Now())
	for _, u := range finished {
		s.log.Info("session timer expired", "unit", u.Name, "customer", u.CustomerName)
	}
}

// =============================================================================
// FIXED-TERM RENTALS
// =============================================================================

// Rentals snapshots the active fixed-term rentals.
func (s *State) Rentals() []rentals.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Rentals()
}

// CreateRental opens a rental and remembers the chosen package type as the
// sticky preference for the next form.
func (s *State) CreateRental(ctx context.Context, customer, address string, typ rentals.PackageType, hours int, discount decimal.Decimal) (rentals.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.tracker.Create(customer, address, typ, hours, discount, s.clock.Now())
	if err != nil {
		return rentals.Rental{}, err
	}
	if err := s.saveRentals(ctx); err != nil {
		return rentals.Rental{}, err
	}
	if typ != s.lastRentalType {
		s.lastRentalType = typ
		if err := s.storage.Set(ctx, store.KeyLastRentalType, string(typ)); err != nil {
			return rentals.Rental{}, err
		}
	}
	s.log.Info("rental created",
		"customer", r.CustomerName,
		"package", r.PackageName,
		"price", r.TotalPrice.String())
	return r, nil
}

// ExtendRental adds a pricing tier's hours at its base price.
func (s *State) ExtendRental(ctx context.Context, id string, hours int) (rentals.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.tracker.Extend(id, hours)
	if err != nil {
		return rentals.Rental{}, err
	}
	if err := s.saveRentals(ctx); err != nil {
		return rentals.Rental{}, err
	}
	return r, nil
}

// ReturnRental closes a rental and commits its revenue to the history.
func (s *State) ReturnRental(ctx context.Context, id string) (reporting.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.tracker.Return(id, s.clock.Now())
	if err != nil {
		return reporting.HistoryRecord{}, err
	}
	s.history = append(s.history, rec)
	if err := s.saveRentals(ctx); err != nil {
		return reporting.HistoryRecord{}, err
	}
	if err := s.saveHistory(ctx); err != nil {
		return reporting.HistoryRecord{}, err
	}
	s.log.Info("rental returned", "package", rec.UnitName, "revenue", rec.Cost.String())
	return rec, nil
}

// Now reads the controller's clock.
func (s *State) Now() time.Time { return s.clock.Now() }

// Location is the timezone all day bucketing uses.
func (s *State) Location() *time.Location { return s.loc }

// LastRentalType is the sticky package-type preference.
func (s *State) LastRentalType() rentals.PackageType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRentalType
}

// =============================================================================
// REPORTING
// =============================================================================

// Report aggregates the history through a filter.
func (s *State) Report(f reporting.Filter) reporting.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reporting.Aggregate(s.history, f, s.clock.Now(), s.loc)
}

// History returns a copy of the raw log.
func (s *State) History() []reporting.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]reporting.HistoryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory wipes the transaction log.
func (s *State) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	if err := s.saveHistory(ctx); err != nil {
		return err
	}
	s.log.Warn("transaction history cleared")
	return nil
}

// CustomerRanks folds rental spend into per-customer tiers.
func (s *State) CustomerRanks() []rentals.CustomerRank {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rentals.RankCustomers(s.history)
}

// ExportHistoryJSON renders the log as an indented JSON backup.
func (s *State) ExportHistoryJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reporting.MarshalHistory(s.history)
}

// ExportHistoryXLSX renders the log as a workbook.
func (s *State) ExportHistoryXLSX() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reporting.ExportXLSX(s.history, s.loc)
}

// ExportHistoryPDF renders the log as a printable table.
func (s *State) ExportHistoryPDF(title string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reporting.ExportPDF(s.history, title, s.loc)
}

// =============================================================================
// PREFERENCES AND HOUSEKEEPING
// =============================================================================

// Theme returns the persisted UI theme preference.
func (s *State) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme stores the UI theme preference.
func (s *State) SetTheme(ctx context.Context, theme string) error {
	if theme != "dark" && theme != "light" {
		return fmt.Errorf("unknown theme %q", theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = theme
	return s.storage.Set(ctx, store.KeyTheme, theme)
}

// PromoCountdown is the header countdown to the next weekly reset, refreshed
// by the slow ticker.
func (s *State) PromoCountdown() calendar.WeekCountdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown
}

// WeekNumber is the current ISO week, for display headers.
func (s *State) WeekNumber() int {
	return calendar.WeekNumber(s.clock.Now())
}

func (s *State) refreshCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countdown = calendar.UntilNextMonday(s.clock.Now())
}

// ResetAll wipes players, rentals, and history in one stroke. Preferences
// survive.
func (s *State) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster = loyalty.NewRoster(nil)
	s.tracker = rentals.NewTracker(nil)
	s.history = nil

	if err := s.savePlayers(ctx); err != nil {
		return err
	}
	if err := s.saveRentals(ctx); err != nil {
		return err
	}
	if err := s.saveHistory(ctx); err != nil {
		return err
	}
	s.log.Warn("application state reset")
	return nil
}
