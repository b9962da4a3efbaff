/*
roster.go - The player collection and its operations

PURPOSE:
  Roster owns the in-memory player list. Every mutation is synchronous and
  returns the new state; persistence is the caller's job (save-on-mutation in
  the app controller). Lookups match names case-insensitively on the trimmed
  form; the stored display name is preserved on updates.

OPERATIONS:
  RecordSession   validate, reconcile week, accrue, convert vouchers
  RedeemVoucher   decrement when positive, silent no-op at zero
  UpdateProfile   trusted operator override, bypasses accrual math
  ResetWeekly     operator bulk reset, vouchers untouched
  ReconcileAll    eager stale-week sweep at process start
  Delete          explicit removal; players never auto-expire

SEE ALSO:
  - accrual.go: the pure pieces
  - codec.go: wholesale backup/restore
*/
package loyalty

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Roster holds all loyalty players.
type Roster struct {
	players []Player
}

// NewRoster wraps an existing player list, e.g. one loaded from storage.
func NewRoster(players []Player) *Roster {
	return &Roster{players: players}
}

// Players returns a copy of the list in storage order.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

// Len returns the number of players.
func (r *Roster) Len() int { return len(r.players) }

// =============================================================================
// SESSION RECORDING
// =============================================================================

// RecordSession accrues one played session for the named customer, creating
// the player on first visit. weekLabel is the current ISO week identity.
// Validation failures leave the roster untouched.
func (r *Roster) RecordSession(name string, category Category, hours decimal.Decimal, weekLabel string) (SessionResult, error) {
	name = strings.TrimSpace(name)
	if err := validateSession(name, category, hours); err != nil {
		return SessionResult{}, err
	}

	if i, ok := r.indexByName(name); ok {
		p := reconcileWeek(r.players[i], weekLabel)
		p.Category = category
		p, earned := accrue(p, hours)
		r.players[i] = p
		return SessionResult{Player: p, VouchersEarned: earned}, nil
	}

	p := Player{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    category,
		CurrentWeek: weekLabel,
	}
	p, earned := accrue(p, hours)
	r.players = append(r.players, p)
	return SessionResult{Player: p, VouchersEarned: earned, Created: true}, nil
}

// =============================================================================
// VOUCHERS AND PROFILE
// =============================================================================

// RedeemVoucher spends one voucher. Redeeming at zero balance is a silent
// no-op: the path is only reachable through an already-disabled control.
// Returns whether a voucher was actually spent.
func (r *Roster) RedeemVoucher(id string) bool {
	i, ok := r.indexByID(id)
	if !ok || r.players[i].Vouchers <= 0 {
		return false
	}
	r.players[i].Vouchers--
	return true
}

// ProfileUpdate carries an operator edit. Empty Name keeps the stored name.
// AccumulatedHours arrives as raw text; anything non-numeric coerces to 0.
type ProfileUpdate struct {
	Name             string
	Category         Category
	Notes            string
	AccumulatedHours string
}

// UpdateProfile overwrites profile fields directly, bypassing accrual math.
// Returns false when the player does not exist.
func (r *Roster) UpdateProfile(id string, upd ProfileUpdate) bool {
	i, ok := r.indexByID(id)
	if !ok {
		return false
	}
	p := r.players[i]

	if name := strings.TrimSpace(upd.Name); name != "" {
		p.Name = name
	}
	if upd.Category.Valid() {
		p.Category = upd.Category
	}
	p.Notes = upd.Notes

	hours, err := decimal.NewFromString(strings.TrimSpace(upd.AccumulatedHours))
	if err != nil || hours.IsNegative() {
		hours = decimal.Zero
	}
	p.AccumulatedHours = hours

	r.players[i] = p
	return true
}

// Delete removes a player. Returns whether anything was removed.
func (r *Roster) Delete(id string) bool {
	i, ok := r.indexByID(id)
	if !ok {
		return false
	}
	r.players = append(r.players[:i], r.players[i+1:]...)
	return true
}

// =============================================================================
// WEEKLY RESET
// =============================================================================

// ResetWeekly zeroes every player's weekly accumulator and stamps the current
// week, regardless of individual week match. Vouchers are never touched.
func (r *Roster) ResetWeekly(weekLabel string) {
	for i := range r.players {
		r.players[i].AccumulatedHours = decimal.Zero
		r.players[i].CurrentWeek = weekLabel
	}
}

// ReconcileAll applies the lazy week reset to every stale player. Called once
// at process start. Returns how many players were reset.
func (r *Roster) ReconcileAll(weekLabel string) int {
	reset := 0
	for i := range r.players {
		if r.players[i].CurrentWeek != weekLabel {
			r.players[i] = reconcileWeek(r.players[i], weekLabel)
			reset++
		}
	}
	return reset
}

// =============================================================================
// READ SIDE
// =============================================================================

// SortKey selects the ordering for List.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByHours    SortKey = "totalHours"
	SortByVouchers SortKey = "vouchers"
)

// ListOptions filters and orders the roster for display.
type ListOptions struct {
	Search   string   // case-insensitive name substring
	Category Category // empty = all
	SortBy   SortKey
}

// List returns a filtered, sorted copy of the roster.
func (r *Roster) List(opts ListOptions) []Player {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	var out []Player
	for _, p := range r.players {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}

	switch opts.SortBy {
	case SortByHours:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].TotalLifetimeHours.GreaterThan(out[j].TotalLifetimeHours)
		})
	case SortByVouchers:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Vouchers > out[j].Vouchers
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	return out
}

// Top returns the n players with the most lifetime hours.
func (r *Roster) Top(n int) []Player {
	out := r.Players()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalLifetimeHours.GreaterThan(out[j].TotalLifetimeHours)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Find looks a player up by case-insensitive name.
func (r *Roster) Find(name string) (Player, bool) {
	if i, ok := r.indexByName(strings.TrimSpace(name)); ok {
		return r.players[i], true
	}
	return Player{}, false
}

func (r *Roster) indexByName(name string) (int, bool) {
	needle := strings.ToLower(name)
	for i, p := range r.players {
		if strings.ToLower(p.Name) == needle {
			return i, true
		}
	}
	return 0, false
}

func (r *Roster) indexByID(id string) (int, bool) {
	for i, p := range r.players {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}
