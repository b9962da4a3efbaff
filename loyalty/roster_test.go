package loyalty_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinityps/rental-engine/loyalty"
)

func seedRoster(t *testing.T) *loyalty.Roster {
	t.Helper()
	r := loyalty.NewRoster(nil)
	_, err := r.RecordSession("Budi", loyalty.CategoryPrimary, hours("3"), week1)
	require.NoError(t, err)
	_, err = r.RecordSession("Budi", loyalty.CategoryPrimary, hours("3"), week1)
	require.NoError(t, err)
	// Budi: accumulated 1, vouchers 1, lifetime 6
	_, err = r.RecordSession("Agus", loyalty.CategoryGeneral, hours("10"), week1)
	require.NoError(t, err)
	return r
}

// =============================================================================
// VOUCHER REDEMPTION
// =============================================================================

func TestRedeemVoucher_DecrementsAndStopsAtZero(t *testing.T) {
	r := seedRoster(t)
	budi, ok := r.Find("budi")
	require.True(t, ok)
	require.Equal(t, 1, budi.Vouchers)

	assert.True(t, r.RedeemVoucher(budi.ID))

	// Zero balance: silent no-op, not an error.
	assert.False(t, r.RedeemVoucher(budi.ID))

	budi, _ = r.Find("budi")
	assert.Equal(t, 0, budi.Vouchers)
}

func TestRedeemVoucher_UnknownPlayer(t *testing.T) {
	r := seedRoster(t)
	assert.False(t, r.RedeemVoucher("no-such-id"))
}

// =============================================================================
// PROFILE EDITS
// =============================================================================

func TestUpdateProfile_OverridesDirectly(t *testing.T) {
	// GIVEN: An operator edit with a new name, category, note, and hours
	// THEN: Fields are overwritten without accrual math; no voucher changes

	r := seedRoster(t)
	budi, _ := r.Find("budi")

	ok := r.UpdateProfile(budi.ID, loyalty.ProfileUpdate{
		Name:             "Budi Santoso",
		Category:         loyalty.CategorySecondary,
		Notes:            "prefers unit 2",
		AccumulatedHours: "4.5",
	})
	require.True(t, ok)

	p, found := r.Find("Budi Santoso")
	require.True(t, found)
	assert.Equal(t, loyalty.CategorySecondary, p.Category)
	assert.Equal(t, "prefers unit 2", p.Notes)
	assert.True(t, p.AccumulatedHours.Equal(hours("4.5")))
	assert.Equal(t, 1, p.Vouchers)
}

func TestUpdateProfile_BadHoursCoerceToZero(t *testing.T) {
	r := seedRoster(t)
	budi, _ := r.Find("budi")

	require.True(t, r.UpdateProfile(budi.ID, loyalty.ProfileUpdate{
		Category:         loyalty.CategoryPrimary,
		AccumulatedHours: "not a number",
	}))

	p, _ := r.Find("budi")
	assert.True(t, p.AccumulatedHours.IsZero())
	assert.Equal(t, "Budi", p.Name, "empty name keeps the stored one")
}

func TestDelete_RemovesPlayer(t *testing.T) {
	r := seedRoster(t)
	budi, _ := r.Find("budi")

	assert.True(t, r.Delete(budi.ID))
	assert.False(t, r.Delete(budi.ID))
	_, found := r.Find("budi")
	assert.False(t, found)
	assert.Equal(t, 1, r.Len())
}

// =============================================================================
// READ SIDE
// =============================================================================

func TestList_FilterSortSearch(t *testing.T) {
	r := seedRoster(t)

	byHours := r.List(loyalty.ListOptions{SortBy: loyalty.SortByHours})
	require.Len(t, byHours, 2)
	assert.Equal(t, "Agus", byHours[0].Name)

	onlyPrimary := r.List(loyalty.ListOptions{Category: loyalty.CategoryPrimary})
	require.Len(t, onlyPrimary, 1)
	assert.Equal(t, "Budi", onlyPrimary[0].Name)

	searched := r.List(loyalty.ListOptions{Search: "bu"})
	require.Len(t, searched, 1)
	assert.Equal(t, "Budi", searched[0].Name)

	assert.Empty(t, r.List(loyalty.ListOptions{Search: "zzz"}))
}

func TestTop_LimitsAndOrders(t *testing.T) {
	r := seedRoster(t)
	top := r.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, "Agus", top[0].Name)
}

// =============================================================================
// BACKUP ROUND TRIP
// =============================================================================

func TestBackup_RoundTrip(t *testing.T) {
	// GIVEN: A roster exported to JSON
	// WHEN: The payload is parsed back
	// THEN: The same players come back, same fields, same order

	r := seedRoster(t)
	data, err := loyalty.MarshalBackup(r.Players())
	require.NoError(t, err)

	restored, err := loyalty.ParseBackup(data)
	require.NoError(t, err)
	require.Len(t, restored, r.Len())

	for i, want := range r.Players() {
		got := restored[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.CurrentWeek, got.CurrentWeek)
		assert.Equal(t, want.Vouchers, got.Vouchers)
		assert.True(t, want.AccumulatedHours.Equal(got.AccumulatedHours))
		assert.True(t, want.TotalLifetimeHours.Equal(got.TotalLifetimeHours))
	}
}

func TestParseBackup_RejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{{`,
		"not an array":    `{"name":"Budi"}`,
		"nameless record": `[{"category":"SD"}]`,
		"wrong shape":     `[42]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loyalty.ParseBackup([]byte(payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, loyalty.ErrMalformedBackup))
		})
	}
}

func TestParseBackup_NormalizesUnknownCategory(t *testing.T) {
	players, err := loyalty.ParseBackup([]byte(`[{"name":"X","category":"SMA"}]`))
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, loyalty.CategoryGeneral, players[0].Category)
}
