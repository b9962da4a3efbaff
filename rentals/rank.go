/*
rank.go - Derived customer spend tiers

PURPOSE:
  CustomerRank is a read-side projection over the history log, recomputed on
  demand and never stored. Spend aggregates by customer name
  (case-insensitive); the tier ladder and the next-tier threshold feed the
  rental form's returning-customer hint.

TIER LADDER (lifetime rupiah spend):
  Bronze    >= 0
  Silver    >= 100 000
  Gold      >= 300 000
  Platinum  >= 750 000
*/
package rentals

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/infinityps/rental-engine/reporting"
)

// CustomerRank is the derived loyalty standing of one customer.
type CustomerRank struct {
	Name       string          `json:"name"`
	TotalSpend decimal.Decimal `json:"totalSpend"`
	TotalVisits int            `json:"totalVisits"`
	Rank       string          `json:"rank"`
	// NextTier is the spend threshold for the next tier; zero at the top.
	NextTier decimal.Decimal `json:"nextTier"`
}

type tier struct {
	name      string
	threshold int64
}

var tiers = []tier{
	{"Bronze", 0},
	{"Silver", 100_000},
	{"Gold", 300_000},
	{"Platinum", 750_000},
}

// RankCustomers aggregates the history log into per-customer ranks, ordered
// by total spend descending. An empty log yields an empty slice.
func RankCustomers(records []reporting.HistoryRecord) []CustomerRank {
	type agg struct {
		name   string
		spend  decimal.Decimal
		visits int
	}
	byName := make(map[string]*agg)
	var order []string

	for _, rec := range records {
		key := strings.ToLower(strings.TrimSpace(rec.CustomerName))
		if key == "" {
			continue
		}
		a, ok := byName[key]
		if !ok {
			a = &agg{name: strings.TrimSpace(rec.CustomerName), spend: decimal.Zero}
			byName[key] = a
			order = append(order, key)
		}
		a.spend = a.spend.Add(rec.Cost)
		a.visits++
	}

	ranks := make([]CustomerRank, 0, len(order))
	for _, key := range order {
		a := byName[key]
		name, next := tierFor(a.spend)
		ranks = append(ranks, CustomerRank{
			Name:        a.name,
			TotalSpend:  a.spend,
			TotalVisits: a.visits,
			Rank:        name,
			NextTier:    next,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].TotalSpend.GreaterThan(ranks[j].TotalSpend)
	})
	return ranks
}

// FindRank looks one customer up by case-insensitive name.
func FindRank(ranks []CustomerRank, name string) (CustomerRank, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, r := range ranks {
		if strings.ToLower(r.Name) == needle {
			return r, true
		}
	}
	return CustomerRank{}, false
}

func tierFor(spend decimal.Decimal) (string, decimal.Decimal) {
	idx := 0
	for i, t := range tiers {
		if spend.GreaterThanOrEqual(decimal.NewFromInt(t.threshold)) {
			idx = i
		}
	}
	if idx+1 < len(tiers) {
		return tiers[idx].name, decimal.NewFromInt(tiers[idx+1].threshold)
	}
	return tiers[idx].name, decimal.Zero
}
