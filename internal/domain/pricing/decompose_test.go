package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

// standardRules mirrors the demo catalog: hour=10, day=50, week=300,
// month=1000, all unconstrained.
func standardRules() map[Unit]PriceRule {
	return map[Unit]PriceRule{
		UnitHour:  activeRule("hour", UnitHour, "10", DefaultScope()),
		UnitDay:   activeRule("day", UnitDay, "50", DefaultScope()),
		UnitWeek:  activeRule("week", UnitWeek, "300", DefaultScope()),
		UnitMonth: activeRule("month", UnitMonth, "1000", DefaultScope()),
	}
}

func TestDecomposeGreedyLargestUnitFirst(t *testing.T) {
	tests := []struct {
		name          string
		durationHours float64
		wantEntries   []BreakdownEntry
		wantSubtotal  string
	}{
		{
			name:          "50 hours split into days and hours",
			durationHours: 50,
			wantEntries: []BreakdownEntry{
				{Unit: UnitDay, Quantity: 2},
				{Unit: UnitHour, Quantity: 2},
			},
			wantSubtotal: "120",
		},
		{
			name:          "exactly one week",
			durationHours: 168,
			wantEntries:   []BreakdownEntry{{Unit: UnitWeek, Quantity: 1}},
			wantSubtotal:  "300",
		},
		{
			name:          "half hour rounds up to one billable hour",
			durationHours: 0.5,
			wantEntries:   []BreakdownEntry{{Unit: UnitHour, Quantity: 1}},
			wantSubtotal:  "10",
		},
		{
			name:          "month plus change",
			durationHours: 900,
			wantEntries: []BreakdownEntry{
				{Unit: UnitMonth, Quantity: 1},
				{Unit: UnitWeek, Quantity: 1},
				{Unit: UnitHour, Quantity: 12},
			},
			wantSubtotal: "1420",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown, subtotal, uncovered := Decompose(tt.durationHours, standardRules())
			if uncovered != 0 {
				t.Errorf("uncovered = %v, want 0", uncovered)
			}
			if !subtotal.Equal(rate(tt.wantSubtotal)) {
				t.Errorf("subtotal = %s, want %s", subtotal, tt.wantSubtotal)
			}
			if len(breakdown) != len(tt.wantEntries) {
				t.Fatalf("breakdown has %d entries, want %d: %+v", len(breakdown), len(tt.wantEntries), breakdown)
			}
			for i, want := range tt.wantEntries {
				got := breakdown[i]
				if got.Unit != want.Unit || got.Quantity != want.Quantity {
					t.Errorf("entry %d = %s x%d, want %s x%d", i, got.Unit, got.Quantity, want.Unit, want.Quantity)
				}
				if !got.Cost.Equal(got.Rate.Mul(decimal.NewFromInt(got.Quantity))) {
					t.Errorf("entry %d cost %s != rate %s * quantity %d", i, got.Cost, got.Rate, got.Quantity)
				}
			}
		})
	}
}

func TestDecomposeMinDurationSuppressesRule(t *testing.T) {
	rules := standardRules()
	week := rules[UnitWeek]
	week.MinDuration = 2
	rules[UnitWeek] = week

	// One full week available, but the week rule requires two. The whole
	// window falls through to days.
	breakdown, subtotal, uncovered := Decompose(168, rules)
	if uncovered != 0 {
		t.Fatalf("uncovered = %v, want 0", uncovered)
	}
	if len(breakdown) != 1 || breakdown[0].Unit != UnitDay || breakdown[0].Quantity != 7 {
		t.Fatalf("breakdown = %+v, want 7 days", breakdown)
	}
	if !subtotal.Equal(rate("350")) {
		t.Errorf("subtotal = %s, want 350", subtotal)
	}
}

func TestDecomposeMaxDurationCapsQuantity(t *testing.T) {
	rules := standardRules()
	day := rules[UnitDay]
	day.MaxDuration = 1
	rules[UnitDay] = day
	delete(rules, UnitWeek)
	delete(rules, UnitMonth)

	// 50h: one capped day, then 26 remaining hours billed hourly.
	breakdown, subtotal, uncovered := Decompose(50, rules)
	if uncovered != 0 {
		t.Fatalf("uncovered = %v, want 0", uncovered)
	}
	if len(breakdown) != 2 {
		t.Fatalf("breakdown = %+v, want 2 entries", breakdown)
	}
	if breakdown[0].Unit != UnitDay || breakdown[0].Quantity != 1 {
		t.Errorf("first entry = %+v, want 1 day", breakdown[0])
	}
	if breakdown[1].Unit != UnitHour || breakdown[1].Quantity != 26 {
		t.Errorf("second entry = %+v, want 26 hours", breakdown[1])
	}
	if !subtotal.Equal(rate("310")) {
		t.Errorf("subtotal = %s, want 310", subtotal)
	}
}

func TestDecomposeReportsUncoveredRemainder(t *testing.T) {
	// Day rule only: two leftover hours cannot be billed.
	rules := map[Unit]PriceRule{
		UnitDay: activeRule("day", UnitDay, "50", DefaultScope()),
	}
	breakdown, subtotal, uncovered := Decompose(26, rules)
	if len(breakdown) != 1 || breakdown[0].Quantity != 1 {
		t.Fatalf("breakdown = %+v, want 1 day", breakdown)
	}
	if !subtotal.Equal(rate("50")) {
		t.Errorf("subtotal = %s, want 50", subtotal)
	}
	if uncovered != 2 {
		t.Errorf("uncovered = %v, want 2", uncovered)
	}
}

func TestDecomposeCoverageAndOrdering(t *testing.T) {
	unitRank := map[Unit]int{UnitMonth: 4, UnitWeek: 3, UnitDay: 2, UnitHour: 1}
	for _, durationHours := range []float64{0.25, 1, 2, 23.5, 24, 50, 167, 168, 169, 719, 720, 721, 2000} {
		breakdown, _, uncovered := Decompose(durationHours, standardRules())
		if uncovered != 0 {
			t.Errorf("duration %v: uncovered = %v, want 0 with unconstrained hour rule", durationHours, uncovered)
		}
		covered := 0.0
		seen := map[Unit]bool{}
		lastRank := unitRank[UnitMonth] + 1
		for _, entry := range breakdown {
			if entry.Quantity < 1 {
				t.Errorf("duration %v: entry %+v has quantity < 1", durationHours, entry)
			}
			if seen[entry.Unit] {
				t.Errorf("duration %v: duplicate unit %s", durationHours, entry.Unit)
			}
			seen[entry.Unit] = true
			if unitRank[entry.Unit] >= lastRank {
				t.Errorf("duration %v: unit %s out of descending order", durationHours, entry.Unit)
			}
			lastRank = unitRank[entry.Unit]
			covered += float64(entry.Quantity) * entry.Unit.Hours()
		}
		if covered < durationHours {
			t.Errorf("duration %v: covered only %v hours", durationHours, covered)
		}
	}
}
