package property

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// yearOf2025 yields every calendar date of 2025 (365 days, including a
// 28-day February and all seven 31-day months).
func yearOf2025() []time.Time {
	dates := make([]time.Time, 0, 365)
	for d := date(2025, time.January, 1); d.Year() == 2025; d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func monthlyRule(day int) RentRule {
	return RentRule{
		Frequency:      FrequencyMonthly,
		DueDayOfMonth:  day,
		ExpectedAmount: dec("500.00"),
		MatchKeyword:   "rent",
	}
}

func weeklyRule(freq Frequency, dayOfWeek int) RentRule {
	return RentRule{
		Frequency:      freq,
		DueDayOfWeek:   dayOfWeek,
		ExpectedAmount: dec("500.00"),
		MatchKeyword:   "rent",
	}
}

func TestIsDueOn_Monthly(t *testing.T) {
	cases := []struct {
		day          int
		expectedDays int // due dates across 2025
	}{
		{day: 1, expectedDays: 12},
		{day: 15, expectedDays: 12},
		{day: 29, expectedDays: 11}, // February 2025 has no 29th
		{day: 31, expectedDays: 7},  // only the seven 31-day months
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("day_%d", tc.day), func(t *testing.T) {
			rule := monthlyRule(tc.day)
			due := 0
			for _, d := range yearOf2025() {
				if rule.IsDueOn(d) {
					assert.Equal(t, tc.day, d.Day(), "due on wrong day of month: %s", d)
					due++
				}
			}
			assert.Equal(t, tc.expectedDays, due)
		})
	}
}

func TestIsDueOn_Monthly_ShortMonthPassThrough(t *testing.T) {
	rule := monthlyRule(31)
	for _, month := range []time.Month{time.February, time.April, time.June, time.September, time.November} {
		for d := date(2025, month, 1); d.Month() == month; d = d.AddDate(0, 0, 1) {
			assert.False(t, rule.IsDueOn(d), "day 31 must never be due in %s", month)
		}
	}
}

func TestIsDueOn_Weekly(t *testing.T) {
	for dayOfWeek := 0; dayOfWeek <= 6; dayOfWeek++ {
		rule := weeklyRule(FrequencyWeekly, dayOfWeek)
		// Stored convention is 0=Monday; Go's is 0=Sunday.
		wantWeekday := time.Weekday((dayOfWeek + 1) % 7)

		due := 0
		for _, d := range yearOf2025() {
			if rule.IsDueOn(d) {
				assert.Equal(t, wantWeekday, d.Weekday(), "due on wrong weekday: %s", d)
				due++
			}
		}
		// 2025 opens on a Wednesday, so Wednesdays occur 53 times and
		// every other weekday 52 times.
		want := 52
		if wantWeekday == time.Wednesday {
			want = 53
		}
		assert.Equal(t, want, due, "day of week %d", dayOfWeek)
	}
}

func TestIsDueOn_FortnightlyMatchesWeekly(t *testing.T) {
	// Fortnightly is documented to use the same day-of-week test as
	// Weekly; there is no cycle anchor to do better.
	for dayOfWeek := 0; dayOfWeek <= 6; dayOfWeek++ {
		weekly := weeklyRule(FrequencyWeekly, dayOfWeek)
		fortnightly := weeklyRule(FrequencyFortnightly, dayOfWeek)
		for _, d := range yearOf2025() {
			assert.Equal(t, weekly.IsDueOn(d), fortnightly.IsDueOn(d), "date %s", d)
		}
	}
}

func TestIsDueOn_UnknownFrequency(t *testing.T) {
	rule := RentRule{Frequency: "Daily", ExpectedAmount: dec("100.00"), MatchKeyword: "rent"}
	for _, d := range yearOf2025()[:31] {
		assert.False(t, rule.IsDueOn(d))
	}
}

func TestRentRule_Validate(t *testing.T) {
	valid := monthlyRule(15)
	require.NoError(t, valid.Validate())
	require.NoError(t, weeklyRule(FrequencyWeekly, 0).Validate())
	require.NoError(t, weeklyRule(FrequencyFortnightly, 6).Validate())

	cases := []struct {
		name string
		rule RentRule
	}{
		{"unsupported frequency", RentRule{Frequency: "Daily", ExpectedAmount: dec("1"), MatchKeyword: "x"}},
		{"day of week too large", weeklyRule(FrequencyWeekly, 7)},
		{"day of week negative", weeklyRule(FrequencyFortnightly, -1)},
		{"day of month zero", monthlyRule(0)},
		{"day of month too large", monthlyRule(32)},
		{"zero amount", RentRule{Frequency: FrequencyMonthly, DueDayOfMonth: 1, ExpectedAmount: dec("0"), MatchKeyword: "x"}},
		{"negative amount", RentRule{Frequency: FrequencyMonthly, DueDayOfMonth: 1, ExpectedAmount: dec("-5"), MatchKeyword: "x"}},
		{"empty keyword", RentRule{Frequency: FrequencyMonthly, DueDayOfMonth: 1, ExpectedAmount: dec("1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.rule.Validate())
		})
	}
}
