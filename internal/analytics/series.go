package analytics

import (
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
)

// DefaultWindowDays is the length of the daily lead series when none is given.
const DefaultWindowDays = 30

const (
	bucketLabelLayout = "Jan 02"
	bucketDateLayout  = "2006-01-02"
)

// DailyBucket is the number of leads created on one calendar day.
type DailyBucket struct {
	Date  string
	Label string
	Count int
}

type calendarDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) calendarDay {
	y, m, d := t.Date()
	return calendarDay{y, m, d}
}

// ComputeDailySeries returns exactly windowDays buckets, oldest first, ending
// on ref's calendar day. Leads are matched by calendar date in ref's location,
// so a lead created late in the evening lands on the local day, not the UTC one.
// A non-positive windowDays falls back to DefaultWindowDays.
func ComputeDailySeries(leads []domain.Lead, windowDays int, ref time.Time) []DailyBucket {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	loc := ref.Location()

	counts := make(map[calendarDay]int, windowDays)
	for _, lead := range leads {
		counts[dayOf(lead.CreatedAt.In(loc))]++
	}

	y, m, d := ref.Date()
	buckets := make([]DailyBucket, windowDays)
	for i := 0; i < windowDays; i++ {
		// time.Date normalizes day underflow across month and year boundaries
		day := time.Date(y, m, d-(windowDays-1-i), 0, 0, 0, 0, loc)
		buckets[i] = DailyBucket{
			Date:  day.Format(bucketDateLayout),
			Label: day.Format(bucketLabelLayout),
			Count: counts[dayOf(day)],
		}
	}
	return buckets
}
