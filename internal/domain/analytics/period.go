package analytics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"driverfinance/internal/domain"
)

// Period is a half-open UTC interval [Start, End). A zero bound is unbounded.
type Period struct {
	Start time.Time
	End   time.Time
}

// AllTime is the unbounded period.
var AllTime = Period{}

// DayPeriod covers the calendar day of date as observed in loc.
func DayPeriod(date time.Time, loc *time.Location) Period {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return Period{Start: start.UTC(), End: start.AddDate(0, 0, 1).UTC()}
}

// MonthPeriod covers a calendar month as observed in loc.
func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: start.UTC(), End: start.AddDate(0, 1, 0).UTC()}
}

// RangePeriod builds a period from optional bounds and rejects inverted ranges.
func RangePeriod(start, end *time.Time) (Period, error) {
	var p Period
	if start != nil {
		p.Start = start.UTC()
	}
	if end != nil {
		p.End = end.UTC()
	}
	if !p.Start.IsZero() && !p.End.IsZero() && !p.Start.Before(p.End) {
		return Period{}, domain.FieldError("end_date", "must be after start_date")
	}
	return p, nil
}

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)

// ParseLocation accepts an IANA zone name ("America/Sao_Paulo"), "UTC"/"Z"
// or a fixed offset ("-03:00", "+0530"). An empty string yields fallback.
func ParseLocation(s string, fallback *time.Location) (*time.Location, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return fallback, nil
	case "Z", "z", "UTC", "utc":
		return time.UTC, nil
	}

	if m := offsetPattern.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes, _ := strconv.Atoi(m[3])
		if hours > 14 || minutes > 59 {
			return nil, domain.FieldError("tz", "offset out of range")
		}
		secs := hours*3600 + minutes*60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone(fmt.Sprintf("UTC%s%s:%s", m[1], m[2], m[3]), secs), nil
	}

	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, domain.FieldError("tz", "must be an IANA zone name or a ±HH:MM offset")
	}
	return loc, nil
}
