package patent

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the canonical textual date form.
const DateLayout = "2006-01-02"

var reDate = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)

// NormalizeDate converts "YYYY-M-D", "YYYY/MM/DD" or "YYYY.MM.DD" into
// zero-padded YYYY-MM-DD. ok is false for anything that is not a real
// calendar date, such as 2020-02-30.
func NormalizeDate(raw string) (string, bool) {
	m := reDate.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, mo, d), true
}

// ParseDate parses a date accepted by NormalizeDate at midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	norm, ok := NormalizeDate(raw)
	if !ok {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, norm, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Schedule holds the fields derived from a filing date.
type Schedule struct {
	AppDate     string
	ExpiryDate  string
	Duration    string
	AnnuityDate string
	AnnuityYear int
}

// ComputeSchedule derives the protection period and the next annuity due date
// from appDate.
//
// The annuity falls on the filing month/day of now's year, or of the
// following year when that day is before now's calendar day. The annuity
// year is max(1, nowYear-filingYear+1). ok is false when appDate is not a valid date.
func ComputeSchedule(appDate string, typ Type, now time.Time) (Schedule, bool) {
	filing, ok := ParseDate(appDate, now.Location())
	if !ok {
		return Schedule{}, false
	}

	expiry := filing.AddDate(typ.TermYears(), 0, 0)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	next := time.Date(now.Year(), filing.Month(), filing.Day(), 0, 0, 0, 0, now.Location())
	if next.Before(today) {
		next = time.Date(now.Year()+1, filing.Month(), filing.Day(), 0, 0, 0, 0, now.Location())
	}

	year := now.Year() - filing.Year() + 1
	if year < 1 {
		year = 1
	}

	app := filing.Format(DateLayout)
	return Schedule{
		AppDate:     app,
		ExpiryDate:  expiry.Format(DateLayout),
		Duration:    app + " ~ " + expiry.Format(DateLayout),
		AnnuityDate: next.Format(DateLayout),
		AnnuityYear: year,
	}, true
}

// DaysUntil returns ceil((date - now) / 24h) for a YYYY-MM-DD date taken at
// midnight in now's location. ok is false for an invalid date.
func DaysUntil(date string, now time.Time) (int, bool) {
	due, ok := ParseDate(date, now.Location())
	if !ok {
		return 0, false
	}
	return int(math.Ceil(due.Sub(now).Hours() / 24)), true
}

//Personal.AI order the ending
