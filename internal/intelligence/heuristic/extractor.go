// Package heuristic recovers patent fields from free-form document text with
// ordered regular expressions. It is the deterministic fallback used when no
// AI provider is configured or the provider fails.
//
// Extract never fails: a field that cannot be recovered is left empty or at
// its default, and derived schedule fields are only filled when the filing
// date parses. The reference time is always passed in, so the same text and
// time produce the same record. Extract holds no state and is safe for
// concurrent use.
package heuristic

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/PatentVault/internal/domain/patent"
)

// Placeholder is the name used when neither a pattern nor the first line of
// the document yields one.
const Placeholder = "未命名專利"

// maxFirstLineRunes bounds the first-line name guess.
const maxFirstLineRunes = 50

var whitespace = regexp.MustCompile(`\s+`)

// Extract converts document text into a provisional patent record.
func Extract(text string, now time.Time) *patent.Patent {
	clean := Normalize(text)

	p := &patent.Patent{
		Name:      find(clean, namePatterns),
		AppNumber: trimID(find(clean, appNumberPatterns)),
		PubNumber: trimID(find(clean, pubNumberPatterns)),
		AppDate:   normalizeDate(find(clean, appDatePatterns)),
		PubDate:   normalizeDate(find(clean, pubDatePatterns)),
		Patentee:  find(clean, patenteePatterns),
	}

	if p.Name == "" {
		p.Name = firstLineName(text)
	}

	p.Status = inferStatus(text)
	p.Type = inferType(clean, p.PubNumber)
	p.Country = inferCountry(clean)

	p.ApplySchedule(now)
	return p
}

// Normalize folds full-width forms (NFKC), collapses every whitespace run
// into a single space and trims the ends.
func Normalize(text string) string {
	folded := norm.NFKC.String(text)
	return strings.TrimSpace(whitespace.ReplaceAllString(folded, " "))
}

// find returns the first non-empty capture of the first pattern that yields
// one, or "".
func find(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	return ""
}

func trimID(id string) string {
	return strings.TrimRight(id, ".,-/")
}

func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	d, ok := patent.NormalizeDate(raw)
	if !ok {
		return ""
	}
	return d
}

// firstLineName guesses a name from the first line of the raw text. The
// line is returned as is; a blank line yields the placeholder.
func firstLineName(text string) string {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	if strings.TrimSpace(line) != "" && utf8.RuneCountInString(line) < maxFirstLineRunes {
		return line
	}
	return Placeholder
}

// inferStatus checks expiry cues before pending cues, so a text carrying
// both resolves to Expired.
func inferStatus(raw string) patent.Status {
	switch {
	case expiredCue.MatchString(raw):
		return patent.StatusExpired
	case pendingCue.MatchString(raw):
		return patent.StatusPending
	default:
		return patent.StatusActive
	}
}

// inferType applies the utility check and then the design check; the later
// assignment wins when both fire.
func inferType(text, pubNumber string) patent.Type {
	t := patent.TypeInvention
	upper := strings.ToUpper(pubNumber)
	if utilityCue.MatchString(text) || strings.HasPrefix(upper, "M") {
		t = patent.TypeUtility
	}
	if designCue.MatchString(text) || strings.HasPrefix(upper, "D") {
		t = patent.TypeDesign
	}
	return t
}

// inferCountry defaults to TW, switches to US only when no ROC cue is
// present, and lets a mainland-China cue override both.
func inferCountry(text string) patent.Country {
	c := patent.CountryTW
	if usCue.MatchString(text) && !rocCue.MatchString(text) {
		c = patent.CountryUS
	}
	if cnCue.MatchString(text) {
		c = patent.CountryCN
	}
	return c
}

// Coverage counts the directly extracted fields that were recovered. The
// placeholder name does not count.
func Coverage(p *patent.Patent) int {
	if p == nil {
		return 0
	}
	n := 0
	for _, v := range []string{p.AppNumber, p.PubNumber, p.AppDate, p.PubDate, p.Patentee} {
		if v != "" {
			n++
		}
	}
	if p.Name != "" && p.Name != Placeholder {
		n++
	}
	return n
}

//Personal.AI order the ending
