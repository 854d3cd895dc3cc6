package coverpage

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	seasonRe   = regexp.MustCompile(`(?i)^(Fall|Spring|Summer|Winter)\s+(\d{4})$`)
	bareYearRe = regexp.MustCompile(`^(19|20)\d{2}$`)
)

// Mid-term month used when only a season is known.
var seasonMonths = map[string]time.Month{
	"spring": time.April,
	"summer": time.July,
	"fall":   time.October,
	"winter": time.January,
}

var dateLayouts = []string{
	"02/01/2006", "2/1/2006", "02-01-2006", "2-1-2006",
	"01/02/2006", "1/2/2006",
	"02/01/06", "2/1/06",
	"2 January 2006", "02 January 2006",
	"January 2, 2006", "January 2 2006",
}

// parseDate tries explicit layouts, then season+year, then a bare year.
// Bare years resolve to January 1; seasons to mid-season.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if m := seasonRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[2])
		month := seasonMonths[strings.ToLower(m[1])]
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	}
	if bareYearRe.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
