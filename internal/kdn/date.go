package kdn

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	numericDate   = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2,4})`)
	formattedDate = regexp.MustCompile(`^\d{1,2}\s[A-Za-z]+\s\d{4}`)
)

// ParseDate normalizes the list's date cells to "D Month YYYY". The source
// mixes D.M.YYYY with D.M.YY and sometimes pads digits with stray spaces.
// A two-digit year slides with the run date: more than five years past the
// current year means the previous century. now supplies that reference
// point so results are reproducible. Blank cells become the "-"
// placeholder; anything unrecognized passes through unchanged.
func ParseDate(raw string, now time.Time) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "-" {
		return "-"
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, " ", ""))
	if m := numericDate.FindStringSubmatch(cleaned); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		if len(m[3]) == 2 {
			if year > now.Year()%100+5 {
				year += 1900
			} else {
				year += 2000
			}
		}

		name := strconv.Itoa(month)
		if month >= 1 && month <= 12 {
			name = monthNames[month-1]
		}
		return fmt.Sprintf("%d %s %d", day, name, year)
	}

	if formattedDate.MatchString(trimmed) {
		return trimmed
	}
	return raw
}
