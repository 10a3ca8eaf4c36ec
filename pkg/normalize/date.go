package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateSeparator = regexp.MustCompile(`[/-]`)

// FormatDate rewrites a day/month/year date ("05/03/2024", "5-3-2024") as "5th March 2024".
// Anything that is not a valid calendar date in that order is returned unchanged.
func FormatDate(s string) string {
	parts := dateSeparator.Split(strings.TrimSpace(s), -1)
	if len(parts) != 3 {
		return s
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return s
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 {
		return s
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return s
	}
	return fmt.Sprintf("%d%s %s %d", day, ordinalSuffix(day), t.Month(), year)
}

func ordinalSuffix(day int) string {
	if (day > 3 && day < 21) || day%10 > 3 {
		return "th"
	}
	return [...]string{"th", "st", "nd", "rd"}[day%10]
}
