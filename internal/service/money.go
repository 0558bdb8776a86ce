package service

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAmount renders cents as a dollar amount with thousands separators,
// e.g. 123450 -> "$1,234.50" and -99 -> "-$0.99".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}
