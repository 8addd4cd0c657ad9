package importer

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/itchyny/timefmt-go"
)

// parseDate parses value with a strptime pattern into a calendar date. Text
// outside directives must match literally; month, day and hour accept one or
// two digits. Impossible dates such as 02/30 are rejected instead of rolling
// over into the next month.
func parseDate(value, pattern string) (civil.Date, error) {
	value = strings.TrimSpace(value)
	t, err := timefmt.Parse(value, pattern)
	if err != nil {
		return civil.Date{}, err
	}
	if !sameFields(value, timefmt.Format(t, pattern)) {
		return civil.Date{}, fmt.Errorf("%q is not a valid calendar date", value)
	}
	return civil.DateOf(t), nil
}

// sameFields compares the digit and letter runs of two renderings of a date.
// Digit runs compare by value so padding does not matter; letter runs
// compare case-insensitively. Everything else is ignored.
func sameFields(a, b string) bool {
	fa, fb := dateFields(a), dateFields(b)
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		x, errX := strconv.Atoi(fa[i])
		y, errY := strconv.Atoi(fb[i])
		if errX == nil && errY == nil {
			if x != y {
				return false
			}
			continue
		}
		if !strings.EqualFold(fa[i], fb[i]) {
			return false
		}
	}
	return true
}

func dateFields(s string) []string {
	var fields []string
	start := -1
	kind := byte(0)
	for i := 0; i <= len(s); i++ {
		var k byte
		if i < len(s) {
			switch c := s[i]; {
			case '0' <= c && c <= '9':
				k = 'd'
			case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
				k = 'a'
			}
		}
		if k != kind {
			if kind != 0 {
				fields = append(fields, s[start:i])
			}
			start, kind = i, k
		}
	}
	return fields
}
