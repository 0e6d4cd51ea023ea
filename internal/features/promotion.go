package features

import (
	"strings"
	"time"
)

var monthTokens = func() map[string]time.Month {
	tokens := make(map[string]time.Month, 25)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		tokens[name] = m
		tokens[name[:3]] = m
	}
	tokens["sept"] = time.September
	return tokens
}()

// MonthSet is a set of calendar months
type MonthSet uint16

// Has reports whether m is in the set
func (s MonthSet) Has(m time.Month) bool {
	return s&(1<<uint(m)) != 0
}

// ParsePromoInterval parses a comma separated list of month names such as
// "Jan,Apr,Jul,Oct" or "February,May,August,November". Full names, three
// letter abbreviations and "Sept" are accepted in any case. The whole
// interval is rejected if any token is not a month.
func ParsePromoInterval(interval string) (MonthSet, bool) {
	if strings.TrimSpace(interval) == "" {
		return 0, false
	}

	var set MonthSet
	for _, token := range strings.Split(interval, ",") {
		m, ok := monthTokens[strings.ToLower(strings.TrimSpace(token))]
		if !ok {
			return 0, false
		}
		set |= 1 << uint(m)
	}
	return set, true
}

// IsPromo2Active reports whether the recurring promotion runs in the month
// of date. It is false unless promo2 is exactly 1 and interval parses.
func IsPromo2Active(promo2 *float64, interval *string, date time.Time) bool {
	if promo2 == nil || *promo2 != 1 || interval == nil {
		return false
	}

	months, ok := ParsePromoInterval(*interval)
	if !ok {
		return false
	}
	return months.Has(date.Month())
}
