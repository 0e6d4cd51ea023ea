package features

import (
	"time"

	"storefeatures/pkg/contracts/domain"
)

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func obs(store int, date time.Time, sales float64) domain.Observation {
	return domain.Observation{Store: store, Date: date, Sales: sales}
}
