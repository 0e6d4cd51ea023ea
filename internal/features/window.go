package features

import (
	"sort"

	"storefeatures/pkg/contracts/domain"
)

// SortByStoreDate stable-sorts records by store id then date
func SortByStoreDate(records []domain.FeatureRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Store != records[j].Store {
			return records[i].Store < records[j].Store
		}
		return records[i].Date.Before(records[j].Date)
	})
}

// IsSortedByStoreDate reports whether records are ordered by store id then date
func IsSortedByStoreDate(records []domain.FeatureRecord) bool {
	return sort.SliceIsSorted(records, func(i, j int) bool {
		if records[i].Store != records[j].Store {
			return records[i].Store < records[j].Store
		}
		return records[i].Date.Before(records[j].Date)
	})
}

// windowStore computes lag, percent change and trailing mean over the rows
// at idx, which must be one store's rows in chronological order
func windowStore(records []domain.FeatureRecord, idx []int, window int) {
	for pos, i := range idx {
		rec := &records[i]
		wf := domain.WindowFeatures{}

		if pos > 0 {
			prev := records[idx[pos-1]].Sales
			wf.SalesLag1 = &prev
			wf.SalesPctChange = SafeDivide(rec.Sales-prev, prev)
		}

		start := pos - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, j := range idx[start : pos+1] {
			sum += records[j].Sales
		}
		wf.SalesRolling7 = sum / float64(pos+1-start)

		rec.Window = wf
	}
}
