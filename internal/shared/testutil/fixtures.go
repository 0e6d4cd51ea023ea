package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ObservationsCSV is a small daily sales table covering two matched stores,
// one store without metadata, a zero-customer day and a zero-sales day.
const ObservationsCSV = `Store,DayOfWeek,Date,Sales,Customers,Open,Promo
1,5,2015-07-31,5263,555,1,1
1,4,2015-07-30,5020,546,1,1
1,3,2015-07-29,4782,523,1,0
2,5,2015-07-31,6064,625,1,1
2,4,2015-07-30,0,0,0,0
2,3,2015-07-29,5567,601,1,1
3,5,2015-07-31,8314,821,1,0
`

// StoresCSV carries metadata for stores 1 and 2 only. Store 2 runs a
// recurring promotion in July.
const StoresCSV = `Store,StoreType,Assortment,CompetitionDistance,CompetitionOpenSinceMonth,CompetitionOpenSinceYear,Promo2,Promo2SinceWeek,Promo2SinceYear,PromoInterval
1,c,a,1270,9,2008,0,,,
2,a,a,570,11,2007,1,13,2010,"Jan,Apr,Jul,Oct"
`

// WriteFixture writes content into dir/name and returns the path
func WriteFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteSalesFixtures writes ObservationsCSV and StoresCSV into a temp dir and
// returns their paths
func WriteSalesFixtures(t *testing.T) (observations, stores string) {
	t.Helper()

	dir := t.TempDir()
	return WriteFixture(t, dir, "train.csv", ObservationsCSV),
		WriteFixture(t, dir, "store.csv", StoresCSV)
}
