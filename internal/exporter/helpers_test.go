package exporter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefeatures/internal/config"
	"storefeatures/internal/features"
	"storefeatures/internal/shared/testutil"
	"storefeatures/pkg/contracts/domain"
)

func f64(v float64) *float64 { return &v }

// sampleFrame builds a three-store feature frame: store 1 and 2 have
// metadata, store 3 does not
func sampleFrame(t *testing.T) *Frame {
	t.Helper()

	day := func(d int) time.Time { return time.Date(2015, time.July, d, 0, 0, 0, 0, time.UTC) }
	interval := "Jan,Apr,Jul,Oct"

	observations := []domain.Observation{
		{Store: 1, Date: day(31), Sales: 5263, Customers: f64(555), Extras: []string{"5"}},
		{Store: 1, Date: day(30), Sales: 5020, Customers: f64(546), Extras: []string{"4"}},
		{Store: 2, Date: day(31), Sales: 0, Customers: f64(0), Extras: []string{"5"}},
		{Store: 3, Date: day(31), Sales: 8314, Customers: nil, Extras: []string{"5"}},
	}
	stores := []domain.Store{
		{ID: 1, StoreType: "c", Assortment: "a", CompetitionDistance: f64(1270),
			CompetitionOpenSinceYear: f64(2008), CompetitionOpenSinceMonth: f64(9), Promo2: f64(0)},
		{ID: 2, StoreType: "a", Assortment: "a", CompetitionDistance: f64(570),
			Promo2: f64(1), PromoInterval: &interval},
	}
	schema := domain.Schema{HasCustomers: true, ObservationExtras: []string{"dayofweek"}}

	logger, _ := testutil.NewTestLogger(t)
	table, _, err := features.NewPipeline(config.DefaultFeatureConfig(), logger, nil).
		Build(context.Background(), observations, stores, schema)
	require.NoError(t, err)

	return NewFrame(table.Schema, table.Records)
}

func columnIndex(t *testing.T, frame *Frame, name string) int {
	t.Helper()
	for i, c := range frame.Columns {
		if c.Name == name {
			return i
		}
	}
	t.Fatalf("column %q not found", name)
	return -1
}
