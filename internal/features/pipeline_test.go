package features

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefeatures/internal/config"
	"storefeatures/internal/operations"
	"storefeatures/internal/shared/testutil"
	"storefeatures/pkg/contracts/domain"
)

func sampleInputs() ([]domain.Observation, []domain.Store, domain.Schema) {
	withCustomers := func(o domain.Observation, customers, promo float64) domain.Observation {
		o.Customers = f64(customers)
		o.Promo = f64(promo)
		return o
	}

	observations := []domain.Observation{
		withCustomers(obs(1, day(2015, time.July, 31), 5263), 555, 1),
		withCustomers(obs(1, day(2015, time.July, 30), 5020), 546, 1),
		withCustomers(obs(1, day(2015, time.July, 29), 4782), 523, 0),
		withCustomers(obs(2, day(2015, time.July, 31), 6064), 625, 1),
		withCustomers(obs(2, day(2015, time.July, 30), 0), 0, 0),
		withCustomers(obs(2, day(2015, time.July, 29), 5567), 601, 1),
		withCustomers(obs(3, day(2015, time.July, 31), 8314), 821, 0),
	}

	stores := []domain.Store{
		{
			ID: 1, StoreType: "c", Assortment: "a",
			CompetitionDistance:       f64(1270),
			CompetitionOpenSinceMonth: f64(9),
			CompetitionOpenSinceYear:  f64(2008),
			Promo2:                    f64(0),
		},
		{
			ID: 2, StoreType: "a", Assortment: "a",
			CompetitionDistance:       f64(570),
			CompetitionOpenSinceMonth: f64(11),
			CompetitionOpenSinceYear:  f64(2007),
			Promo2:                    f64(1),
			PromoInterval:             str("Jan,Apr,Jul,Oct"),
		},
	}

	return observations, stores, domain.Schema{HasCustomers: true, HasPromo: true}
}

func newTestPipeline(t *testing.T) (*Pipeline, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	return NewPipeline(config.DefaultFeatureConfig(), logger, nil), logs
}

func TestPipeline_Build(t *testing.T) {
	p, logs := newTestPipeline(t)
	observations, stores, schema := sampleInputs()

	table, state, err := p.Build(context.Background(), observations, stores, schema)
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, operations.OperationStatusCompleted, state.Status)
	assert.Len(t, state.Steps(), 10)
	assert.Equal(t, 7, table.Len())
	assert.Equal(t, 3, table.StoreCount())
	assert.True(t, IsSortedByStoreDate(table.Records))
	assert.Len(t, table.Stats.SalesBinEdges, 6)
	testutil.AssertNoErrors(t, logs)

	first := table.Records[0]
	assert.Equal(t, 1, first.Store)
	assert.Equal(t, day(2015, time.July, 29), first.Date)
	assert.Nil(t, first.Window.SalesLag1)
	assert.Equal(t, "c_a", *first.Category.StoreTypeAssortment)
	assert.Equal(t, 1, *first.Category.StoreTypeEnc)
	assert.Equal(t, "Summer", first.Category.Season)
	assert.False(t, first.IsPromo2Active)
	assert.True(t, first.Flags.HasCompetition)
	assert.False(t, first.Flags.IsPromoActive)

	last1 := table.Records[2]
	assert.Equal(t, day(2015, time.July, 31), last1.Date)
	assert.Equal(t, 2524, last1.Competition.AgeDays)
	require.NotNil(t, last1.Window.SalesLag1)
	assert.Equal(t, 5020.0, *last1.Window.SalesLag1)
	assert.InDelta(t, (4782.0+5020+5263)/3, last1.Window.SalesRolling7, 1e-9)
	assert.InDelta(t, (4782.0+5020+5263)/3, last1.Aggregates.AvgStoreSales, 1e-9)

	// store 2 runs its recurring promotion in July
	zeroDay := table.Records[4]
	assert.Equal(t, 2, zeroDay.Store)
	assert.Equal(t, day(2015, time.July, 30), zeroDay.Date)
	assert.True(t, zeroDay.IsPromo2Active)
	assert.True(t, zeroDay.SalesFeatures.IsNoSales)
	assert.Equal(t, "verylow", zeroDay.SalesFeatures.SalesBin)
	assert.Equal(t, 0.0, zeroDay.Ratios.SalesPerCustomer)
	assert.Equal(t, 0.0, zeroDay.Ratios.ProfitMargin)
	assert.Equal(t, 0.0, table.Records[5].Window.SalesPctChange)

	// store 3 has no metadata
	orphan := table.Records[6]
	assert.Equal(t, 3, orphan.Store)
	assert.Nil(t, orphan.StoreInfo)
	assert.Nil(t, orphan.Category.StoreTypeAssortment)
	assert.Nil(t, orphan.Category.StoreTypeEnc)
	assert.Nil(t, orphan.Competition.Open)
	assert.Equal(t, 0, orphan.Competition.AgeDays)
	assert.False(t, orphan.Flags.HasCompetition)
	assert.Equal(t, "veryhigh", orphan.SalesFeatures.SalesBin)
	assert.Equal(t, 8314.0, orphan.Window.SalesRolling7)
}

func TestPipeline_Invariants(t *testing.T) {
	p, _ := newTestPipeline(t)
	observations, stores, schema := sampleInputs()

	table, _, err := p.Build(context.Background(), observations, stores, schema)
	require.NoError(t, err)

	for _, rec := range table.Records {
		assert.GreaterOrEqual(t, rec.Competition.AgeDays, 0)
		for _, v := range []float64{rec.Ratios.SalesPerCustomer, rec.Ratios.ProfitMargin, rec.Window.SalesPctChange} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
		assert.Contains(t, config.DefaultBinLabels, rec.SalesFeatures.SalesBin)
		assert.Equal(t, rec.Sales <= 0, rec.SalesFeatures.IsNoSales)
		assert.Equal(t, 2015, rec.Calendar.Year)
	}
}

func TestPipeline_NegativeSalesStayFinite(t *testing.T) {
	p, _ := newTestPipeline(t)

	observations := []domain.Observation{
		obs(1, day(2015, time.July, 1), -5),
		obs(1, day(2015, time.July, 2), -1),
		obs(1, day(2015, time.July, 3), 100),
		obs(1, day(2015, time.July, 4), 200),
		obs(1, day(2015, time.July, 5), 300),
	}

	table, _, err := p.Build(context.Background(), observations, nil, domain.Schema{})
	require.NoError(t, err)
	require.Equal(t, 5, table.Len())

	for _, rec := range table.Records {
		for _, v := range []float64{
			rec.SalesFeatures.LogSales,
			rec.Ratios.ProfitMargin,
			rec.Window.SalesPctChange,
			rec.Window.SalesRolling7,
		} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "store %d %s", rec.Store, rec.Date)
		}
	}

	assert.Equal(t, 0.0, table.Records[0].SalesFeatures.LogSales)
	assert.Equal(t, 0.0, table.Records[1].SalesFeatures.LogSales)
	assert.True(t, table.Records[0].SalesFeatures.IsNoSales)
	assert.Equal(t, "verylow", table.Records[0].SalesFeatures.SalesBin)
}

func TestPipeline_Idempotent(t *testing.T) {
	p, _ := newTestPipeline(t)
	observations, stores, schema := sampleInputs()

	first, _, err := p.Build(context.Background(), observations, stores, schema)
	require.NoError(t, err)
	second, _, err := p.Build(context.Background(), observations, stores, schema)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestPipeline_UnmappedCategoriesWarn(t *testing.T) {
	p, logs := newTestPipeline(t)
	observations, stores, schema := sampleInputs()
	stores[0].StoreType = "None"

	table, _, err := p.Build(context.Background(), observations, stores, schema)
	require.NoError(t, err)

	require.Len(t, table.Warnings, 1)
	assert.Equal(t, "storetype", table.Warnings[0].Column)
	assert.Equal(t, "None", table.Warnings[0].Value)
	assert.Equal(t, 3, table.Warnings[0].Rows)
	assert.Nil(t, table.Records[0].Category.StoreTypeEnc)
	assert.True(t, logs.ContainsMessage("unmapped category value"))
}

func TestPipeline_DuplicateStores(t *testing.T) {
	p, logs := newTestPipeline(t)
	observations, stores, schema := sampleInputs()
	stores = append(stores, stores[1])

	table, _, err := p.Build(context.Background(), observations, stores, schema)
	require.NoError(t, err)

	assert.Equal(t, 10, table.Len())
	assert.Equal(t, []int{2}, table.DuplicateStores)
	assert.True(t, logs.ContainsMessage("duplicate store ids fan out observations"))
}

func TestPipeline_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.FeatureConfig)
	}{
		{"zero rolling window", func(c *config.FeatureConfig) { c.RollingWindow = 0 }},
		{"labels do not match bins", func(c *config.FeatureConfig) { c.QuantileBins = 4 }},
		{"no bins", func(c *config.FeatureConfig) { c.QuantileBins = 0; c.BinLabels = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			cfg := config.DefaultFeatureConfig()
			tt.mutate(&cfg)

			observations, stores, schema := sampleInputs()
			table, state, err := NewPipeline(cfg, logger, nil).Build(context.Background(), observations, stores, schema)

			require.Error(t, err)
			assert.Equal(t, operations.ErrorTypeFatal, operations.GetErrorType(err))
			assert.Nil(t, table)
			assert.Nil(t, state)
		})
	}
}

func TestPipeline_EmptyInput(t *testing.T) {
	p, _ := newTestPipeline(t)

	table, _, err := p.Build(context.Background(), nil, nil, domain.Schema{})
	require.NoError(t, err)
	assert.Zero(t, table.Len())
	assert.Nil(t, table.Stats.SalesBinEdges)
}

func TestPipeline_Cancelled(t *testing.T) {
	p, _ := newTestPipeline(t)
	observations, stores, schema := sampleInputs()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table, state, err := p.Build(ctx, observations, stores, schema)
	require.Error(t, err)
	assert.Nil(t, table)
	assert.Equal(t, operations.ErrorTypeCancellation, operations.GetErrorType(err))
	assert.Equal(t, operations.OperationStatusCancelled, state.Status)
}

func TestStages_RequirePriorStages(t *testing.T) {
	table := NewTable(nil, nil, domain.Schema{})

	err := NewCalendarStage().Validate(table)
	assert.Error(t, err)

	logger, _ := testutil.NewTestLogger(t)
	require.NoError(t, NewJoinStage(logger).Execute(context.Background(), table))
	assert.NoError(t, NewCalendarStage().Validate(table))
	assert.Error(t, NewFlagsStage(config.DefaultFeatureConfig(), logger).Validate(table))
}
