package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefeatures/pkg/contracts/domain"
)

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.5, SafeDivide(5, 2))
	assert.Equal(t, 0.0, SafeDivide(5, 0))
	assert.Equal(t, 0.0, SafeDivide(-5, 0))
	assert.Equal(t, 0.0, SafeDivide(0, 0))
	assert.Equal(t, 0.0, SafeDivide(math.NaN(), 1))
	assert.Equal(t, 0.0, SafeDivide(math.Inf(1), 1))
}

func TestDeriveRatios(t *testing.T) {
	withCustomers := domain.Schema{HasCustomers: true}

	tests := []struct {
		name   string
		rec    domain.Observation
		schema domain.Schema
		want   domain.RatioFeatures
	}{
		{
			name:   "customers present",
			rec:    domain.Observation{Sales: 5263, Customers: f64(555)},
			schema: withCustomers,
			want:   domain.RatioFeatures{SalesPerCustomer: 5263.0 / 555, Profit: 526.3, ProfitMargin: 0.1},
		},
		{
			name:   "zero customers",
			rec:    domain.Observation{Sales: 100, Customers: f64(0)},
			schema: withCustomers,
			want:   domain.RatioFeatures{SalesPerCustomer: 0, Profit: 10, ProfitMargin: 0.1},
		},
		{
			name:   "missing customers column",
			rec:    domain.Observation{Sales: 100, Customers: f64(4)},
			schema: domain.Schema{},
			want:   domain.RatioFeatures{SalesPerCustomer: 0, Profit: 10, ProfitMargin: 0.1},
		},
		{
			name:   "zero sales",
			rec:    domain.Observation{Sales: 0, Customers: f64(0)},
			schema: withCustomers,
			want:   domain.RatioFeatures{},
		},
		{
			name:   "observed loss",
			rec:    domain.Observation{Sales: 200, Profit: f64(-50)},
			schema: domain.Schema{HasProfit: true},
			want:   domain.RatioFeatures{Profit: -50, ProfitMargin: -0.25, IsLoss: true},
		},
		{
			name:   "profit column with missing value",
			rec:    domain.Observation{Sales: 200},
			schema: domain.Schema{HasProfit: true},
			want:   domain.RatioFeatures{Profit: 20, ProfitMargin: 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rec.Date = day(2015, time.July, 31)
			rec := domain.FeatureRecord{Observation: tt.rec}

			got := deriveRatios(&rec, tt.schema, 0.1)

			assert.InDelta(t, tt.want.SalesPerCustomer, got.SalesPerCustomer, 1e-9)
			assert.InDelta(t, tt.want.Profit, got.Profit, 1e-9)
			assert.InDelta(t, tt.want.ProfitMargin, got.ProfitMargin, 1e-9)
			assert.Equal(t, tt.want.IsLoss, got.IsLoss)
		})
	}
}

func TestDeriveFlags(t *testing.T) {
	stats := Stats{MeanSalesPerCustomer: 9, MeanSales: 5000}
	th := FlagThresholds{CompetitionDistance: 2000, RiskMargin: 0.05}
	schema := domain.Schema{HasCustomers: true, HasPromo: true}

	near := &domain.Store{ID: 1, CompetitionDistance: f64(570)}
	far := &domain.Store{ID: 2, CompetitionDistance: f64(2000)}

	rec := domain.FeatureRecord{
		Observation: domain.Observation{Sales: 100, Promo: f64(0)},
		StoreInfo:   near,
		Ratios:      domain.RatioFeatures{SalesPerCustomer: 5, ProfitMargin: 0.01},
	}
	bf := deriveFlags(&rec, schema, stats, th)
	assert.False(t, bf.IsPromoActive)
	assert.True(t, bf.HasCompetition)
	assert.True(t, bf.NeedsBoost)
	assert.True(t, bf.RiskFlag)

	rec.Promo = f64(1)
	rec.StoreInfo = far
	rec.Sales = 6000
	bf = deriveFlags(&rec, schema, stats, th)
	assert.True(t, bf.IsPromoActive)
	assert.False(t, bf.HasCompetition)
	assert.False(t, bf.NeedsBoost)
	assert.False(t, bf.RiskFlag)

	// missing promo value and unmatched store
	rec.Promo = nil
	rec.StoreInfo = nil
	bf = deriveFlags(&rec, schema, stats, th)
	assert.False(t, bf.IsPromoActive)
	assert.False(t, bf.HasCompetition)
	assert.True(t, bf.NeedsBoost)
}

func TestGlobalMeans(t *testing.T) {
	spc, sales := globalMeans(nil)
	assert.Zero(t, spc)
	assert.Zero(t, sales)

	records := []domain.FeatureRecord{
		{Observation: domain.Observation{Sales: 100}, Ratios: domain.RatioFeatures{SalesPerCustomer: 10}},
		{Observation: domain.Observation{Sales: 300}, Ratios: domain.RatioFeatures{SalesPerCustomer: 0}},
	}
	spc, sales = globalMeans(records)
	assert.Equal(t, 5.0, spc)
	assert.Equal(t, 200.0, sales)
}
