package features

import (
	"storefeatures/pkg/contracts/domain"
)

// globalMeans computes the table-wide means the flags compare against.
// An empty table yields zeros.
func globalMeans(records []domain.FeatureRecord) (meanSPC, meanSales float64) {
	if len(records) == 0 {
		return 0, 0
	}

	var sumSPC, sumSales float64
	for i := range records {
		sumSPC += records[i].Ratios.SalesPerCustomer
		sumSales += records[i].Sales
	}
	n := float64(len(records))
	return sumSPC / n, sumSales / n
}

// FlagThresholds are the policy constants of the business flags
type FlagThresholds struct {
	CompetitionDistance float64
	RiskMargin          float64
}

// deriveFlags sets the business flags of one record against precomputed
// global statistics
func deriveFlags(rec *domain.FeatureRecord, schema domain.Schema, stats Stats, th FlagThresholds) domain.BusinessFlags {
	var bf domain.BusinessFlags

	if schema.HasPromo && rec.Promo != nil {
		bf.IsPromoActive = *rec.Promo != 0
	}

	if rec.StoreInfo != nil && rec.StoreInfo.CompetitionDistance != nil {
		bf.HasCompetition = *rec.StoreInfo.CompetitionDistance < th.CompetitionDistance
	}

	bf.NeedsBoost = rec.Ratios.SalesPerCustomer < stats.MeanSalesPerCustomer && !bf.IsPromoActive
	bf.RiskFlag = rec.Ratios.ProfitMargin < th.RiskMargin && rec.Sales < stats.MeanSales
	return bf
}
