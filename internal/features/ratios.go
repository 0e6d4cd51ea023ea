package features

import (
	"math"

	"storefeatures/pkg/contracts/domain"
)

// SafeDivide returns num/den, or 0 when the quotient is NaN or infinite
func SafeDivide(num, den float64) float64 {
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// deriveRatios computes the guarded ratios of one record. Profit falls back
// to sales*defaultProfitRate when the input had no profit value.
func deriveRatios(rec *domain.FeatureRecord, schema domain.Schema, defaultProfitRate float64) domain.RatioFeatures {
	var rf domain.RatioFeatures

	if schema.HasCustomers && rec.Customers != nil {
		rf.SalesPerCustomer = SafeDivide(rec.Sales, *rec.Customers)
	}

	if schema.HasProfit && rec.Profit != nil {
		rf.Profit = *rec.Profit
	} else {
		rf.Profit = rec.Sales * defaultProfitRate
	}

	rf.ProfitMargin = SafeDivide(rf.Profit, rec.Sales)
	rf.IsLoss = rf.Profit < 0
	return rf
}
