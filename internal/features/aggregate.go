package features

import (
	"context"

	"golang.org/x/sync/errgroup"

	"storefeatures/pkg/contracts/domain"
)

// aggregateStore computes the per-store means over the rows at idx and
// broadcasts them, with the deviations, back onto those rows
func aggregateStore(records []domain.FeatureRecord, idx []int) {
	var sumSales, sumProfit, sumCustomers float64
	var customerRows int

	for _, i := range idx {
		rec := &records[i]
		sumSales += rec.Sales
		sumProfit += rec.Ratios.Profit
		if rec.Customers != nil {
			sumCustomers += *rec.Customers
			customerRows++
		}
	}

	n := float64(len(idx))
	avgSales := sumSales / n
	avgProfit := sumProfit / n

	var avgCustomers *float64
	if customerRows > 0 {
		v := sumCustomers / float64(customerRows)
		avgCustomers = &v
	}

	for _, i := range idx {
		rec := &records[i]
		rec.Aggregates = domain.StoreAggregates{
			AvgStoreSales:     avgSales,
			AvgStoreCustomers: avgCustomers,
			AvgStoreProfit:    avgProfit,
			SalesDeviation:    rec.Sales - avgSales,
			ProfitDeviation:   rec.Ratios.Profit - avgProfit,
		}
	}
}

// forEachStore runs fn for every store group with at most workers groups in
// flight. Each call receives a disjoint set of record indexes.
func forEachStore(ctx context.Context, t *Table, workers int, fn func(idx []int)) error {
	ids, groups := t.storeGroups()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, id := range ids {
		idx := groups[id]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(idx)
			return nil
		})
	}

	return g.Wait()
}
