package features

import (
	"sort"

	apperrors "storefeatures/internal/errors"
	"storefeatures/pkg/contracts/domain"
)

// Stats holds values computed once over the whole table. They are filled by
// the finalize pass of the step that owns them and never recomputed per row.
type Stats struct {
	// SalesBinEdges are the quantile boundaries of the sales distribution,
	// lowest first; len is QuantileBins+1 for a non-empty table
	SalesBinEdges []float64 `json:"sales_bin_edges"`

	MeanSalesPerCustomer float64 `json:"mean_sales_per_customer"`
	MeanSales            float64 `json:"mean_sales"`
}

// Table is the working state of one feature run. Stages append fields to
// Records; none of them clears a field written by an earlier stage.
type Table struct {
	Observations []domain.Observation
	Stores       []domain.Store
	Schema       domain.Schema

	Records  []domain.FeatureRecord
	Stats    Stats
	Warnings []apperrors.UnmappedCategoryWarning

	// DuplicateStores lists store ids present more than once in Stores
	DuplicateStores []int

	done map[string]bool
}

// NewTable creates the state for one run over the given inputs
func NewTable(observations []domain.Observation, stores []domain.Store, schema domain.Schema) *Table {
	return &Table{
		Observations: observations,
		Stores:       stores,
		Schema:       schema,
		done:         make(map[string]bool),
	}
}

// Len returns the number of joined records
func (t *Table) Len() int {
	return len(t.Records)
}

// StoreCount returns the number of distinct store ids among the records
func (t *Table) StoreCount() int {
	seen := make(map[int]struct{})
	for i := range t.Records {
		seen[t.Records[i].Store] = struct{}{}
	}
	return len(seen)
}

// Done reports whether the stage with the given id has completed
func (t *Table) Done(stage string) bool {
	return t.done[stage]
}

func (t *Table) markDone(stage string) {
	t.done[stage] = true
}

// addWarnings appends warnings in a deterministic order
func (t *Table) addWarnings(counts map[categoryKey]int) {
	warnings := make([]apperrors.UnmappedCategoryWarning, 0, len(counts))
	for k, n := range counts {
		warnings = append(warnings, apperrors.UnmappedCategoryWarning{Column: k.column, Value: k.value, Rows: n})
	}
	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].Column != warnings[j].Column {
			return warnings[i].Column < warnings[j].Column
		}
		return warnings[i].Value < warnings[j].Value
	})
	t.Warnings = append(t.Warnings, warnings...)
}

// storeGroups returns, for each store id in first-seen order, the indexes
// of its records
func (t *Table) storeGroups() (ids []int, groups map[int][]int) {
	groups = make(map[int][]int)
	for i := range t.Records {
		id := t.Records[i].Store
		if _, ok := groups[id]; !ok {
			ids = append(ids, id)
		}
		groups[id] = append(groups[id], i)
	}
	return ids, groups
}
