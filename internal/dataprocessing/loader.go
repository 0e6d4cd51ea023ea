package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"storefeatures/internal/config"
	apperrors "storefeatures/internal/errors"
	"storefeatures/pkg/contracts/domain"
)

// Normalized column names of the input tables
const (
	ColStore         = "store"
	ColDate          = "date"
	ColSales         = "sales"
	ColCustomers     = "customers"
	ColPromo         = "promo"
	ColProfit        = "profit"
	ColStoreType     = "storetype"
	ColAssortment    = "assortment"
	ColCompDistance  = "competitiondistance"
	ColCompOpenYear  = "competitionopensinceyear"
	ColCompOpenMonth = "competitionopensincemonth"
	ColPromo2        = "promo2"
	ColPromoInterval = "promointerval"
)

var (
	requiredObservationColumns = []string{ColStore, ColDate, ColSales}
	optionalObservationColumns = []string{ColCustomers, ColPromo, ColProfit}
	requiredStoreColumns       = []string{
		ColStore, ColStoreType, ColAssortment, ColCompDistance,
		ColCompOpenYear, ColCompOpenMonth, ColPromo2, ColPromoInterval,
	}
)

// Dataset is the typed content of both input tables
type Dataset struct {
	Observations []domain.Observation
	Stores       []domain.Store
	Schema       domain.Schema

	// Rejected counts observation rows dropped for an unparseable date
	Rejected int
}

// Loader converts raw tables into domain values
type Loader struct {
	cfg    config.InputConfig
	logger *slog.Logger
}

// NewLoader creates a loader for the given input settings
func NewLoader(cfg config.InputConfig, logger *slog.Logger) *Loader {
	return &Loader{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "loader")),
	}
}

// Load types both tables. Any schema or cell error aborts; a bad date
// aborts or drops the row depending on the date error policy.
func (l *Loader) Load(ctx context.Context, observations, stores *RawTable) (*Dataset, error) {
	ds := &Dataset{}

	var err error
	ds.Observations, ds.Schema, ds.Rejected, err = l.LoadObservations(ctx, observations)
	if err != nil {
		return nil, err
	}

	var storeExtras []string
	ds.Stores, storeExtras, err = l.LoadStores(stores)
	if err != nil {
		return nil, err
	}
	ds.Schema.StoreExtras = storeExtras

	l.logger.InfoContext(ctx, "inputs loaded",
		"observations", len(ds.Observations),
		"stores", len(ds.Stores),
		"rejected", ds.Rejected)
	return ds, nil
}

// columnIndex maps normalized names to positions and reports the first
// missing required column
func columnIndex(t *RawTable, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, apperrors.NewInputSchemaError(t.Name, col)
		}
	}
	return idx, nil
}

// extraColumns returns the positions and names of columns not in known
func extraColumns(t *RawTable, idx map[string]int, known ...[]string) ([]int, []string) {
	skip := make(map[string]bool)
	for _, list := range known {
		for _, col := range list {
			skip[col] = true
		}
	}

	var (
		positions []int
		names     []string
	)
	for i, h := range t.Header {
		if skip[h] || idx[h] != i {
			continue
		}
		positions = append(positions, i)
		names = append(names, h)
	}
	return positions, names
}

// LoadObservations types the observation table. It returns the schema of
// the optional columns and the number of rows rejected for bad dates.
func (l *Loader) LoadObservations(ctx context.Context, t *RawTable) ([]domain.Observation, domain.Schema, int, error) {
	idx, err := columnIndex(t, requiredObservationColumns)
	if err != nil {
		return nil, domain.Schema{}, 0, err
	}

	_, hasCustomers := idx[ColCustomers]
	_, hasPromo := idx[ColPromo]
	_, hasProfit := idx[ColProfit]
	extraPos, extraNames := extraColumns(t, idx, requiredObservationColumns, optionalObservationColumns)

	schema := domain.Schema{
		HasCustomers:      hasCustomers,
		HasPromo:          hasPromo,
		HasProfit:         hasProfit,
		ObservationExtras: extraNames,
	}

	observations := make([]domain.Observation, 0, len(t.Rows))
	rejected := 0

	for i := range t.Rows {
		if i%8192 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, schema, rejected, err
			}
		}

		p := cellParser{table: t, row: i}

		date, dateErr := p.date(idx[ColDate], l.cfg.DateLayout)
		if dateErr != nil {
			if !l.cfg.RejectsBadDates() {
				return nil, schema, rejected, dateErr
			}
			rejected++
			l.logger.DebugContext(ctx, "observation rejected",
				"line", dateErr.Line,
				"value", dateErr.Value)
			continue
		}

		obs := domain.Observation{
			Store: p.requiredInt(ColStore, idx[ColStore]),
			Date:  date,
			Sales: p.requiredFloat(ColSales, idx[ColSales]),
			Line:  t.Line(i),
		}
		if hasCustomers {
			obs.Customers = p.optionalFloat(ColCustomers, idx[ColCustomers])
		}
		if hasPromo {
			obs.Promo = p.optionalFloat(ColPromo, idx[ColPromo])
		}
		if hasProfit {
			obs.Profit = p.optionalFloat(ColProfit, idx[ColProfit])
		}
		obs.Extras = p.strings(extraPos)

		if p.err != nil {
			return nil, schema, rejected, p.err
		}
		observations = append(observations, obs)
	}

	if rejected > 0 {
		l.logger.WarnContext(ctx, "observations rejected for unparseable dates",
			"rows", rejected,
			"layout", l.cfg.DateLayout)
	}
	return observations, schema, rejected, nil
}

// LoadStores types the store table and returns the pass-through column names
func (l *Loader) LoadStores(t *RawTable) ([]domain.Store, []string, error) {
	idx, err := columnIndex(t, requiredStoreColumns)
	if err != nil {
		return nil, nil, err
	}
	extraPos, extraNames := extraColumns(t, idx, requiredStoreColumns)

	stores := make([]domain.Store, 0, len(t.Rows))
	for i := range t.Rows {
		p := cellParser{table: t, row: i}

		store := domain.Store{
			ID:                        p.requiredInt(ColStore, idx[ColStore]),
			StoreType:                 p.text(idx[ColStoreType]),
			Assortment:                p.text(idx[ColAssortment]),
			CompetitionDistance:       p.optionalFloat(ColCompDistance, idx[ColCompDistance]),
			CompetitionOpenSinceYear:  p.optionalFloat(ColCompOpenYear, idx[ColCompOpenYear]),
			CompetitionOpenSinceMonth: p.optionalFloat(ColCompOpenMonth, idx[ColCompOpenMonth]),
			Promo2:                    p.optionalFloat(ColPromo2, idx[ColPromo2]),
			PromoInterval:             p.optionalText(idx[ColPromoInterval]),
			Extras:                    p.strings(extraPos),
		}
		if p.err != nil {
			return nil, nil, p.err
		}
		stores = append(stores, store)
	}
	return stores, extraNames, nil
}

// cellParser reads typed cells of one row and keeps the first error
type cellParser struct {
	table *RawTable
	row   int
	err   error
}

func (p *cellParser) cell(j int) string {
	return strings.TrimSpace(p.table.Cell(p.row, j))
}

func (p *cellParser) fail(column, value string, cause error) {
	if p.err != nil {
		return
	}
	p.err = &apperrors.CellParseError{
		Table:  p.table.Name,
		Line:   p.table.Line(p.row),
		Column: column,
		Value:  value,
		Cause:  cause,
	}
}

func (p *cellParser) date(j int, layout string) (time.Time, *apperrors.DateParseError) {
	value := p.cell(j)
	d, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, &apperrors.DateParseError{
			Table:  p.table.Name,
			Line:   p.table.Line(p.row),
			Value:  value,
			Layout: layout,
			Cause:  err,
		}
	}
	return d.UTC(), nil
}

func (p *cellParser) optionalFloat(column string, j int) *float64 {
	value := p.cell(j)
	if IsNull(value) {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(v, 0) {
		p.fail(column, value, err)
		return nil
	}
	return &v
}

func (p *cellParser) requiredFloat(column string, j int) float64 {
	v := p.optionalFloat(column, j)
	if v == nil {
		p.fail(column, "", nil)
		return 0
	}
	return *v
}

func (p *cellParser) requiredInt(column string, j int) int {
	v := p.requiredFloat(column, j)
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		p.fail(column, p.cell(j), nil)
		return 0
	}
	return int(v)
}

func (p *cellParser) text(j int) string {
	return p.cell(j)
}

func (p *cellParser) optionalText(j int) *string {
	value := p.cell(j)
	if IsNull(value) {
		return nil
	}
	return &value
}

func (p *cellParser) strings(positions []int) []string {
	if len(positions) == 0 {
		return nil
	}
	out := make([]string, len(positions))
	for k, j := range positions {
		out[k] = p.table.Cell(p.row, j)
	}
	return out
}
