package exporter

import (
	"fmt"
	"time"

	"storefeatures/pkg/contracts/domain"
)

// Kind is the storage type of an output column
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindReal
	KindBool
	KindDate
)

// SQLType returns the SQLite column affinity of k
func (k Kind) SQLType() string {
	switch k {
	case KindInt, KindBool:
		return "INTEGER"
	case KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Column is one column of the feature table
type Column struct {
	Name string
	Kind Kind
}

// Value is one typed cell. A value that is not Valid is null and is written
// as an empty cell or SQL NULL.
type Value struct {
	Kind  Kind
	Valid bool
	Text  string
	Int   int64
	Real  float64
	Bool  bool
	Date  time.Time
}

func textValue(s string) Value    { return Value{Kind: KindText, Valid: true, Text: s} }
func intValue(i int) Value        { return Value{Kind: KindInt, Valid: true, Int: int64(i)} }
func realValue(f float64) Value   { return Value{Kind: KindReal, Valid: true, Real: f} }
func boolValue(b bool) Value      { return Value{Kind: KindBool, Valid: true, Bool: b} }
func dateValue(t time.Time) Value { return Value{Kind: KindDate, Valid: true, Date: t} }
func nullValue(k Kind) Value      { return Value{Kind: k} }

func optReal(f *float64) Value {
	if f == nil {
		return nullValue(KindReal)
	}
	return realValue(*f)
}

func optInt(i *int) Value {
	if i == nil {
		return nullValue(KindInt)
	}
	return intValue(*i)
}

func optText(s *string) Value {
	if s == nil {
		return nullValue(KindText)
	}
	return textValue(*s)
}

func optDate(t *time.Time) Value {
	if t == nil {
		return nullValue(KindDate)
	}
	return dateValue(*t)
}

// String renders the value for delimited output; nulls are empty
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	switch v.Kind {
	case KindInt:
		return formatInt(v.Int)
	case KindReal:
		return formatFloat(v.Real)
	case KindBool:
		return formatBool(v.Bool)
	case KindDate:
		return formatDate(v.Date)
	default:
		return v.Text
	}
}

// SQL returns the driver value; nil for nulls, 0/1 for booleans
func (v Value) SQL() interface{} {
	if !v.Valid {
		return nil
	}
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindReal:
		return v.Real
	case KindBool:
		if v.Bool {
			return int64(1)
		}
		return int64(0)
	case KindDate:
		return formatDate(v.Date)
	default:
		return v.Text
	}
}

// Frame is the column contract of a feature table together with its rows
type Frame struct {
	Columns []Column
	records []domain.FeatureRecord
	schema  domain.Schema
}

// NewFrame lays out records with the columns implied by schema: observation
// columns, store columns, then the derived feature columns
func NewFrame(schema domain.Schema, records []domain.FeatureRecord) *Frame {
	return &Frame{
		Columns: FeatureColumns(schema),
		records: records,
		schema:  schema,
	}
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.records)
}

// Header returns the column names
func (f *Frame) Header() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

var derivedColumns = []Column{
	{"year", KindInt}, {"month", KindInt}, {"day", KindInt}, {"weekday", KindInt},
	{"weekofyear", KindInt}, {"quarter", KindInt}, {"isweekend", KindBool},
	{"ismonthstart", KindBool}, {"ismonthend", KindBool}, {"monthname", KindText},
	{"dayofweekname", KindText},

	{"season", KindText}, {"storetype_assortment", KindText},
	{"storetype_enc", KindInt}, {"assortment_enc", KindInt},

	{"ispromo2active", KindBool},

	{"competitionopen", KindDate}, {"competitionagedays", KindInt},

	{"logsales", KindReal}, {"isnosales", KindBool}, {"salesbin", KindText},

	{"salespercustomer", KindReal}, {"profit", KindReal},
	{"profitmargin", KindReal}, {"isloss", KindBool},

	{"ispromoactive", KindBool}, {"hascompetition", KindBool},
	{"needsboost", KindBool}, {"riskflag", KindBool},

	{"avg_store_sales", KindReal}, {"avg_store_customers", KindReal},
	{"avg_store_profit", KindReal}, {"sales_deviation", KindReal},
	{"profit_deviation", KindReal},

	{"sales_lag1", KindReal}, {"sales_pct_change", KindReal}, {"sales_rolling7", KindReal},
}

// FeatureColumns returns the output columns for schema
func FeatureColumns(schema domain.Schema) []Column {
	cols := []Column{{"store", KindInt}, {"date", KindDate}, {"sales", KindReal}}
	if schema.HasCustomers {
		cols = append(cols, Column{"customers", KindReal})
	}
	if schema.HasPromo {
		cols = append(cols, Column{"promo", KindReal})
	}
	for _, name := range schema.ObservationExtras {
		cols = append(cols, Column{name, KindText})
	}

	cols = append(cols,
		Column{"storetype", KindText},
		Column{"assortment", KindText},
		Column{"competitiondistance", KindReal},
		Column{"competitionopensinceyear", KindReal},
		Column{"competitionopensincemonth", KindReal},
		Column{"promo2", KindReal},
		Column{"promointerval", KindText},
	)
	for _, name := range schema.StoreExtras {
		cols = append(cols, Column{name, KindText})
	}

	cols = append(cols, derivedColumns...)
	return uniqueNames(cols)
}

// uniqueNames suffixes repeated column names with _2, _3, ... so that
// pass-through columns never collide with each other or with derived ones
func uniqueNames(cols []Column) []Column {
	seen := make(map[string]int, len(cols))
	for _, c := range cols {
		seen[c.Name] = 0
	}
	for i := range cols {
		name := cols[i].Name
		seen[name]++
		if seen[name] == 1 {
			continue
		}
		for n := seen[name]; ; n++ {
			candidate := fmt.Sprintf("%s_%d", name, n)
			if _, taken := seen[candidate]; !taken {
				seen[candidate] = 1
				cols[i].Name = candidate
				break
			}
		}
	}
	return cols
}

// Row returns the values of row i in column order
func (f *Frame) Row(i int) []Value {
	rec := &f.records[i]
	row := make([]Value, 0, len(f.Columns))

	row = append(row, intValue(rec.Store), dateValue(rec.Date), realValue(rec.Sales))
	if f.schema.HasCustomers {
		row = append(row, optReal(rec.Customers))
	}
	if f.schema.HasPromo {
		row = append(row, optReal(rec.Promo))
	}
	row = appendExtras(row, rec.Extras, len(f.schema.ObservationExtras))

	if s := rec.StoreInfo; s != nil {
		row = append(row,
			textValue(s.StoreType),
			textValue(s.Assortment),
			optReal(s.CompetitionDistance),
			optReal(s.CompetitionOpenSinceYear),
			optReal(s.CompetitionOpenSinceMonth),
			optReal(s.Promo2),
			optText(s.PromoInterval),
		)
		row = appendExtras(row, s.Extras, len(f.schema.StoreExtras))
	} else {
		row = append(row,
			nullValue(KindText), nullValue(KindText), nullValue(KindReal), nullValue(KindReal),
			nullValue(KindReal), nullValue(KindReal), nullValue(KindText),
		)
		row = appendExtras(row, nil, len(f.schema.StoreExtras))
	}

	c := rec.Calendar
	row = append(row,
		intValue(c.Year), intValue(c.Month), intValue(c.Day), intValue(c.Weekday),
		intValue(c.WeekOfYear), intValue(c.Quarter), boolValue(c.IsWeekend),
		boolValue(c.IsMonthStart), boolValue(c.IsMonthEnd), textValue(c.MonthName),
		textValue(c.DayOfWeekName),
	)

	cat := rec.Category
	row = append(row, textValue(cat.Season), optText(cat.StoreTypeAssortment),
		optInt(cat.StoreTypeEnc), optInt(cat.AssortmentEnc))

	row = append(row, boolValue(rec.IsPromo2Active))
	row = append(row, optDate(rec.Competition.Open), intValue(rec.Competition.AgeDays))

	sf := rec.SalesFeatures
	row = append(row, realValue(sf.LogSales), boolValue(sf.IsNoSales), textValue(sf.SalesBin))

	r := rec.Ratios
	row = append(row, realValue(r.SalesPerCustomer), realValue(r.Profit), realValue(r.ProfitMargin), boolValue(r.IsLoss))

	fl := rec.Flags
	row = append(row, boolValue(fl.IsPromoActive), boolValue(fl.HasCompetition),
		boolValue(fl.NeedsBoost), boolValue(fl.RiskFlag))

	a := rec.Aggregates
	row = append(row, realValue(a.AvgStoreSales), optReal(a.AvgStoreCustomers),
		realValue(a.AvgStoreProfit), realValue(a.SalesDeviation), realValue(a.ProfitDeviation))

	w := rec.Window
	row = append(row, optReal(w.SalesLag1), realValue(w.SalesPctChange), realValue(w.SalesRolling7))

	return row
}

// appendExtras appends n pass-through text cells, null-padding short input
func appendExtras(row []Value, extras []string, n int) []Value {
	for k := 0; k < n; k++ {
		if k < len(extras) {
			row = append(row, textValue(extras[k]))
		} else {
			row = append(row, nullValue(KindText))
		}
	}
	return row
}

// Strings returns row i rendered for delimited output
func (f *Frame) Strings(i int) []string {
	values := f.Row(i)
	out := make([]string, len(values))
	for k, v := range values {
		out[k] = v.String()
	}
	return out
}
