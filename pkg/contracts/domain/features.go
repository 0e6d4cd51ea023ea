package domain

import (
	"time"
)

// CalendarFeatures are derived purely from an observation's date.
type CalendarFeatures struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Day           int    `json:"day"`
	Weekday       int    `json:"weekday"` // Monday=0 .. Sunday=6
	WeekOfYear    int    `json:"weekofyear"`
	Quarter       int    `json:"quarter"`
	IsWeekend     bool   `json:"isweekend"`
	IsMonthStart  bool   `json:"ismonthstart"`
	IsMonthEnd    bool   `json:"ismonthend"`
	MonthName     string `json:"monthname"`
	DayOfWeekName string `json:"dayofweekname"`
}

// CategoryFeatures hold season and store category encodings.
// A nil encoding means the source value was missing or unmapped.
type CategoryFeatures struct {
	Season              string  `json:"season"`
	StoreTypeAssortment *string `json:"storetype_assortment,omitempty"`
	StoreTypeEnc        *int    `json:"storetype_enc,omitempty"`
	AssortmentEnc       *int    `json:"assortment_enc,omitempty"`
}

// CompetitionFeatures describe how long a competitor has been open.
type CompetitionFeatures struct {
	Open    *time.Time `json:"competitionopen,omitempty"`
	AgeDays int        `json:"competitionagedays"`
}

// SalesFeatures are transforms of the raw sales value.
type SalesFeatures struct {
	LogSales  float64 `json:"logsales"`
	IsNoSales bool    `json:"isnosales"`
	SalesBin  string  `json:"salesbin"`
}

// RatioFeatures are guarded ratios; none of them is ever NaN or Inf.
type RatioFeatures struct {
	SalesPerCustomer float64 `json:"salespercustomer"`
	Profit           float64 `json:"profit"`
	ProfitMargin     float64 `json:"profitmargin"`
	IsLoss           bool    `json:"isloss"`
}

// BusinessFlags are boolean risk and opportunity signals.
type BusinessFlags struct {
	IsPromoActive  bool `json:"ispromoactive"`
	HasCompetition bool `json:"hascompetition"`
	NeedsBoost     bool `json:"needsboost"`
	RiskFlag       bool `json:"riskflag"`
}

// StoreAggregates are per-store means broadcast back to every row of the store.
type StoreAggregates struct {
	AvgStoreSales     float64  `json:"avg_store_sales"`
	AvgStoreCustomers *float64 `json:"avg_store_customers,omitempty"`
	AvgStoreProfit    float64  `json:"avg_store_profit"`
	SalesDeviation    float64  `json:"sales_deviation"`
	ProfitDeviation   float64  `json:"profit_deviation"`
}

// WindowFeatures are computed over a store's chronologically ordered sales.
type WindowFeatures struct {
	SalesLag1      *float64 `json:"sales_lag1,omitempty"`
	SalesPctChange float64  `json:"sales_pct_change"`
	SalesRolling7  float64  `json:"sales_rolling7"`
}

// FeatureRecord is an observation joined with its store and enriched with
// every derived feature. StoreInfo is nil when the observation's store id
// had no match in the store table.
type FeatureRecord struct {
	Observation
	StoreInfo *Store `json:"store_info,omitempty"`

	Calendar       CalendarFeatures    `json:"calendar"`
	Category       CategoryFeatures    `json:"category"`
	IsPromo2Active bool                `json:"ispromo2active"`
	Competition    CompetitionFeatures `json:"competition"`
	SalesFeatures  SalesFeatures       `json:"sales_features"`
	Ratios         RatioFeatures       `json:"ratios"`
	Flags          BusinessFlags       `json:"flags"`
	Aggregates     StoreAggregates     `json:"aggregates"`
	Window         WindowFeatures      `json:"window"`
}
