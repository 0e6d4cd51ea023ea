package domain

import (
	"time"
)

// Observation represents one store's sales for one calendar day.
// At most one observation exists per (store, date) pair; the dates of a store
// need not be contiguous.
type Observation struct {
	Store     int       `json:"store" db:"store" validate:"required"`
	Date      time.Time `json:"date" db:"date" validate:"required"`
	Sales     float64   `json:"sales" db:"sales" validate:"min=0"`
	Customers *float64  `json:"customers,omitempty" db:"customers"`
	Promo     *float64  `json:"promo,omitempty" db:"promo"`
	Profit    *float64  `json:"profit,omitempty" db:"profit"`

	// Extras holds pass-through columns in the order given by Schema.ObservationExtras
	Extras []string `json:"extras,omitempty" db:"-"`

	// Line is the 1-based source line, used only for error reporting
	Line int `json:"-" db:"-"`
}

// Store represents the static metadata of one store location.
// Numeric attributes are nil when the source cell was empty.
type Store struct {
	ID                        int      `json:"store" db:"store" validate:"required"`
	StoreType                 string   `json:"storetype" db:"storetype"`
	Assortment                string   `json:"assortment" db:"assortment"`
	CompetitionDistance       *float64 `json:"competitiondistance,omitempty" db:"competitiondistance"`
	CompetitionOpenSinceMonth *float64 `json:"competitionopensincemonth,omitempty" db:"competitionopensincemonth"`
	CompetitionOpenSinceYear  *float64 `json:"competitionopensinceyear,omitempty" db:"competitionopensinceyear"`
	Promo2                    *float64 `json:"promo2,omitempty" db:"promo2"`
	PromoInterval             *string  `json:"promointerval,omitempty" db:"promointerval"`

	// Extras holds pass-through columns in the order given by Schema.StoreExtras
	Extras []string `json:"extras,omitempty" db:"-"`
}

// Schema describes which optional columns were present in the inputs.
// The feature table keeps it so that exporters can reproduce the
// original columns without guessing.
type Schema struct {
	HasCustomers      bool     `json:"has_customers"`
	HasPromo          bool     `json:"has_promo"`
	HasProfit         bool     `json:"has_profit"`
	ObservationExtras []string `json:"observation_extras,omitempty"`
	StoreExtras       []string `json:"store_extras,omitempty"`
}
