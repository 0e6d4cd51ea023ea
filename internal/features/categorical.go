package features

import (
	"strings"
	"time"

	"storefeatures/pkg/contracts/domain"
)

// Seasons follow the Northern-hemisphere convention
var seasonByMonth = [13]string{
	time.December: "Winter", time.January: "Winter", time.February: "Winter",
	time.March: "Spring", time.April: "Spring", time.May: "Spring",
	time.June: "Summer", time.July: "Summer", time.August: "Summer",
	time.September: "Autumn", time.October: "Autumn", time.November: "Autumn",
}

// StoreTypeEncoding is the ordinal encoding of the store type
var StoreTypeEncoding = map[string]int{"a": 3, "b": 2, "c": 1, "d": 0}

// AssortmentEncoding is the ordinal encoding of the assortment level
var AssortmentEncoding = map[string]int{"a": 1, "b": 2, "c": 3}

// CompositeSeparator joins store type and assortment in the composite key
const CompositeSeparator = "_"

const (
	columnStoreType  = "storetype"
	columnAssortment = "assortment"
)

type categoryKey struct {
	column string
	value  string
}

// SeasonOf returns the season of a month
func SeasonOf(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return seasonByMonth[m]
}

// Encode looks a categorical value up in mapping. Values are compared
// trimmed and lower-cased. ok is false for empty or unmapped values.
func Encode(mapping map[string]int, value string) (*int, bool) {
	v, ok := mapping[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return nil, false
	}
	return &v, true
}

// encodeCategories derives the category features of one record and counts
// the values it could not encode
func encodeCategories(rec *domain.FeatureRecord, unmapped map[categoryKey]int) domain.CategoryFeatures {
	cf := domain.CategoryFeatures{
		Season: SeasonOf(rec.Date.Month()),
	}

	store := rec.StoreInfo
	if store == nil {
		return cf
	}

	composite := store.StoreType + CompositeSeparator + store.Assortment
	cf.StoreTypeAssortment = &composite

	var ok bool
	if cf.StoreTypeEnc, ok = Encode(StoreTypeEncoding, store.StoreType); !ok {
		unmapped[categoryKey{columnStoreType, store.StoreType}]++
	}
	if cf.AssortmentEnc, ok = Encode(AssortmentEncoding, store.Assortment); !ok {
		unmapped[categoryKey{columnAssortment, store.Assortment}]++
	}

	return cf
}
