package features

import (
	"sort"

	"storefeatures/pkg/contracts/domain"
)

// Join left-joins observations with stores on the store id. Every
// observation appears in the result; an observation whose store is unknown
// gets a nil StoreInfo. A store id present several times in stores fans the
// observation out into one record per match, in store input order. The ids
// that fanned out are returned sorted.
func Join(observations []domain.Observation, stores []domain.Store) ([]domain.FeatureRecord, []int) {
	byID := make(map[int][]int, len(stores))
	for i := range stores {
		byID[stores[i].ID] = append(byID[stores[i].ID], i)
	}

	var duplicates []int
	for id, idx := range byID {
		if len(idx) > 1 {
			duplicates = append(duplicates, id)
		}
	}
	sort.Ints(duplicates)

	records := make([]domain.FeatureRecord, 0, len(observations))
	for _, obs := range observations {
		matches := byID[obs.Store]
		if len(matches) == 0 {
			records = append(records, domain.FeatureRecord{Observation: obs})
			continue
		}
		for _, si := range matches {
			store := stores[si]
			records = append(records, domain.FeatureRecord{Observation: obs, StoreInfo: &store})
		}
	}

	return records, duplicates
}
