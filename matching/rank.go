package matching

import (
	"math"
	"sort"
	"time"

	"freightbroker/query"
)

func windowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// gapHours is the distance between two windows in hours, zero when they
// overlap; it is the temporal tiebreaker in ranking.
func gapHours(aStart, aEnd, bStart, bEnd time.Time) float64 {
	if windowsOverlap(aStart, aEnd, bStart, bEnd) {
		return 0
	}
	if aEnd.Before(bStart) {
		return bStart.Sub(aEnd).Hours()
	}
	return aStart.Sub(bEnd).Hours()
}

type rankKeys struct {
	primary float64
	dho     float64
	dhd     float64
	gap     float64
}

func truckKeys(m TruckMatch, pass string) rankKeys {
	return keys(m.OriginDeadheadMiles, m.DestinationDeadheadMiles, m.TemporalGapHours,
		pass, m.Truck.Destination != nil)
}

func loadKeys(m LoadMatch, pass string, truckHasDest bool) rankKeys {
	return keys(m.OriginDeadheadMiles, m.DestinationDeadheadMiles, m.TemporalGapHours,
		pass, truckHasDest)
}

func keys(dho, dhd, gap float64, pass string, hasDest bool) rankKeys {
	primary := dho
	if pass == PassRelaxed && hasDest {
		// The relaxed pass admits on either end, so rank on whichever end
		// qualified the candidate.
		primary = math.Min(dho, dhd)
	}
	return rankKeys{primary: primary, dho: dho, dhd: dhd, gap: gap}
}

func (a rankKeys) less(b rankKeys) bool {
	if a.primary != b.primary {
		return a.primary < b.primary
	}
	if a.dho != b.dho {
		return a.dho < b.dho
	}
	if a.dhd != b.dhd {
		return a.dhd < b.dhd
	}
	return a.gap < b.gap
}

// sortTruckMatches orders by ascending combined proximity. An explicit sort
// on a whitelisted truck field overrides the default ranking.
func sortTruckMatches(matches []TruckMatch, pass string, q *query.Query) {
	if q != nil && len(q.Sort) > 0 {
		if byField, ok := truckFieldSort(matches, q.Sort[0]); ok {
			sort.SliceStable(matches, byField)
			return
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return truckKeys(matches[i], pass).less(truckKeys(matches[j], pass))
	})
}

func truckFieldSort(matches []TruckMatch, s query.SortField) (func(i, j int) bool, bool) {
	var key func(TruckMatch) float64
	switch s.Field {
	case "all_in_rate":
		key = func(m TruckMatch) float64 { return m.Truck.AllInRate }
	case "weight":
		key = func(m TruckMatch) float64 { return m.Truck.Weight }
	case "length":
		key = func(m TruckMatch) float64 { return m.Truck.Length }
	case "available_from":
		key = func(m TruckMatch) float64 { return float64(m.Truck.AvailableFrom.UnixNano()) }
	case "age":
		key = func(m TruckMatch) float64 { return float64(m.Truck.Age.UnixNano()) }
	default:
		return nil, false
	}
	if s.Desc {
		return func(i, j int) bool { return key(matches[i]) > key(matches[j]) }, true
	}
	return func(i, j int) bool { return key(matches[i]) < key(matches[j]) }, true
}

func sortLoadMatches(matches []LoadMatch, pass string, truckHasDest bool, q *query.Query) {
	if q != nil && len(q.Sort) > 0 {
		if byField, ok := loadFieldSort(matches, q.Sort[0]); ok {
			sort.SliceStable(matches, byField)
			return
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return loadKeys(matches[i], pass, truckHasDest).less(loadKeys(matches[j], pass, truckHasDest))
	})
}

func loadFieldSort(matches []LoadMatch, s query.SortField) (func(i, j int) bool, bool) {
	var key func(LoadMatch) float64
	switch s.Field {
	case "all_in_rate":
		key = func(m LoadMatch) float64 { return m.Load.AllInRate }
	case "carrier_fee":
		key = func(m LoadMatch) float64 { return m.Load.CarrierFee }
	case "age":
		key = func(m LoadMatch) float64 { return float64(m.Load.Age.UnixNano()) }
	default:
		return nil, false
	}
	if s.Desc {
		return func(i, j int) bool { return key(matches[i]) > key(matches[j]) }, true
	}
	return func(i, j int) bool { return key(matches[i]) < key(matches[j]) }, true
}

// paginateTrucks computes totals over the filtered set, then slices.
func paginateTrucks(matches []TruckMatch, q *query.Query, defaultLimit int64) ([]TruckMatch, int64, int64, int64, int64) {
	page, limit, skip := pageParams(q, defaultLimit)
	total := int64(len(matches))
	totalPages := (total + limit - 1) / limit

	if skip >= total {
		return []TruckMatch{}, page, limit, total, totalPages
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matches[skip:end], page, limit, total, totalPages
}

func paginateLoads(matches []LoadMatch, q *query.Query, defaultLimit int64) ([]LoadMatch, int64, int64, int64, int64) {
	page, limit, skip := pageParams(q, defaultLimit)
	total := int64(len(matches))
	totalPages := (total + limit - 1) / limit

	if skip >= total {
		return []LoadMatch{}, page, limit, total, totalPages
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matches[skip:end], page, limit, total, totalPages
}

func pageParams(q *query.Query, defaultLimit int64) (page, limit, skip int64) {
	page, limit = int64(1), defaultLimit
	if q != nil {
		if q.Page >= 1 {
			page = q.Page
		}
		if q.Limit >= 1 {
			limit = q.Limit
		}
	}
	return page, limit, (page - 1) * limit
}
