package matching

import (
	"testing"

	"freightbroker/models"
	"freightbroker/query"

	"github.com/stretchr/testify/assert"
)

func TestWindowsOverlap(t *testing.T) {
	d1, d3, d5, d7 := day(1), day(3), day(5), day(7)

	assert.True(t, windowsOverlap(d1, d5, d3, d7))
	assert.True(t, windowsOverlap(d3, d7, d1, d5))
	// Touching endpoints count as overlapping.
	assert.True(t, windowsOverlap(d1, d3, d3, d5))
	assert.True(t, windowsOverlap(d3, d3, d1, d5))
	assert.False(t, windowsOverlap(d1, d3, d5, d7))
}

func TestGapHours(t *testing.T) {
	assert.Zero(t, gapHours(day(1), day(3), day(2), day(5)))
	assert.Equal(t, float64(48), gapHours(day(1), day(3), day(5), day(7)))
	assert.Equal(t, float64(48), gapHours(day(5), day(7), day(1), day(3)))
}

func TestRankKeys_StrictPrimaryIsOriginDeadhead(t *testing.T) {
	k := keys(30, 5, 0, PassStrict, true)
	// The destination being closer never promotes it in the strict pass.
	assert.Equal(t, float64(30), k.primary)
}

func TestRankKeys_RelaxedUsesNearerEnd(t *testing.T) {
	k := keys(150, 20, 0, PassRelaxed, true)
	assert.Equal(t, float64(20), k.primary)

	// Without a declared destination there is no second end to rank on.
	k = keys(150, 0, 0, PassRelaxed, false)
	assert.Equal(t, float64(150), k.primary)
}

func TestRankKeys_TieBreakers(t *testing.T) {
	base := rankKeys{primary: 10, dho: 10, dhd: 20, gap: 5}

	assert.True(t, rankKeys{primary: 9, dho: 50, dhd: 99, gap: 99}.less(base))
	assert.True(t, rankKeys{primary: 10, dho: 9, dhd: 99, gap: 99}.less(base))
	assert.True(t, rankKeys{primary: 10, dho: 10, dhd: 19, gap: 99}.less(base))
	assert.True(t, rankKeys{primary: 10, dho: 10, dhd: 20, gap: 4}.less(base))
	assert.False(t, base.less(base))
}

func TestSortTruckMatches_ExplicitFieldOverridesRanking(t *testing.T) {
	far := TruckMatch{
		Truck:               &models.Truck{ID: "far", AllInRate: 1200},
		OriginDeadheadMiles: 90,
	}
	near := TruckMatch{
		Truck:               &models.Truck{ID: "near", AllInRate: 2400},
		OriginDeadheadMiles: 5,
	}
	matches := []TruckMatch{near, far}

	q := &query.Query{Sort: []query.SortField{{Field: "all_in_rate", Desc: true}}}
	sortTruckMatches(matches, PassStrict, q)
	assert.Equal(t, "near", matches[0].Truck.ID)

	// An unknown sort field falls back to proximity ranking.
	q = &query.Query{Sort: []query.SortField{{Field: "bogus"}}}
	sortTruckMatches(matches, PassStrict, q)
	assert.Equal(t, "near", matches[0].Truck.ID)

	sortTruckMatches(matches, PassStrict, nil)
	assert.Equal(t, "near", matches[0].Truck.ID)
	assert.Equal(t, "far", matches[1].Truck.ID)
}

func TestSortLoadMatches_DefaultRanking(t *testing.T) {
	a := LoadMatch{Load: &models.Dispatch{ID: "a"}, OriginDeadheadMiles: 40}
	b := LoadMatch{Load: &models.Dispatch{ID: "b"}, OriginDeadheadMiles: 10}
	matches := []LoadMatch{a, b}

	sortLoadMatches(matches, PassStrict, true, nil)
	assert.Equal(t, "b", matches[0].Load.ID)
}

func TestPageParams(t *testing.T) {
	page, limit, skip := pageParams(nil, 10)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
	assert.Equal(t, int64(0), skip)

	page, limit, skip = pageParams(&query.Query{Page: 3, Limit: 7}, 10)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(7), limit)
	assert.Equal(t, int64(14), skip)
}

func TestPaginateTrucks_SkipBeyondEnd(t *testing.T) {
	matches := []TruckMatch{{Truck: &models.Truck{ID: "only"}}}
	q := &query.Query{Page: 5, Limit: 10}

	out, page, limit, total, pages := paginateTrucks(matches, q, 10)
	assert.Empty(t, out)
	assert.Equal(t, int64(5), page)
	assert.Equal(t, int64(10), limit)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), pages)
}
