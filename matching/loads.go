package matching

import (
	"context"

	"freightbroker/apperrors"
	"freightbroker/models"
	"freightbroker/query"
)

// MatchLoadsForTruck is the symmetric direction: published loads the given
// truck can service, under the same two-pass policy.
func (e *Engine) MatchLoadsForTruck(ctx context.Context, truckID string, q *query.Query) (*LoadMatchPage, error) {
	t, err := e.trucks.GetByID(ctx, truckID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &apperrors.NotFoundError{Entity: "truck", ID: truckID}
	}

	pass := PassStrict
	matches, err := e.strictLoads(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		pass = PassRelaxed
		matches, err = e.relaxedLoads(ctx, t)
		if err != nil {
			return nil, err
		}
	}

	sortLoadMatches(matches, pass, t.Destination != nil, q)

	page := &LoadMatchPage{Pass: pass}
	page.Results, page.Page, page.Limit, page.TotalCount, page.TotalPages =
		paginateLoads(matches, q, e.defaultLimit)
	return page, nil
}

func (e *Engine) strictLoads(ctx context.Context, t *models.Truck) ([]LoadMatch, error) {
	boxes := []models.GeoBounds{models.BoundsAround(t.Origin, e.radiusMiles)}
	cands, err := e.dispatches.Candidates(ctx, t.Equipment, boxes)
	if err != nil {
		return nil, err
	}

	var out []LoadMatch
	for _, d := range cands {
		m, ok := e.strictLoadMatch(t, d)
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (e *Engine) strictLoadMatch(t *models.Truck, d *models.Dispatch) (LoadMatch, bool) {
	tm, ok := e.strictTruckMatch(d, t)
	if !ok {
		return LoadMatch{}, false
	}
	return LoadMatch{
		Load:                     d,
		OriginDeadheadMiles:      tm.OriginDeadheadMiles,
		DestinationDeadheadMiles: tm.DestinationDeadheadMiles,
		TemporalGapHours:         tm.TemporalGapHours,
	}, true
}

func (e *Engine) relaxedLoads(ctx context.Context, t *models.Truck) ([]LoadMatch, error) {
	cands, err := e.dispatches.Candidates(ctx, t.Equipment, nil)
	if err != nil {
		return nil, err
	}

	radius := 2 * e.radiusMiles
	var out []LoadMatch
	for _, d := range cands {
		if t.Equipment != d.Equipment {
			continue
		}
		if t.Weight < d.Weight() || t.Length < d.Length {
			continue
		}

		dho := t.Origin.DistanceMiles(d.Shipper.Location)
		var dhd float64
		destOK := false
		if t.Destination != nil {
			dhd = t.Destination.DistanceMiles(d.Consignee.Location)
			destOK = dhd <= radius
		}
		if dho > radius && !destOK {
			continue
		}

		pickupStart, pickupEnd := d.PickupWindow()
		availStart, availEnd := t.AvailabilityWindow()
		out = append(out, LoadMatch{
			Load:                     d,
			OriginDeadheadMiles:      dho,
			DestinationDeadheadMiles: dhd,
			TemporalGapHours:         gapHours(pickupStart, pickupEnd, availStart, availEnd),
		})
	}
	return out, nil
}
