// Package matching finds trucks that can service a load, and loads a truck
// can service. A strict pass applies every criterion; when it comes back
// empty a relaxed pass widens the geography and drops the temporal and
// instruction checks, trading confidence for availability. Equipment and
// capacity are non-negotiable in both passes.
package matching

import (
	"context"
	"strings"

	"freightbroker/apperrors"
	"freightbroker/logger"
	"freightbroker/models"
	"freightbroker/notify"
	"freightbroker/query"
	"freightbroker/repository"

	"github.com/rs/zerolog"
)

const (
	PassStrict  = "strict"
	PassRelaxed = "relaxed"
)

type TruckMatch struct {
	Truck                    *models.Truck `json:"truck"`
	OriginDeadheadMiles      float64       `json:"dho_miles"`
	DestinationDeadheadMiles float64       `json:"dhd_miles"`
	TemporalGapHours         float64       `json:"temporal_gap_hours"`
}

type LoadMatch struct {
	Load                     *models.Dispatch `json:"load"`
	OriginDeadheadMiles      float64          `json:"dho_miles"`
	DestinationDeadheadMiles float64          `json:"dhd_miles"`
	TemporalGapHours         float64          `json:"temporal_gap_hours"`
}

type TruckMatchPage struct {
	Results    []TruckMatch `json:"results"`
	Pass       string       `json:"pass"`
	Page       int64        `json:"page"`
	Limit      int64        `json:"limit"`
	TotalCount int64        `json:"total_count"`
	TotalPages int64        `json:"total_pages"`
}

type LoadMatchPage struct {
	Results    []LoadMatch `json:"results"`
	Pass       string      `json:"pass"`
	Page       int64       `json:"page"`
	Limit      int64       `json:"limit"`
	TotalCount int64       `json:"total_count"`
	TotalPages int64       `json:"total_pages"`
}

type Engine struct {
	dispatches   repository.DispatchRepository
	trucks       repository.TruckRepository
	notifier     notify.Notifier
	radiusMiles  float64
	defaultLimit int64
	log          zerolog.Logger
}

func NewEngine(dispatches repository.DispatchRepository, trucks repository.TruckRepository, notifier notify.Notifier, radiusMiles float64, defaultLimit int64) *Engine {
	return &Engine{
		dispatches:   dispatches,
		trucks:       trucks,
		notifier:     notifier,
		radiusMiles:  radiusMiles,
		defaultLimit: defaultLimit,
		log:          logger.New("matching"),
	}
}

// MatchTrucksForLoad returns trucks able to service the load. Zero matches
// from both passes is a legitimate no-capacity outcome, not an error.
func (e *Engine) MatchTrucksForLoad(ctx context.Context, loadID string, q *query.Query) (*TruckMatchPage, error) {
	d, err := e.dispatches.GetByID(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &apperrors.NotFoundError{Entity: "load", ID: loadID}
	}

	pass := PassStrict
	matches, err := e.strictTrucks(ctx, d)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		pass = PassRelaxed
		matches, err = e.relaxedTrucks(ctx, d)
		if err != nil {
			return nil, err
		}
	}

	sortTruckMatches(matches, pass, q)

	if pass == PassStrict && len(matches) > 0 {
		e.notifyMatches(ctx, d, matches)
	}

	page := &TruckMatchPage{Pass: pass}
	page.Results, page.Page, page.Limit, page.TotalCount, page.TotalPages =
		paginateTrucks(matches, q, e.defaultLimit)
	return page, nil
}

// strictTrucks: equipment, both ends inside the radius (destination exempt
// for trucks servicing anywhere), window overlap, capacity domination, and
// the instruction substring when the load carries one. The bounding box
// handed to the store is a pre-filter; haversine is the authoritative check.
func (e *Engine) strictTrucks(ctx context.Context, d *models.Dispatch) ([]TruckMatch, error) {
	boxes := []models.GeoBounds{models.BoundsAround(d.Shipper.Location, e.radiusMiles)}
	cands, err := e.trucks.Candidates(ctx, d.Equipment, boxes)
	if err != nil {
		return nil, err
	}

	var out []TruckMatch
	for _, t := range cands {
		m, ok := e.strictTruckMatch(d, t)
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (e *Engine) strictTruckMatch(d *models.Dispatch, t *models.Truck) (TruckMatch, bool) {
	if t.Equipment != d.Equipment {
		return TruckMatch{}, false
	}
	if t.Weight < d.Weight() || t.Length < d.Length {
		return TruckMatch{}, false
	}

	dho := t.Origin.DistanceMiles(d.Shipper.Location)
	if dho > e.radiusMiles {
		return TruckMatch{}, false
	}

	var dhd float64
	if t.Destination != nil {
		dhd = t.Destination.DistanceMiles(d.Consignee.Location)
		if dhd > e.radiusMiles {
			return TruckMatch{}, false
		}
	}

	pickupStart, pickupEnd := d.PickupWindow()
	availStart, availEnd := t.AvailabilityWindow()
	if !windowsOverlap(pickupStart, pickupEnd, availStart, availEnd) {
		return TruckMatch{}, false
	}

	if d.SpecialInstructions != "" &&
		!strings.Contains(strings.ToLower(t.SpecialInstructions), strings.ToLower(d.SpecialInstructions)) {
		return TruckMatch{}, false
	}

	return TruckMatch{
		Truck:                    t,
		OriginDeadheadMiles:      dho,
		DestinationDeadheadMiles: dhd,
		TemporalGapHours:         gapHours(pickupStart, pickupEnd, availStart, availEnd),
	}, true
}

// relaxedTrucks doubles the radius, accepts either end inside it, and drops
// the temporal and instruction checks. Equipment and capacity stand.
func (e *Engine) relaxedTrucks(ctx context.Context, d *models.Dispatch) ([]TruckMatch, error) {
	// No origin pre-filter here: a truck can qualify on its destination
	// alone, which an origin bounding box would wrongly exclude.
	cands, err := e.trucks.Candidates(ctx, d.Equipment, nil)
	if err != nil {
		return nil, err
	}

	radius := 2 * e.radiusMiles
	var out []TruckMatch
	for _, t := range cands {
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
		out = append(out, TruckMatch{
			Truck:                    t,
			OriginDeadheadMiles:      dho,
			DestinationDeadheadMiles: dhd,
			TemporalGapHours:         gapHours(pickupStart, pickupEnd, availStart, availEnd),
		})
	}
	return out, nil
}

func (e *Engine) notifyMatches(ctx context.Context, d *models.Dispatch, matches []TruckMatch) {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Truck.ID)
	}
	var recipients []string
	for _, r := range []string{d.PostedBy, d.BrokerID} {
		if r != "" {
			recipients = append(recipients, r)
		}
	}
	event := models.NewMatchFound(d.ID, ids, recipients)
	if err := e.notifier.Notify(ctx, event); err != nil {
		e.log.Warn().Err(err).Str("load_id", d.ID).Msg("match notification failed")
	}
}
