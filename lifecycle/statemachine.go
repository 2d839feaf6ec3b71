// Package lifecycle owns the dispatch status state machine. Nothing else in
// the system mutates a dispatch's status.
package lifecycle

import (
	"context"
	"time"

	"freightbroker/apperrors"
	"freightbroker/logger"
	"freightbroker/models"
	"freightbroker/notify"
	"freightbroker/repository"
	"freightbroker/sequence"

	"github.com/rs/zerolog"
)

// transitions is the whitelist; a pair absent here is invalid no matter how
// reasonable it looks. Cancelled is reachable only from Published and
// InTransit; a delivered load can no longer be cancelled.
var transitions = map[models.LoadStatus][]models.LoadStatus{
	models.StatusDraft:        {models.StatusPublished},
	models.StatusPublished:    {models.StatusInTransit, models.StatusCancelled},
	models.StatusInTransit:    {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered:    {models.StatusCompleted},
	models.StatusCompleted:    {models.StatusInvoiced},
	models.StatusInvoiced:     {models.StatusInvoicedPaid},
	models.StatusInvoicedPaid: {},
	models.StatusCancelled:    {},
}

func CanTransition(from, to models.LoadStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

type StateMachine struct {
	dispatches repository.DispatchRepository
	allocator  *sequence.Allocator
	notifier   notify.Notifier
	log        zerolog.Logger
}

func NewStateMachine(dispatches repository.DispatchRepository, allocator *sequence.Allocator, notifier notify.Notifier) *StateMachine {
	return &StateMachine{
		dispatches: dispatches,
		allocator:  allocator,
		notifier:   notifier,
		log:        logger.New("lifecycle"),
	}
}

// InitializeNew applies the allocation discipline to a dispatch being
// created: a Draft gets no loadNumber yet, any other initial status gets one
// immediately, and a client-supplied work order number must be reserved.
func (m *StateMachine) InitializeNew(ctx context.Context, d *models.Dispatch) error {
	if d.Status == "" {
		d.Status = models.StatusDraft
	}
	if err := d.Validate(); err != nil {
		return err
	}

	if d.WONumber != nil {
		if err := m.allocator.Reserve(ctx, models.SeqWONumber, *d.WONumber); err != nil {
			return err
		}
	}
	if d.Status != models.StatusDraft && d.LoadNumber == nil {
		n, err := m.allocator.Next(ctx, models.SeqLoadNumber)
		if err != nil {
			return err
		}
		d.LoadNumber = &n
	}
	if d.Status == models.StatusInvoiced && d.InvoiceNumber == nil {
		n, err := m.allocator.Next(ctx, models.SeqInvoiceNumber)
		if err != nil {
			return err
		}
		d.InvoiceNumber = &n
		now := time.Now().UTC()
		d.InvoiceDate = &now
	}
	return nil
}

// Transition moves a dispatch to target. Identifier assignment and the
// status change commit as one atomic update; the StatusChanged notification
// goes out only after that commit and its failure is non-fatal.
func (m *StateMachine) Transition(ctx context.Context, id string, target models.LoadStatus) (*models.Dispatch, error) {
	if !target.Valid() {
		return nil, apperrors.NewValidation("unknown dispatch status: " + string(target))
	}

	d, err := m.dispatches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &apperrors.NotFoundError{Entity: "dispatch", ID: id}
	}

	previous := d.Status
	if !CanTransition(previous, target) {
		return nil, &apperrors.InvalidTransitionError{From: string(previous), To: string(target)}
	}

	now := time.Now().UTC()
	upd := repository.TransitionUpdate{Status: target, UpdatedAt: now}

	// First exit from Draft assigns the load number. The presence check
	// makes a retried transition idempotent with respect to allocation.
	if target != models.StatusDraft && d.LoadNumber == nil {
		n, err := m.allocator.Next(ctx, models.SeqLoadNumber)
		if err != nil {
			return nil, err
		}
		upd.LoadNumber = &n
	}
	if target == models.StatusInvoiced && d.InvoiceNumber == nil {
		n, err := m.allocator.Next(ctx, models.SeqInvoiceNumber)
		if err != nil {
			return nil, err
		}
		upd.InvoiceNumber = &n
		upd.InvoiceDate = &now
	}

	applied, err := m.dispatches.ApplyTransition(ctx, id, previous, upd)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A concurrent writer moved the record first. Report against the
		// fresh status rather than guessing.
		fresh, err := m.dispatches.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if fresh == nil {
			return nil, &apperrors.NotFoundError{Entity: "dispatch", ID: id}
		}
		return nil, &apperrors.InvalidTransitionError{From: string(fresh.Status), To: string(target)}
	}

	d.Status = target
	d.UpdatedAt = &now
	if upd.LoadNumber != nil {
		d.LoadNumber = upd.LoadNumber
	}
	if upd.InvoiceNumber != nil {
		d.InvoiceNumber = upd.InvoiceNumber
		d.InvoiceDate = upd.InvoiceDate
	}

	event := models.NewStatusChanged(d, previous, target, m.recipients(d))
	if err := m.notifier.Notify(ctx, event); err != nil {
		m.log.Warn().Err(err).
			Str("dispatch_id", d.ID).
			Str("event_id", event.ID).
			Msg("status change notification failed")
	}

	return d, nil
}

func (m *StateMachine) recipients(d *models.Dispatch) []string {
	var out []string
	for _, r := range []string{d.PostedBy, d.BrokerID, d.CarrierID} {
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}
