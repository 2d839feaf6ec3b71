// Package notify is the boundary to the notification collaborator. Delivery
// is fire-and-forget: a failure is logged by the caller and never unwinds
// the state change that produced the event.
package notify

import (
	"context"

	"freightbroker/logger"
	"freightbroker/models"

	"github.com/rs/zerolog"
)

type Notifier interface {
	Notify(ctx context.Context, event models.Event) error
}

// LogNotifier is the in-tree implementation: it records the event and its
// recipients in the structured log. Real delivery (email, SMS) lives behind
// the same interface elsewhere.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.New("notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, event models.Event) error {
	n.log.Info().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Strs("recipients", event.Recipients).
		Interface("template_data", event.TemplateData).
		Msg("notification dispatched")
	return nil
}
