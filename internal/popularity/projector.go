package popularity

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/propmanagement/backend/kafka"
	"github.com/propmanagement/backend/pkg/logger"
)

// EventSource is implemented by *kafka.Consumer
type EventSource interface {
	RegisterHandler(eventType string, handler kafka.EventHandler)
}

// Projector applies favorite events to a Store
type Projector struct {
	store     Store
	processed *prometheus.CounterVec
}

func NewProjector(store Store, reg prometheus.Registerer) *Projector {
	return &Projector{
		store: store,
		processed: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "property_backend_favorite_events_processed_total",
				Help: "Favorite events applied to the popularity ranking",
			},
			[]string{"event_type", "result"},
		),
	}
}

// Register subscribes the projector to both favorite event types
func (p *Projector) Register(source EventSource) {
	source.RegisterHandler(kafka.EventTypeFavoriteAdded, p.HandleAdded)
	source.RegisterHandler(kafka.EventTypeFavoriteRemoved, p.HandleRemoved)
}

func (p *Projector) HandleAdded(ctx context.Context, event kafka.FavoriteEvent) error {
	return p.apply(ctx, event, 1)
}

func (p *Projector) HandleRemoved(ctx context.Context, event kafka.FavoriteEvent) error {
	return p.apply(ctx, event, -1)
}

func (p *Projector) apply(ctx context.Context, event kafka.FavoriteEvent, delta int64) error {
	if event.PropertyID == 0 {
		logger.Warn(ctx).Str("event_id", event.EventID).Msg("Skipping favorite event without property")
		p.processed.WithLabelValues(event.EventType, "skipped").Inc()
		return nil
	}

	count, err := p.store.Increment(ctx, event.PropertyID, delta)
	if err != nil {
		p.processed.WithLabelValues(event.EventType, "error").Inc()
		return err
	}

	p.processed.WithLabelValues(event.EventType, "applied").Inc()
	logger.Debug(ctx).
		Str("event_type", event.EventType).
		Uint("property_id", event.PropertyID).
		Int64("favorites", count).
		Msg("Popularity updated")
	return nil
}
