package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/propmanagement/backend/internal/favorite/domain"
)

var tracer = otel.Tracer("favorite-repository")

// TracingFavoriteRepository wraps a FavoriteRepository with a span per call
type TracingFavoriteRepository struct {
	next domain.FavoriteRepository
}

func NewTracingFavoriteRepository(next domain.FavoriteRepository) *TracingFavoriteRepository {
	return &TracingFavoriteRepository{next: next}
}

func pairAttributes(userID, propertyID uint) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("property.id", int64(propertyID)),
	)
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *TracingFavoriteRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByUser",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	favorites, err := r.next.FindByUser(ctx, userID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(favorites)))
	}
	finish(span, err)
	return favorites, err
}

func (r *TracingFavoriteRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uint) (*domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByUserAndProperty", pairAttributes(userID, propertyID))
	favorite, err := r.next.FindByUserAndProperty(ctx, userID, propertyID)
	span.SetAttributes(attribute.Bool("result.found", err == nil))
	// a missing favorite is an expected outcome, not a span error
	if errors.Is(err, domain.ErrFavoriteNotFound) {
		span.End()
		return nil, err
	}
	finish(span, err)
	return favorite, err
}

func (r *TracingFavoriteRepository) ExistsByUserAndProperty(ctx context.Context, userID, propertyID uint) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.ExistsByUserAndProperty", pairAttributes(userID, propertyID))
	exists, err := r.next.ExistsByUserAndProperty(ctx, userID, propertyID)
	span.SetAttributes(attribute.Bool("result.exists", exists))
	finish(span, err)
	return exists, err
}

func (r *TracingFavoriteRepository) DeleteByUserAndProperty(ctx context.Context, userID, propertyID uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.DeleteByUserAndProperty", pairAttributes(userID, propertyID))
	removed, err := r.next.DeleteByUserAndProperty(ctx, userID, propertyID)
	span.SetAttributes(attribute.Int64("result.rows_affected", removed))
	finish(span, err)
	return removed, err
}

func (r *TracingFavoriteRepository) Save(ctx context.Context, favorite *domain.Favorite) error {
	ctx, span := tracer.Start(ctx, "repository.Save", pairAttributes(favorite.UserID, favorite.PropertyID))
	err := r.next.Save(ctx, favorite)
	if err == nil {
		span.SetAttributes(attribute.Int64("favorite.id", int64(favorite.ID)))
	}
	finish(span, err)
	return err
}

func (r *TracingFavoriteRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.CountByUser",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	count, err := r.next.CountByUser(ctx, userID)
	span.SetAttributes(attribute.Int64("result.count", count))
	finish(span, err)
	return count, err
}

func (r *TracingFavoriteRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	count, err := r.next.Count(ctx)
	finish(span, err)
	return count, err
}
