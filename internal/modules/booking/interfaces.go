package booking

import (
	"context"
	"time"

	"villagestay/internal/domain"
	"villagestay/internal/repository"
)

// BookingRepository is the persistence surface the lifecycle manager needs.
type BookingRepository interface {
	CreateWithEarnings(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, q repository.BookingQuery) ([]domain.Booking, error)
	CompletePastBookings(ctx context.Context, today time.Time) (int64, error)
	Cancel(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// PackageCatalog is the read side of the catalog collaborator.
// Implementations return catalog.ErrNotFound for an unknown package id.
type PackageCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
}

// ImpactBroadcaster pushes booking impact events to live dashboards.
// Delivery is best effort; failures must not fail the booking.
type ImpactBroadcaster interface {
	BookingCreated(b *domain.Booking)
}
