package booking

import (
	"context"
	"errors"
	"time"

	"villagestay/internal/domain"
	"villagestay/internal/modules/catalog"
	"villagestay/internal/modules/impact"
	"villagestay/internal/repository"

	"gorm.io/gorm"
)

// DeletePolicy decides which lifecycle states a buyer may erase from
// their booking history.
type DeletePolicy int

const (
	// DeleteAnyState allows erasing a booking regardless of lifecycle
	// state. This is the platform's historical behaviour and the default.
	DeleteAnyState DeletePolicy = iota
	// DeleteTerminalOnly restricts erasure to Completed and Cancelled
	// bookings.
	DeleteTerminalOnly
)

const dateLayout = "2006-01-02"

type Service struct {
	bookings     BookingRepository
	catalog      PackageCatalog
	broadcast    ImpactBroadcaster
	deletePolicy DeletePolicy
	now          func() time.Time
}

func NewService(bookings BookingRepository, pkgs PackageCatalog, broadcast ImpactBroadcaster, policy DeletePolicy) *Service {
	return &Service{
		bookings:     bookings,
		catalog:      pkgs,
		broadcast:    broadcast,
		deletePolicy: policy,
		now:          time.Now,
	}
}

// CreateBooking books a package for a buyer. The booking is written with
// an impact snapshot copied from the package's current village metadata
// plus the computed split, and the package's cumulative village earnings
// counter is incremented by the total in the same transaction.
func (s *Service) CreateBooking(ctx context.Context, packageID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.Persons < 1 || req.TotalPrice < 0 {
		return nil, ErrValidation
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, ErrValidation
	}

	pkg, err := s.catalog.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	// The caller-supplied total is trusted as-is; it is not recomputed
	// from package price x persons.
	split := impact.Split(req.TotalPrice)

	b := &domain.Booking{
		BuyerID:       req.BuyerID,
		PackageID:     pkg.ID,
		Date:          date,
		Persons:       req.Persons,
		TotalPrice:    req.TotalPrice,
		Currency:      domain.Currency,
		Status:        domain.BookingBooked,
		PaymentStatus: domain.PaymentPaid,
		Impact: domain.ImpactSnapshot{
			VillageName:        pkg.PartnerVillage,
			GuideName:          pkg.GuideName,
			HomestayType:       pkg.HomestayType,
			Homestay:           split.Homestay,
			Guide:              split.Guide,
			Food:               split.Food,
			Community:          split.Community,
			TotalVillageIncome: req.TotalPrice,
		},
	}

	if err := s.bookings.CreateWithEarnings(ctx, b); err != nil {
		return nil, err
	}

	if s.broadcast != nil {
		s.broadcast.BookingCreated(b)
	}
	return b, nil
}

// AutoCompleteSweep moves every Booked booking dated strictly before
// today to Completed. Idempotent: a second run in the same day changes
// nothing. today must be a start-of-day timestamp.
func (s *Service) AutoCompleteSweep(ctx context.Context, today time.Time) (int64, error) {
	return s.bookings.CompletePastBookings(ctx, today)
}

// ListCurrentBookings returns active (Booked) bookings, oldest first.
// buyerID 0 scopes to all buyers. Past-dated bookings are swept to
// Completed first, so a trip becomes "Completed" when next observed.
func (s *Service) ListCurrentBookings(ctx context.Context, buyerID int64, searchTerm string) ([]domain.Booking, error) {
	if _, err := s.AutoCompleteSweep(ctx, s.startOfToday()); err != nil {
		return nil, err
	}
	return s.bookings.List(ctx, repository.BookingQuery{BuyerID: buyerID, Active: true, Search: searchTerm})
}

// ListHistory returns Completed and Cancelled bookings, oldest first.
func (s *Service) ListHistory(ctx context.Context, buyerID int64, searchTerm string) ([]domain.Booking, error) {
	if _, err := s.AutoCompleteSweep(ctx, s.startOfToday()); err != nil {
		return nil, err
	}
	return s.bookings.List(ctx, repository.BookingQuery{BuyerID: buyerID, Active: false, Search: searchTerm})
}

// GetBooking returns one booking, owner only.
func (s *Service) GetBooking(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	b, err := s.getOwned(ctx, bookingID, requesterID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBooking cancels the requester's own booking: lifecycle moves to
// Cancelled and the payment is marked Refunded in the same update.
func (s *Service) CancelBooking(ctx context.Context, bookingID, requesterID int64) error {
	b, err := s.getOwned(ctx, bookingID, requesterID)
	if err != nil {
		return err
	}
	if b.Terminal() {
		return ErrAlreadyFinal
	}

	rows, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHistory permanently erases the requester's own booking record,
// subject to the configured delete policy.
func (s *Service) DeleteHistory(ctx context.Context, bookingID, requesterID int64) error {
	b, err := s.getOwned(ctx, bookingID, requesterID)
	if err != nil {
		return err
	}
	if s.deletePolicy == DeleteTerminalOnly && !b.Terminal() {
		return ErrActiveDelete
	}

	rows, err := s.bookings.Delete(ctx, bookingID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) getOwned(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.BuyerID != requesterID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) startOfToday() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
