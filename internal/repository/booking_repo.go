package repository

import (
	"context"
	"time"

	"villagestay/internal/domain"

	"gorm.io/gorm"
)

// BookingQuery scopes a listing. BuyerID 0 means all buyers (admin view).
// Search is matched post-join: against buyer username/email in the global
// scope, against the package name in the per-buyer scope. Bookings whose
// joined row fails the match are excluded entirely.
type BookingQuery struct {
	BuyerID int64
	Active  bool // true: status = Booked; false: Completed or Cancelled
	Search  string
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateWithEarnings persists the booking and bumps the package's
// cumulative village earnings counter in one transaction, so the booking
// row and the counter can never diverge on this path.
func (r *BookingRepository) CreateWithEarnings(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		res := tx.Model(&domain.Package{}).
			Where("id = ?", b.PackageID).
			UpdateColumn("total_village_earnings", gorm.Expr("total_village_earnings + ?", b.TotalPrice))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// CompletePastBookings moves every Booked booking dated strictly before
// today to Completed. today must be a start-of-day timestamp.
func (r *BookingRepository) CompletePastBookings(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("status = ? AND date < ?", domain.BookingBooked, today).
		Update("status", domain.BookingCompleted)
	return res.RowsAffected, res.Error
}

func (r *BookingRepository) List(ctx context.Context, q BookingQuery) ([]domain.Booking, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{})

	if q.Active {
		tx = tx.Where("bookings.status = ?", domain.BookingBooked)
	} else {
		tx = tx.Where("bookings.status <> ?", domain.BookingBooked)
	}

	if q.BuyerID > 0 {
		tx = tx.Where("bookings.buyer_id = ?", q.BuyerID)
		if q.Search != "" {
			tx = tx.Joins("JOIN packages ON packages.id = bookings.package_id").
				Where("LOWER(packages.name) LIKE ?", likePattern(q.Search))
		}
	} else if q.Search != "" {
		pattern := likePattern(q.Search)
		tx = tx.Joins("JOIN users ON users.id = bookings.buyer_id").
			Where("LOWER(users.username) LIKE ? OR LOWER(users.email) LIKE ?", pattern, pattern)
	}

	var out []domain.Booking
	err := tx.Preload("Buyer").Preload("Package").
		Order("bookings.created_at asc").
		Find(&out).Error
	return out, err
}

// Cancel flips lifecycle and payment status together; the refund exists
// exactly when the booking is cancelled.
func (r *BookingRepository) Cancel(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         domain.BookingCancelled,
			"payment_status": domain.PaymentRefunded,
		})
	return res.RowsAffected, res.Error
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Booking{}, id)
	return res.RowsAffected, res.Error
}
