package repository

import (
	"context"
	"errors"
	"strings"

	"villagestay/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate signals a unique-constraint violation (package name,
// username, email).
var ErrDuplicate = errors.New("duplicate record")

type PackageFilters struct {
	Search    string // matched against name and destination
	OfferOnly bool
	Limit     int
	Offset    int
}

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) Create(ctx context.Context, p *domain.Package) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	var p domain.Package
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackageRepository) List(ctx context.Context, f PackageFilters) ([]domain.Package, int64, error) {
	var pkgs []domain.Package
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Package{})

	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(destination) LIKE ?", pattern, pattern)
	}
	if f.OfferOnly {
		q = q.Where("offer = ?", true)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	if err := q.Order("created_at desc").Find(&pkgs).Error; err != nil {
		return nil, 0, err
	}
	return pkgs, total, nil
}

func (r *PackageRepository) Update(ctx context.Context, p *domain.Package) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PackageRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Package{}, id)
	return res.RowsAffected, res.Error
}

// IncrementVillageEarnings bumps the cumulative earnings counter with a
// single atomic UPDATE so concurrent bookings of the same package never
// lose an increment.
func (r *PackageRepository) IncrementVillageEarnings(ctx context.Context, id int64, amount float64) error {
	res := r.db.WithContext(ctx).Model(&domain.Package{}).
		Where("id = ?", id).
		UpdateColumn("total_village_earnings", gorm.Expr("total_village_earnings + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReconcileVillageEarnings rewrites every package's earnings counter from
// the sum of its bookings' totals. Repair path for a counter that drifted
// from the underlying booking records.
func (r *PackageRepository) ReconcileVillageEarnings(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
UPDATE packages
SET total_village_earnings = COALESCE(
	(SELECT SUM(b.total_price) FROM bookings b WHERE b.package_id = packages.id), 0)`)
	return res.RowsAffected, res.Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// SQLite has no typed driver error here; match the message.
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
