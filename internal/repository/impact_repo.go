package repository

import (
	"context"

	"villagestay/internal/domain"

	"gorm.io/gorm"
)

type VillageTotal struct {
	Village     string  `json:"village"`
	TotalIncome float64 `json:"totalIncome"`
	Bookings    int64   `json:"bookings"`
}

type UserImpact struct {
	TotalImpact float64 `json:"totalImpact"`
	Trips       int64   `json:"trips"`
}

type PlatformStats struct {
	TotalBookings     int64   `json:"totalBookings"`
	TotalMoneyMoved   float64 `json:"totalMoneyMoved"`
	VillagesSupported int64   `json:"villagesSupported"`
	HomestayIncome    float64 `json:"homestayIncome"`
	GuideIncome       float64 `json:"guideIncome"`
	FarmerIncome      float64 `json:"farmerIncome"`
	CommunityFunds    float64 `json:"communityFunds"`
}

// ImpactRepository derives aggregate views from booking records only;
// the package catalog is never consulted, so villages without bookings
// never appear.
type ImpactRepository struct {
	db *gorm.DB
}

func NewImpactRepository(db *gorm.DB) *ImpactRepository {
	return &ImpactRepository{db: db}
}

func (r *ImpactRepository) VillageTotals(ctx context.Context) ([]VillageTotal, error) {
	var out []VillageTotal
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select("impact_village_name AS village, SUM(impact_total_village_income) AS total_income, COUNT(1) AS bookings").
		Where("impact_village_name <> ''").
		Group("impact_village_name").
		Scan(&out).Error
	return out, err
}

// UserImpact counts every booking of the buyer regardless of lifecycle or
// payment status: a cancelled trip still counts toward the lifetime figure.
func (r *ImpactRepository) UserImpact(ctx context.Context, userID int64) (*UserImpact, error) {
	var out UserImpact
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select("COALESCE(SUM(impact_total_village_income), 0) AS total_impact, COUNT(1) AS trips").
		Where("buyer_id = ?", userID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PlatformStats aggregates over bookings whose payment status equals
// domain.PaymentPaid — the same normalized enum value written everywhere
// else, never a differently-cased literal.
func (r *ImpactRepository) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	var out PlatformStats
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select(`COUNT(1) AS total_bookings,
COALESCE(SUM(total_price), 0) AS total_money_moved,
COUNT(DISTINCT CASE WHEN impact_village_name <> '' THEN impact_village_name END) AS villages_supported,
COALESCE(SUM(impact_homestay), 0) AS homestay_income,
COALESCE(SUM(impact_guide), 0) AS guide_income,
COALESCE(SUM(impact_food), 0) AS farmer_income,
COALESCE(SUM(impact_community), 0) AS community_funds`).
		Where("payment_status = ?", domain.PaymentPaid).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
