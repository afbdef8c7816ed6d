package domain

import "time"

type BookingStatus string

const (
	BookingBooked    BookingStatus = "Booked"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

// ImpactSnapshot records how a booking's total was split across the four
// recipient categories, plus the village metadata current at booking time.
// It is written once on creation and never recomputed: later edits to the
// referenced package must not change historical bookings, and the four
// amounts always sum to TotalVillageIncome.
type ImpactSnapshot struct {
	VillageName        string       `json:"village_name" gorm:"size:255"`
	GuideName          string       `json:"guide_name" gorm:"size:255"`
	HomestayType       HomestayType `json:"homestay_type" gorm:"size:32"`
	Homestay           float64      `json:"homestay"`
	Guide              float64      `json:"guide"`
	Food               float64      `json:"food"`
	Community          float64      `json:"community"`
	TotalVillageIncome float64      `json:"total_village_income"`
}

type Booking struct {
	ID            int64          `json:"id" gorm:"primaryKey"`
	BuyerID       int64          `json:"buyer_id" gorm:"not null;index"`
	PackageID     int64          `json:"package_id" gorm:"not null;index"`
	Date          time.Time      `json:"date" gorm:"not null;index"`
	Persons       int            `json:"persons" gorm:"not null;default:1"`
	TotalPrice    float64        `json:"total_price" gorm:"not null"`
	Currency      string         `json:"currency" gorm:"size:8;not null;default:INR"`
	Status        BookingStatus  `json:"status" gorm:"size:16;not null;index"`
	PaymentStatus PaymentStatus  `json:"payment_status" gorm:"size:16;not null"`
	Impact        ImpactSnapshot `json:"impact" gorm:"embedded;embeddedPrefix:impact_"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Buyer   *User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Package *Package `json:"package,omitempty" gorm:"foreignKey:PackageID"`
}

func (Booking) TableName() string { return "bookings" }

// Terminal reports whether the lifecycle has reached a final state.
// No transition leaves Completed or Cancelled.
func (b *Booking) Terminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}
