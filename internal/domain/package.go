package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Currency is fixed platform-wide. Every price, booking total and split
// amount is denominated in it.
const Currency = "INR"

type HomestayType string

const (
	StayHomestay      HomestayType = "Homestay"
	StayFarmstay      HomestayType = "Farmstay"
	StayMudHouse      HomestayType = "Mud House"
	StayEcoLodge      HomestayType = "Eco Lodge"
	StayStandardHotel HomestayType = "Standard Hotel"
)

// KnownHomestayType reports whether t is one of the catalog enum values.
func KnownHomestayType(t HomestayType) bool {
	switch t {
	case StayHomestay, StayFarmstay, StayMudHouse, StayEcoLodge, StayStandardHotel:
		return true
	}
	return false
}

// StringList stores a []string as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Package is a bookable village stay. Village, guide and stay metadata is
// copied into the booking's impact snapshot at booking time, so editing a
// package never rewrites history. TotalVillageEarnings is a monotone
// counter incremented together with every booking insert.
type Package struct {
	ID                   int64        `json:"id" gorm:"primaryKey"`
	Name                 string       `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description          string       `json:"description" gorm:"type:text"`
	Destination          string       `json:"destination" gorm:"size:255;not null"`
	Days                 int          `json:"days" gorm:"not null"`
	Nights               int          `json:"nights" gorm:"not null"`
	Accommodation        string       `json:"accommodation"`
	Transportation       string       `json:"transportation"`
	Meals                string       `json:"meals"`
	Activities           string       `json:"activities"`
	Price                float64      `json:"price" gorm:"not null"`
	DiscountPrice        float64      `json:"discount_price"`
	Offer                bool         `json:"offer" gorm:"not null;default:false"`
	Currency             string       `json:"currency" gorm:"size:8;not null;default:INR"`
	GuideName            string       `json:"guide_name" gorm:"size:255"`
	PartnerVillage       string       `json:"partner_village" gorm:"size:255;index"`
	HomestayType         HomestayType `json:"homestay_type" gorm:"size:32;not null;default:Homestay"`
	TotalVillageEarnings float64      `json:"total_village_earnings" gorm:"not null;default:0"`
	GovernmentListed     bool         `json:"government_listed" gorm:"not null;default:false"`
	SupportsLocalEconomy bool         `json:"supports_local_economy" gorm:"not null;default:true"`
	EcoRating            int          `json:"eco_rating" gorm:"not null;default:3"`
	CulturalTags         StringList   `json:"cultural_tags" gorm:"type:json"`
	Rating               float64      `json:"rating" gorm:"not null;default:0"`
	TotalRatings         int          `json:"total_ratings" gorm:"not null;default:0"`
	Images               StringList   `json:"images" gorm:"type:json"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

func (Package) TableName() string { return "packages" }

// EffectivePrice is what the traveler actually pays per package unit.
func (p *Package) EffectivePrice() float64 {
	if p.Offer && p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}
