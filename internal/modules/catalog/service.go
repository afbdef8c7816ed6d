package catalog

import (
	"context"
	"errors"

	"villagestay/internal/domain"
	"villagestay/internal/repository"

	"gorm.io/gorm"
)

// PackageRepository is the persistence surface of the catalog.
type PackageRepository interface {
	Create(ctx context.Context, p *domain.Package) error
	GetByID(ctx context.Context, id int64) (*domain.Package, error)
	List(ctx context.Context, f repository.PackageFilters) ([]domain.Package, int64, error)
	Update(ctx context.Context, p *domain.Package) error
	Delete(ctx context.Context, id int64) (int64, error)
	ReconcileVillageEarnings(ctx context.Context) (int64, error)
}

type Service struct {
	packages PackageRepository
}

func NewService(packages PackageRepository) *Service {
	return &Service{packages: packages}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Package, error) {
	p, err := s.packages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, q ListPackagesQuery) ([]domain.Package, int64, error) {
	return s.packages.List(ctx, repository.PackageFilters{
		Search:    q.Search,
		OfferOnly: q.OfferOnly,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
}

func (s *Service) Create(ctx context.Context, req PackageRequest) (*domain.Package, error) {
	p, err := packageFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.packages.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req PackageRequest) (*domain.Package, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := packageFromRequest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.TotalVillageEarnings = existing.TotalVillageEarnings
	updated.Rating = existing.Rating
	updated.TotalRatings = existing.TotalRatings
	updated.CreatedAt = existing.CreatedAt

	if err := s.packages.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	rows, err := s.packages.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ReconcileVillageEarnings recomputes every package's cumulative earnings
// counter from its booking records. Operator repair path for a counter
// that drifted from the bookings table.
func (s *Service) ReconcileVillageEarnings(ctx context.Context) (int64, error) {
	return s.packages.ReconcileVillageEarnings(ctx)
}

// packageFromRequest validates the catalog-write invariants: a known
// homestay type and, when the offer flag is set, a discount price strictly
// between zero and the base price.
func packageFromRequest(req PackageRequest) (*domain.Package, error) {
	homestayType := domain.HomestayType(req.HomestayType)
	if req.HomestayType == "" {
		homestayType = domain.StayHomestay
	}
	if !domain.KnownHomestayType(homestayType) {
		return nil, ErrValidation
	}

	if req.Offer && (req.DiscountPrice <= 0 || req.DiscountPrice >= req.Price) {
		return nil, ErrValidation
	}

	ecoRating := req.EcoRating
	if ecoRating == 0 {
		ecoRating = 3
	}

	supportsLocal := true
	if req.SupportsLocalEconomy != nil {
		supportsLocal = *req.SupportsLocalEconomy
	}

	return &domain.Package{
		Name:                 req.Name,
		Description:          req.Description,
		Destination:          req.Destination,
		Days:                 req.Days,
		Nights:               req.Nights,
		Accommodation:        req.Accommodation,
		Transportation:       req.Transportation,
		Meals:                req.Meals,
		Activities:           req.Activities,
		Price:                req.Price,
		DiscountPrice:        req.DiscountPrice,
		Offer:                req.Offer,
		Currency:             domain.Currency,
		GuideName:            req.GuideName,
		PartnerVillage:       req.PartnerVillage,
		HomestayType:         homestayType,
		GovernmentListed:     req.GovernmentListed,
		SupportsLocalEconomy: supportsLocal,
		EcoRating:            ecoRating,
		CulturalTags:         req.CulturalTags,
		Images:               req.Images,
	}, nil
}
