package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"villagestay/internal/database"
	"villagestay/internal/domain"
	"villagestay/internal/modules/booking"
	"villagestay/internal/modules/catalog"
	jwtsvc "villagestay/internal/pkg/jwt"
	"villagestay/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	db, err := database.Connect("villagestay.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Package{},
		&domain.Booking{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (bookings first, they reference the rest)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM packages")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	catalogService := catalog.NewService(packageRepo)
	bookingService := booking.NewService(bookingRepo, catalogService, nil, booking.DeleteAnyState)

	// ================== USERS ==================
	log.Println("Creating users...")

	admin := seedUser(ctx, userRepo, "admin", "admin@villagestay.in", "admin123", domain.RoleAdmin)
	asha := seedUser(ctx, userRepo, "asha", "asha@example.com", "password123", domain.RoleTraveler)
	ravi := seedUser(ctx, userRepo, "ravi", "ravi@example.com", "password123", domain.RoleTraveler)

	// ================== PACKAGES ==================
	log.Println("Creating packages...")

	packages := []catalog.PackageRequest{
		{
			Name:           "Khonoma Green Village Trail",
			Description:    "Three days in India's first green village with a local Angami guide.",
			Destination:    "Khonoma, Nagaland",
			Days:           3,
			Nights:         2,
			Accommodation:  "Family homestay",
			Transportation: "Shared jeep from Kohima",
			Meals:          "Home-cooked Naga meals",
			Activities:     "Terrace-farm walk, alder forest trek, morung storytelling",
			Price:          8500,
			DiscountPrice:  7200,
			Offer:          true,
			GuideName:      "Neikuo Meru",
			PartnerVillage: "Khonoma",
			HomestayType:   string(domain.StayHomestay),
			EcoRating:      5,
			CulturalTags:   []string{"Terrace Farming", "Folk Songs", "Weaving"},
		},
		{
			Name:           "Spiti Mud House Retreat",
			Description:    "High-altitude village life in a traditional mud house.",
			Destination:    "Demul, Spiti Valley",
			Days:           4,
			Nights:         3,
			Accommodation:  "Mud house with local family",
			Transportation: "Pickup from Kaza",
			Meals:          "Organic barley and pea dishes",
			Activities:     "Yak herding, butter tea making, monastery visit",
			Price:          12000,
			GuideName:      "Tenzin Norbu",
			PartnerVillage: "Demul",
			HomestayType:   string(domain.StayMudHouse),
			EcoRating:      4,
			CulturalTags:   []string{"Yak Herding", "Buddhist Heritage"},
			GovernmentListed: true,
		},
		{
			Name:           "Kumbalangi Farmstay Weekend",
			Description:    "Backwater island farming village near Kochi.",
			Destination:    "Kumbalangi, Kerala",
			Days:           2,
			Nights:         1,
			Accommodation:  "Farmstay by the backwaters",
			Transportation: "Ferry and auto from Kochi",
			Meals:          "Fresh seafood and toddy-shop lunch",
			Activities:     "Chinese net fishing, crab farming, coir making",
			Price:          4500,
			DiscountPrice:  3900,
			Offer:          true,
			GuideName:      "Joseph Kuttan",
			PartnerVillage: "Kumbalangi",
			HomestayType:   string(domain.StayFarmstay),
			EcoRating:      4,
			CulturalTags:   []string{"Fishing", "Coir Craft", "Organic Farming"},
		},
	}

	pkgIDs := make([]int64, 0, len(packages))
	for _, req := range packages {
		p, err := catalogService.Create(ctx, req)
		if err != nil {
			log.Fatal("Package seed failed:", err)
		}
		pkgIDs = append(pkgIDs, p.ID)
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")

	nextWeek := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	lastMonth := time.Now().AddDate(0, -1, 0).Format("2006-01-02")

	mustBook(bookingService, ctx, pkgIDs[0], booking.CreateBookingRequest{
		BuyerID: asha.ID, Date: nextWeek, Persons: 2, TotalPrice: 14400,
	})
	mustBook(bookingService, ctx, pkgIDs[1], booking.CreateBookingRequest{
		BuyerID: ravi.ID, Date: nextWeek, Persons: 1, TotalPrice: 12000,
	})
	past := mustBook(bookingService, ctx, pkgIDs[2], booking.CreateBookingRequest{
		BuyerID: asha.ID, Date: lastMonth, Persons: 3, TotalPrice: 11700,
	})

	// The past-dated trip completes on the first sweep.
	if _, err := bookingService.AutoCompleteSweep(ctx, startOfToday()); err != nil {
		log.Fatal("Sweep failed:", err)
	}

	cancelled := mustBook(bookingService, ctx, pkgIDs[0], booking.CreateBookingRequest{
		BuyerID: ravi.ID, Date: nextWeek, Persons: 1, TotalPrice: 7200,
	})
	if err := bookingService.CancelBooking(ctx, cancelled.ID, ravi.ID); err != nil {
		log.Fatal("Cancel failed:", err)
	}

	log.Printf("Seeded %d packages, 4 bookings (1 completed: #%d, 1 cancelled: #%d)", len(pkgIDs), past.ID, cancelled.ID)

	// ================== DEV TOKENS ==================
	j := jwtsvc.New("change-me-jwt-secret", 24*time.Hour)
	for _, u := range []*domain.User{admin, asha, ravi} {
		token, err := j.GenerateToken(u.ID, u.Username, string(u.Role))
		if err != nil {
			log.Fatal("Token generation failed:", err)
		}
		fmt.Printf("%s (%s): %s\n", u.Username, u.Role, token)
	}
}

func seedUser(ctx context.Context, repo *repository.UserRepository, username, email, password string, role domain.UserRole) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatal("User seed failed:", err)
	}
	return u
}

func mustBook(svc *booking.Service, ctx context.Context, packageID int64, req booking.CreateBookingRequest) *domain.Booking {
	b, err := svc.CreateBooking(ctx, packageID, req)
	if err != nil {
		log.Fatal("Booking seed failed:", err)
	}
	return b
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
