package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"villagestay/internal/config"
	"villagestay/internal/database"
	"villagestay/internal/domain"
	"villagestay/internal/middleware"
	"villagestay/internal/modules/booking"
	"villagestay/internal/modules/catalog"
	"villagestay/internal/modules/impact"
	jwtsvc "villagestay/internal/pkg/jwt"
	"villagestay/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Package{}, &domain.Booking{}); err != nil {
		log.Fatal(err)
	}

	packageRepo := repository.NewPackageRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	impactRepo := repository.NewImpactRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := impact.NewHub()
	defer hub.Close()

	deletePolicy := booking.DeleteAnyState
	if cfg.BookingDeletePolicy == "terminal" {
		deletePolicy = booking.DeleteTerminalOnly
	}

	catalogService := catalog.NewService(packageRepo)
	bookingService := booking.NewService(bookingRepo, catalogService, hub, deletePolicy)
	impactService := impact.NewService(impactRepo)

	catalogHandler := catalog.NewHandler(catalogService)
	bookingHandler := booking.NewHandler(bookingService)
	impactHandler := impact.NewHandler(impactService, hub)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterPublicRoutes(v1)
		impactHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			impactHandler.RegisterUserRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				catalogHandler.RegisterAdminRoutes(admin)
				bookingHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	log.Printf("villagestay api listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
