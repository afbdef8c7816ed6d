package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"villagestay/internal/domain"
	"villagestay/internal/modules/catalog"
	"villagestay/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

type recordingBroadcaster struct {
	events []*domain.Booking
}

func (r *recordingBroadcaster) BookingCreated(b *domain.Booking) {
	r.events = append(r.events, b)
}

type testEnv struct {
	db        *gorm.DB
	service   *Service
	catalog   *catalog.Service
	broadcast *recordingBroadcaster
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:booking_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to open sqlite db")
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Package{}, &domain.Booking{}))

	catalogService := catalog.NewService(repository.NewPackageRepository(db))
	broadcast := &recordingBroadcaster{}
	service := NewService(repository.NewBookingRepository(db), catalogService, broadcast, DeleteAnyState)

	return &testEnv{db: db, service: service, catalog: catalogService, broadcast: broadcast}
}

func (e *testEnv) createUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", Role: domain.RoleTraveler}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) createPackage(t *testing.T, name, village, guide string) *domain.Package {
	t.Helper()
	p, err := e.catalog.Create(context.Background(), catalog.PackageRequest{
		Name:           name,
		Description:    "test package",
		Destination:    village + " region",
		Days:           3,
		Nights:         2,
		Price:          5000,
		GuideName:      guide,
		PartnerVillage: village,
		HomestayType:   string(domain.StayHomestay),
	})
	require.NoError(t, err)
	return p
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 10, 30, 0, 0, time.UTC)
	}
}

func TestCreateBookingSplitsAndIncrementsEarnings(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	buyer := env.createUser(t, "asha")
	pkg := env.createPackage(t, "Khonoma Trail", "Khonoma", "Neikuo")

	b, err := env.service.CreateBooking(ctx, pkg.ID, CreateBookingRequest{
		BuyerID: buyer.ID, Date: "2026-09-15", Persons: 2, TotalPrice: 997,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingBooked, b.Status)
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	assert.Equal(t, domain.Currency, b.Currency)

	// floor(997*.5)=498, floor(997*.25)=249, floor(997*.15)=149, rest=101
	assert.Equal(t, 498.0, b.Impact.Homestay)
	assert.Equal(t, 249.0, b.Impact.Guide)
	assert.Equal(t, 149.0, b.Impact.Food)
	assert.Equal(t, 101.0, b.Impact.Community)
	assert.Equal(t, 997.0, b.Impact.TotalVillageIncome)
	assert.Equal(t, b.TotalPrice, b.Impact.Homestay+b.Impact.Guide+b.Impact.Food+b.Impact.Community)

	assert.Equal(t, "Khonoma", b.Impact.VillageName)
	assert.Equal(t, "Neikuo", b.Impact.GuideName)
	assert.Equal(t, domain.StayHomestay, b.Impact.HomestayType)

	// The earnings counter moved by exactly the booking total.
	reloaded, err := env.catalog.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 997.0, reloaded.TotalVillageEarnings)

	require.Len(t, env.broadcast.events, 1)
	assert.Equal(t, "Khonoma", env.broadcast.events[0].Impact.VillageName)
}

func TestCreateBookingUnknownPackage(t *testing.T) {
	env := setupTestEnv(t)
	buyer := env.createUser(t, "asha")

	_, err := env.service.CreateBooking(context.Background(), 9999, CreateBookingRequest{
		BuyerID: buyer.ID, Date: "2026-09-15", Persons: 1, TotalPrice: 500,
	})
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestCreateBookingValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "asha")
	pkg := env.createPackage(t, "Khonoma Trail", "Khonoma", "Neikuo")

	cases := []CreateBookingRequest{
		{BuyerID: buyer.ID, Date: "2026-09-15", Persons: 0, TotalPrice: 500},
		{BuyerID: buyer.ID, Date: "15/09/2026", Persons: 1, TotalPrice: 500},
		{BuyerID: buyer.ID, Date: "2026-09-15", Persons: 1, TotalPrice: -1},
	}
	for _, req := range cases {
		_, err := env.service.CreateBooking(ctx, pkg.ID, req)
		assert.ErrorIs(t, err, ErrValidation, "req=%+v", req)
	}

	// No partial side effects: the counter never moved.
	reloaded, err := env.catalog.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.TotalVillageEarnings)
}

func TestSnapshotImmuneToPackageEdits(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	buyer := env.createUser(t, "asha")
	pkg := env.createPackage(t, "Khonoma Trail", "Khonoma", "Neikuo")

	b, err := env.service.CreateBooking(ctx, pkg.ID, CreateBookingRequest{
		BuyerID: buyer.ID, Date: "2026-09-15", Persons: 1, TotalPrice: 1000,
	})
	require.NoError(t, err)

	_, err = env.catalog.Update(ctx, pkg.ID, catalog.PackageRequest{
		Name:           "Khonoma Trail",
		Description:    "test package",
		Destination:    "elsewhere",
		Days:           3,
		Nights:         2,
		Price:          5000,
		GuideName:      "Someone Else",
		PartnerVillage: "Renamed Village",
		HomestayType:   string(domain.StayEcoLodge),
	})
	require.NoError(t, err)

	reloaded, err := env.service.GetBooking(ctx, b.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Khonoma", reloaded.Impact.VillageName)
	assert.Equal(t, "Neikuo", reloaded.Impact.GuideName)
	assert.Equal(t, domain.StayHomestay, reloaded.Impact.HomestayType)
	assert.Equal(t, 1000.0, reloaded.Impact.TotalVillageIncome)
}

func TestAutoCompleteSweep(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.service.now = fixedClock(2026, time.March, 10)

	buyer := env.createUser(t, "asha")
	pkg := env.createPackage(t, "Khonoma Trail", "Khonoma", "Neikuo")

	past, err := env.service.CreateBooking(ctx, pkg.ID, CreateBookingRequest{
		BuyerID: buyer.ID, Date: "2026-03-09", Persons: 1, TotalPrice: 100,
	})
	require.NoError(t, err)
	todayTrip, err := env.service.CreateBooking(ctx, pkg.ID, CreateBookingRequest{
		BuyerID: buyer.ID, Date: "2026-03-10", Persons: 1, TotalPrice: 100,
	})
	require.NoError(t, err)
	future, err := env.service.CreateBooking(ctx, pkg.ID, CreateBookingRequest{
		BuyerID: buyer.ID, Date: "2026-03-20", Persons: 1, TotalPrice: 100,
	})
	require.NoError(t, err)

	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	changed, err := env.service.AutoCompleteSweep(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	// Idempotent: the second run in the same day is a no-op.
	changed, err = env.service.AutoCompleteSweep(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, changed)

	get := func(id int64) *domain.Booking {
		b, err := env.service.GetBooking(ctx, id, buyer.ID)
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, domain.BookingCompleted, get(past.ID).Status)
	assert.Equal(t, domain.BookingBooked, get(todayTrip.ID).Status)
	assert.Equal(t, domain.BookingBooked, get(future.ID).Status)

	// Payment is untouched by completion.
	assert.Equal(t, domain.PaymentPaid, get(past.ID).PaymentStatus)
}

func TestListingSweepsPastBookingsIntoHistory(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.service.now = fixedClock(2026, time.March, 10)

	buyer := env.createUser(t, "asha")
	pkg := env.createPackage(t, "Khonoma Trail", "Khonoma", "Neikuo")

	past, err := env.service.CreateBooking(ctx, pkg.ID, CreateBookingRequest{
		BuyerID: buyer.ID, Date: "2026-02-01", Persons: 1, TotalPrice: 100,
	})
	require.NoError(t, err)

	current, err := env.service.ListCurrentBookings(ctx, buyer.ID, "")
	require.NoError(t, err)
	assert.Empty(t, current)

	history, err := env.service.ListHistory(ctx, buyer.ID, "")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, past.ID, history[0].ID)
	assert.Equal(t, domain.BookingCompleted, history[0].Status)
}

func TestListFilteringJoinSemantics(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.service.now = fixedClock(2026, time.March, 10)

	asha := env.createUser(t, "asha")
	ravi := env.createUser(t, "ravi")
	khonoma := env.createPackage(t, "Khonoma Trail", "Khonoma", "Neikuo")
	spiti := env.createPackage(t, "Spiti Retreat", "Demul", "Tenzin")

	first, err := env.service.CreateBooking(ctx, khonoma.ID, CreateBookingRequest{
		BuyerID: asha.ID, Date: "2026-09-15", Persons: 1, TotalPrice: 100,
	})
	require.NoError(t, err)
	second, err := env.service.CreateBooking(ctx, spiti.ID, CreateBookingRequest{
		BuyerID: asha.ID, Date: "2026-09-16", Persons: 1, TotalPrice: 200,
	})
	require.NoError(t, err)
	_, err = env.service.CreateBooking(ctx, khonoma.ID, CreateBookingRequest{
		BuyerID: ravi.ID, Date: "2026-09-17", Persons: 1, TotalPrice: 300,
	})
	require.NoError(t, err)

	// Force a stable creation order for the ordering assertion.
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []int64{first.ID, second.ID} {
		require.NoError(t, env.db.Model(&domain.Booking{}).Where("id = ?", id).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	// Global scope matches buyer username/email, case-insensitively.
	global, err := env.service.ListCurrentBookings(ctx, 0, "ASHA")
	require.NoError(t, err)
	require.Len(t, global, 2)
	assert.Equal(t, first.ID, global[0].ID, "ordered oldest-created-first")
	assert.Equal(t, second.ID, global[1].ID)
	require.NotNil(t, global[0].Buyer)
	assert.Equal(t, "asha", global[0].Buyer.Username)

	// Per-user scope matches the package name; non-matching joins are
	// excluded entirely.
	mine, err := env.service.ListCurrentBookings(ctx, asha.ID, "spiti")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.ID, mine[0].ID)
	require.NotNil(t, mine[0].Package)
	assert.Equal(t, "Spiti Retreat", mine[0].Package.Name)

	none, err := env.service.ListCurrentBookings(ctx, asha.ID, "no-such-package")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCancelBooking(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "asha")
	stranger := env.createUser(t, "ravi")
	pkg := env.createPackage(t, "Khonoma Trail", "Khonoma", "Neikuo")

	b, err := env.service.CreateBooking(ctx, pkg.ID, CreateBookingRequest{
		BuyerID: owner.ID, Date: "2026-09-15", Persons: 1, TotalPrice: 500,
	})
	require.NoError(t, err)

	// A stranger cannot cancel, and the record stays untouched.
	err = env.service.CancelBooking(ctx, b.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	unchanged, err := env.service.GetBooking(ctx, b.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingBooked, unchanged.Status)
	assert.Equal(t, domain.PaymentPaid, unchanged.PaymentStatus)

	// The owner cancels: lifecycle and payment flip together.
	require.NoError(t, env.service.CancelBooking(ctx, b.ID, owner.ID))

	cancelled, err := env.service.GetBooking(ctx, b.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
	assert.Equal(t, domain.PaymentRefunded, cancelled.PaymentStatus)

	// Cancelled is terminal.
	err = env.service.CancelBooking(ctx, b.ID, owner.ID)
	assert.ErrorIs(t, err, ErrAlreadyFinal)

	err = env.service.CancelBooking(ctx, 9999, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteHistoryPolicies(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	owner := env.createUser(t, "asha")
	stranger := env.createUser(t, "ravi")
	pkg := env.createPackage(t, "Khonoma Trail", "Khonoma", "Neikuo")

	book := func() *domain.Booking {
		b, err := env.service.CreateBooking(ctx, pkg.ID, CreateBookingRequest{
			BuyerID: owner.ID, Date: "2026-09-15", Persons: 1, TotalPrice: 500,
		})
		require.NoError(t, err)
		return b
	}

	// Ownership is checked before any state policy.
	b := book()
	err := env.service.DeleteHistory(ctx, b.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Default policy: any lifecycle state can be erased.
	require.NoError(t, env.service.DeleteHistory(ctx, b.ID, owner.ID))
	_, err = env.service.GetBooking(ctx, b.ID, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Terminal-only policy rejects active bookings but accepts
	// cancelled ones.
	env.service.deletePolicy = DeleteTerminalOnly

	active := book()
	err = env.service.DeleteHistory(ctx, active.ID, owner.ID)
	assert.ErrorIs(t, err, ErrActiveDelete)

	require.NoError(t, env.service.CancelBooking(ctx, active.ID, owner.ID))
	require.NoError(t, env.service.DeleteHistory(ctx, active.ID, owner.ID))
}
