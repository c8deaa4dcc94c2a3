package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/exactmatch/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

type fixture struct {
	db     *gorm.DB
	seller domain.User
	brands map[string]*domain.Brand
	cats   map[string]*domain.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db, brands: map[string]*domain.Brand{}, cats: map[string]*domain.Category{}}
	f.seller = domain.User{Username: "admin", Email: "admin@example.com", IsStaff: true}
	require.NoError(t, db.Create(&f.seller).Error)
	for _, name := range []string{"Optima", "Bosch"} {
		b := &domain.Brand{Name: name}
		require.NoError(t, db.Create(b).Error)
		f.brands[name] = b
	}
	for _, c := range []struct {
		name string
		kind domain.CategoryKind
	}{{"Car", domain.KindVehicleType}, {"Truck", domain.KindVehicleType}, {"AGM", domain.KindBatteryType}} {
		cat := &domain.Category{Name: c.name, CategoryType: c.kind, IsActive: true}
		require.NoError(t, db.Create(cat).Error)
		f.cats[c.name] = cat
	}
	return f
}

func (f *fixture) battery(t *testing.T, name, brand string, price int64, mutate func(*domain.Battery)) *domain.Battery {
	t.Helper()
	b := &domain.Battery{
		Name:             name,
		BrandID:          f.brands[brand].ID,
		ModelNumber:      domain.Slugify(name) + "-mn",
		Voltage:          domain.Voltage12,
		AmpHours:         60,
		ColdCrankingAmps: 600,
		ReserveCapacity:  100,
		Condition:        domain.ConditionNew,
		Price:            decimal.NewFromInt(price),
		StockQuantity:    5,
		Description:      name + " battery",
		Slug:             domain.Slugify(name),
		IsActive:         true,
		SellerID:         f.seller.ID,
	}
	if mutate != nil {
		mutate(b)
	}
	require.NoError(t, NewBatteryRepo(f.db).Create(context.Background(), b))
	return b
}

func names(list []domain.Battery) []string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.Name)
	}
	return out
}

func ip(v int) *int { return &v }

func dp(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestBatteryRepo_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.battery(t, "Optima RedTop", "Optima", 150, func(b *domain.Battery) {
		b.AmpHours = 50
		b.ColdCrankingAmps = 800
		b.CompatibleVehicles = domain.StringList{"Honda Civic 2015"}
		b.VehicleMakes = domain.StringList{"Honda"}
		b.Categories = []domain.Category{*f.cats["Car"], *f.cats["AGM"]}
	})
	f.battery(t, "Bosch S5", "Bosch", 250, func(b *domain.Battery) {
		b.AmpHours = 74
		b.ColdCrankingAmps = 680
		b.StockQuantity = 0
		b.CompatibleVehicles = domain.StringList{"Ford F-150"}
		b.Categories = []domain.Category{*f.cats["Truck"]}
	})
	f.battery(t, "Bosch Heavy", "Bosch", 320, func(b *domain.Battery) {
		b.Voltage = domain.Voltage24
		b.AmpHours = 100
		b.Condition = domain.ConditionUsed
	})
	f.battery(t, "Optima YellowTop", "Optima", 100, func(b *domain.Battery) {
		b.IsActive = false
	})

	repo := NewBatteryRepo(f.db)
	priceAsc := []domain.SortField{{Field: "price"}}
	cases := []struct {
		name string
		q    domain.BatteryQuery
		want []string
	}{
		{"inactive excluded", domain.BatteryQuery{}, []string{"Optima RedTop", "Bosch S5", "Bosch Heavy"}},
		{"brand substring", domain.BatteryQuery{Brand: "bos"}, []string{"Bosch S5", "Bosch Heavy"}},
		{"brand id", domain.BatteryQuery{BrandID: &f.brands["Optima"].ID}, []string{"Optima RedTop"}},
		{"min price", domain.BatteryQuery{MinPrice: dp(200)}, []string{"Bosch S5", "Bosch Heavy"}},
		{"inverted price range", domain.BatteryQuery{MinPrice: dp(300), MaxPrice: dp(100)}, []string{}},
		{"voltage and stock", domain.BatteryQuery{Voltage: domain.Voltage12, InStock: true}, []string{"Optima RedTop"}},
		{"condition", domain.BatteryQuery{Condition: domain.ConditionUsed}, []string{"Bosch Heavy"}},
		{"amp hours range", domain.BatteryQuery{MinAmpHours: ip(60), MaxAmpHours: ip(80)}, []string{"Bosch S5"}},
		{"cca floor", domain.BatteryQuery{MinCCA: ip(700)}, []string{"Optima RedTop"}},
		{"vehicle search", domain.BatteryQuery{VehicleSearch: "civic"}, []string{"Optima RedTop"}},
		{"category name", domain.BatteryQuery{Category: "truck"}, []string{"Bosch S5"}},
		{"category ids", domain.BatteryQuery{CategoryIDs: []uint{f.cats["AGM"].ID, f.cats["Truck"].ID}}, []string{"Optima RedTop", "Bosch S5"}},
		{"category type", domain.BatteryQuery{CategoryType: domain.KindBatteryType}, []string{"Optima RedTop"}},
		{"search terms anded", domain.BatteryQuery{Search: "optima red"}, []string{"Optima RedTop"}},
		{"search by brand", domain.BatteryQuery{Search: "BOSCH"}, []string{"Bosch S5", "Bosch Heavy"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.q.Ordering = priceAsc
			list, total, err := repo.List(ctx, tc.q)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(list))
			assert.EqualValues(t, len(tc.want), total)
		})
	}
}

func TestBatteryRepo_TextFiltersMatchLiterally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.battery(t, "Plain", "Optima", 100, func(b *domain.Battery) {
		b.CompatibleVehicles = domain.StringList{"Honda Civic"}
		b.VehicleMakes = domain.StringList{"Honda"}
	})
	amp := f.battery(t, "Amp", "Bosch", 200, func(b *domain.Battery) {
		b.CompatibleVehicles = domain.StringList{"Land Rover Defender <90>", "Fiat 50%_E"}
		b.VehicleMakes = domain.StringList{"A&B Motors"}
		b.VehicleModels = domain.StringList{`Say "Hi"`}
	})

	repo := NewBatteryRepo(f.db)
	priceAsc := []domain.SortField{{Field: "price"}}
	cases := []struct {
		name string
		q    domain.BatteryQuery
		want []string
	}{
		{"percent", domain.BatteryQuery{VehicleSearch: "%"}, []string{"Amp"}},
		{"underscore", domain.BatteryQuery{VehicleSearch: "_"}, []string{"Amp"}},
		{"percent underscore", domain.BatteryQuery{VehicleSearch: "%_e"}, []string{"Amp"}},
		{"ampersand", domain.BatteryQuery{VehicleSearch: "A&B"}, []string{"Amp"}},
		{"angle brackets", domain.BatteryQuery{VehicleSearch: "<90>"}, []string{"Amp"}},
		{"quote inside value", domain.BatteryQuery{VehicleSearch: `"hi"`}, []string{"Amp"}},
		{"bracket", domain.BatteryQuery{VehicleSearch: "["}, []string{}},
		{"element separator", domain.BatteryQuery{VehicleSearch: `","`}, []string{}},
		{"backslash", domain.BatteryQuery{VehicleSearch: `\`}, []string{}},
		{"across elements", domain.BatteryQuery{VehicleSearch: "<90>\nfiat"}, []string{}},
		{"plain term", domain.BatteryQuery{VehicleSearch: "civic"}, []string{"Plain"}},
		{"search percent", domain.BatteryQuery{Search: "%"}, []string{"Amp"}},
		{"search brackets", domain.BatteryQuery{Search: "<90>"}, []string{"Amp"}},
		{"search bracket", domain.BatteryQuery{Search: "["}, []string{}},
		{"brand underscore", domain.BatteryQuery{Brand: "_"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.q.Ordering = priceAsc
			list, total, err := repo.List(ctx, tc.q)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(list))
			assert.EqualValues(t, len(tc.want), total)
		})
	}

	got, err := repo.FindBySlug(ctx, amp.Slug)
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"Land Rover Defender <90>", "Fiat 50%_E"}, got.CompatibleVehicles)
	assert.Equal(t, domain.StringList{"A&B Motors"}, got.VehicleMakes)

	sugg, err := repo.Suggest(ctx, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, sugg)
	brands, err := NewBrandRepo(f.db).Search(ctx, "_", 5)
	require.NoError(t, err)
	assert.Empty(t, brands)
}

func TestBatteryRepo_ListOrderingAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.battery(t, "Alpha", "Optima", 300, nil)
	f.battery(t, "Beta", "Optima", 100, nil)
	f.battery(t, "Gamma", "Bosch", 200, nil)
	repo := NewBatteryRepo(f.db)

	list, _, err := repo.List(ctx, domain.BatteryQuery{Ordering: []domain.SortField{{Field: "price", Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Gamma", "Beta"}, names(list))

	list, total, err := repo.List(ctx, domain.BatteryQuery{Ordering: []domain.SortField{{Field: "name"}}, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"Gamma"}, names(list))

	list, total, err = repo.List(ctx, domain.BatteryQuery{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, list)
}

func TestBatteryRepo_DetailAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewBatteryRepo(f.db)
	b := f.battery(t, "Optima RedTop", "Optima", 150, func(b *domain.Battery) {
		b.Categories = []domain.Category{*f.cats["Car"]}
		b.Features = []string{"Spill proof"}
	})

	got, err := repo.FindBySlug(ctx, "optima-redtop")
	require.NoError(t, err)
	assert.Equal(t, "Optima", got.Brand.Name)
	assert.Equal(t, "admin", got.Seller.Username)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, []string{"Spill proof"}, []string(got.Features))

	got.Categories = []domain.Category{*f.cats["Truck"], *f.cats["AGM"], *f.cats["Truck"]}
	got.Price = decimal.RequireFromString("139.99")
	got.IsActive = false
	require.NoError(t, repo.Update(ctx, got))

	_, err = repo.FindBySlug(ctx, "optima-redtop")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FindActiveByID(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Categories, 2)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("139.99")))

	taken, err := repo.SlugTaken(ctx, "optima-redtop", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.SlugTaken(ctx, "optima-redtop", b.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	missing := &domain.Battery{ID: uuid.New(), Name: "ghost", Slug: "ghost", ModelNumber: "ghost"}
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrNotFound)
}

func TestBatteryRepo_Images(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewBatteryRepo(f.db)
	b := f.battery(t, "Optima RedTop", "Optima", 150, nil)

	first := &domain.BatteryImage{BatteryID: b.ID, Image: "batteries/a.jpg"}
	require.NoError(t, repo.AddImage(ctx, first))
	assert.True(t, first.IsPrimary)

	second := &domain.BatteryImage{BatteryID: b.ID, Image: "batteries/b.jpg", Order: 1}
	require.NoError(t, repo.AddImage(ctx, second))
	assert.False(t, second.IsPrimary)

	require.NoError(t, repo.SetPrimaryImage(ctx, b.ID, second.ID))
	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PrimaryImage())
	assert.Equal(t, second.ID, got.PrimaryImage().ID)

	deleted, err := repo.DeleteImage(ctx, b.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "batteries/b.jpg", deleted.Image)
	got, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	assert.True(t, got.Images[0].IsPrimary)

	assert.ErrorIs(t, repo.SetPrimaryImage(ctx, b.ID, uuid.New()), domain.ErrNotFound)
}

func TestBatteryRepo_DeleteAndSuggest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewBatteryRepo(f.db)
	b := f.battery(t, "Optima RedTop", "Optima", 150, func(b *domain.Battery) {
		b.Categories = []domain.Category{*f.cats["Car"]}
	})
	f.battery(t, "Bosch S5", "Bosch", 250, nil)

	list, err := repo.Suggest(ctx, "opt", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Optima RedTop"}, names(list))

	_, err = NewWishlistRepo(f.db).Add(ctx, f.seller.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), domain.ErrNotFound)

	items, err := NewWishlistRepo(f.db).List(ctx, f.seller.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	cats, err := NewCategoryRepo(f.db).All(ctx)
	require.NoError(t, err)
	for _, c := range cats {
		assert.Zero(t, c.BatteryCount, c.Name)
	}
}

func TestBrandAndCategoryCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.battery(t, "Optima RedTop", "Optima", 150, func(b *domain.Battery) {
		b.Categories = []domain.Category{*f.cats["Car"]}
	})
	f.battery(t, "Optima YellowTop", "Optima", 170, func(b *domain.Battery) {
		b.Categories = []domain.Category{*f.cats["Car"]}
		b.IsActive = false
	})

	brands, err := NewBrandRepo(f.db).List(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Bosch", brands[0].Name)
	assert.EqualValues(t, 0, brands[0].BatteryCount)
	assert.EqualValues(t, 1, brands[1].BatteryCount)

	cats, err := NewCategoryRepo(f.db).All(ctx)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, c := range cats {
		counts[c.Name] = c.BatteryCount
	}
	assert.Equal(t, map[string]int64{"Car": 1, "Truck": 0, "AGM": 0}, counts)

	byName, err := NewBrandRepo(f.db).FindByName(ctx, " optima ")
	require.NoError(t, err)
	assert.Equal(t, f.brands["Optima"].ID, byName.ID)
}

func TestBrandRepo_DeleteCascadesUnlessOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	brands := NewBrandRepo(f.db)
	f.battery(t, "Optima RedTop", "Optima", 150, nil)
	bosch := f.battery(t, "Bosch S5", "Bosch", 250, nil)

	require.NoError(t, NewOrderRepo(f.db).Create(ctx, &domain.Order{
		UserID: f.seller.ID, ShippingAddress: "1 Main St", ShippingCity: "Springfield",
		ShippingPostalCode: "12345", ShippingCountry: "US", PhoneNumber: "555",
		Items: []domain.OrderItem{{BatteryID: bosch.ID, Quantity: 1, UnitPrice: bosch.Price}},
	}))

	ordered, err := brands.HasOrderedBatteries(ctx, f.brands["Bosch"].ID)
	require.NoError(t, err)
	assert.True(t, ordered)
	ordered, err = brands.HasOrderedBatteries(ctx, f.brands["Optima"].ID)
	require.NoError(t, err)
	assert.False(t, ordered)

	require.NoError(t, brands.Delete(ctx, f.brands["Optima"].ID))
	list, total, err := NewBatteryRepo(f.db).List(ctx, domain.BatteryQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"Bosch S5"}, names(list))
}

func TestOrderRepo_CreateAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewOrderRepo(f.db)
	b := f.battery(t, "Optima RedTop", "Optima", 250, nil)

	o := &domain.Order{
		UserID: f.seller.ID, ShippingAddress: "1 Main St", ShippingCity: "Springfield",
		ShippingPostalCode: "12345", ShippingCountry: "US", PhoneNumber: "555-0100",
		Items: []domain.OrderItem{{BatteryID: b.ID, Quantity: 2, UnitPrice: b.Price}},
	}
	o.ApplyTotals(domain.DefaultPricing().Totals(o.Items))
	require.NoError(t, repo.Create(ctx, o))
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.True(t, o.Items[0].TotalPrice.Equal(decimal.NewFromInt(500)))

	got, err := repo.FindForUser(ctx, o.ID, f.seller.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Optima RedTop", got.Items[0].Battery.Name)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(550)))
	assert.True(t, got.ShippingCost.IsZero())

	_, err = repo.FindForUser(ctx, o.ID, f.seller.ID+1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, total, err := repo.ListByUser(ctx, f.seller.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	bought, err := repo.HasPurchased(ctx, f.seller.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, bought)

	got.MarkStatus(domain.OrderStatusCancelled, time.Now())
	require.NoError(t, repo.UpdateStatus(ctx, got))
	bought, err = repo.HasPurchased(ctx, f.seller.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, bought)
}

func TestOrderRepo_CreateRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewOrderRepo(f.db)
	b := f.battery(t, "Optima RedTop", "Optima", 250, nil)

	dup := uuid.New()
	require.NoError(t, repo.Create(ctx, &domain.Order{
		ID: dup, UserID: f.seller.ID, ShippingAddress: "a", ShippingCity: "b",
		ShippingPostalCode: "c", ShippingCountry: "d", PhoneNumber: "e",
		Items: []domain.OrderItem{{BatteryID: b.ID, Quantity: 1, UnitPrice: b.Price}},
	}))
	// the second insert collides on the primary key; no item may survive it
	err := repo.Create(ctx, &domain.Order{
		ID: dup, UserID: f.seller.ID, ShippingAddress: "a", ShippingCity: "b",
		ShippingPostalCode: "c", ShippingCountry: "d", PhoneNumber: "e",
		Items: []domain.OrderItem{{BatteryID: b.ID, Quantity: 3, UnitPrice: b.Price}},
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, f.db.Model(&domain.OrderItem{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestWishlistRepo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewWishlistRepo(f.db)
	b := f.battery(t, "Optima RedTop", "Optima", 150, nil)

	created, err := repo.Add(ctx, f.seller.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repo.Add(ctx, f.seller.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	list, err := repo.List(ctx, f.seller.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Optima", list[0].Battery.Brand.Name)

	require.NoError(t, repo.Remove(ctx, f.seller.ID, b.ID))
	assert.ErrorIs(t, repo.Remove(ctx, f.seller.ID, b.ID), domain.ErrNotFound)
}

func TestReviewRepo_UniquePerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewReviewRepo(f.db)
	b := f.battery(t, "Optima RedTop", "Optima", 150, nil)

	rv := &domain.Review{BatteryID: b.ID, UserID: f.seller.ID, Rating: 5, Title: "Great", Comment: "Starts every time"}
	require.NoError(t, repo.Create(ctx, rv))
	exists, err := repo.Exists(ctx, b.ID, f.seller.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	again := &domain.Review{BatteryID: b.ID, UserID: f.seller.ID, Rating: 1, Title: "Again", Comment: "dup"}
	assert.ErrorIs(t, repo.Create(ctx, again), domain.ErrConflict)

	list, err := repo.ListByBattery(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "admin", list[0].User.Username)
}

func TestUserRepo(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	u := &domain.User{Username: "jane", Email: " Jane@Example.com "}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "jane@example.com", u.Email)

	got, err := repo.FindByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Username: "jane", Email: "other@example.com"}), domain.ErrConflict)
	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsRepo(t *testing.T) {
	f := newFixture(t)
	f.battery(t, "Optima RedTop", "Optima", 150, func(b *domain.Battery) { b.IsFeatured = true })
	f.battery(t, "Bosch S5", "Bosch", 250, func(b *domain.Battery) {
		b.IsPopular = true
		b.StockQuantity = 0
	})
	f.battery(t, "Bosch Old", "Bosch", 90, func(b *domain.Battery) { b.IsActive = false })

	s, err := NewStatsRepo(f.db).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		TotalBatteries:    2,
		FeaturedBatteries: 1,
		PopularBatteries:  1,
		TotalBrands:       2,
		TotalCategories:   3,
		InStockBatteries:  1,
	}, s)
}
