package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/exactmatch/internal/domain"
)

const seedAdminUsername = "admin_seller"

type SeedResult struct {
	Brands     int
	Categories int
	Batteries  domain.ImportReport
	// AdminPassword is set only when the admin account was created with a
	// generated password.
	AdminPassword string
}

type seedBrand struct {
	name, country, description string
	popular                    bool
}

var seedBrands = []seedBrand{
	{"Amaron", "India", "Long life automotive batteries", true},
	{"Bosch", "Germany", "German engineering for starting power", true},
	{"ACDelco", "USA", "OEM grade batteries for GM and beyond", false},
	{"Optima", "USA", "SpiralCell AGM technology", false},
	{"Interstate", "USA", "", false},
	{"DieHard", "USA", "", false},
	{"Exide", "USA", "", false},
	{"Varta", "Germany", "", false},
}

type seedCategory struct {
	kind  domain.CategoryKind
	name  string
	order int
}

var seedCategories = []seedCategory{
	{domain.KindVehicleType, "Small Cars", 1},
	{domain.KindVehicleType, "Sedans", 2},
	{domain.KindVehicleType, "SUVs", 3},
	{domain.KindVehicleType, "Trucks", 4},
	{domain.KindVehicleType, "Motorcycles", 5},
	{domain.KindBatteryType, "Flooded", 1},
	{domain.KindBatteryType, "AGM", 2},
	{domain.KindBatteryType, "Maintenance-Free", 3},
	{domain.KindBatteryType, "Gel", 4},
	{domain.KindUseCase, "Daily Driving", 1},
	{domain.KindUseCase, "Heavy Duty", 2},
	{domain.KindUseCase, "Start-Stop Technology", 3},
	{domain.KindUseCase, "Deep Cycle", 4},
	{domain.KindBrandSeries, "Go", 1},
	{domain.KindBrandSeries, "Current", 2},
	{domain.KindBrandSeries, "Pro", 3},
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seedBatteries() []domain.ImportRow {
	ref := func(kind domain.CategoryKind, name string) domain.CategoryRef {
		return domain.CategoryRef{Kind: kind, Name: name}
	}
	rows := []domain.ImportRow{
		{
			BrandName:  "ACDelco",
			Categories: []domain.CategoryRef{ref(domain.KindVehicleType, "Sedans"), ref(domain.KindBatteryType, "AGM"), ref(domain.KindUseCase, "Start-Stop Technology")},
			Battery: domain.BatteryInput{
				Name: "ACDelco 48AGM Professional", ModelNumber: "AC48AGM",
				AmpHours: 70, ColdCrankingAmps: 760, ReserveCapacity: 120,
				Length: dec("27.7"), Width: dec("17.5"), Height: dec("19.1"), Weight: dec("21.0"),
				Price: dec("189.99"), OriginalPrice: decPtr("219.99"), StockQuantity: 15,
				CompatibleVehicles: []string{"Chevrolet Malibu", "Buick Regal", "Cadillac ATS"},
				VehicleMakes:       []string{"Chevrolet", "Buick", "Cadillac"},
				VehicleModels:      []string{"Malibu", "Regal", "ATS"},
				Description:        "Professional grade AGM battery built for start-stop vehicles.",
				Features:           []string{"AGM construction", "Spill proof", "Vibration resistant"},
				IsFeatured:         true,
			},
		},
		{
			BrandName:  "Optima",
			Categories: []domain.CategoryRef{ref(domain.KindVehicleType, "SUVs"), ref(domain.KindBatteryType, "AGM"), ref(domain.KindUseCase, "Heavy Duty")},
			Battery: domain.BatteryInput{
				Name: "Optima RedTop 34/78", ModelNumber: "OPT3478",
				AmpHours: 50, ColdCrankingAmps: 800, ReserveCapacity: 100,
				Length: dec("25.4"), Width: dec("17.5"), Height: dec("20.0"), Weight: dec("17.2"),
				Price: dec("259.99"), StockQuantity: 8,
				CompatibleVehicles: []string{"Ford F-150", "Jeep Wrangler"},
				VehicleMakes:       []string{"Ford", "Jeep"},
				VehicleModels:      []string{"F-150", "Wrangler"},
				Description:        "SpiralCell starting battery with high cranking power.",
				Features:           []string{"SpiralCell design", "Fast recharge"},
				IsFeatured:         true,
				IsPopular:          true,
			},
		},
		{
			BrandName:  "Interstate",
			Categories: []domain.CategoryRef{ref(domain.KindVehicleType, "Trucks"), ref(domain.KindBatteryType, "Flooded"), ref(domain.KindUseCase, "Heavy Duty")},
			Battery: domain.BatteryInput{
				Name: "Interstate MTZ-65", ModelNumber: "INT-MTZ65",
				AmpHours: 75, ColdCrankingAmps: 850, ReserveCapacity: 140,
				Length: dec("30.6"), Width: dec("19.0"), Height: dec("19.0"), Weight: dec("24.0"),
				Price: dec("199.99"), StockQuantity: 12,
				CompatibleVehicles: []string{"Ram 1500", "Chevrolet Silverado"},
				VehicleMakes:       []string{"Ram", "Chevrolet"},
				VehicleModels:      []string{"1500", "Silverado"},
				Description:        "Heavy duty battery for trucks and large engines.",
				IsPopular:          true,
			},
		},
		{
			BrandName:  "DieHard",
			Categories: []domain.CategoryRef{ref(domain.KindVehicleType, "Sedans"), ref(domain.KindBatteryType, "Maintenance-Free"), ref(domain.KindUseCase, "Daily Driving")},
			Battery: domain.BatteryInput{
				Name: "DieHard Gold 50748", ModelNumber: "DH-50748",
				AmpHours: 65, ColdCrankingAmps: 750, ReserveCapacity: 120,
				Length: dec("26.0"), Width: dec("17.3"), Height: dec("19.0"), Weight: dec("18.5"),
				Price: dec("149.99"), OriginalPrice: decPtr("169.99"), StockQuantity: 20,
				CompatibleVehicles: []string{"Honda Accord", "Toyota Camry"},
				VehicleMakes:       []string{"Honda", "Toyota"},
				VehicleModels:      []string{"Accord", "Camry"},
				Description:        "Reliable everyday starting battery.",
			},
		},
		{
			BrandName:  "Bosch",
			Categories: []domain.CategoryRef{ref(domain.KindVehicleType, "SUVs"), ref(domain.KindBatteryType, "AGM"), ref(domain.KindUseCase, "Start-Stop Technology")},
			Battery: domain.BatteryInput{
				Name: "Bosch S6 High Performance", ModelNumber: "BSH-S6HP",
				AmpHours: 80, ColdCrankingAmps: 800, ReserveCapacity: 150,
				Length: dec("31.5"), Width: dec("17.5"), Height: dec("19.0"), Weight: dec("22.0"),
				Price: dec("219.99"), StockQuantity: 6,
				CompatibleVehicles: []string{"BMW X5", "Audi Q7", "Mercedes-Benz GLE"},
				VehicleMakes:       []string{"BMW", "Audi", "Mercedes-Benz"},
				VehicleModels:      []string{"X5", "Q7", "GLE"},
				Description:        "AGM battery for premium vehicles with high electrical load.",
				Features:           []string{"AGM construction", "Start-stop ready"},
				IsFeatured:         true,
			},
		},
		{
			BrandName:  "Exide",
			Categories: []domain.CategoryRef{ref(domain.KindVehicleType, "Small Cars"), ref(domain.KindBatteryType, "AGM"), ref(domain.KindUseCase, "Daily Driving")},
			Battery: domain.BatteryInput{
				Name: "Exide Edge FP-AGML4/94R", ModelNumber: "EXD-AGML4",
				AmpHours: 70, ColdCrankingAmps: 710, ReserveCapacity: 130,
				Length: dec("31.5"), Width: dec("17.5"), Height: dec("19.0"), Weight: dec("21.5"),
				Price: dec("179.99"), StockQuantity: 10,
				CompatibleVehicles: []string{"Volkswagen Golf", "Ford Focus"},
				VehicleMakes:       []string{"Volkswagen", "Ford"},
				VehicleModels:      []string{"Golf", "Focus"},
				Description:        "Flat plate AGM battery with long service life.",
			},
		},
		{
			BrandName:  "Amaron",
			Categories: []domain.CategoryRef{ref(domain.KindVehicleType, "Motorcycles"), ref(domain.KindBatteryType, "Maintenance-Free"), ref(domain.KindUseCase, "Daily Driving")},
			Battery: domain.BatteryInput{
				Name: "Amaron Bike Power 5AH", ModelNumber: "AMR-BP-5",
				AmpHours: 5, ColdCrankingAmps: 60, ReserveCapacity: 15,
				Length: dec("11.0"), Width: dec("7.0"), Height: dec("10.0"), Weight: dec("2.5"),
				Price: dec("18.00"), OriginalPrice: decPtr("20.00"), StockQuantity: 30,
				CompatibleVehicles: []string{"Honda Activa", "TVS Jupiter", "Bajaj Pulsar"},
				VehicleMakes:       []string{"Honda", "TVS", "Bajaj"},
				VehicleModels:      []string{"Activa", "Jupiter", "Pulsar"},
				Description:        "Compact and reliable battery for motorcycles and scooters.",
				IsFeatured:         true,
				IsPopular:          true,
			},
		},
	}
	for i := range rows {
		b := &rows[i].Battery
		rows[i].Line = i + 1
		b.Voltage = domain.Voltage12
		b.Condition = domain.ConditionNew
		b.IsActive = true
		if b.ShortDescription == "" {
			b.ShortDescription = b.Description
		}
	}
	return rows
}

// Seed loads the sample catalog and a staff account. It can run any number
// of times: brands and categories are matched by name and batteries by
// model number.
func (a *App) Seed(ctx context.Context, adminPassword string) (SeedResult, error) {
	var res SeedResult

	admin, generated, err := a.ensureAdmin(ctx, adminPassword)
	if err != nil {
		return res, fmt.Errorf("seed admin: %w", err)
	}
	res.AdminPassword = generated

	for _, sb := range seedBrands {
		created, err := a.seedBrand(ctx, sb)
		if err != nil {
			return res, fmt.Errorf("seed brand %s: %w", sb.name, err)
		}
		if created {
			res.Brands++
		}
	}
	for _, sc := range seedCategories {
		created, err := a.seedCategory(ctx, sc)
		if err != nil {
			return res, fmt.Errorf("seed category %s: %w", sc.name, err)
		}
		if created {
			res.Categories++
		}
	}

	res.Batteries, err = a.CatalogUC.ImportCatalog(ctx, admin.Actor(), seedBatteries())
	if err != nil {
		return res, fmt.Errorf("seed batteries: %w", err)
	}
	log.Info().
		Int("brands", res.Brands).
		Int("categories", res.Categories).
		Int("batteries_created", res.Batteries.Created).
		Msg("sample data loaded")
	if generated != "" {
		log.Warn().Str("username", admin.Username).Str("password", generated).Msg("created admin account, change this password")
	}
	return res, nil
}

func (a *App) ensureAdmin(ctx context.Context, password string) (*domain.User, string, error) {
	u, err := a.Users.FindByUsername(ctx, seedAdminUsername)
	if err == nil {
		if !u.IsStaff {
			u.IsStaff = true
			if err := a.Users.Save(ctx, u); err != nil {
				return nil, "", err
			}
		}
		return u, "", nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	generated := ""
	if password == "" {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")
		generated = password
	}
	if len(password) < domain.MinPasswordLength {
		return nil, "", domain.NewValidationError("password", "password must be at least 8 characters")
	}
	hash, err := a.Hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}
	u = &domain.User{
		Username:     seedAdminUsername,
		Email:        "admin@exactmatch.com",
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "Seller",
		IsStaff:      true,
	}
	if err := a.Users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	return u, generated, nil
}

func (a *App) seedBrand(ctx context.Context, sb seedBrand) (bool, error) {
	_, err := a.CatalogUC.Brands.FindByName(ctx, sb.name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	in := domain.BrandInput{Name: sb.name, Country: sb.country, Description: sb.description, IsPopular: sb.popular}
	if err := in.Validate(); err != nil {
		return false, err
	}
	b := &domain.Brand{}
	in.Apply(b)
	return true, a.CatalogUC.Brands.Save(ctx, b)
}

func (a *App) seedCategory(ctx context.Context, sc seedCategory) (bool, error) {
	_, err := a.CatalogUC.Categories.FindByName(ctx, sc.kind, sc.name)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	in := domain.CategoryInput{Name: sc.name, CategoryType: sc.kind, IsActive: true, DisplayOrder: sc.order}
	if err := in.Validate(); err != nil {
		return false, err
	}
	c := &domain.Category{}
	in.Apply(c)
	return true, a.CatalogUC.Categories.Save(ctx, c)
}
