package domain

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

type BatteryRepo interface {
	List(ctx context.Context, q BatteryQuery) ([]Battery, int64, error)
	FindBySlug(ctx context.Context, slug string) (*Battery, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Battery, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Battery, error)
	FindByModelNumber(ctx context.Context, modelNumber string) (*Battery, error)
	SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, b *Battery) error
	Update(ctx context.Context, b *Battery) error
	Delete(ctx context.Context, id uuid.UUID) error
	InOrders(ctx context.Context, id uuid.UUID) (bool, error)
	Suggest(ctx context.Context, term string, limit int) ([]Battery, error)
	All(ctx context.Context) ([]Battery, error)

	AddImage(ctx context.Context, img *BatteryImage) error
	SetPrimaryImage(ctx context.Context, batteryID, imageID uuid.UUID) error
	DeleteImage(ctx context.Context, batteryID, imageID uuid.UUID) (*BatteryImage, error)
}

type BrandRepo interface {
	List(ctx context.Context) ([]Brand, error)
	Search(ctx context.Context, term string, limit int) ([]Brand, error)
	FindByID(ctx context.Context, id uint) (*Brand, error)
	FindByName(ctx context.Context, name string) (*Brand, error)
	Save(ctx context.Context, b *Brand) error
	Delete(ctx context.Context, id uint) error
	HasOrderedBatteries(ctx context.Context, id uint) (bool, error)
}

type CategoryRepo interface {
	All(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id uint) (*Category, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Category, error)
	FindByName(ctx context.Context, kind CategoryKind, name string) (*Category, error)
	ParentOf(ctx context.Context, id uint) (*uint, error)
	Save(ctx context.Context, c *Category) error
}

type ReviewRepo interface {
	ListByBattery(ctx context.Context, batteryID uuid.UUID) ([]Review, error)
	Exists(ctx context.Context, batteryID uuid.UUID, userID uint) (bool, error)
	Create(ctx context.Context, r *Review) error
}

type OrderRepo interface {
	// Create writes the order and all of its items in one transaction.
	Create(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]Order, int64, error)
	FindForUser(ctx context.Context, id uuid.UUID, userID uint) (*Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, o *Order) error
	HasPurchased(ctx context.Context, userID uint, batteryID uuid.UUID) (bool, error)
}

type WishlistRepo interface {
	List(ctx context.Context, userID uint) ([]Wishlist, error)
	// Add is a get-or-create; created reports whether a row was inserted.
	Add(ctx context.Context, userID uint, batteryID uuid.UUID) (created bool, err error)
	Remove(ctx context.Context, userID uint, batteryID uuid.UUID) error
}

type UserRepo interface {
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
}

type StatsRepo interface {
	Dashboard(ctx context.Context) (DashboardStats, error)
}

// FileStorage persists uploaded media and returns a URL or a path below the
// media root.
type FileStorage interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

type TokenIssuer interface {
	Issue(u *User) (string, time.Time, error)
	Verify(token string) (Actor, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
