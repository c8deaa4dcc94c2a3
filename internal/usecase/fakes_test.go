package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/exactmatch/internal/domain"
)

type fakeBatteries struct {
	domain.BatteryRepo
	byID    map[uuid.UUID]*domain.Battery
	ordered map[uuid.UUID]bool
	images  []*domain.BatteryImage
	deleted []uuid.UUID
	creates int
	updates int
}

func newFakeBatteries(list ...*domain.Battery) *fakeBatteries {
	f := &fakeBatteries{byID: map[uuid.UUID]*domain.Battery{}, ordered: map[uuid.UUID]bool{}}
	for _, b := range list {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		f.byID[b.ID] = b
	}
	return f
}

func (f *fakeBatteries) sorted() []domain.Battery {
	out := make([]domain.Battery, 0, len(f.byID))
	for _, b := range f.byID {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeBatteries) List(_ context.Context, q domain.BatteryQuery) ([]domain.Battery, int64, error) {
	out := []domain.Battery{}
	for _, b := range f.sorted() {
		if !b.IsActive {
			continue
		}
		if q.IsFeatured != nil && b.IsFeatured != *q.IsFeatured {
			continue
		}
		if q.IsPopular != nil && b.IsPopular != *q.IsPopular {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBatteries) FindBySlug(_ context.Context, slug string) (*domain.Battery, error) {
	for _, b := range f.byID {
		if b.Slug == slug && b.IsActive {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBatteries) FindActiveByID(_ context.Context, id uuid.UUID) (*domain.Battery, error) {
	b, ok := f.byID[id]
	if !ok || !b.IsActive {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBatteries) FindByID(_ context.Context, id uuid.UUID) (*domain.Battery, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBatteries) FindByModelNumber(_ context.Context, mn string) (*domain.Battery, error) {
	for _, b := range f.byID {
		if b.ModelNumber == mn {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBatteries) SlugTaken(_ context.Context, slug string, exclude uuid.UUID) (bool, error) {
	for _, b := range f.byID {
		if b.Slug == slug && b.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBatteries) Create(_ context.Context, b *domain.Battery) error {
	f.creates++
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBatteries) Update(_ context.Context, b *domain.Battery) error {
	if _, ok := f.byID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	f.updates++
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBatteries) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBatteries) InOrders(_ context.Context, id uuid.UUID) (bool, error) {
	return f.ordered[id], nil
}

func (f *fakeBatteries) Suggest(_ context.Context, term string, limit int) ([]domain.Battery, error) {
	out := []domain.Battery{}
	for _, b := range f.sorted() {
		if b.IsActive && strings.Contains(strings.ToLower(b.Name+" "+b.Brand.Name), strings.ToLower(term)) && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBatteries) All(context.Context) ([]domain.Battery, error) { return f.sorted(), nil }

func (f *fakeBatteries) AddImage(_ context.Context, img *domain.BatteryImage) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	if len(f.images) == 0 {
		img.IsPrimary = true
	}
	f.images = append(f.images, img)
	return nil
}

func (f *fakeBatteries) DeleteImage(_ context.Context, batteryID, imageID uuid.UUID) (*domain.BatteryImage, error) {
	for i, img := range f.images {
		if img.ID == imageID && img.BatteryID == batteryID {
			f.images = append(f.images[:i], f.images[i+1:]...)
			return img, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeBrands struct {
	domain.BrandRepo
	byID    map[uint]*domain.Brand
	ordered map[uint]bool
	nextID  uint
	deleted []uint
}

func newFakeBrands(names ...string) *fakeBrands {
	f := &fakeBrands{byID: map[uint]*domain.Brand{}, ordered: map[uint]bool{}}
	for _, n := range names {
		_ = f.Save(context.Background(), &domain.Brand{Name: n})
	}
	return f
}

func (f *fakeBrands) List(context.Context) ([]domain.Brand, error) {
	out := []domain.Brand{}
	for _, b := range f.byID {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeBrands) Search(_ context.Context, term string, limit int) ([]domain.Brand, error) {
	all, _ := f.List(context.Background())
	out := []domain.Brand{}
	for _, b := range all {
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(term)) && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBrands) FindByID(_ context.Context, id uint) (*domain.Brand, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBrands) FindByName(_ context.Context, name string) (*domain.Brand, error) {
	for _, b := range f.byID {
		if strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBrands) Save(_ context.Context, b *domain.Brand) error {
	if b.ID == 0 {
		f.nextID++
		b.ID = f.nextID
	}
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBrands) Delete(_ context.Context, id uint) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBrands) HasOrderedBatteries(_ context.Context, id uint) (bool, error) {
	return f.ordered[id], nil
}

type fakeCategories struct {
	domain.CategoryRepo
	byID   map[uint]*domain.Category
	nextID uint
}

func newFakeCategories(list ...domain.Category) *fakeCategories {
	f := &fakeCategories{byID: map[uint]*domain.Category{}}
	for i := range list {
		c := list[i]
		_ = f.Save(context.Background(), &c)
	}
	return f
}

func (f *fakeCategories) All(context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, c := range f.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uint) (*domain.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) FindByIDs(_ context.Context, ids []uint) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, id := range ids {
		if c, ok := f.byID[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategories) FindByName(_ context.Context, kind domain.CategoryKind, name string) (*domain.Category, error) {
	for _, c := range f.byID {
		if strings.EqualFold(c.Name, name) && (kind == "" || c.CategoryType == kind) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategories) ParentOf(_ context.Context, id uint) (*uint, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.ParentCategoryID, nil
}

func (f *fakeCategories) Save(_ context.Context, c *domain.Category) error {
	if c.ID == 0 {
		f.nextID++
		c.ID = f.nextID
	} else if c.ID > f.nextID {
		f.nextID = c.ID
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

type fakeOrders struct {
	domain.OrderRepo
	byID      map[uuid.UUID]*domain.Order
	purchased map[uuid.UUID]bool
	failWith  error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[uuid.UUID]*domain.Order{}, purchased: map[uuid.UUID]bool{}}
}

func (f *fakeOrders) Create(_ context.Context, o *domain.Order) error {
	if f.failWith != nil {
		return f.failWith
	}
	cp := *o
	f.byID[o.ID] = &cp
	return nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID uint, page, size int) ([]domain.Order, int64, error) {
	out := []domain.Order{}
	for _, o := range f.byID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) FindForUser(_ context.Context, id uuid.UUID, userID uint) (*domain.Order, error) {
	o, ok := f.byID[id]
	if !ok || o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, o *domain.Order) error {
	cp := *o
	f.byID[o.ID] = &cp
	return nil
}

func (f *fakeOrders) HasPurchased(_ context.Context, _ uint, batteryID uuid.UUID) (bool, error) {
	return f.purchased[batteryID], nil
}

type fakeReviews struct {
	domain.ReviewRepo
	rows []domain.Review
}

func (f *fakeReviews) ListByBattery(_ context.Context, batteryID uuid.UUID) ([]domain.Review, error) {
	out := []domain.Review{}
	for _, r := range f.rows {
		if r.BatteryID == batteryID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) Exists(_ context.Context, batteryID uuid.UUID, userID uint) (bool, error) {
	for _, r := range f.rows {
		if r.BatteryID == batteryID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) Create(_ context.Context, r *domain.Review) error {
	r.ID = uint(len(f.rows) + 1)
	r.CreatedAt = time.Now()
	f.rows = append(f.rows, *r)
	return nil
}

type wishKey struct {
	user    uint
	battery uuid.UUID
}

type fakeWishlist struct {
	domain.WishlistRepo
	rows    map[wishKey]bool
	listing []domain.Wishlist
}

func (f *fakeWishlist) Add(_ context.Context, userID uint, batteryID uuid.UUID) (bool, error) {
	if f.rows == nil {
		f.rows = map[wishKey]bool{}
	}
	k := wishKey{userID, batteryID}
	if f.rows[k] {
		return false, nil
	}
	f.rows[k] = true
	return true, nil
}

func (f *fakeWishlist) Remove(_ context.Context, userID uint, batteryID uuid.UUID) error {
	k := wishKey{userID, batteryID}
	if !f.rows[k] {
		return domain.ErrNotFound
	}
	delete(f.rows, k)
	return nil
}

func (f *fakeWishlist) List(context.Context, uint) ([]domain.Wishlist, error) {
	return f.listing, nil
}

type fakeUsers struct {
	domain.UserRepo
	byID map[uint]*domain.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uint]*domain.User{}} }

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, name string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Username == name {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	u.ID = uint(len(f.byID) + 1)
	f.byID[u.ID] = u
	return nil
}

type fakeStorage struct {
	saved   map[string]string
	deleted []string
}

func (f *fakeStorage) Save(_ context.Context, folder, filename string, r io.Reader) (string, error) {
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p := folder + "/" + filename
	f.saved[p] = string(b)
	return p, nil
}

func (f *fakeStorage) Delete(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (fakeHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(u *domain.User) (string, time.Time, error) {
	return fmt.Sprintf("tok-%d", u.ID), time.Unix(0, 0), nil
}

func (fakeTokens) Verify(token string) (domain.Actor, error) {
	var id uint
	if _, err := fmt.Sscanf(token, "tok-%d", &id); err != nil {
		return domain.Actor{}, err
	}
	return domain.Actor{UserID: id}, nil
}

var (
	staff    = domain.Actor{UserID: 1, Username: "admin", IsStaff: true}
	customer = domain.Actor{UserID: 2, Username: "jane"}
	anon     = domain.Actor{}
)
