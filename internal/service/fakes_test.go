package service

import (
	"context"
	"sort"

	"shopfront/internal/cache"
	"shopfront/internal/database"
	"shopfront/internal/models"
	"shopfront/internal/repository"
)

type fakeCategories struct {
	rows        map[string]models.Category
	products    map[string]int
	inserts     int
	slugMissing bool // SlugExists always answers false
	deleteErr   error
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{rows: map[string]models.Category{}, products: map[string]int{}}
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id string) (models.Category, error) {
	c, ok := f.rows[id]
	if !ok {
		return models.Category{}, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategories) SlugExists(_ context.Context, slug string) (bool, error) {
	if f.slugMissing {
		return false, nil
	}
	for _, c := range f.rows {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// Create behaves like the insert trigger on categories.slug; Update, like
// the table, accepts any slug.
func (f *fakeCategories) Create(_ context.Context, c models.Category) (models.Category, error) {
	for _, existing := range f.rows {
		if existing.Slug == c.Slug {
			return models.Category{}, repository.ErrSlugTaken
		}
	}
	f.inserts++
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeCategories) Update(_ context.Context, c models.Category) (models.Category, error) {
	if _, ok := f.rows[c.ID]; !ok {
		return models.Category{}, repository.ErrCategoryNotFound
	}
	f.rows[c.ID] = c
	return c, nil
}

func (f *fakeCategories) CountProducts(_ context.Context, id string) (int, error) {
	return f.products[id], nil
}

func (f *fakeCategories) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.rows[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeCategoryCache struct {
	cached      []models.Category
	ok          bool
	invalidated int
}

func (f *fakeCategoryCache) Get(context.Context) ([]models.Category, bool, error) {
	return f.cached, f.ok, nil
}

func (f *fakeCategoryCache) Set(_ context.Context, c []models.Category) error {
	f.cached, f.ok = c, true
	return nil
}

func (f *fakeCategoryCache) Invalidate(context.Context) error {
	f.cached, f.ok = nil, false
	f.invalidated++
	return nil
}

type fakeProducts struct {
	rows      map[string]models.Product
	adjusted  map[string]int
	deleted   []string
	imageURLs map[string]string
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{rows: map[string]models.Product{}, adjusted: map[string]int{}, imageURLs: map[string]string{}}
	for _, p := range products {
		f.rows[p.ID] = p
	}
	return f
}

func (f *fakeProducts) List(context.Context, models.ProductFilter) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.rows {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (models.Product, error) {
	p, ok := f.rows[id]
	if !ok {
		return models.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProducts) Create(_ context.Context, p models.Product) (models.Product, error) {
	f.rows[p.ID] = p
	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, p models.Product) (models.Product, error) {
	if _, ok := f.rows[p.ID]; !ok {
		return models.Product{}, repository.ErrProductNotFound
	}
	f.rows[p.ID] = p
	return p, nil
}

func (f *fakeProducts) SetStock(_ context.Context, id string, stock int) (models.Product, error) {
	p, ok := f.rows[id]
	if !ok {
		return models.Product{}, repository.ErrProductNotFound
	}
	p.Stock = stock
	f.rows[id] = p
	return p, nil
}

func (f *fakeProducts) SetImage(_ context.Context, id string, url string) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrProductNotFound
	}
	f.imageURLs[id] = url
	return nil
}

func (f *fakeProducts) LowStock(_ context.Context, threshold int) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.rows {
		if p.Stock < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProducts) AdjustStock(_ context.Context, _ database.DB, id string, delta int) error {
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return repository.ErrInsufficientStock
	}
	p.Stock += delta
	f.rows[id] = p
	f.adjusted[id] += delta
	return nil
}

type fakeCarts struct {
	carts map[string]map[string]models.CartItem
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[string]map[string]models.CartItem{}}
}

func (f *fakeCarts) Get(_ context.Context, owner cache.CartOwner) (models.Cart, error) {
	cart := models.Cart{Owner: owner.String(), Items: []models.CartItem{}}
	for _, item := range f.carts[owner.String()] {
		cart.Items = append(cart.Items, item)
		cart.TotalCents += item.PriceCents * int64(item.Quantity)
	}
	sort.Slice(cart.Items, func(i, j int) bool { return cart.Items[i].Name < cart.Items[j].Name })
	return cart, nil
}

func (f *fakeCarts) Item(_ context.Context, owner cache.CartOwner, productID string) (models.CartItem, bool, error) {
	item, ok := f.carts[owner.String()][productID]
	return item, ok, nil
}

func (f *fakeCarts) Put(_ context.Context, owner cache.CartOwner, item models.CartItem) error {
	if f.carts[owner.String()] == nil {
		f.carts[owner.String()] = map[string]models.CartItem{}
	}
	f.carts[owner.String()][item.ProductID] = item
	return nil
}

func (f *fakeCarts) Remove(_ context.Context, owner cache.CartOwner, productID string) (bool, error) {
	_, ok := f.carts[owner.String()][productID]
	delete(f.carts[owner.String()], productID)
	return ok, nil
}

func (f *fakeCarts) Clear(_ context.Context, owner cache.CartOwner) error {
	delete(f.carts, owner.String())
	return nil
}

// fakeTx runs fn directly and discards its writes when it fails.
type fakeTx struct {
	products *fakeProducts
	calls    int
}

func (f *fakeTx) InTx(_ context.Context, fn func(tx database.DB) error) error {
	f.calls++
	var snapshot map[string]models.Product
	if f.products != nil {
		snapshot = make(map[string]models.Product, len(f.products.rows))
		for k, v := range f.products.rows {
			snapshot[k] = v
		}
	}
	if err := fn(nil); err != nil {
		if f.products != nil {
			f.products.rows = snapshot
		}
		return err
	}
	return nil
}

type fakeOrders struct {
	rows map[string]models.Order
}

func newFakeOrders(orders ...models.Order) *fakeOrders {
	f := &fakeOrders{rows: map[string]models.Order{}}
	for _, o := range orders {
		f.rows[o.ID] = o
	}
	return f
}

func (f *fakeOrders) Create(_ context.Context, _ database.DB, o models.Order) (models.Order, error) {
	f.rows[o.ID] = o
	return o, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (models.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return models.Order{}, repository.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.rows {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) List(context.Context, string, int, int) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.rows {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (models.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return models.Order{}, repository.ErrOrderNotFound
	}
	o.Status = status
	f.rows[id] = o
	return o, nil
}

type fakeAddresses struct {
	rows map[string]models.Address
}

func (f fakeAddresses) Get(_ context.Context, userID, id string) (models.Address, error) {
	a, ok := f.rows[id]
	if !ok || a.UserID != userID {
		return models.Address{}, repository.ErrAddressNotFound
	}
	return a, nil
}

type publishedEvent struct {
	eventType string
	fields    map[string]any
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) Publish(_ context.Context, eventType string, fields map[string]any) error {
	f.events = append(f.events, publishedEvent{eventType, fields})
	return nil
}
