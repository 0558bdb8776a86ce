package hooks

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"shopfront/internal/client/api"
	"shopfront/internal/models"
)

const (
	catalogStale  = 5 * time.Minute
	productStale  = time.Minute
	accountStale  = 30 * time.Second
	backOfficeTTL = 30 * time.Second
)

var (
	keyCategories = Key{"categories"}
	keyProducts   = Key{"products"}
	keyReviews    = Key{"reviews"}
	keyCart       = Key{"cart"}
	keyOrders     = Key{"orders"}
	keyReturns    = Key{"returns"}
	keyWishlist   = Key{"wishlist"}
	keyAddresses  = Key{"addresses"}
	keyRewards    = Key{"rewards"}
	keyCustomers  = Key{"customers"}
	keyPurchases  = Key{"purchase-orders"}
	keyLowStock   = Key{"stock", "low"}
	keyDashboard  = Key{"admin", "dashboard"}
	keyAdminOrder = Key{"admin", "orders"}
	keyAdminRet   = Key{"admin", "returns"}
)

func pageKey(p api.Page) string {
	return strconv.Itoa(p.Page) + ":" + strconv.Itoa(p.PerPage)
}

type Hooks struct {
	api   *api.API
	cache *Cache
	log   zerolog.Logger
}

func New(a *api.API, cache *Cache, log zerolog.Logger) *Hooks {
	return &Hooks{api: a, cache: cache, log: log}
}

// Categories

func (h *Hooks) Categories(ctx context.Context) ([]models.Category, error) {
	return query(ctx, h.cache, keyCategories, catalogStale, h.api.Categories.List)
}

func (h *Hooks) CreateCategory(ctx context.Context, req api.CategoryRequest) (models.Category, error) {
	category, err := h.api.Categories.Create(ctx, req)
	if err == nil {
		h.cache.Invalidate(keyCategories)
	}
	return category, err
}

func (h *Hooks) UpdateCategory(ctx context.Context, id string, req api.CategoryRequest) (models.Category, error) {
	category, err := h.api.Categories.Update(ctx, id, req)
	if err == nil {
		h.cache.Invalidate(keyCategories, keyProducts)
	}
	return category, err
}

func (h *Hooks) DeleteCategory(ctx context.Context, id string) error {
	err := h.api.Categories.Delete(ctx, id)
	if err == nil {
		h.cache.Invalidate(keyCategories, keyProducts)
	}
	return err
}

// Products and stock

func (h *Hooks) Products(ctx context.Context, q api.ProductQuery) ([]models.Product, error) {
	key := Key{"products", "list", q.Category, q.Search, strconv.FormatBool(q.All), pageKey(q.Page)}
	return query(ctx, h.cache, key, productStale, func(ctx context.Context) ([]models.Product, error) {
		return h.api.Products.List(ctx, q)
	})
}

func (h *Hooks) Product(ctx context.Context, id string) (models.Product, error) {
	return query(ctx, h.cache, Key{"products", "detail", id}, productStale, func(ctx context.Context) (models.Product, error) {
		return h.api.Products.Get(ctx, id)
	})
}

func (h *Hooks) productChanged() {
	h.cache.Invalidate(keyProducts, keyLowStock, keyDashboard, keyWishlist)
}

func (h *Hooks) CreateProduct(ctx context.Context, req api.ProductRequest) (models.Product, error) {
	product, err := h.api.Products.Create(ctx, req)
	if err == nil {
		h.productChanged()
	}
	return product, err
}

func (h *Hooks) UpdateProduct(ctx context.Context, id string, req api.ProductRequest) (models.Product, error) {
	product, err := h.api.Products.Update(ctx, id, req)
	if err == nil {
		h.productChanged()
	}
	return product, err
}

func (h *Hooks) DeleteProduct(ctx context.Context, id string) error {
	err := h.api.Products.Delete(ctx, id)
	if err == nil {
		h.productChanged()
	}
	return err
}

func (h *Hooks) UploadProductImage(ctx context.Context, id, filename, contentType string, file io.Reader) (string, error) {
	url, err := h.api.Products.UploadImage(ctx, id, filename, contentType, file)
	if err == nil {
		h.cache.Invalidate(keyProducts)
	}
	return url, err
}

func (h *Hooks) LowStock(ctx context.Context) ([]models.Product, error) {
	return query(ctx, h.cache, keyLowStock, backOfficeTTL, h.api.Stock.Low)
}

func (h *Hooks) SetStock(ctx context.Context, productID string, stock int) (models.Product, error) {
	product, err := h.api.Stock.Set(ctx, productID, stock)
	if err == nil {
		h.productChanged()
	}
	return product, err
}

// Reviews

func (h *Hooks) Reviews(ctx context.Context, productID string) ([]models.Review, error) {
	return query(ctx, h.cache, Key{"reviews", productID}, productStale, func(ctx context.Context) ([]models.Review, error) {
		return h.api.Reviews.List(ctx, productID)
	})
}

func (h *Hooks) CreateReview(ctx context.Context, productID string, req api.ReviewRequest) (models.Review, error) {
	review, err := h.api.Reviews.Create(ctx, productID, req)
	if err == nil {
		h.cache.Invalidate(Key{"reviews", productID})
	}
	return review, err
}

func (h *Hooks) DeleteReview(ctx context.Context, id string) error {
	err := h.api.Reviews.Delete(ctx, id)
	if err == nil {
		h.cache.Invalidate(keyReviews)
	}
	return err
}

// Cart mutations return the new cart, which replaces the cached one.

func (h *Hooks) Cart(ctx context.Context) (models.Cart, error) {
	return query(ctx, h.cache, keyCart, accountStale, h.api.Cart.Get)
}

func (h *Hooks) setCart(cart models.Cart, err error) (models.Cart, error) {
	if err == nil {
		h.cache.Set(keyCart, cart)
	}
	return cart, err
}

func (h *Hooks) AddToCart(ctx context.Context, productID string, quantity int) (models.Cart, error) {
	return h.setCart(h.api.Cart.Add(ctx, productID, quantity))
}

func (h *Hooks) SetCartQuantity(ctx context.Context, productID string, quantity int) (models.Cart, error) {
	return h.setCart(h.api.Cart.SetQuantity(ctx, productID, quantity))
}

func (h *Hooks) RemoveFromCart(ctx context.Context, productID string) (models.Cart, error) {
	return h.setCart(h.api.Cart.Remove(ctx, productID))
}

func (h *Hooks) ClearCart(ctx context.Context) error {
	err := h.api.Cart.Clear(ctx)
	if err == nil {
		h.cache.Set(keyCart, models.Cart{Items: []models.CartItem{}})
	}
	return err
}

// Orders and returns

func (h *Hooks) Orders(ctx context.Context) ([]models.Order, error) {
	return query(ctx, h.cache, keyOrders, accountStale, h.api.Orders.List)
}

func (h *Hooks) Order(ctx context.Context, id string) (models.Order, error) {
	return query(ctx, h.cache, Key{"orders", id}, accountStale, func(ctx context.Context) (models.Order, error) {
		return h.api.Orders.Get(ctx, id)
	})
}

func (h *Hooks) Checkout(ctx context.Context, shippingAddressID *string) (models.Order, error) {
	order, err := h.api.Orders.Checkout(ctx, shippingAddressID)
	if err == nil {
		h.cache.Invalidate(keyCart, keyOrders, keyProducts, keyLowStock, keyRewards, keyDashboard, keyAdminOrder)
	}
	return order, err
}

func (h *Hooks) Returns(ctx context.Context) ([]api.Return, error) {
	return query(ctx, h.cache, keyReturns, accountStale, h.api.Returns.List)
}

func (h *Hooks) RequestReturn(ctx context.Context, orderID, reason string) (api.Return, error) {
	ret, err := h.api.Returns.Request(ctx, orderID, reason)
	if err == nil {
		h.cache.Invalidate(keyReturns, keyAdminRet, keyDashboard)
	}
	return ret, err
}

// Account

func (h *Hooks) Wishlist(ctx context.Context) ([]models.WishlistEntry, error) {
	return query(ctx, h.cache, keyWishlist, accountStale, h.api.Wishlist.List)
}

func (h *Hooks) AddToWishlist(ctx context.Context, productID string) error {
	err := h.api.Wishlist.Add(ctx, productID)
	if err == nil {
		h.cache.Invalidate(keyWishlist)
	}
	return err
}

func (h *Hooks) RemoveFromWishlist(ctx context.Context, productID string) error {
	err := h.api.Wishlist.Remove(ctx, productID)
	if err == nil {
		h.cache.Invalidate(keyWishlist)
	}
	return err
}

// Addresses never fails: the address book renders empty instead of an
// error state.
func (h *Hooks) Addresses(ctx context.Context) []models.Address {
	addresses, err := query(ctx, h.cache, keyAddresses, catalogStale, h.api.Addresses.List)
	if err != nil {
		h.log.Warn().Err(err).Msg("load addresses failed")
		return []models.Address{}
	}
	return addresses
}

func (h *Hooks) CreateAddress(ctx context.Context, req api.AddressRequest) (models.Address, error) {
	address, err := h.api.Addresses.Create(ctx, req)
	if err == nil {
		h.cache.Invalidate(keyAddresses)
	}
	return address, err
}

func (h *Hooks) UpdateAddress(ctx context.Context, id string, req api.AddressRequest) (models.Address, error) {
	address, err := h.api.Addresses.Update(ctx, id, req)
	if err == nil {
		h.cache.Invalidate(keyAddresses)
	}
	return address, err
}

func (h *Hooks) DeleteAddress(ctx context.Context, id string) error {
	err := h.api.Addresses.Delete(ctx, id)
	if err == nil {
		h.cache.Invalidate(keyAddresses)
	}
	return err
}

func (h *Hooks) Rewards(ctx context.Context) (api.Rewards, error) {
	return query(ctx, h.cache, keyRewards, accountStale, h.api.Rewards.Get)
}

// Back office

func (h *Hooks) Dashboard(ctx context.Context) (api.Dashboard, error) {
	return query(ctx, h.cache, keyDashboard, backOfficeTTL, h.api.Admin.Dashboard)
}

func (h *Hooks) Customers(ctx context.Context, page api.Page) ([]api.AuthUser, error) {
	return query(ctx, h.cache, Key{"customers", pageKey(page)}, backOfficeTTL, func(ctx context.Context) ([]api.AuthUser, error) {
		return h.api.Customers.List(ctx, page)
	})
}

func (h *Hooks) SetCustomerStatus(ctx context.Context, id, status string) error {
	err := h.api.Customers.SetStatus(ctx, id, status)
	if err == nil {
		h.cache.Invalidate(keyCustomers)
	}
	return err
}

func (h *Hooks) PurchaseOrders(ctx context.Context, page api.Page) ([]models.PurchaseOrder, error) {
	return query(ctx, h.cache, Key{"purchase-orders", pageKey(page)}, backOfficeTTL, func(ctx context.Context) ([]models.PurchaseOrder, error) {
		return h.api.Purchase.List(ctx, page)
	})
}

func (h *Hooks) CreatePurchaseOrder(ctx context.Context, req api.PurchaseRequest) (models.PurchaseOrder, error) {
	po, err := h.api.Purchase.Create(ctx, req)
	if err == nil {
		h.cache.Invalidate(keyPurchases)
	}
	return po, err
}

// SetPurchaseOrderStatus also refreshes stock views since receiving adds
// the ordered quantities.
func (h *Hooks) SetPurchaseOrderStatus(ctx context.Context, id string, status models.PurchaseOrderStatus) (models.PurchaseOrder, error) {
	po, err := h.api.Purchase.SetStatus(ctx, id, status)
	if err == nil {
		h.cache.Invalidate(keyPurchases)
		if status == models.PurchaseOrderReceived {
			h.productChanged()
		}
	}
	return po, err
}

func (h *Hooks) AdminOrders(ctx context.Context, status string, page api.Page) ([]models.Order, error) {
	return query(ctx, h.cache, Key{"admin", "orders", status, pageKey(page)}, backOfficeTTL, func(ctx context.Context) ([]models.Order, error) {
		return h.api.Admin.Orders(ctx, status, page)
	})
}

func (h *Hooks) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	order, err := h.api.Admin.SetOrderStatus(ctx, id, status)
	if err == nil {
		h.cache.Invalidate(keyAdminOrder, keyOrders, keyDashboard)
	}
	return order, err
}

func (h *Hooks) AdminReturns(ctx context.Context, status string, page api.Page) ([]api.Return, error) {
	return query(ctx, h.cache, Key{"admin", "returns", status, pageKey(page)}, backOfficeTTL, func(ctx context.Context) ([]api.Return, error) {
		return h.api.Admin.Returns(ctx, status, page)
	})
}

func (h *Hooks) UpdateReturn(ctx context.Context, id string, status models.ReturnStatus, refundCents int64) (api.Return, error) {
	ret, err := h.api.Admin.UpdateReturn(ctx, id, status, refundCents)
	if err == nil {
		h.cache.Invalidate(keyAdminRet, keyReturns, keyDashboard)
	}
	return ret, err
}

// Reset forgets all cached data; call it when the signed-in identity changes.
func (h *Hooks) Reset() {
	h.cache.Reset()
}
