package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shopfront/internal/cache"
	"shopfront/internal/config"
	"shopfront/internal/database"
	"shopfront/internal/middleware"
	"shopfront/internal/models"
	"shopfront/internal/queue"
	"shopfront/internal/repository"
	"shopfront/internal/service"
	"shopfront/internal/storage"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HandlerSet struct {
	log zerolog.Logger
	cfg *config.AppConfig

	auth       *service.AuthService
	authn      middleware.Authenticator
	categories *service.CategoryService
	products   *service.ProductService
	media      *service.MediaService
	carts      *service.CartService
	orders     *service.OrderService
	purchases  *service.PurchaseService
	returns    *service.ReturnService
	dashboard  *service.DashboardService

	users     *repository.UserRepository
	reviews   *repository.ReviewRepository
	wishlist  *repository.WishlistRepository
	addresses *repository.AddressRepository
	rewards   *repository.RewardRepository

	db    pinger
	cache pinger
}

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, rdb *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseOrderRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	addressRepo := repository.NewAddressRepository(db)

	carts := cache.NewCartStore(rdb, cfg.Cart.GuestTTL, cfg.Cart.UserTTL)
	events := queue.NewPublisher(rdb, cfg.Redis.Stream)
	tx := database.NewTransactor(db)

	auth := service.NewAuthService(userRepo, sessionRepo, carts, cfg, log)

	return HandlerSet{
		log:        log,
		cfg:        cfg,
		auth:       auth,
		authn:      auth,
		categories: service.NewCategoryService(categoryRepo, cache.NewCategoryCache(rdb, cfg.Catalog.CategoryCacheTTL), log),
		products:   service.NewProductService(productRepo, events, cfg.Catalog.LowStockThreshold, log),
		media:      service.NewMediaService(productRepo, store, cfg.Catalog.MaxImageBytes, log),
		carts:      service.NewCartService(carts, productRepo),
		orders:     service.NewOrderService(tx, orderRepo, productRepo, carts, addressRepo, events, log),
		purchases:  service.NewPurchaseService(db, tx, purchaseRepo, productRepo),
		returns:    service.NewReturnService(returnRepo, orderRepo),
		dashboard: service.NewDashboardService(service.DashboardSources{
			Products:  productRepo,
			Customers: userRepo,
			Orders:    orderRepo,
			Returns:   returnRepo,
			LowStock:  productRepo,
		}, cfg.Catalog.LowStockThreshold),
		users:     userRepo,
		reviews:   repository.NewReviewRepository(db),
		wishlist:  repository.NewWishlistRepository(db),
		addresses: addressRepo,
		rewards:   repository.NewRewardRepository(db),
		db:        db,
		cache:     redisPinger{client: rdb},
	}
}

var (
	backOffice = []models.UserRole{models.UserRoleAdmin, models.UserRoleManager}
	staff      = []models.UserRole{models.UserRoleAdmin, models.UserRoleManager, models.UserRoleStaff}
)

func (h HandlerSet) Routes(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	authed := middleware.Auth(h.authn)
	optional := middleware.OptionalAuth(h.authn)
	requireBackOffice := middleware.RequireRoles(backOffice...)
	requireStaff := middleware.RequireRoles(staff...)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", authed, h.Logout)
	auth.GET("/me", authed, h.Me)
	auth.GET("/sessions", authed, h.ListSessions)
	auth.DELETE("/sessions/:deviceId", authed, h.RevokeSession)

	categories := v1.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", authed, requireBackOffice, h.CreateCategory)
	categories.PUT("/:id", authed, requireBackOffice, h.UpdateCategory)
	categories.DELETE("/:id", authed, requireBackOffice, h.DeleteCategory)

	products := v1.Group("/products")
	products.GET("", optional, h.ListProducts)
	products.GET("/:id", h.GetProduct)
	products.GET("/:id/reviews", h.ListReviews)
	products.POST("/:id/reviews", authed, h.CreateReview)
	products.POST("", authed, requireBackOffice, h.CreateProduct)
	products.PUT("/:id", authed, requireBackOffice, h.UpdateProduct)
	products.DELETE("/:id", authed, requireBackOffice, h.DeleteProduct)
	products.POST("/:id/image", authed, requireBackOffice, h.UploadProductImage)

	v1.DELETE("/reviews/:id", authed, h.DeleteReview)

	stock := v1.Group("/stock", authed, requireStaff)
	stock.GET("/low", h.LowStock)
	stock.PUT("/:productId", h.SetStock)

	cart := v1.Group("/cart", optional)
	cart.GET("", h.GetCart)
	cart.POST("/items", h.AddCartItem)
	cart.PUT("/items/:productId", h.UpdateCartItem)
	cart.DELETE("/items/:productId", h.RemoveCartItem)
	cart.DELETE("", h.ClearCart)

	orders := v1.Group("/orders", authed)
	orders.POST("", h.Checkout)
	orders.GET("", h.ListMyOrders)
	orders.GET("/:id", h.GetOrder)

	returns := v1.Group("/returns", authed)
	returns.POST("", h.RequestReturn)
	returns.GET("", h.ListMyReturns)

	wishlist := v1.Group("/wishlist", authed)
	wishlist.GET("", h.ListWishlist)
	wishlist.POST("", h.AddToWishlist)
	wishlist.DELETE("/:productId", h.RemoveFromWishlist)

	account := v1.Group("/account", authed)
	account.GET("/addresses", h.ListAddresses)
	account.POST("/addresses", h.CreateAddress)
	account.PUT("/addresses/:id", h.UpdateAddress)
	account.DELETE("/addresses/:id", h.DeleteAddress)

	v1.GET("/rewards", authed, h.Rewards)

	customers := v1.Group("/customers", authed, requireStaff)
	customers.GET("", h.ListCustomers)
	customers.GET("/:id", h.GetCustomer)
	customers.PUT("/:id/status", requireBackOffice, h.SetCustomerStatus)

	purchases := v1.Group("/purchase-orders", authed, requireBackOffice)
	purchases.GET("", h.ListPurchaseOrders)
	purchases.POST("", h.CreatePurchaseOrder)
	purchases.GET("/:id", h.GetPurchaseOrder)
	purchases.PUT("/:id/status", h.UpdatePurchaseOrderStatus)

	admin := v1.Group("/admin", authed)
	admin.GET("/dashboard", requireBackOffice, h.Dashboard)
	admin.GET("/orders", requireStaff, h.AdminListOrders)
	admin.PUT("/orders/:id/status", requireStaff, h.AdminUpdateOrderStatus)
	admin.GET("/returns", requireStaff, h.AdminListReturns)
	admin.PUT("/returns/:id", requireBackOffice, h.AdminUpdateReturn)
}
