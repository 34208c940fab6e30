package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "shopflow/docs"
	"shopflow/pkg/bus"
	"shopflow/pkg/cart"
	cartpg "shopflow/pkg/cart/postgres"
	"shopflow/pkg/catalog"
	catalogpg "shopflow/pkg/catalog/postgres"
	"shopflow/pkg/config"
	"shopflow/pkg/fulfill"
	"shopflow/pkg/inventory"
	"shopflow/pkg/listing"
	listingredis "shopflow/pkg/listing/redis"
	"shopflow/pkg/logger"
	"shopflow/pkg/metrics"
	"shopflow/pkg/order"
	orderpg "shopflow/pkg/order/postgres"
	"shopflow/pkg/otel"
	"shopflow/pkg/recommend"
	"shopflow/pkg/user"
	userpg "shopflow/pkg/user/postgres"
	"shopflow/pkg/vendorpkg"
	vendorpg "shopflow/pkg/vendorpkg/postgres"

	kafkabus "shopflow/pkg/bus/kafka"
)

var (
	cfg         config.Config
	log         *logger.Logger
	tracer      trace.Tracer
	redisClient *redis.Client
	products    catalog.Repository
	orders      order.Repository
	users       user.Repository
	vendors     vendor.Repository
	carts       *cart.Service
	cache       listing.Cache
	eventBus    *bus.Bus
	publisher   bus.Publisher
	fulfiller   *fulfill.Service
	recommender *recommend.Service
)

// @title ShopFlow API
// @version 1.0
// @description Storefront backend: products, carts, orders and inventory
// @host localhost:8443
// @BasePath /
func main() {
	_ = godotenv.Load()
	cfg = config.Load()

	log = logger.New(os.Stdout, logger.LevelInfo, "shopflow", otel.GetTraceID)
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{
		ServiceName: "shopflow",
		Host:        cfg.OtelHost,
		Probability: cfg.TraceProb,
	})
	if err != nil {
		log.Error(context.Background(), "init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())
	tracer = tp.Tracer("shopflow")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error(context.Background(), "db connect", "error", err)
		os.Exit(1)
	}
	if _, err := db.Exec(schema); err != nil {
		log.Error(context.Background(), "create tables", "error", err)
		os.Exit(1)
	}

	redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	products = catalogpg.New(db)
	orders = orderpg.New(db)
	users = userpg.New(db)
	vendors = vendorpg.New(db)
	carts = cart.NewService(cartpg.New(db), products)
	cache = listingredis.New(redisClient)

	eventBus = bus.New()
	publisher = eventBus
	if cfg.KafkaBroker != "" {
		kp := kafkabus.New(cfg.KafkaBroker, cfg.KafkaTopic, log)
		defer kp.Close()
		publisher = bus.Multi(eventBus, kp)
	}

	reserver := inventory.NewReserver(products, log)
	fulfiller = fulfill.NewService(carts, reserver, orders, users, cache, publisher, log)
	recommender = recommend.NewService(users, products)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: newRouter()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info(context.Background(), "listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(context.Background(), "server closed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "shutdown", "error", err)
	}
}

func newRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(traceMiddleware, metricsMiddleware)

	r.HandleFunc("/users/register", registerUserHandler).Methods(http.MethodPost)
	r.HandleFunc("/users/login", loginUserHandler).Methods(http.MethodPost)
	r.HandleFunc("/vendors/register", registerVendorHandler).Methods(http.MethodPost)
	r.HandleFunc("/vendors/login", loginVendorHandler).Methods(http.MethodPost)

	// Public storefront.
	r.HandleFunc("/products", listProductsHandler).Methods(http.MethodGet)

	// Vendor catalog management.
	vp := r.PathPrefix("/vendors/products").Subrouter()
	vp.Use(vendorAuthMiddleware)
	vp.HandleFunc("", listVendorProductsHandler).Methods(http.MethodGet)
	vp.HandleFunc("", createProductHandler).Methods(http.MethodPost)
	vp.HandleFunc("/{id}", updateProductHandler).Methods(http.MethodPut)
	vp.HandleFunc("/{id}", deleteProductHandler).Methods(http.MethodDelete)

	// Vendor order management.
	vo := r.PathPrefix("/vendors/orders").Subrouter()
	vo.Use(vendorAuthMiddleware)
	vo.HandleFunc("/{id}/status", updateOrderStatusHandler).Methods(http.MethodPut)

	// Customer surface.
	api := r.PathPrefix("/").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/cart", getCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", addCartLineHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{productId}", removeCartLineHandler).Methods(http.MethodDelete)
	api.HandleFunc("/orders", placeOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders", listOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/recommendations", recommendationsHandler).Methods(http.MethodGet)
	api.HandleFunc("/events", eventsHandler).Methods(http.MethodGet)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
	stock INT NOT NULL CHECK (stock >= 0),
	category TEXT NOT NULL,
	vendor_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS cart_lines (
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	quantity INT NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (user_id, product_id)
);
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	vendor_id TEXT NOT NULL,
	total DOUBLE PRECISION NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	address TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS order_lines (
	order_id TEXT NOT NULL REFERENCES orders(id),
	product_id TEXT NOT NULL,
	quantity INT NOT NULL,
	unit_price DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS purchase_history (
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	purchased_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS vendors (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);`
