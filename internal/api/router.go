package api

import (
	"database/sql"
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/handler"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/auth"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
	"github.com/csemotors/dealership/internal/core/service"
	"github.com/csemotors/dealership/internal/infrastructure/config"
	"github.com/csemotors/dealership/internal/infrastructure/db/postgres"
	redisdb "github.com/csemotors/dealership/internal/infrastructure/db/redis"
	"github.com/csemotors/dealership/internal/view"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *sql.DB, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("build renderer: %w", err)
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("dealer"))

	// --- Session machinery ---
	codec := auth.NewCodec(cfg.ResolvedSecret(), cfg.SessionTTL())
	carrier := auth.NewCarrier(cfg.SessionTTL(), cfg.SecureCookies())
	e.Use(middleware.Authenticate(codec, carrier))

	// --- Dependencies ---
	accountRepo := postgres.NewAccountRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)

	var throttle ports.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginThrottle(rdb)
	}

	accountService := service.NewAccountService(accountRepo, codec)
	inventoryService := service.NewInventoryService(inventoryRepo, log)

	accountHandler := handler.NewAccountHandler(accountService, inventoryService, carrier, throttle, log)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, log)

	// --- Public routes ---
	e.GET("/", inventoryHandler.Home)
	e.GET("/inv/type/:classificationId", inventoryHandler.ByClassification)
	e.GET("/inv/detail/:inv_id", inventoryHandler.Detail)

	// --- Account routes ---
	acct := e.Group("/account")
	acct.GET("/login", accountHandler.LoginPage)
	acct.POST("/login", accountHandler.Login)
	acct.GET("/register", accountHandler.RegisterPage)
	acct.POST("/register", accountHandler.Register)
	acct.GET("/logout", accountHandler.Logout)
	acct.GET("/", accountHandler.AccountPage, middleware.RequireLogin)
	acct.GET("/update/:account_id", accountHandler.UpdatePage, middleware.RequireLogin, middleware.RequireOwner)
	acct.POST("/update", accountHandler.Update, middleware.RequireLogin)
	acct.POST("/password", accountHandler.ChangePassword, middleware.RequireLogin)
	acct.POST("/delete", accountHandler.DeleteAccount, middleware.RequireLogin)

	// --- Inventory management (staff only) ---
	staff := e.Group("/inv", middleware.RequireRole(domain.RoleEmployee, domain.RoleAdmin))
	staff.GET("/", inventoryHandler.Management)
	staff.GET("/add-classification", inventoryHandler.AddClassificationPage)
	staff.POST("/add-classification", inventoryHandler.AddClassification)
	staff.GET("/add-inventory", inventoryHandler.AddVehiclePage)
	staff.POST("/add-inventory", inventoryHandler.AddVehicle)
	staff.GET("/edit/:inv_id", inventoryHandler.EditVehiclePage)
	staff.POST("/update", inventoryHandler.UpdateVehicle)
	staff.GET("/delete/:inv_id", inventoryHandler.DeleteVehicle)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
