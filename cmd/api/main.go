package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // company timezones must resolve in slim containers

	"go-retail-pos/internal/cache"
	"go-retail-pos/internal/config"
	"go-retail-pos/internal/handler"
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/database"
	"go-retail-pos/pkg/jwt"
	"go-retail-pos/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	cfg, envLoaded := config.Load()
	log := logger.New(cfg.LogLevel)
	if !envLoaded {
		log.Warn().Msg(".env file not found, relying on process environment")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	decimal.MarshalJSONWithoutQuotes = true

	defaultLoc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.DefaultTimezone).Msg("invalid DEFAULT_TIMEZONE")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := db.AutoMigrate(
		&model.Company{}, &model.Employee{},
		&model.Category{}, &model.Vendor{}, &model.Item{}, &model.ReturnPolicy{},
		&model.Shift{}, &model.Transaction{}, &model.TransactionLine{},
		&model.StoreCredit{}, &model.GiftCard{}, &model.Customer{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto migration failed")
	}

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Setup WebSocket Hub and report cache
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	reportCache := newReportCache(ctx, cfg, log)

	// 5. Dependency Injection (Wiring Layers)
	companyRepo := repository.NewCompanyRepo(db)
	employeeRepo := repository.NewEmployeeRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	itemRepo := repository.NewItemRepo(db)
	policyRepo := repository.NewReturnPolicyRepo(db)
	shiftRepo := repository.NewShiftRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	creditRepo := repository.NewStoreCreditRepo(db)
	giftCardRepo := repository.NewGiftCardRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiresHours)*time.Hour)

	reportService := service.NewReportService(employeeRepo, txRepo, creditRepo, reportCache,
		time.Duration(cfg.ReportCacheTTLSeconds)*time.Second, log)
	authService := service.NewAuthService(userRepo, employeeRepo, shiftRepo, tokens, wsHub)
	saleService := service.NewSaleService(service.SaleDeps{
		DB:           db,
		Transactions: txRepo,
		Items:        itemRepo,
		Shifts:       shiftRepo,
		Employees:    employeeRepo,
		Companies:    companyRepo,
		StoreCredits: creditRepo,
		GiftCards:    giftCardRepo,
		Customers:    customerRepo,
		Reports:      reportService,
		Notifier:     wsHub,
	})

	h := handlers{
		auth:      handler.NewAuthHandler(authService),
		users:     handler.NewUserHandler(service.NewUserService(userRepo, privilegeRepo, roleRepo, companyRepo)),
		companies: handler.NewCompanyHandler(service.NewCompanyService(companyRepo)),
		employees: handler.NewEmployeeHandler(service.NewEmployeeService(employeeRepo, companyRepo, reportService)),
		inventory: handler.NewInventoryHandler(service.NewInventoryService(db, itemRepo, categoryRepo, vendorRepo, wsHub)),
		policies: handler.NewReturnPolicyHandler(
			service.NewReturnPolicyService(policyRepo, companyRepo, itemRepo, categoryRepo, txRepo)),
		shifts: handler.NewShiftHandler(
			service.NewShiftService(shiftRepo, employeeRepo, companyRepo, txRepo, creditRepo, wsHub, defaultLoc)),
		sales: handler.NewSaleHandler(saleService),
		credits: handler.NewCreditHandler(
			service.NewStoreCreditService(db, creditRepo, employeeRepo, txRepo, reportService),
			service.NewGiftCardService(db, giftCardRepo, employeeRepo)),
		customers: handler.NewCustomerHandler(service.NewCustomerService(customerRepo)),
		reports:   handler.NewReportHandler(reportService),
		dashboard: handler.NewDashboardHandler(service.NewDashboardService(txRepo, companyRepo, defaultLoc)),
		ws:        handler.NewWSHandler(wsHub, authService),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	app.Use(recover.New())                 // Panic recovery
	app.Use(middleware.RequestLogger(log)) // Structured request log
	app.Use(cors.New())                    // CORS

	// 7. Routes
	setupRoutes(app, h, authService)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Address()); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// newReportCache connects to Redis when REDIS_ADDR is set. An unreachable Redis
// falls back to computing every report on demand.
func newReportCache(ctx context.Context, cfg config.Config, log zerolog.Logger) cache.ReportCache {
	if cfg.RedisAddr == "" {
		return cache.NoopReportCache{}
	}
	rc := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, report cache disabled")
		rc.Close()
		return cache.NoopReportCache{}
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("report cache connected")
	return rc
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and the platform admin if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB, cfg config.Config, log zerolog.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Warn().Err(err).Msg("failed to seed privileges")
	}

	// 2. Seed roles with their default privileges
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Warn().Err(err).Msg("failed to seed roles")
	}

	// 3. Create the platform admin
	if _, err := userRepo.FindByEmail(cfg.SeedAdminEmail); err == nil {
		return
	}
	if cfg.SeedAdminPassword == "" {
		log.Warn().Str("email", cfg.SeedAdminEmail).Msg("SEED_ADMIN_PASSWORD not set, platform admin not created")
		return
	}

	role, err := roleRepo.FindByCode(model.RolePlatformAdmin)
	if err != nil {
		log.Warn().Err(err).Msg("platform admin role missing, admin not created")
		return
	}

	admin := &model.User{
		Email:    cfg.SeedAdminEmail,
		FullName: "Platform Administrator",
		RoleID:   &role.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(cfg.SeedAdminPassword); err != nil {
		log.Warn().Err(err).Msg("failed to hash admin password")
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Warn().Err(err).Msg("failed to create admin user")
		return
	}
	log.Info().Str("email", admin.Email).Msg("platform admin created")
}
