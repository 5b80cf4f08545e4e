package app

import (
	"time"

	"chronoflow-backend/internal/adminauth"
	"chronoflow-backend/internal/auditions"
	"chronoflow-backend/internal/config"
	"chronoflow-backend/internal/content"
	"chronoflow-backend/internal/database"
	"chronoflow-backend/internal/identity"
	"chronoflow-backend/internal/inquiries"
	"chronoflow-backend/internal/members"
	"chronoflow-backend/internal/middleware"
	"chronoflow-backend/internal/profiles"
	"chronoflow-backend/internal/reactions"
	"chronoflow-backend/internal/security"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. When db is nil one is opened from cfg.DatabaseURL; tests
// pass their own.
func CreateApp(cfg *config.Config, db *gorm.DB) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	isProduction := cfg.Env == "production"

	app.Use(middleware.Maintenance(cfg.MaintenanceMode))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	if db == nil && cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
	}

	// Redis backs the rate limiter when configured; otherwise counters are
	// per-process.
	var rdb *redis.Client
	var store middleware.CounterStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rdb = redis.NewClient(opts)
		store = &middleware.RedisStore{Client: rdb}
	} else {
		store = middleware.NewMemoryStore()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "site": cfg.SiteName}
		if db != nil {
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(c.Context()) != nil {
				status["status"] = "degraded"
				status["database"] = "down"
			}
		}
		if rdb != nil {
			if err := rdb.Ping(c.Context()).Err(); err != nil {
				status["status"] = "degraded"
				status["redis"] = "down"
			}
		}
		return c.JSON(status)
	})

	if db == nil {
		return app, nil
	}

	securityLogger := &security.Logger{DB: db}
	identityService := &identity.Service{DB: db, TokenSecret: cfg.UserTokenSecret}
	profileService := &profiles.Service{DB: db}
	auditionService := &auditions.Service{DB: db, Access: identityService, Profiles: profileService}
	memberService := &members.Service{DB: db}
	reactionService := &reactions.Service{DB: db}
	contentService := &content.Service{DB: db}
	inquiryService := &inquiries.Service{DB: db}

	identityHandlers := &identity.Handlers{Service: identityService, Security: securityLogger}
	profileHandlers := &profiles.Handlers{Service: profileService}
	auditionHandlers := &auditions.Handlers{Service: auditionService, Security: securityLogger}
	memberHandlers := &members.Handlers{Service: memberService, Security: securityLogger}
	reactionHandlers := &reactions.Handlers{Service: reactionService}
	contentHandlers := &content.Handlers{Service: contentService}
	inquiryHandlers := &inquiries.Handlers{Service: inquiryService, Security: securityLogger}
	adminAuthHandlers := &adminauth.Handlers{Config: cfg, Security: securityLogger}
	securityHandlers := &security.Handlers{Logger: securityLogger}

	requireUser := middleware.RequireUser(identityService)
	requireAdmin := middleware.RequireAdmin(cfg.AdminSessionSecret, isProduction)
	sameOrigin := middleware.SameOrigin(cfg.PublicOrigin)
	limit := func(scope string, n int64, window time.Duration) fiber.Handler {
		return middleware.RateLimit(store, scope, n, window)
	}

	api := app.Group("/api/v1")

	// Accounts
	api.Post("/auth/register", sameOrigin, limit("auth_register", 10, time.Minute), identityHandlers.Register)
	api.Post("/auth/login", sameOrigin, limit("auth_login", 10, time.Minute), identityHandlers.Login)
	api.Get("/me/status", limit("me_status", 120, time.Minute), requireUser, identityHandlers.MeStatus)
	api.Delete("/account", sameOrigin, requireUser, identityHandlers.DeleteAccount)
	api.Get("/profile", limit("profile_get", 120, time.Minute), requireUser, profileHandlers.GetProfile)
	api.Patch("/profile", sameOrigin, limit("profile_patch", 30, time.Minute), requireUser, profileHandlers.UpdateProfile)

	// Auditions
	api.Get("/auditions/apply", limit("audition_apply_meta", 120, time.Minute), auditionHandlers.ApplyMeta)
	api.Post("/auditions/apply", sameOrigin, limit("audition_apply", 15, time.Minute), requireUser, auditionHandlers.Apply)
	api.Get("/auditions/check", limit("audition_check", 30, time.Minute), auditionHandlers.Check)
	api.Get("/auditions/results", limit("audition_results", 120, time.Minute), auditionHandlers.Results)

	// Members and reactions
	api.Get("/members", limit("members", 120, time.Minute), memberHandlers.List)
	api.Get("/members/:id", limit("members", 120, time.Minute), memberHandlers.Get)
	api.Get("/portal/:token", limit("member_assets", 120, time.Minute), memberHandlers.Portal)
	api.Post("/reactions", sameOrigin, limit("reactions", 30, time.Minute), reactionHandlers.React)
	api.Get("/rankings", limit("rankings", 120, time.Minute), reactionHandlers.Rankings)

	// Content
	api.Get("/announcements", contentHandlers.ListAnnouncements)
	api.Get("/assets", contentHandlers.ListAssets)
	api.Get("/learn", contentHandlers.ListLessons)
	api.Post("/contact", sameOrigin, limit("contact", 10, time.Minute), middleware.OptionalUser(identityService), inquiryHandlers.Create)

	// Admin
	admin := api.Group("/admin")
	admin.Post("/login", sameOrigin, limit("admin_login", 10, time.Minute), adminAuthHandlers.Login)
	admin.Post("/logout", requireAdmin, adminAuthHandlers.Logout)

	admin.Get("/auditions", requireAdmin, auditionHandlers.AdminListApplications)
	admin.Get("/auditions/batches", requireAdmin, auditionHandlers.AdminListBatches)
	admin.Delete("/auditions/batches/:id", requireAdmin, auditionHandlers.AdminDeleteBatch)
	admin.Patch("/auditions/:id/review", limit("admin_review", 60, time.Minute), requireAdmin, auditionHandlers.AdminReview)
	admin.Post("/auditions/:id/allow-resubmit", requireAdmin, auditionHandlers.AdminAllowResubmit)
	admin.Post("/auditions/publish", requireAdmin, auditionHandlers.AdminPublish)

	admin.Get("/users", requireAdmin, identityHandlers.AdminListUsers)
	admin.Patch("/users/:id", requireAdmin, identityHandlers.AdminUpdateUser)

	admin.Get("/members", requireAdmin, memberHandlers.AdminList)
	admin.Patch("/members/:id", requireAdmin, memberHandlers.AdminUpdate)
	admin.Delete("/members/:id", requireAdmin, memberHandlers.AdminDelete)
	admin.Post("/members/:id/links", requireAdmin, memberHandlers.AdminAddLink)
	admin.Delete("/members/:id/links/:linkId", requireAdmin, memberHandlers.AdminRemoveLink)

	admin.Get("/announcements", requireAdmin, contentHandlers.AdminListAnnouncements)
	admin.Post("/announcements", requireAdmin, contentHandlers.AdminCreateAnnouncement)
	admin.Patch("/announcements/:id", requireAdmin, contentHandlers.AdminUpdateAnnouncement)
	admin.Delete("/announcements/:id", requireAdmin, contentHandlers.AdminDeleteAnnouncement)

	admin.Get("/assets", requireAdmin, contentHandlers.AdminListAssets)
	admin.Post("/assets", requireAdmin, contentHandlers.AdminCreateAsset)
	admin.Delete("/assets/:id", requireAdmin, contentHandlers.AdminDeleteAsset)

	admin.Post("/lessons", requireAdmin, contentHandlers.AdminCreateLesson)
	admin.Delete("/lessons/:id", requireAdmin, contentHandlers.AdminDeleteLesson)

	admin.Get("/inquiries", requireAdmin, inquiryHandlers.AdminList)
	admin.Patch("/inquiries/:id", requireAdmin, inquiryHandlers.AdminSetStatus)

	admin.Get("/security-events", requireAdmin, securityHandlers.AdminList)

	return app, nil
}
