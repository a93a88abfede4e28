package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/glowdesk/spa-scheduler/internal/audit"
	"github.com/glowdesk/spa-scheduler/internal/availability"
	"github.com/glowdesk/spa-scheduler/internal/config"
	"github.com/glowdesk/spa-scheduler/internal/consent"
	"github.com/glowdesk/spa-scheduler/internal/handlers"
	infraRepo "github.com/glowdesk/spa-scheduler/internal/infra/repository"
	"github.com/glowdesk/spa-scheduler/internal/middleware"
	ucBooking "github.com/glowdesk/spa-scheduler/internal/usecase/booking"
	"github.com/glowdesk/spa-scheduler/internal/wizard"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, rdb *redis.Client) *wizard.Manager {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var provider availability.Provider = availability.NewWorkingHoursProvider(db)
	if rdb != nil {
		provider = availability.NewCachedProvider(provider, rdb, time.Minute)
	}

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		auditDispatcher,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		bookingRepo,
		auditDispatcher,
	)

	completeBookingUC := ucBooking.NewCompleteBooking(
		bookingRepo,
		auditDispatcher,
	)

	listBookingsByDateUC := ucBooking.NewListBookingsByDate(
		bookingRepo,
	)

	// ======================================================
	// WIZARD
	// ======================================================
	manager := wizard.NewManager(
		provider,
		createBookingUC,
		consent.NewRecorder(nil),
		cfg.HorizonDays,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	salonHandler := handlers.NewSalonHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	staffHandler := handlers.NewStaffHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	giftProgramHandler := handlers.NewGiftProgramHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		cancelBookingUC,
		completeBookingUC,
		listBookingsByDateUC,
	)

	flowHandler := handlers.NewFlowHandler(db, manager)
	consentLogsHandler := handlers.NewConsentLogsHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC WIZARD
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/policies", flowHandler.Policies)
			publicAPI.POST("/:slug/flow", flowHandler.Start)
		}

		flowAPI := api.Group("/flow/:token")
		{
			flowAPI.GET("", flowHandler.View)
			flowAPI.POST("/service", flowHandler.SelectService)
			flowAPI.POST("/staff", flowHandler.SetStaffFilter)
			flowAPI.POST("/slot", flowHandler.SelectSlot)
			flowAPI.POST("/discount", flowHandler.ApplyDiscount)
			flowAPI.DELETE("/discount", flowHandler.ClearDiscount)
			flowAPI.POST("/checkout", flowHandler.SetCheckoutFields)
			flowAPI.POST("/submit", flowHandler.Submit)
			flowAPI.POST("/back", flowHandler.Back)
			flowAPI.POST("/reset", flowHandler.Reset)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/salon", salonHandler.GetMeSalon)
			secured.PATCH("/me/salon", salonHandler.UpdateMeSalon)

			secured.GET("/me/customers", customerHandler.List)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/staff", staffHandler.List)
			secured.POST("/me/staff", staffHandler.Create)
			secured.PATCH("/me/staff/:id", staffHandler.Update)
			secured.GET("/me/staff/:id/working-hours", staffHandler.GetWorkingHours)
			secured.PUT("/me/staff/:id/working-hours", staffHandler.UpdateWorkingHours)

			secured.GET("/me/gift-program", giftProgramHandler.Get)
			secured.PUT("/me/gift-program", giftProgramHandler.Update)
			secured.GET("/me/gift-program/codes", giftProgramHandler.ListLedger)
			secured.POST("/me/gift-program/codes", giftProgramHandler.IssueCode)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/me/bookings", bookingHandler.ListByDate)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)

			secured.GET("/me/consents", consentLogsHandler.List)
			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}

	return manager
}
