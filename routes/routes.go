package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/constants"
	leadController "github.com/nomadllercommunity-dot/crmnomad-sub000/controllers/lead"
	notificationController "github.com/nomadllercommunity-dot/crmnomad-sub000/controllers/notification"
	receiptController "github.com/nomadllercommunity-dot/crmnomad-sub000/controllers/receipt"
	reminderController "github.com/nomadllercommunity-dot/crmnomad-sub000/controllers/reminder"
	userController "github.com/nomadllercommunity-dot/crmnomad-sub000/controllers/user"
	calendarService "github.com/nomadllercommunity-dot/crmnomad-sub000/httpServices/calendar"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/middleware"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/services/lifecycle"
	notificationService "github.com/nomadllercommunity-dot/crmnomad-sub000/services/notification"
	reminderService "github.com/nomadllercommunity-dot/crmnomad-sub000/services/reminder"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	calendarClient := calendarService.NewClient(os.Getenv("CALENDAR_BASE_URL"))
	asyncLogger := logger.NewAsyncLogger(db)

	dispatcher := notificationService.NewDispatcher(db)
	scheduler := reminderService.NewScheduler(reminderService.NewGormStore(db), calendarClient)
	engine := lifecycle.NewEngine(lifecycle.NewGormStore(db), scheduler, dispatcher)
	ledger := lifecycle.NewLedger(lifecycle.NewGormStore(db))

	leads := leadController.NewLeadController(db, engine, ledger, asyncLogger)
	reminders := reminderController.NewReminderController(db, asyncLogger)
	notifications := notificationController.NewNotificationController(dispatcher, asyncLogger)
	receipts := receiptController.NewReceiptController(db, asyncLogger)
	users := userController.NewUserController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "crmnomad",
			"status":  "ok",
		})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Profile Routes
	===============================================================================*/
	auth := api.Group("/auth").Use(middleware.RequireAnyPermission())
	auth.Get("/profile", users.GetUserInfo)

	/*=============================================================================
	| Lead Routes
	===============================================================================*/
	leadGroup := api.Group("/leads")

	leadGroup.Post("/", middleware.RequirePermissions(
		constants.LeadWritePermissions...,
	), leads.Store)

	leadGroup.Get("/", middleware.RequirePermissions(
		constants.LeadReadPermissions...,
	), leads.Index)

	leadGroup.Get("/:id", middleware.RequirePermissions(
		constants.LeadReadPermissions...,
	), leads.Show)

	leadGroup.Post("/:id/qualify", middleware.RequirePermissions(
		constants.LeadWritePermissions...,
	), leads.Qualify)

	leadGroup.Post("/:id/actions", middleware.RequirePermissions(
		constants.LeadWritePermissions...,
	), leads.ApplyAction)

	leadGroup.Post("/:id/allocate-operations", middleware.RequirePermissions(
		constants.LeadWritePermissions...,
	), leads.AllocateToOperations)

	/*=============================================================================
	| Reminder Routes
	===============================================================================*/
	reminderGroup := api.Group("/reminders")

	reminderGroup.Get("/", middleware.RequirePermissions(
		constants.LeadWritePermissions...,
	), reminders.Index)

	/*=============================================================================
	| Notification Routes
	===============================================================================*/
	notificationGroup := api.Group("/notifications").Use(middleware.RequireAnyPermission())
	notificationGroup.Get("/", notifications.Index)
	notificationGroup.Post("/:id/read", notifications.MarkRead)

	/*=============================================================================
	| Receipt Parser Routes
	===============================================================================*/
	receiptGroup := api.Group("/slip-parser")

	receiptGroup.Post("/parse", middleware.RequirePermissions(
		constants.LeadWritePermissions...,
	), receipts.ParseReceipt)
}
