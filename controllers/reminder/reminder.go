package reminder

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	reminderModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/reminder"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/types"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/utils"
)

// ReminderController handles reminder-related HTTP requests
type ReminderController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewReminderController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ReminderController {
	return &ReminderController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (rc *ReminderController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	rc.Logger.Log(logEntry)
}

func (rc *ReminderController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.logAPIRequest(c)
	return result
}

// Index lists the authenticated sales person's reminders, newest travel first
func (rc *ReminderController) Index(c *fiber.Ctx) error {
	actor, err := utils.CurrentUser(c)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	query := rc.DB.Where("sales_person_id = ?", actor.ID).Order("reminder_date ASC")

	status := c.Query("status")
	if status != "" {
		if !reminderModel.ReminderStatus(status).IsValid() {
			return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid reminder status",
				Data:    nil,
			})
		}
		query = query.Where("status = ?", status)
	}

	var reminders []reminderModel.ReminderRecord
	if err := query.Find(&reminders).Error; err != nil {
		logger.Error("Failed to list reminders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reminders retrieved successfully",
		Data:    reminders,
	})
}
