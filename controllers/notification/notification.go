package notification

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	notificationService "github.com/nomadllercommunity-dot/crmnomad-sub000/services/notification"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/types"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/utils"
)

// NotificationController handles notification-related HTTP requests
type NotificationController struct {
	Dispatcher *notificationService.Dispatcher
	Logger     *logger.AsyncLogger
}

func NewNotificationController(dispatcher *notificationService.Dispatcher, asyncLogger *logger.AsyncLogger) *NotificationController {
	return &NotificationController{
		Dispatcher: dispatcher,
		Logger:     asyncLogger,
	}
}

func (nc *NotificationController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	nc.Logger.Log(logEntry)
}

func (nc *NotificationController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	nc.logAPIRequest(c)
	return result
}

// Index lists the authenticated user's notifications, newest first
func (nc *NotificationController) Index(c *fiber.Ctx) error {
	actor, err := utils.CurrentUser(c)
	if err != nil {
		return nc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	unreadOnly := c.QueryBool("unread_only", false)
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	notifications, err := nc.Dispatcher.ListForUser(actor.ID, unreadOnly, limit)
	if err != nil {
		logger.Error("Failed to list notifications", err)
		return nc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return nc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notifications retrieved successfully",
		Data:    notifications,
	})
}

// MarkRead marks one of the authenticated user's notifications as read
func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID <= 0 {
		return nc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid notification id",
			Data:    nil,
		})
	}

	actor, err := utils.CurrentUser(c)
	if err != nil {
		return nc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	if err := nc.Dispatcher.MarkRead(actor.ID, uint(notificationID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Notification not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to mark notification as read", err)
		return nc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return nc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Notification marked as read",
		Data:    nil,
	})
}
