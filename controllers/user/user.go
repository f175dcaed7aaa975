package user

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/types"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/utils"
)

// UserController handles user-related HTTP requests
type UserController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewUserController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *UserController {
	return &UserController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (uc *UserController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	uc.Logger.Log(logEntry)
}

func (uc *UserController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	uc.logAPIRequest(c)
	return result
}

// GetUserInfo returns the authenticated user's profile
func (uc *UserController) GetUserInfo(c *fiber.Ctx) error {
	actor, err := utils.CurrentUser(c)
	if err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "User info retrieved successfully",
		Data:    actor,
	})
}
