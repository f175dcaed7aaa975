package services

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/constants"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/middleware"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/types"
)

type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// CheckPermission checks if the current user has a specific permission
func (ps *PermissionService) CheckPermission(c *fiber.Ctx, permission string) bool {
	return middleware.CheckPermissionInController(c, permission)
}

// CheckAnyPermission checks if the current user has any of the specified permissions
func (ps *PermissionService) CheckAnyPermission(c *fiber.Ctx, permissions ...string) bool {
	userPermissions := middleware.GetUserPermissions(c)

	for _, permission := range permissions {
		if userPermissions[permission] {
			return true
		}
	}
	return false
}

// RequirePermission returns an error response if user doesn't have permission
func (ps *PermissionService) RequirePermission(c *fiber.Ctx, permission string) error {
	if !ps.CheckPermission(c, permission) {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Message: "Insufficient permissions",
			Status:  fiber.StatusForbidden,
		})
	}
	return nil
}

// GetUserUUID returns the acting user's UUID from JWT claims
func (ps *PermissionService) GetUserUUID(c *fiber.Ctx) (string, bool) {
	userClaims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return "", false
	}

	uuid, ok := userClaims["uuid"].(string)
	return uuid, ok
}

// IsAdmin checks if user has admin privileges
func (ps *PermissionService) IsAdmin(c *fiber.Ctx) bool {
	return ps.CheckPermission(c, constants.PermAdminFull)
}
