package lead

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	leadModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	userModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/user"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/services"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/services/lifecycle"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/types"
	leadTypes "github.com/nomadllercommunity-dot/crmnomad-sub000/types/lead"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/utils"
)

// LeadController handles lead-related HTTP requests
type LeadController struct {
	DB     *gorm.DB
	Engine *lifecycle.Engine
	Ledger *lifecycle.Ledger
	Logger *logger.AsyncLogger
	Perms  *services.PermissionService
}

// NewLeadController creates a new lead controller
func NewLeadController(db *gorm.DB, engine *lifecycle.Engine, ledger *lifecycle.Ledger, asyncLogger *logger.AsyncLogger) *LeadController {
	return &LeadController{
		DB:     db,
		Engine: engine,
		Ledger: ledger,
		Logger: asyncLogger,
		Perms:  services.NewPermissionService(),
	}
}

// Helper function to log API requests and responses
func (lc *LeadController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	lc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (lc *LeadController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	lc.logAPIRequest(c)
	return result
}

// currentActor resolves the authenticated user or writes the 401 response.
func (lc *LeadController) currentActor(c *fiber.Ctx) (*userModel.User, error) {
	actor, err := utils.CurrentUser(c)
	if err != nil {
		return nil, lc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		})
	}
	return actor, nil
}

// engineError maps a lifecycle engine failure onto an HTTP response.
func (lc *LeadController) engineError(c *fiber.Ctx, err error) error {
	switch {
	case lifecycle.IsValidationError(err):
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	case lifecycle.IsInvalidTransition(err):
		return lc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: err.Error(),
			Data:    nil,
		})
	case errors.Is(err, lifecycle.ErrLeadNotFound):
		return lc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Lead not found",
			Data:    nil,
		})
	default:
		logger.Error("Lifecycle engine failure", err)
		return lc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}
}

// Store creates a new lead
func (lc *LeadController) Store(c *fiber.Ctx) error {
	var req leadTypes.LeadCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	actor, err := lc.currentActor(c)
	if actor == nil {
		return err
	}

	createReq := lifecycle.CreateLeadRequest{
		LeadType:       leadModel.LeadType(req.LeadType),
		ClientName:     req.ClientName,
		ContactNumber:  req.ContactNumber,
		NoOfPax:        req.NoOfPax,
		Place:          req.Place,
		ExpectedBudget: req.ExpectedBudget,
		Remark:         req.Remark,
		AssignedToID:   req.AssignedToID,
	}
	if req.TravelDate != "" {
		parsed, err := time.Parse("2006-01-02", req.TravelDate)
		if err != nil {
			return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid travel_date",
				Data:    nil,
			})
		}
		createReq.TravelDate = &parsed
	}
	if req.TravelMonth != "" {
		month := req.TravelMonth
		createReq.TravelMonth = &month
	}

	created, err := lc.Engine.CreateLead(actor, createReq)
	if err != nil {
		return lc.engineError(c, err)
	}

	// Load the complete lead data with relationships
	var fullLead leadModel.Lead
	if err := lc.DB.Preload("AssignedTo").Preload("AssignedBy").First(&fullLead, created.ID).Error; err != nil {
		logger.Error("Failed to load created lead data", err)
		return lc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Lead created but failed to retrieve complete data",
			Data:    nil,
		})
	}

	return lc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Lead created successfully",
		Data:    fullLead,
	})
}

// Index lists leads with optional status/assignee/type filters
func (lc *LeadController) Index(c *fiber.Ctx) error {
	var params leadTypes.LeadQueryParams
	if err := c.QueryParser(&params); err != nil {
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid query parameters",
			Data:    nil,
		})
	}

	if err := params.Validate(); err != nil {
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	query := lc.DB.Preload("AssignedTo").Order("created_at DESC")

	// Non-admin actors only ever see their own pipeline
	if !lc.Perms.IsAdmin(c) {
		actor, err := lc.currentActor(c)
		if actor == nil {
			return err
		}
		query = query.Where("assigned_to_id = ?", actor.ID)
	}

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.AssignedTo != 0 {
		query = query.Where("assigned_to_id = ?", params.AssignedTo)
	}
	if params.LeadType != "" {
		query = query.Where("lead_type = ?", params.LeadType)
	}
	limit := params.Limit
	if limit == 0 {
		limit = 100
	}
	query = query.Limit(limit).Offset(params.Offset)

	var leads []leadModel.Lead
	if err := query.Find(&leads).Error; err != nil {
		logger.Error("Failed to list leads", err)
		return lc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return lc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Leads retrieved successfully",
		Data:    leads,
	})
}

// Show returns one lead with its full follow-up history and latest financials
func (lc *LeadController) Show(c *fiber.Ctx) error {
	leadID, err := c.ParamsInt("id")
	if err != nil || leadID <= 0 {
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid lead id",
			Data:    nil,
		})
	}

	var l leadModel.Lead
	if err := lc.DB.Preload("AssignedTo").Preload("AssignedBy").First(&l, leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Lead not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find lead", err)
		return lc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	history, err := lc.Ledger.HistoryFor(l.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load history for lead %d", l.ID), err)
		return lc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load lead history",
			Data:    nil,
		})
	}

	financials, err := lc.Ledger.LatestFinancials(l.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to load financials for lead %d", l.ID), err)
		return lc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load lead financials",
			Data:    nil,
		})
	}

	return lc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Lead retrieved successfully",
		Data: fiber.Map{
			"lead":       l,
			"history":    history,
			"financials": financials,
		},
	})
}
