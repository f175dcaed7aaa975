package lead

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
	followupModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/followup"
	leadModel "github.com/nomadllercommunity-dot/crmnomad-sub000/models/lead"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/services/lifecycle"
	"github.com/nomadllercommunity-dot/crmnomad-sub000/types"
	followupTypes "github.com/nomadllercommunity-dot/crmnomad-sub000/types/followup"
	leadTypes "github.com/nomadllercommunity-dot/crmnomad-sub000/types/lead"
)

// ApplyAction records a follow-up action against a lead and applies the
// resulting status transition
func (lc *LeadController) ApplyAction(c *fiber.Ctx) error {
	leadID, err := c.ParamsInt("id")
	if err != nil || leadID <= 0 {
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid lead id",
			Data:    nil,
		})
	}

	var req followupTypes.ActionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse action request body", err)
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

	actor, respErr := lc.currentActor(c)
	if actor == nil {
		return respErr
	}

	actionReq := lifecycle.ActionRequest{
		ActionType:       followupModel.ActionType(req.ActionType),
		Note:             req.Note,
		NextFollowUpTime: req.NextFollowUpTime,
		ItineraryID:      req.ItineraryID,
		TotalAmount:      req.TotalAmount,
		AdvanceAmount:    req.AdvanceAmount,
		TransactionID:    req.TransactionID,
		ReminderTime:     req.ReminderTime,
		DeadReason:       req.DeadReason,
	}
	if req.NextFollowUpDate != "" {
		parsed, err := time.Parse("2006-01-02", req.NextFollowUpDate)
		if err != nil {
			return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid next_follow_up_date",
				Data:    nil,
			})
		}
		actionReq.NextFollowUpDate = &parsed
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
		actionReq.TravelDate = &parsed
	}

	updated, err := lc.Engine.ApplyAction(actor, uint(leadID), actionReq)
	if err != nil {
		return lc.engineError(c, err)
	}

	return lc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Action recorded successfully",
		Data:    updated,
	})
}

// Qualify moves a self-added lead into the active pipeline
func (lc *LeadController) Qualify(c *fiber.Ctx) error {
	leadID, err := c.ParamsInt("id")
	if err != nil || leadID <= 0 {
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid lead id",
			Data:    nil,
		})
	}

	var req leadTypes.LeadQualifyRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse qualify request body", err)
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

	actor, respErr := lc.currentActor(c)
	if actor == nil {
		return respErr
	}

	updated, err := lc.Engine.Qualify(actor, uint(leadID), leadModel.LeadType(req.LeadType))
	if err != nil {
		return lc.engineError(c, err)
	}

	return lc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Lead qualified successfully",
		Data:    updated,
	})
}

// AllocateToOperations hands a confirmed lead over to the operations team
func (lc *LeadController) AllocateToOperations(c *fiber.Ctx) error {
	leadID, err := c.ParamsInt("id")
	if err != nil || leadID <= 0 {
		return lc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid lead id",
			Data:    nil,
		})
	}

	actor, respErr := lc.currentActor(c)
	if actor == nil {
		return respErr
	}

	updated, err := lc.Engine.AllocateToOperations(actor, uint(leadID))
	if err != nil {
		return lc.engineError(c, err)
	}

	return lc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Lead allocated to operations",
		Data:    updated,
	})
}
