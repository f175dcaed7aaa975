package lead

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// LeadCreateRequest represents the request payload for creating a lead.
// Admin actors assign the lead to a sales person; sales actors adding a bare
// contact leave assigned_to_id empty and become the owner themselves.
type LeadCreateRequest struct {
	LeadType       string          `json:"lead_type" validate:"omitempty,oneof=normal urgent hot"`
	ClientName     string          `json:"client_name" validate:"required,min=1,max=255"`
	ContactNumber  string          `json:"contact_number" validate:"required,min=6,max=20"`
	NoOfPax        int             `json:"no_of_pax" validate:"omitempty,min=1,max=500"`
	Place          string          `json:"place" validate:"omitempty,max=255"`
	TravelDate     string          `json:"travel_date" validate:"omitempty,datetime=2006-01-02"`
	TravelMonth    string          `json:"travel_month" validate:"omitempty,max=20"`
	ExpectedBudget decimal.Decimal `json:"expected_budget"`
	Remark         string          `json:"remark"`
	AssignedToID   uint            `json:"assigned_to_id"`
}

func (r LeadCreateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.TravelDate != "" && r.TravelMonth != "" {
		return fmt.Errorf("travel_date and travel_month are mutually exclusive")
	}
	if r.ExpectedBudget.IsNegative() {
		return fmt.Errorf("expected_budget cannot be negative")
	}
	return nil
}

// LeadQualifyRequest qualifies a self-added lead into the active pipeline.
type LeadQualifyRequest struct {
	LeadType string `json:"lead_type" validate:"required,oneof=normal urgent hot"`
}

func (r LeadQualifyRequest) Validate() error {
	return validate.Struct(r)
}

// LeadQueryParams filters the lead list for dashboards.
type LeadQueryParams struct {
	Status     string `query:"status" validate:"omitempty,oneof=added_by_sales allocated hot follow_up confirmed allocated_to_operations dead"`
	AssignedTo uint   `query:"assigned_to"`
	LeadType   string `query:"lead_type" validate:"omitempty,oneof=normal urgent hot"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset     int    `query:"offset" validate:"omitempty,min=0"`
}

func (r LeadQueryParams) Validate() error {
	return validate.Struct(r)
}
