package lead

// LeadStatus is the pipeline stage a lead currently occupies.
type LeadStatus string

const (
	LeadStatusAddedBySales          LeadStatus = "added_by_sales"
	LeadStatusAllocated             LeadStatus = "allocated"
	LeadStatusHot                   LeadStatus = "hot"
	LeadStatusFollowUp              LeadStatus = "follow_up"
	LeadStatusConfirmed             LeadStatus = "confirmed"
	LeadStatusAllocatedToOperations LeadStatus = "allocated_to_operations"
	LeadStatusDead                  LeadStatus = "dead"
)

// LeadType marks how a lead should be prioritised by sales.
type LeadType string

const (
	LeadTypeNormal LeadType = "normal"
	LeadTypeUrgent LeadType = "urgent"
	LeadTypeHot    LeadType = "hot"
)

func (ls LeadStatus) String() string {
	return string(ls)
}

func (ls LeadStatus) IsValid() bool {
	switch ls {
	case LeadStatusAddedBySales, LeadStatusAllocated, LeadStatusHot, LeadStatusFollowUp,
		LeadStatusConfirmed, LeadStatusAllocatedToOperations, LeadStatusDead:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further sales actions are accepted.
func (ls LeadStatus) IsTerminal() bool {
	return ls == LeadStatusDead || ls == LeadStatusAllocatedToOperations
}

// IsOpen returns true while the lead is still being worked by sales.
func (ls LeadStatus) IsOpen() bool {
	return ls.IsValid() && !ls.IsTerminal()
}

func (lt LeadType) String() string {
	return string(lt)
}

func (lt LeadType) IsValid() bool {
	switch lt {
	case LeadTypeNormal, LeadTypeUrgent, LeadTypeHot:
		return true
	default:
		return false
	}
}

// GetAllLeadStatuses returns all valid lead statuses
func GetAllLeadStatuses() []LeadStatus {
	return []LeadStatus{
		LeadStatusAddedBySales,
		LeadStatusAllocated,
		LeadStatusHot,
		LeadStatusFollowUp,
		LeadStatusConfirmed,
		LeadStatusAllocatedToOperations,
		LeadStatusDead,
	}
}
