package constants

// User roles carried in JWT claims
const (
	RoleAdmin      = "admin"
	RoleSales      = "sales"
	RoleOperations = "operations"
)

// Organization permissions
const (
	PermAdminFull      = "crmnomad.admin.full-permit"
	PermSalesFull      = "crmnomad.sales.full-permit"
	PermOperationsFull = "crmnomad.operations.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	LeadWritePermissions = []string{
		PermAdminFull,
		PermSalesFull,
	}
	LeadReadPermissions = []string{
		PermAdminFull,
		PermSalesFull,
		PermOperationsFull,
	}
)
