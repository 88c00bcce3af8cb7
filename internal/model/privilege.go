package model

// Privilege is a permission code granted through roles or directly to a user.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g. "sale:refund"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

var DefaultPrivileges = []Privilege{
	// Admin users
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Companies
	{Code: "company:manage", Name: "Manage Companies"},
	// Inventory
	{Code: "inventory:view", Name: "View Inventory"},
	{Code: "inventory:manage", Name: "Manage Inventory"},
	{Code: "policy:update", Name: "Update Return Policies"},
	// Employees
	{Code: "employee:view", Name: "View Employees"},
	{Code: "employee:manage", Name: "Manage Employees"},
	// Terminal
	{Code: "sale:create", Name: "Create Sale"},
	{Code: "sale:refund", Name: "Refund Sale"},
	{Code: "sale:void", Name: "Void Sale"},
	{Code: "shift:operate", Name: "Clock In / Out"},
	{Code: "credit:issue", Name: "Issue Store Credit and Gift Cards"},
	// Reporting
	{Code: "transaction:view", Name: "View Transactions"},
	{Code: "shift:view", Name: "View Shifts"},
	{Code: "report:view", Name: "View Reports"},
}

// Privileges carried by employee terminal tokens.
var (
	EmployeePrivileges = []string{"sale:create", "sale:refund", "shift:operate", "transaction:view", "inventory:view"}
	ManagerPrivileges  = []string{"sale:create", "sale:refund", "sale:void", "shift:operate", "shift:view",
		"credit:issue", "transaction:view", "inventory:view", "employee:view", "report:view"}
)
