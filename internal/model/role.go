package model

type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RolePlatformAdmin = "PLATFORM_ADMIN"
	RoleCompanyAdmin  = "COMPANY_ADMIN"
)

var DefaultRoles = []Role{
	{
		Code:        RolePlatformAdmin,
		Name:        "Platform Administrator",
		Description: "Manages every company and admin account",
	},
	{
		Code:        RoleCompanyAdmin,
		Name:        "Company Administrator",
		Description: "Manages one company's inventory, employees and reports",
	},
}

// RolePrivilegeCodes lists the privileges granted to a built-in role.
func RolePrivilegeCodes(code string) []string {
	switch code {
	case RolePlatformAdmin:
		codes := make([]string, 0, len(DefaultPrivileges))
		for _, p := range DefaultPrivileges {
			codes = append(codes, p.Code)
		}
		return codes
	case RoleCompanyAdmin:
		codes := make([]string, 0, len(DefaultPrivileges))
		for _, p := range DefaultPrivileges {
			if p.Code == "company:manage" {
				continue
			}
			codes = append(codes, p.Code)
		}
		return codes
	}
	return nil
}
