package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants, seeded by the initial migration
const (
	RoleIDAdmin        = 1
	RoleIDReceptionist = 2
	RoleIDClient       = 3
)

// RoleNames constants
const (
	RoleAdmin        = "admin"
	RoleReceptionist = "receptionist"
	RoleClient       = "client"
)

// RoleNameByID maps seeded role ids to names without a DB round-trip.
func RoleNameByID(id int) string {
	switch id {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDReceptionist:
		return RoleReceptionist
	case RoleIDClient:
		return RoleClient
	}
	return ""
}

// StaffRoleIDs are the roles managed through the staff endpoints.
var StaffRoleIDs = []int{RoleIDAdmin, RoleIDReceptionist}

// StaffRoleIDByName resolves a staff role name. Clients are not staff.
func StaffRoleIDByName(name string) (int, bool) {
	switch name {
	case RoleAdmin:
		return RoleIDAdmin, true
	case RoleReceptionist:
		return RoleIDReceptionist, true
	}
	return 0, false
}
