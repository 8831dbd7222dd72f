package models

import "gorm.io/gorm"

// Roles understood by the auth layer. A user's role is fixed at creation;
// there is no role-change operation.
const (
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"` // bcrypt hash, write-only
	Name     string `json:"name"`
	Role     string `json:"role" gorm:"not null"` // "manager" or "employee"
	Contact  string `json:"contact"`
	Address  string `json:"address"`

	// Employees belong to a branch; managers are company-wide.
	BranchID *uint   `json:"branch_id"`
	Branch   *Branch `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
