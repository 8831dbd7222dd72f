package models

import "gorm.io/gorm"

// TruckAssignment links an employee to a truck they are responsible for.
type TruckAssignment struct {
	gorm.Model
	TruckID uint `json:"truck_id" gorm:"index;not null"`
	UserID  uint `json:"user_id" gorm:"index;not null"`

	Truck *Truck `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
