package models

import "time"

type StaffMember struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `json:"salon_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Color  string `gorm:"size:20" json:"color"`
	Active bool   `gorm:"default:true" json:"active"`

	Services []Service `gorm:"many2many:service_staff;" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
