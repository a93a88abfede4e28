package models

import "time"

type Service struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `json:"salon_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	DurationMin int    `json:"duration_min"`
	PriceCents  int64  `json:"price_cents"`
	Active      bool   `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	Staff []StaffMember `gorm:"many2many:service_staff;" json:"staff,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) EligibleStaffIDs() []uint {
	ids := make([]uint, 0, len(s.Staff))
	for _, m := range s.Staff {
		ids = append(ids, m.ID)
	}
	return ids
}
