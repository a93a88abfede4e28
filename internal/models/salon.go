package models

import "time"

type Salon struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Name              string `gorm:"size:100;not null" json:"name"`
	Slug              string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone             string `gorm:"size:20" json:"phone"`
	Address           string `gorm:"size:255" json:"address"`
	Timezone          string `gorm:"size:50" json:"timezone"`
	MinAdvanceMinutes int    `gorm:"default:120" json:"min_advance_minutes"`

	CancellationPolicy string `gorm:"type:text" json:"cancellation_policy"`
	NoShowPolicy       string `gorm:"type:text" json:"no_show_policy"`
	RefundPolicy       string `gorm:"type:text" json:"refund_policy"`
	CashPolicy         string `gorm:"type:text" json:"cash_policy"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PolicyText is the serialized policy block the customer consents to.
// The consent fingerprint is computed over exactly this string.
func (s *Salon) PolicyText() string {
	return s.CancellationPolicy + "\n" +
		s.NoShowPolicy + "\n" +
		s.RefundPolicy + "\n" +
		s.CashPolicy
}
