package models

import "time"

// ConsentRecord is the immutable audit artifact proving a customer accepted
// the salon's policy text at a specific instant. Written once per booking.
type ConsentRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID   uint  `json:"salon_id"`
	BookingID *uint `json:"booking_id"`

	PolicyFingerprint string `gorm:"size:32;not null" json:"policy_fingerprint"`
	AcceptedAt        string `gorm:"size:40;not null" json:"accepted_at"`
	IPAddress         string `gorm:"size:45" json:"ip_address"`
	UserAgent         string `gorm:"size:255" json:"user_agent"`

	CreatedAt time.Time `json:"created_at"`
}
