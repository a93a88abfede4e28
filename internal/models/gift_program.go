package models

import (
	"strings"
	"time"
)

// GiftProgram is the per-salon discount configuration. Configured codes live
// as a comma-separated column; codes issued one-by-one go to the ledger table.
type GiftProgram struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"uniqueIndex" json:"salon_id"`

	Enabled     bool   `gorm:"default:false" json:"enabled"`
	AmountType  string `gorm:"size:20;default:'fixed-amount'" json:"amount_type"`
	AmountValue int64  `json:"amount_value"`

	Codes string `gorm:"type:text" json:"codes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *GiftProgram) CodeList() []string {
	if strings.TrimSpace(p.Codes) == "" {
		return nil
	}
	parts := strings.Split(p.Codes, ",")
	out := make([]string, 0, len(parts))
	for _, c := range parts {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

type GiftCodeLedgerEntry struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `json:"salon_id"`

	Code string `gorm:"size:50;not null" json:"code"`
	Note string `gorm:"size:255" json:"note"`

	Redeemed   bool       `gorm:"default:false" json:"redeemed"`
	RedeemedAt *time.Time `json:"redeemed_at"`

	CreatedAt time.Time `json:"created_at"`
}
