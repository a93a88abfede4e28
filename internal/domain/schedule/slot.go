package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RawWindow is one open availability range for a single staff member,
// as supplied by the upstream availability provider.
type RawWindow struct {
	StaffID uint      `json:"staff_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type StaffInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ServiceInfo struct {
	ID            uint   `json:"id"`
	DurationMin   int    `json:"duration_min"`
	EligibleStaff []uint `json:"eligible_staff"`
}

// Slot is a single bookable interval for one staff member and one service.
type Slot struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uint      `json:"service_id"`
	StaffID   uint      `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

var slotNamespace = uuid.MustParse("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")

// SlotID is stable for a given staff member and start instant, so a wholesale
// regeneration of the slot list yields the same IDs for the same slots.
func SlotID(staffID uint, start time.Time) uuid.UUID {
	return uuid.NewSHA1(slotNamespace, []byte(fmt.Sprintf("%d|%d", staffID, start.Unix())))
}
