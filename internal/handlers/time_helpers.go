package handlers

import (
	"time"

	"github.com/glowdesk/spa-scheduler/internal/models"
	"github.com/glowdesk/spa-scheduler/internal/timezone"
)

func locationFromSalon(salon *models.Salon) *time.Location {
	if salon != nil {
		return timezone.Location(salon.Timezone)
	}
	return timezone.Location(timezone.DefaultTimezone)
}

func parseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

func parseDateInSalon(salon *models.Salon, dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, locationFromSalon(salon))
}
