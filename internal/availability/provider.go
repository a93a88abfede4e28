package availability

import (
	"context"
	"time"

	"github.com/glowdesk/spa-scheduler/internal/domain/schedule"
	"github.com/glowdesk/spa-scheduler/internal/models"
)

// Provider supplies the raw per-staff availability windows the slot expander
// consumes. The flow core never derives windows itself; it only reads this
// contract's output shape.
type Provider interface {
	Windows(
		ctx context.Context,
		salon *models.Salon,
		svc *models.Service,
		horizonStart time.Time,
		horizonDays int,
	) ([]schedule.RawWindow, error)
}
