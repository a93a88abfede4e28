package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/glowdesk/spa-scheduler/internal/domain/schedule"
	"github.com/glowdesk/spa-scheduler/internal/models"
)

// CachedProvider wraps another provider with a short-lived redis cache so a
// wizard full of customers does not hammer the working-hours tables. Cache
// failures fall through to the inner provider.
type CachedProvider struct {
	inner Provider
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedProvider(inner Provider, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedProvider{inner: inner, rdb: rdb, ttl: ttl}
}

func (p *CachedProvider) Windows(
	ctx context.Context,
	salon *models.Salon,
	svc *models.Service,
	horizonStart time.Time,
	horizonDays int,
) ([]schedule.RawWindow, error) {

	key := fmt.Sprintf("avail:%d:%d:%d:%d",
		salon.ID, svc.ID, horizonStart.Unix()/60, horizonDays)

	if cached, err := p.rdb.Get(ctx, key).Result(); err == nil {
		var windows []schedule.RawWindow
		if err := json.Unmarshal([]byte(cached), &windows); err == nil {
			return windows, nil
		}
	}

	windows, err := p.inner.Windows(ctx, salon, svc, horizonStart, horizonDays)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(windows); err == nil {
		p.rdb.Set(ctx, key, b, p.ttl)
	}

	return windows, nil
}
