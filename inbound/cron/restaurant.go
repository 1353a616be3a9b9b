package cron

import (
	"context"
	"github.com/spf13/viper"
	"log/slog"
	"ru-ticket/common"
	"ru-ticket/common/vars"
	"ru-ticket/eligibility"
	"time"
)

const defaultRefreshInterval = 30 * time.Second

type RestaurantCron struct {
	Cfg    *viper.Viper
	Engine *eligibility.Engine

	TimeNow func() time.Time
}

func (in RestaurantCron) Start(ctx context.Context) {
	interval := in.Cfg.GetDuration("cron.restaurant.refresh.interval")
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	refreshTicker := time.NewTicker(interval)
	defer refreshTicker.Stop()

	in.refresh(ctx)

	slog.Info("restaurant cron started", slog.Duration("interval", interval))

	for {
		select {
		case <-refreshTicker.C:
			in.refresh(ctx)
		case <-ctx.Done():
			slog.Info("restaurant cron stopped")
			return
		}
	}
}

func (in RestaurantCron) refresh(ctx context.Context) {
	now := time.Now()
	if in.TimeNow != nil {
		now = in.TimeNow()
	}

	statuses := in.Engine.Statuses(now)
	vars.SetRestaurants(statuses, now)

	open := 0
	for _, status := range statuses {
		if status.Open {
			open++
		}
	}

	slog.DebugContext(ctx, "restaurants refreshed", common.ExtractTraceIDFromCtx(ctx), slog.Int("open", open))
}
