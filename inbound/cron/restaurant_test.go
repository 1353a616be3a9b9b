package cron

import (
	"context"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
	"log/slog"
	"ru-ticket/common/vars"
	"ru-ticket/eligibility"
	"sync/atomic"
	"testing"
	"time"
)

type RestaurantCronTestSuite struct {
	suite.Suite

	Cfg   *viper.Viper
	clock atomic.Int64
	cron  RestaurantCron
}

func (s *RestaurantCronTestSuite) SetupTest() {
	s.Cfg = viper.New()
	s.Cfg.Set("cron.restaurant.refresh.interval", "50ms")

	// Saturday noon.
	s.clock.Store(time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC).Unix())

	s.cron = RestaurantCron{
		Cfg:    s.Cfg,
		Engine: eligibility.NewEngine(nil, time.UTC, false),
		TimeNow: func() time.Time {
			return time.Unix(s.clock.Load(), 0).UTC()
		},
	}

	vars.SetRestaurants(nil, time.Time{})
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *RestaurantCronTestSuite) TearDownTest() {
	vars.SetRestaurants(nil, time.Time{})
}

func TestRestaurantCronTestSuite(t *testing.T) {
	suite.Run(t, new(RestaurantCronTestSuite))
}

func openRestaurants() map[string]string {
	snapshot := vars.GetRestaurants()
	if snapshot == nil {
		return nil
	}

	open := make(map[string]string)
	for _, status := range snapshot.Statuses {
		if status.Open {
			open[status.Id] = status.Meal
		}
	}
	return open
}

func (s *RestaurantCronTestSuite) TestRefresh() {
	s.cron.refresh(context.Background())

	snapshot := vars.GetRestaurants()
	s.Require().NotNil(snapshot)
	s.Len(snapshot.Statuses, 4)
	s.Equal(time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC), snapshot.UpdatedAt)
	s.Equal(map[string]string{"setorial1": "lunch", "saude": "lunch"}, openRestaurants())
}

func (s *RestaurantCronTestSuite) TestStart() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.cron.Start(ctx)
	}()

	s.Eventually(func() bool {
		return len(openRestaurants()) == 2
	}, time.Second, 10*time.Millisecond)

	// Monday 18:00: dinner at setorial1, saude and direito.
	s.clock.Store(time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC).Unix())

	s.Eventually(func() bool {
		open := openRestaurants()
		return len(open) == 3 && open["direito"] == "dinner"
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("cron did not stop after cancel")
	}
}

func (s *RestaurantCronTestSuite) TestDefaultInterval() {
	s.Cfg.Set("cron.restaurant.refresh.interval", "0s")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.cron.Start(ctx)

	s.NotNil(vars.GetRestaurants())
}
