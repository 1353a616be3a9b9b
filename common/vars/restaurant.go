package vars

import (
	"ru-ticket/model"
	"sync/atomic"
	"time"
)

// Restaurants is the last status snapshot computed by the restaurant cron.
type Restaurants struct {
	Statuses  []model.RestaurantStatusResponse
	UpdatedAt time.Time
}

var restaurantsPtr atomic.Pointer[Restaurants]

// GetRestaurants returns the current snapshot, or nil before the first
// refresh. Lock-free and safe for concurrent access.
func GetRestaurants() *Restaurants {
	return restaurantsPtr.Load()
}

// SetRestaurants atomically replaces the snapshot with a copy of statuses.
// Passing an empty slice clears it.
func SetRestaurants(statuses []model.RestaurantStatusResponse, updatedAt time.Time) {
	if len(statuses) == 0 {
		restaurantsPtr.Store(nil)
		return
	}

	statusesCopy := make([]model.RestaurantStatusResponse, len(statuses))
	copy(statusesCopy, statuses)

	restaurantsPtr.Store(&Restaurants{Statuses: statusesCopy, UpdatedAt: updatedAt})
}
