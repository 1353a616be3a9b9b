package eligibility

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

// 2025-01-04 is a Saturday, 2025-01-05 a Sunday, 2025-01-06 a Monday.
func saturdayAt(hour, minute int) time.Time {
	return time.Date(2025, 1, 4, hour, minute, 0, 0, time.UTC)
}

func sundayAt(hour, minute int) time.Time {
	return time.Date(2025, 1, 5, hour, minute, 0, 0, time.UTC)
}

func mondayAt(hour, minute int) time.Time {
	return time.Date(2025, 1, 6, hour, minute, 0, 0, time.UTC)
}

func TestSaturdayNoon(t *testing.T) {
	engine := NewEngine(nil, nil, false)
	now := saturdayAt(12, 0)

	open := map[Restaurant]bool{Setorial1: true, Saude: true}

	for _, restaurant := range Restaurants {
		meal, ok := engine.CurrentMeal(restaurant, now)
		if open[restaurant] {
			assert.True(t, ok, restaurant)
			assert.Equal(t, Lunch, meal, restaurant)
		} else {
			assert.False(t, ok, restaurant)
		}

		for _, m := range MealOrder {
			expected := open[restaurant] && m == Lunch
			assert.Equal(t, expected, engine.IsOpen(restaurant, m, now), "%s %s", restaurant, m)
		}
	}
}

func TestMissingDinnerNeverOpens(t *testing.T) {
	engine := NewEngine(nil, nil, false)

	for _, base := range []time.Time{mondayAt(0, 0), saturdayAt(0, 0), sundayAt(0, 0)} {
		for minute := 0; minute < 24*60; minute += 5 {
			now := base.Add(time.Duration(minute) * time.Minute)
			assert.False(t, engine.IsOpen(Setorial2, Dinner, now), now)

			_, ok := engine.WindowFor(Setorial2, Dinner, now)
			assert.False(t, ok)
		}
	}
}

func TestCurrentMeal(t *testing.T) {
	engine := NewEngine(nil, nil, false)

	tests := []struct {
		name       string
		restaurant Restaurant
		now        time.Time
		meal       Meal
		open       bool
	}{
		{name: "setorial2 breakfast start", restaurant: Setorial2, now: mondayAt(6, 45), meal: Breakfast, open: true},
		{name: "setorial2 breakfast end inclusive", restaurant: Setorial2, now: mondayAt(8, 0), meal: Breakfast, open: true},
		{name: "setorial2 between meals", restaurant: Setorial2, now: mondayAt(8, 1)},
		{name: "setorial1 no breakfast", restaurant: Setorial1, now: mondayAt(7, 30)},
		{name: "direito lunch starts later", restaurant: Direito, now: mondayAt(10, 45)},
		{name: "direito lunch", restaurant: Direito, now: mondayAt(11, 0), meal: Lunch, open: true},
		{name: "saude dinner", restaurant: Saude, now: mondayAt(18, 30), meal: Dinner, open: true},
		{name: "direito dinner starts 17:30", restaurant: Direito, now: mondayAt(17, 15)},
		{name: "sunday closed", restaurant: Saude, now: sundayAt(12, 0)},
		{name: "saturday saude opens 11:30", restaurant: Saude, now: saturdayAt(11, 15)},
		{name: "unknown restaurant", restaurant: Restaurant("cantina"), now: mondayAt(12, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meal, ok := engine.CurrentMeal(tc.restaurant, tc.now)
			assert.Equal(t, tc.open, ok)
			assert.Equal(t, tc.meal, meal)
		})
	}
}

func TestCurrentMealPriorityOnOverlap(t *testing.T) {
	schedule := Schedule{
		Setorial1: {
			Weekday: {
				Dinner:    Window(9, 0, 12, 0),
				Lunch:     Window(10, 0, 12, 0),
				Breakfast: Window(10, 0, 11, 0),
			},
		},
	}
	engine := NewEngine(schedule, nil, false)

	meal, ok := engine.CurrentMeal(Setorial1, mondayAt(10, 30))
	require.True(t, ok)
	assert.Equal(t, Breakfast, meal)

	meal, ok = engine.CurrentMeal(Setorial1, mondayAt(11, 30))
	require.True(t, ok)
	assert.Equal(t, Lunch, meal)

	meal, ok = engine.CurrentMeal(Setorial1, mondayAt(9, 30))
	require.True(t, ok)
	assert.Equal(t, Dinner, meal)
}

func TestAnyRestaurantOpen(t *testing.T) {
	engine := NewEngine(nil, nil, false)

	assert.True(t, engine.AnyRestaurantOpen(mondayAt(12, 0)))
	assert.True(t, engine.AnyRestaurantOpen(mondayAt(6, 50)))
	assert.False(t, engine.AnyRestaurantOpen(mondayAt(9, 0)))
	assert.False(t, engine.AnyRestaurantOpen(mondayAt(20, 0)))
	assert.False(t, engine.AnyRestaurantOpen(sundayAt(12, 0)))
	assert.True(t, engine.AnyRestaurantOpen(saturdayAt(11, 0)))

	dev := NewEngine(nil, nil, true)
	assert.True(t, dev.AnyRestaurantOpen(sundayAt(3, 0)))
}

func TestLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	engine := NewEngine(nil, loc, false)

	// 15:00 UTC is 12:00 in BRT
	meal, ok := engine.CurrentMeal(Setorial1, mondayAt(15, 0))
	require.True(t, ok)
	assert.Equal(t, Lunch, meal)

	// 21:30 UTC is 18:30 in BRT
	meal, ok = engine.CurrentMeal(Saude, mondayAt(21, 30))
	require.True(t, ok)
	assert.Equal(t, Dinner, meal)
}

func TestResolveMeal(t *testing.T) {
	tests := []struct {
		name       string
		dev        bool
		restaurant Restaurant
		forced     Meal
		now        time.Time
		expected   Meal
		err        error
	}{
		{name: "detected", restaurant: Saude, now: mondayAt(12, 0), expected: Lunch},
		{name: "closed", restaurant: Saude, now: mondayAt(9, 0), err: ErrClosed},
		{name: "forced ignored outside dev", restaurant: Saude, forced: Dinner, now: mondayAt(12, 0), expected: Lunch},
		{name: "forced ignored outside dev when closed", restaurant: Saude, forced: Dinner, now: mondayAt(9, 0), err: ErrClosed},
		{name: "dev forced", dev: true, restaurant: Setorial2, forced: Dinner, now: sundayAt(2, 0), expected: Dinner},
		{name: "dev detected", dev: true, restaurant: Setorial2, now: mondayAt(7, 0), expected: Breakfast},
		{name: "dev defaults to lunch", dev: true, restaurant: Setorial2, now: sundayAt(2, 0), expected: Lunch},
		{name: "dev unknown forced meal", dev: true, restaurant: Setorial2, forced: Meal("supper"), now: sundayAt(2, 0), err: ErrUnknownMeal},
		{name: "unknown restaurant", restaurant: Restaurant("cantina"), now: mondayAt(12, 0), err: ErrUnknownRestaurant},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine := NewEngine(nil, nil, tc.dev)

			meal, err := engine.ResolveMeal(tc.restaurant, tc.forced, tc.now)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, meal)
		})
	}
}

func TestIntervalString(t *testing.T) {
	assert.Equal(t, "06:45-08:00", Window(6, 45, 8, 0).String())
	assert.Equal(t, "17:10", FormatMinute(At(17, 10)))
}
