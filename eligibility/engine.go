package eligibility

import (
	"errors"
	"time"
)

var (
	ErrClosed            = errors.New("restaurant closed")
	ErrUnknownRestaurant = errors.New("unknown restaurant")
	ErrUnknownMeal       = errors.New("unknown meal")
)

// Engine answers meal window questions against a Schedule. It holds no state
// besides its configuration; the current time is always passed in.
type Engine struct {
	Schedule Schedule
	Location *time.Location

	// DevMode disables window enforcement: everything reports open and
	// ResolveMeal honours the forced meal.
	DevMode bool
}

func NewEngine(schedule Schedule, location *time.Location, devMode bool) *Engine {
	if schedule == nil {
		schedule = DefaultSchedule
	}
	return &Engine{Schedule: schedule, Location: location, DevMode: devMode}
}

func (e *Engine) local(now time.Time) time.Time {
	if e.Location != nil {
		return now.In(e.Location)
	}
	return now
}

func (e *Engine) WindowFor(restaurant Restaurant, meal Meal, now time.Time) (Interval, bool) {
	now = e.local(now)
	return e.Schedule.Lookup(restaurant, ClassOf(now.Weekday()), meal)
}

func (e *Engine) windowContains(restaurant Restaurant, meal Meal, now time.Time) bool {
	window, ok := e.WindowFor(restaurant, meal, now)
	if !ok {
		return false
	}

	now = e.local(now)
	return window.Contains(At(now.Hour(), now.Minute()))
}

// CurrentMeal returns the first meal in MealOrder whose window contains now.
// It ignores DevMode.
func (e *Engine) CurrentMeal(restaurant Restaurant, now time.Time) (Meal, bool) {
	for _, meal := range MealOrder {
		if e.windowContains(restaurant, meal, now) {
			return meal, true
		}
	}
	return "", false
}

func (e *Engine) IsOpen(restaurant Restaurant, meal Meal, now time.Time) bool {
	if e.DevMode {
		return true
	}
	return e.windowContains(restaurant, meal, now)
}

func (e *Engine) AnyRestaurantOpen(now time.Time) bool {
	if e.DevMode {
		return true
	}

	for _, restaurant := range Restaurants {
		if _, ok := e.CurrentMeal(restaurant, now); ok {
			return true
		}
	}
	return false
}

// ResolveMeal picks the meal a purchase at restaurant is for. Outside dev mode
// the forced meal is ignored and ErrClosed is returned when nothing is being
// served. In dev mode a forced meal wins, then the detected one, then lunch.
func (e *Engine) ResolveMeal(restaurant Restaurant, forced Meal, now time.Time) (Meal, error) {
	if _, ok := RestaurantNames[restaurant]; !ok {
		return "", ErrUnknownRestaurant
	}

	if e.DevMode && forced != "" {
		if _, ok := ParseMeal(string(forced)); !ok {
			return "", ErrUnknownMeal
		}
		return forced, nil
	}

	if meal, ok := e.CurrentMeal(restaurant, now); ok {
		return meal, nil
	}

	if e.DevMode {
		return Lunch, nil
	}

	return "", ErrClosed
}
