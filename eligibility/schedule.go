package eligibility

import (
	"fmt"
	"time"
)

type Restaurant string

const (
	Setorial1 Restaurant = "setorial1"
	Setorial2 Restaurant = "setorial2"
	Saude     Restaurant = "saude"
	Direito   Restaurant = "direito"
)

// Restaurants lists every RU in display order.
var Restaurants = []Restaurant{Setorial1, Setorial2, Saude, Direito}

var RestaurantNames = map[Restaurant]string{
	Setorial1: "RU Setorial I",
	Setorial2: "RU Setorial II",
	Saude:     "RU Saúde",
	Direito:   "RU Direito",
}

type Meal string

const (
	Breakfast Meal = "breakfast"
	Lunch     Meal = "lunch"
	Dinner    Meal = "dinner"
)

// MealOrder is the priority used when more than one window could match.
var MealOrder = []Meal{Breakfast, Lunch, Dinner}

type DayClass string

const (
	Weekday  DayClass = "weekday"
	Saturday DayClass = "saturday"
	Sunday   DayClass = "sunday"
)

func ClassOf(day time.Weekday) DayClass {
	switch day {
	case time.Saturday:
		return Saturday
	case time.Sunday:
		return Sunday
	default:
		return Weekday
	}
}

// Interval is a time-of-day range in minutes since midnight, inclusive at both ends.
type Interval struct {
	Start int
	End   int
}

func At(hour, minute int) int {
	return hour*60 + minute
}

func Window(startHour, startMinute, endHour, endMinute int) Interval {
	return Interval{Start: At(startHour, startMinute), End: At(endHour, endMinute)}
}

func (i Interval) Contains(minute int) bool {
	return minute >= i.Start && minute <= i.End
}

func (i Interval) String() string {
	return FormatMinute(i.Start) + "-" + FormatMinute(i.End)
}

func FormatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// Schedule maps restaurant × day class × meal to its serving window. A missing
// key means the meal is not served.
type Schedule map[Restaurant]map[DayClass]map[Meal]Interval

var DefaultSchedule = Schedule{
	Setorial1: {
		Weekday: {
			Lunch:  Window(10, 30, 14, 0),
			Dinner: Window(17, 10, 19, 0),
		},
		Saturday: {
			Lunch: Window(11, 0, 13, 0),
		},
	},
	Setorial2: {
		Weekday: {
			Breakfast: Window(6, 45, 8, 0),
			Lunch:     Window(10, 30, 14, 0),
		},
	},
	Saude: {
		Weekday: {
			Breakfast: Window(7, 0, 8, 0),
			Lunch:     Window(10, 30, 14, 0),
			Dinner:    Window(17, 10, 19, 0),
		},
		Saturday: {
			Lunch: Window(11, 30, 13, 0),
		},
	},
	Direito: {
		Weekday: {
			Breakfast: Window(7, 0, 8, 0),
			Lunch:     Window(11, 0, 14, 0),
			Dinner:    Window(17, 30, 19, 0),
		},
	},
}

func (s Schedule) Lookup(restaurant Restaurant, day DayClass, meal Meal) (Interval, bool) {
	window, ok := s[restaurant][day][meal]
	return window, ok
}

func ParseRestaurant(v string) (Restaurant, bool) {
	r := Restaurant(v)
	_, ok := RestaurantNames[r]
	return r, ok
}

func ParseMeal(v string) (Meal, bool) {
	for _, m := range MealOrder {
		if string(m) == v {
			return m, true
		}
	}
	return "", false
}
