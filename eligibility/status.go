package eligibility

import (
	"ru-ticket/model"
	"time"
)

// Statuses reports, for every restaurant, whether a meal is being served at
// now. In dev mode every restaurant reports open.
func (e *Engine) Statuses(now time.Time) []model.RestaurantStatusResponse {
	statuses := make([]model.RestaurantStatusResponse, 0, len(Restaurants))

	for _, restaurant := range Restaurants {
		status := model.RestaurantStatusResponse{
			Id:   string(restaurant),
			Name: RestaurantNames[restaurant],
			Open: e.DevMode,
		}

		if meal, ok := e.CurrentMeal(restaurant, now); ok {
			window, _ := e.WindowFor(restaurant, meal, now)
			status.Open = true
			status.Meal = string(meal)
			status.Window = &model.WindowResponse{
				Start: FormatMinute(window.Start),
				End:   FormatMinute(window.End),
			}
		}

		statuses = append(statuses, status)
	}

	return statuses
}

// Entries flattens the schedule in restaurant, day class, meal order.
func (s Schedule) Entries() []model.ScheduleEntryResponse {
	var entries []model.ScheduleEntryResponse

	for _, restaurant := range Restaurants {
		for _, day := range []DayClass{Weekday, Saturday} {
			for _, meal := range MealOrder {
				window, ok := s.Lookup(restaurant, day, meal)
				if !ok {
					continue
				}

				entries = append(entries, model.ScheduleEntryResponse{
					Restaurant: string(restaurant),
					Day:        string(day),
					Meal:       string(meal),
					Start:      FormatMinute(window.Start),
					End:        FormatMinute(window.End),
				})
			}
		}
	}

	return entries
}

func CategoryResponses() []model.CategoryResponse {
	categories := make([]model.CategoryResponse, 0, len(Categories))
	for _, c := range Categories {
		categories = append(categories, model.CategoryResponse{
			Code:       c.Code,
			Name:       c.Name,
			Price:      c.Price,
			Subsidized: c.Subsidized,
		})
	}
	return categories
}
