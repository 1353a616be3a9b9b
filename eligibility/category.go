package eligibility

import (
	"errors"
	"ru-ticket/model"
)

var ErrBreakfastRestricted = errors.New("breakfast is reserved to subsidized students")

type Category struct {
	Code       string
	Name       string
	Price      model.Money
	Subsidized bool
}

var Categories = []Category{
	{Code: "estudante", Name: "Estudante", Price: 560},
	{Code: "fump1", Name: "FUMP I", Price: 100, Subsidized: true},
	{Code: "fump2", Name: "FUMP II", Price: 200, Subsidized: true},
	{Code: "fump3", Name: "FUMP III", Price: 300, Subsidized: true},
	{Code: "servidor", Name: "Servidor", Price: 1250},
	{Code: "visitante", Name: "Visitante", Price: 1500},
}

const VisitorCategory = "visitante"

func LookupCategory(code string) (Category, bool) {
	for _, c := range Categories {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}

// MealPrice is what a holder of category pays for meal. Breakfast is free and
// only available to subsidized categories.
func MealPrice(category Category, meal Meal) (model.Money, error) {
	if meal == Breakfast {
		if !category.Subsidized {
			return 0, ErrBreakfastRestricted
		}
		return 0, nil
	}
	return category.Price, nil
}
