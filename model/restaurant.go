package model

type WindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RestaurantStatusResponse struct {
	Id     string          `json:"id"`
	Name   string          `json:"name"`
	Open   bool            `json:"open"`
	Meal   string          `json:"meal,omitempty"`
	Window *WindowResponse `json:"window,omitempty"`
}

type ScheduleEntryResponse struct {
	Restaurant string `json:"restaurant"`
	Day        string `json:"day"`
	Meal       string `json:"meal"`
	Start      string `json:"start"`
	End        string `json:"end"`
}
