package model

type CategoryResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Price      Money  `json:"price"`
	Subsidized bool   `json:"subsidized"`
}
