package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	StockTotal  int    `json:"stock_total"`
	PriceDay3   int    `json:"price_day3"`
	PriceDay5   int    `json:"price_day5"`
	PriceDay7   int    `json:"price_day7"`
}

func (req *CreateBookRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Author, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Category, validation.Length(0, 50)),
		validation.Field(&req.StockTotal, validation.Required, validation.Min(1)),
		validation.Field(&req.PriceDay3, validation.Required, validation.Min(1)),
		validation.Field(&req.PriceDay5, validation.Required, validation.Min(1)),
		validation.Field(&req.PriceDay7, validation.Required, validation.Min(1)),
	)
}

type UpdateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	PriceDay3   int    `json:"price_day3"`
	PriceDay5   int    `json:"price_day5"`
	PriceDay7   int    `json:"price_day7"`
	Status      string `json:"status"`
}

func (req *UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Author, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Category, validation.Length(0, 50)),
		validation.Field(&req.PriceDay3, validation.Required, validation.Min(1)),
		validation.Field(&req.PriceDay5, validation.Required, validation.Min(1)),
		validation.Field(&req.PriceDay7, validation.Required, validation.Min(1)),
		validation.Field(&req.Status, validation.Required, validation.In("available", "unavailable")),
	)
}
