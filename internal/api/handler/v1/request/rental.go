package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RentRequest struct {
	BookID uint `json:"book_id"`
	Days   int  `json:"days"`
}

func (req *RentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BookID, validation.Required),
		validation.Field(&req.Days, validation.Required, validation.In(3, 5, 7)),
	)
}
