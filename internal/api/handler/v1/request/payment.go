package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type SubmitPaymentRequest struct {
	RentalID uint   `json:"rental_id"`
	Amount   int    `json:"amount"`
	SlipURL  string `json:"slip_url"`
}

func (req *SubmitPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RentalID, validation.Required),
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
		validation.Field(&req.SlipURL, validation.Required, is.URL),
	)
}

type VerifyPaymentRequest struct {
	Approved *bool `json:"approved"`
}

func (req *VerifyPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Approved, validation.NotNil),
	)
}
