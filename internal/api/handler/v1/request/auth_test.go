package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookrental/internal/api/handler/v1/request"
)

func validSignup() request.SignupRequest {
	return request.SignupRequest{
		Email:           "jamie@example.com",
		Password:        "secret12",
		ConfirmPassword: "secret12",
		Username:        "jamie",
		PhoneNumber:     "+33612345678",
	}
}

func TestSignupRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*request.SignupRequest)
		wantErr bool
	}{
		{
			name:   "valid request",
			mutate: func(r *request.SignupRequest) {},
		},
		{
			name:    "invalid email",
			mutate:  func(r *request.SignupRequest) { r.Email = "not-an-email" },
			wantErr: true,
		},
		{
			name:    "password too short",
			mutate:  func(r *request.SignupRequest) { r.Password = "abc1"; r.ConfirmPassword = "abc1" },
			wantErr: true,
		},
		{
			name:    "password without digits",
			mutate:  func(r *request.SignupRequest) { r.Password = "abcdefgh"; r.ConfirmPassword = "abcdefgh" },
			wantErr: true,
		},
		{
			name:    "password without letters",
			mutate:  func(r *request.SignupRequest) { r.Password = "12345678"; r.ConfirmPassword = "12345678" },
			wantErr: true,
		},
		{
			name:    "confirm password mismatch",
			mutate:  func(r *request.SignupRequest) { r.ConfirmPassword = "secret13" },
			wantErr: true,
		},
		{
			name:    "invalid phone number",
			mutate:  func(r *request.SignupRequest) { r.PhoneNumber = "not-a-phone" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRentRequestValidate(t *testing.T) {
	req := request.RentRequest{BookID: 1, Days: 5}
	assert.NoError(t, req.Validate())

	req.Days = 4
	assert.Error(t, req.Validate())

	req = request.RentRequest{Days: 3}
	assert.Error(t, req.Validate(), "book ID is required")
}
