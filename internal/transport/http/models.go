package http

import (
	"time"

	"github.com/streamnest/streamnest-backend/internal/domain"
)

type registerRequest struct {
	FirstName string `json:"first_name" example:"Asha"`
	Email     string `json:"email" example:"asha@example.com"`
	Password  string `json:"password" example:"s3cret-pass"`
}

type loginRequest struct {
	Email    string `json:"email" example:"asha@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type passwordResetRequest struct {
	Email string `json:"email" example:"asha@example.com"`
}

type otpVerifyRequest struct {
	Email string `json:"email" example:"asha@example.com"`
	OTP   string `json:"otp" example:"482913"`
}

type passwordResetApplyRequest struct {
	Email    string `json:"email" example:"asha@example.com"`
	Password string `json:"password" example:"new-s3cret"`
}

type genreUpdateRequest struct {
	Name      *string `json:"name"`
	Thumbnail *string `json:"thumbnail"`
}

type listMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"total_pages"`
}

func newListMeta(page, perPage int, total int64) listMeta {
	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	return listMeta{CurrentPage: page, PerPage: perPage, Total: total, TotalPages: pages}
}
