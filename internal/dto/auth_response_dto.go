package dto

import "time"

// LoginResponse carries the issued access token. The refresh token travels in
// an HTTP-only cookie.
type LoginResponse struct {
	UserID       string    `json:"userID"`
	AccessToken  string    `json:"accessToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	RefreshToken string    `json:"refreshToken,omitempty"`
}
