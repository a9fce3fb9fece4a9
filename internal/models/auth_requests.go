package models

// SendOTPRequest asks for a one-time passcode to be delivered to a
// phone number
type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// SendOTPResponse acknowledges OTP issuance
type SendOTPResponse struct {
	Message     string `json:"message"`
	PhoneNumber string `json:"phone_number"`
	ExpiresIn   int64  `json:"expires_in"`
}

// VerifyOTPRequest submits a passcode for verification
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	OTPCode     string `json:"otp_code" binding:"required"`
}

// GoogleSignInRequest carries an externally issued Google ID token
type GoogleSignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// SignOutRequest revokes a session token
type SignOutRequest struct {
	Token string `json:"token" binding:"required"`
}

// TokenResponse carries a freshly minted session token and the resolved
// identity
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}
