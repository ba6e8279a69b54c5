package dto

// RequestOTPRequest solicita un código de un solo uso para el teléfono.
type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

// RequestOTPResponse confirmación de envío. Code solo viaja en development.
type RequestOTPResponse struct {
	Sent bool   `json:"sent"`
	Code string `json:"code,omitempty"`
}

// VerifyOTPRequest canjea el código por un token.
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// UserResponse usuario autenticado.
type UserResponse struct {
	ID       string `json:"id"`
	Phone    string `json:"phone"`
	Name     string `json:"name,omitempty"`
	Language string `json:"language"`
	Premium  bool   `json:"premium"`
}

// LoginResponse token + usuario tras verificar el OTP.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
