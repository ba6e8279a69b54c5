package entity

import "time"

// Idiomas soportados por la aplicación.
const (
	LangArabic = "ar"
	LangFrench = "fr"
)

// User representa una cuenta de comerciante. La autenticación es por teléfono
// con código OTP de un solo uso.
type User struct {
	ID        string
	Phone     string
	Name      string
	Language  string // "ar" | "fr"
	Premium   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OTPCode es el último código emitido para un teléfono, con expiración corta.
// Solo se persiste el hash bcrypt, nunca el código plano.
type OTPCode struct {
	Phone     string
	Hash      string
	ExpiresAt time.Time
	CreatedAt time.Time
}
