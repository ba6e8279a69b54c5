package repository

import "github.com/jhoicas/fiado-sync/internal/domain/entity"

// UserRepository define el puerto de persistencia para User y los códigos OTP.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByPhone(phone string) (*entity.User, error)
	Update(user *entity.User) error

	// SaveOTP reemplaza el código vigente del teléfono (upsert).
	SaveOTP(code *entity.OTPCode) error
	GetOTP(phone string) (*entity.OTPCode, error)
	DeleteOTP(phone string) error
}
