package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
	"github.com/jhoicas/fiado-sync/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// CodeSender entrega el código OTP al teléfono (SMS, WhatsApp, etc.).
// La implementación concreta se inyecta; en development puede ser un no-op.
type CodeSender interface {
	Send(phone, code string) error
}

// AuthUseCase casos de uso de autenticación por OTP: solicitud y verificación.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sender   CodeSender
	jwtCfg   JWTConfig
	devMode  bool
	otpTTL   time.Duration
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. devMode expone el código en
// la respuesta en lugar de depender del canal de envío.
func NewAuthUseCase(userRepo repository.UserRepository, sender CodeSender, jwtCfg JWTConfig, devMode bool) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		sender:   sender,
		jwtCfg:   jwtCfg,
		devMode:  devMode,
		otpTTL:   5 * time.Minute,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RequestOTP genera un código de 6 dígitos, guarda solo su hash bcrypt y lo
// entrega por el canal configurado. Un código nuevo invalida el anterior.
func (uc *AuthUseCase) RequestOTP(in dto.RequestOTPRequest) (*dto.RequestOTPResponse, error) {
	if in.Phone == "" {
		return nil, domain.ErrInvalidInput
	}
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.userRepo.SaveOTP(&entity.OTPCode{
		Phone:     in.Phone,
		Hash:      string(hash),
		ExpiresAt: now.Add(uc.otpTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	if uc.sender != nil {
		if err := uc.sender.Send(in.Phone, code); err != nil {
			return nil, fmt.Errorf("enviando código OTP: %w", err)
		}
	}
	out := &dto.RequestOTPResponse{Sent: true}
	if uc.devMode {
		out.Code = code
	}
	return out, nil
}

// VerifyOTP canjea el código por un JWT. Crea el usuario en el primer login
// (no hay registro separado: el teléfono es la identidad).
func (uc *AuthUseCase) VerifyOTP(in dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	if in.Phone == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	stored, err := uc.userRepo.GetOTP(in.Phone)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrOTPMismatch
	}
	if uc.now().After(stored.ExpiresAt) {
		_ = uc.userRepo.DeleteOTP(in.Phone)
		return nil, domain.ErrOTPExpired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Hash), []byte(in.Code)); err != nil {
		return nil, domain.ErrOTPMismatch
	}
	// El código es de un solo uso
	if err := uc.userRepo.DeleteOTP(in.Phone); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByPhone(in.Phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		now := uc.now()
		user = &entity.User{
			ID:        uuid.New().String(),
			Phone:     in.Phone,
			Language:  entity.LangArabic,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.userRepo.Create(user); err != nil {
			return nil, err
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Phone, user.Premium, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:       user.ID,
			Phone:    user.Phone,
			Name:     user.Name,
			Language: user.Language,
			Premium:  user.Premium,
		},
	}, nil
}

// generateCode devuelve un código numérico de 6 dígitos con crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
