package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiado-sync/internal/application/auth"
	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	pkgjwt "github.com/jhoicas/fiado-sync/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users map[string]*entity.User    // por teléfono
	otps  map[string]*entity.OTPCode // por teléfono
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}, otps: map[string]*entity.OTPCode{}}
}

func (r *memUserRepo) Create(u *entity.User) error {
	if _, ok := r.users[u.Phone]; ok {
		return domain.ErrDuplicate
	}
	cp := *u
	r.users[u.Phone] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByPhone(phone string) (*entity.User, error) {
	u, ok := r.users[phone]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	if _, ok := r.users[u.Phone]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.Phone] = &cp
	return nil
}

func (r *memUserRepo) SaveOTP(code *entity.OTPCode) error {
	cp := *code
	r.otps[code.Phone] = &cp
	return nil
}

func (r *memUserRepo) GetOTP(phone string) (*entity.OTPCode, error) {
	c, ok := r.otps[phone]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memUserRepo) DeleteOTP(phone string) error {
	delete(r.otps, phone)
	return nil
}

type captureSender struct {
	phone string
	code  string
}

func (s *captureSender) Send(phone, code string) error {
	s.phone = phone
	s.code = code
	return nil
}

func newAuthUC(repo *memUserRepo, sender auth.CodeSender) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, sender, auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "fiado-sync-test",
	}, false)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// El código viaja por el sender y en la base solo queda su hash.
func TestRequestOTP_EntregaPorCanalYGuardaHash(t *testing.T) {
	repo := newMemUserRepo()
	sender := &captureSender{}
	uc := newAuthUC(repo, sender)

	out, err := uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)
	assert.True(t, out.Sent)
	assert.Empty(t, out.Code, "fuera de development el código nunca viaja en la respuesta")

	assert.Equal(t, "+212600000001", sender.phone)
	require.Len(t, sender.code, 6)

	stored, err := repo.GetOTP("+212600000001")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, sender.code, stored.Hash, "el código en claro no se persiste")
}

func TestRequestOTP_TelefonoVacio(t *testing.T) {
	uc := newAuthUC(newMemUserRepo(), &captureSender{})

	_, err := uc.RequestOTP(dto.RequestOTPRequest{})
	assert.Equal(t, domain.ErrInvalidInput, err)
}

// El primer login crea el usuario con el teléfono como identidad.
func TestVerifyOTP_PrimerLoginCreaUsuario(t *testing.T) {
	repo := newMemUserRepo()
	sender := &captureSender{}
	uc := newAuthUC(repo, sender)

	_, err := uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)

	out, err := uc.VerifyOTP(dto.VerifyOTPRequest{Phone: "+212600000001", Code: sender.code})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "+212600000001", out.User.Phone)
	assert.Equal(t, entity.LangArabic, out.User.Language)

	userID, phone, premium, err := pkgjwt.Parse("test-secret", out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, "+212600000001", phone)
	assert.False(t, premium)
}

// Un segundo login del mismo teléfono reutiliza la cuenta existente.
func TestVerifyOTP_SegundoLoginMismaCuenta(t *testing.T) {
	repo := newMemUserRepo()
	sender := &captureSender{}
	uc := newAuthUC(repo, sender)

	_, err := uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)
	first, err := uc.VerifyOTP(dto.VerifyOTPRequest{Phone: "+212600000001", Code: sender.code})
	require.NoError(t, err)

	_, err = uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)
	second, err := uc.VerifyOTP(dto.VerifyOTPRequest{Phone: "+212600000001", Code: sender.code})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
}

// El código es de un solo uso: el segundo canje falla.
func TestVerifyOTP_UnSoloUso(t *testing.T) {
	repo := newMemUserRepo()
	sender := &captureSender{}
	uc := newAuthUC(repo, sender)

	_, err := uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)
	_, err = uc.VerifyOTP(dto.VerifyOTPRequest{Phone: "+212600000001", Code: sender.code})
	require.NoError(t, err)

	_, err = uc.VerifyOTP(dto.VerifyOTPRequest{Phone: "+212600000001", Code: sender.code})
	assert.Equal(t, domain.ErrOTPMismatch, err)
}

func TestVerifyOTP_CodigoIncorrecto(t *testing.T) {
	repo := newMemUserRepo()
	sender := &captureSender{}
	uc := newAuthUC(repo, sender)

	_, err := uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)

	_, err = uc.VerifyOTP(dto.VerifyOTPRequest{Phone: "+212600000001", Code: "000000x"})
	assert.Equal(t, domain.ErrOTPMismatch, err)
}

func TestVerifyOTP_SinSolicitudPrevia(t *testing.T) {
	uc := newAuthUC(newMemUserRepo(), &captureSender{})

	_, err := uc.VerifyOTP(dto.VerifyOTPRequest{Phone: "+212600000009", Code: "123456"})
	assert.Equal(t, domain.ErrOTPMismatch, err)
}

// Un código nuevo invalida el anterior.
func TestRequestOTP_NuevoCodigoInvalidaElAnterior(t *testing.T) {
	repo := newMemUserRepo()
	sender := &captureSender{}
	uc := newAuthUC(repo, sender)

	_, err := uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)
	oldCode := sender.code

	_, err = uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)
	if sender.code == oldCode {
		t.Skip("los dos códigos aleatorios coincidieron")
	}

	_, err = uc.VerifyOTP(dto.VerifyOTPRequest{Phone: "+212600000001", Code: oldCode})
	assert.Equal(t, domain.ErrOTPMismatch, err)
}

// En development el código viaja en la respuesta para pruebas manuales.
func TestRequestOTP_DevModeExponeCodigo(t *testing.T) {
	repo := newMemUserRepo()
	sender := &captureSender{}
	uc := auth.NewAuthUseCase(repo, sender, auth.JWTConfig{
		Secret: "test-secret", ExpMinutes: 60, Issuer: "fiado-sync-test",
	}, true)

	out, err := uc.RequestOTP(dto.RequestOTPRequest{Phone: "+212600000001"})
	require.NoError(t, err)
	assert.Equal(t, sender.code, out.Code)
}
