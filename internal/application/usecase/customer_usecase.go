package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
	"github.com/jhoicas/fiado-sync/internal/domain"
	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD de clientes (lado servidor).
type CustomerUseCase struct {
	repo repository.CustomerRepository
	now  func() time.Time
}

// NewCustomerUseCase construye el caso de uso con el puerto de persistencia.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create crea un cliente. Si viene local_id y ya existe para el usuario,
// devuelve domain.ErrDuplicate (misma regla de idempotencia que el sync).
func (uc *CustomerUseCase) Create(userID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.LocalID != "" {
		existing, err := uc.repo.GetByUserAndLocalID(userID, in.LocalID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := uc.now()
	customer := &entity.Customer{
		LocalID:   in.LocalID,
		ServerID:  uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		Phone:     in.Phone,
		Notes:     in.Notes,
		Synced:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista los clientes activos del usuario con paginación.
func (uc *CustomerUseCase) List(userID string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update edita los campos presentes del cliente.
func (uc *CustomerUseCase) Update(userID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Deleted() || customer.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		customer.Name = *in.Name
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Notes != nil {
		customer.Notes = *in.Notes
	}
	customer.UpdatedAt = uc.now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete marca el tombstone del cliente (borrado lógico, nunca físico).
func (uc *CustomerUseCase) Delete(userID, id string) error {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil || customer.UserID != userID {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(userID, customer.LocalID, uc.now())
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:        c.ServerID,
		LocalID:   c.LocalID,
		Name:      c.Name,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
