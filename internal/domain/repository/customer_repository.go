package repository

import (
	"time"

	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia autoritativa para Customer.
// GetByID usa el server id; GetByUserAndLocalID resuelve por el id generado en
// el dispositivo (clave de idempotencia del create).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByUserAndLocalID(userID, localID string) (*entity.Customer, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Customer, error)
	// ListUpdatedSince devuelve los clientes del usuario con updated_at o
	// deleted_at posterior a since (ventana del pull).
	ListUpdatedSince(userID string, since time.Time) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	SoftDelete(userID, localID string, at time.Time) error
}
