package repository

import (
	"time"

	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

// Filtros de estado para listados de deudas.
const (
	DebtStatusAll    = "all"
	DebtStatusPaid   = "paid"
	DebtStatusUnpaid = "unpaid"
)

// DebtRepository define el puerto de persistencia autoritativa para Debt.
type DebtRepository interface {
	Create(debt *entity.Debt) error
	GetByID(id string) (*entity.Debt, error)
	GetByUserAndLocalID(userID, localID string) (*entity.Debt, error)
	ListByUser(userID, status string, limit, offset int) ([]*entity.Debt, error)
	ListOpenByCustomer(userID, customerID string) ([]*entity.Debt, error)
	ListUpdatedSince(userID string, since time.Time) ([]*entity.Debt, error)
	Update(debt *entity.Debt) error
	SoftDelete(userID, localID string, at time.Time) error
}
