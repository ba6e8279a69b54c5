package entity

import "time"

// Customer representa un cliente del comerciante en la libreta de fiados.
// LocalID es el identificador generado en el dispositivo, estable durante toda
// la vida del registro; ServerID se asigna en el primer sync exitoso.
type Customer struct {
	LocalID   string
	ServerID  string
	UserID    string
	Name      string
	Phone     string
	Notes     string
	Synced    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // tombstone: nunca se purga físicamente
}

// Deleted indica si el cliente tiene tombstone (borrado lógico).
func (c *Customer) Deleted() bool { return c.DeletedAt != nil }
