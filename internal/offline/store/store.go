package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/fiado-sync/internal/domain/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	local_id   TEXT PRIMARY KEY,
	server_id  TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	phone      TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	synced     INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	deleted_at TEXT
);

CREATE TABLE IF NOT EXISTS debts (
	local_id           TEXT PRIMARY KEY,
	server_id          TEXT NOT NULL DEFAULT '',
	customer_local_id  TEXT NOT NULL,
	customer_server_id TEXT NOT NULL DEFAULT '',
	amount             TEXT NOT NULL,
	paid_amount        TEXT NOT NULL DEFAULT '0',
	note               TEXT NOT NULL DEFAULT '',
	is_paid            INTEGER NOT NULL DEFAULT 0,
	paid_at            TEXT,
	paid_via           TEXT NOT NULL DEFAULT '',
	synced             INTEGER NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL,
	deleted_at         TEXT,
	FOREIGN KEY (customer_local_id) REFERENCES customers(local_id)
);

CREATE TABLE IF NOT EXISTS sync_queue (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	action    TEXT NOT NULL,
	tbl       TEXT NOT NULL,
	local_id  TEXT NOT NULL,
	payload   TEXT,
	ts        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_debts_customer ON debts(customer_local_id);
CREATE INDEX IF NOT EXISTS idx_customers_server ON customers(server_id);
CREATE INDEX IF NOT EXISTS idx_debts_server ON debts(server_id);
`

// Store es la libreta local del dispositivo: clientes, deudas, cola de cambios
// pendientes y metadatos de sesión, sobre un archivo SQLite. Toda mutación por
// la ruta normal de escritura encola su cambio en la misma transacción; las
// escrituras que vienen del pull usan las rutas ApplyRemote*, que no encolan.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) la base local y aplica pragmas y esquema. Idempotente.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de datos: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("abrir base local: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping base local: %w", err)
	}
	// SQLite admite un solo escritor: una conexión evita SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("aplicar pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("aplicar esquema local: %w", err)
	}
	return &Store{db: db}, nil
}

// Close cierra la base local.
func (s *Store) Close() error {
	return s.db.Close()
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// GetCustomer obtiene un cliente por local id. (nil, nil) si no existe.
func (s *Store) GetCustomer(localID string) (*entity.Customer, error) {
	row := s.db.QueryRow(`SELECT `+customerCols+` FROM customers WHERE local_id = ?`, localID)
	return scanCustomer(row)
}

// GetCustomerByServerID obtiene un cliente por server id. (nil, nil) si no existe.
func (s *Store) GetCustomerByServerID(serverID string) (*entity.Customer, error) {
	row := s.db.QueryRow(`SELECT `+customerCols+` FROM customers WHERE server_id = ?`, serverID)
	return scanCustomer(row)
}

// ListCustomers lista los clientes activos (sin tombstone), por nombre.
func (s *Store) ListCustomers() ([]*entity.Customer, error) {
	rows, err := s.db.Query(`SELECT ` + customerCols + ` FROM customers WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return scanCustomers(rows)
}

// SearchCustomers busca por nombre ignorando mayúsculas y diacríticos
// ("García" matchea "garcia"). La libreta de un comerciante es pequeña, así
// que el filtrado se hace en memoria sobre los activos.
func (s *Store) SearchCustomers(query string) ([]*entity.Customer, error) {
	all, err := s.ListCustomers()
	if err != nil {
		return nil, err
	}
	q := foldForSearch(query)
	var out []*entity.Customer
	for _, c := range all {
		if strings.Contains(foldForSearch(c.Name), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// CountCustomers cuenta los clientes activos.
func (s *Store) CountCustomers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM customers WHERE deleted_at IS NULL`).Scan(&n)
	return n, err
}

// SaveCustomer inserta o actualiza el cliente y encola el cambio en la misma
// transacción (invariante de acoplamiento escritura-cola).
func (s *Store) SaveCustomer(c *entity.Customer, action string) error {
	payload := entity.CustomerPayload{Name: c.Name, Phone: c.Phone, Notes: c.Notes}
	return s.inTx(func(tx *sql.Tx) error {
		if err := upsertCustomerTx(tx, c); err != nil {
			return err
		}
		return appendChangeTx(tx, action, entity.TableCustomers, c.LocalID, payload, c.UpdatedAt)
	})
}

// DeleteCustomer marca el tombstone y encola el delete.
func (s *Store) DeleteCustomer(localID string, at time.Time) error {
	return s.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`UPDATE customers SET deleted_at = ?, updated_at = ?, synced = 0 WHERE local_id = ? AND deleted_at IS NULL`,
			fmtTime(at), fmtTime(at), localID,
		)
		if err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return appendChangeTx(tx, entity.ActionDelete, entity.TableCustomers, localID, nil, at)
	})
}

// ApplyRemoteCustomer inserta o sobreescribe el cliente con la versión del
// servidor, sin encolar nada (ruta exclusiva del pull).
func (s *Store) ApplyRemoteCustomer(c *entity.Customer) error {
	return s.inTx(func(tx *sql.Tx) error {
		return upsertCustomerTx(tx, c)
	})
}

// MarkCustomerSynced fija el server id y el flag synced tras un push exitoso.
func (s *Store) MarkCustomerSynced(localID, serverID string) error {
	_, err := s.db.Exec(
		`UPDATE customers SET server_id = CASE WHEN ? != '' THEN ? ELSE server_id END, synced = 1 WHERE local_id = ?`,
		serverID, serverID, localID,
	)
	if err != nil {
		return fmt.Errorf("mark customer synced: %w", err)
	}
	return nil
}

// ── Deudas ────────────────────────────────────────────────────────────────────

// GetDebt obtiene una deuda por local id. (nil, nil) si no existe.
func (s *Store) GetDebt(localID string) (*entity.Debt, error) {
	row := s.db.QueryRow(`SELECT `+debtCols+` FROM debts WHERE local_id = ?`, localID)
	return scanDebt(row)
}

// GetDebtByServerID obtiene una deuda por server id. (nil, nil) si no existe.
func (s *Store) GetDebtByServerID(serverID string) (*entity.Debt, error) {
	row := s.db.QueryRow(`SELECT `+debtCols+` FROM debts WHERE server_id = ?`, serverID)
	return scanDebt(row)
}

// ListDebts lista las deudas activas, la más reciente primero.
func (s *Store) ListDebts() ([]*entity.Debt, error) {
	rows, err := s.db.Query(`SELECT ` + debtCols + ` FROM debts WHERE deleted_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return scanDebts(rows)
}

// ListOpenDebtsByCustomer devuelve las deudas abiertas del cliente en orden
// FIFO (más antigua primero, desempate por local id).
func (s *Store) ListOpenDebtsByCustomer(customerLocalID string) ([]*entity.Debt, error) {
	rows, err := s.db.Query(
		`SELECT `+debtCols+` FROM debts
		 WHERE customer_local_id = ? AND is_paid = 0 AND deleted_at IS NULL
		 ORDER BY created_at, local_id`, customerLocalID)
	if err != nil {
		return nil, fmt.Errorf("list open debts: %w", err)
	}
	return scanDebts(rows)
}

// CountDebts cuenta las deudas activas.
func (s *Store) CountDebts() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM debts WHERE deleted_at IS NULL`).Scan(&n)
	return n, err
}

// SaveDebt inserta o actualiza la deuda y encola el cambio en la misma
// transacción. En create viaja la carga completa; en update solo los campos
// mutables.
func (s *Store) SaveDebt(d *entity.Debt, action string) error {
	payload := debtPayload(d, action)
	return s.inTx(func(tx *sql.Tx) error {
		if err := upsertDebtTx(tx, d); err != nil {
			return err
		}
		return appendChangeTx(tx, action, entity.TableDebts, d.LocalID, payload, d.UpdatedAt)
	})
}

// DeleteDebt marca el tombstone y encola el delete.
func (s *Store) DeleteDebt(localID string, at time.Time) error {
	return s.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`UPDATE debts SET deleted_at = ?, updated_at = ?, synced = 0 WHERE local_id = ? AND deleted_at IS NULL`,
			fmtTime(at), fmtTime(at), localID,
		)
		if err != nil {
			return fmt.Errorf("delete debt: %w", err)
		}
		return appendChangeTx(tx, entity.ActionDelete, entity.TableDebts, localID, nil, at)
	})
}

// ApplyRemoteDebt inserta o sobreescribe la deuda con la versión del servidor,
// sin encolar (ruta exclusiva del pull).
func (s *Store) ApplyRemoteDebt(d *entity.Debt) error {
	return s.inTx(func(tx *sql.Tx) error {
		return upsertDebtTx(tx, d)
	})
}

// MarkDebtSynced fija el server id y el flag synced tras un push exitoso.
func (s *Store) MarkDebtSynced(localID, serverID string) error {
	_, err := s.db.Exec(
		`UPDATE debts SET server_id = CASE WHEN ? != '' THEN ? ELSE server_id END, synced = 1 WHERE local_id = ?`,
		serverID, serverID, localID,
	)
	if err != nil {
		return fmt.Errorf("mark debt synced: %w", err)
	}
	return nil
}

// ── Cola de cambios ───────────────────────────────────────────────────────────

// Queue devuelve la cola completa en orden FIFO sin drenarla: el push necesita
// inspeccionarla y mandarla antes de decidir limpiar.
func (s *Store) Queue() ([]entity.Change, error) {
	rows, err := s.db.Query(`SELECT id, action, tbl, local_id, payload, ts FROM sync_queue ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	defer rows.Close()
	var out []entity.Change
	for rows.Next() {
		var ch entity.Change
		var payload sql.NullString
		var ts string
		if err := rows.Scan(&ch.ID, &ch.Action, &ch.Table, &ch.LocalID, &payload, &ts); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		if payload.Valid {
			p, err := entity.DecodePayload(ch.Table, []byte(payload.String))
			if err != nil {
				return nil, err
			}
			ch.Payload = p
		}
		t, err := parseTime(ts)
		if err != nil {
			return nil, err
		}
		ch.Timestamp = t
		out = append(out, ch)
	}
	return out, rows.Err()
}

// ClearQueue vacía la cola entera. Se llama incondicionalmente tras procesar
// un push: los conflicts no se reintentan, el siguiente pull restablece la
// verdad del servidor.
func (s *Store) ClearQueue() error {
	if _, err := s.db.Exec(`DELETE FROM sync_queue`); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

// ── Meta (watermark y sesión) ─────────────────────────────────────────────────

const (
	metaWatermark = "watermark"
	metaUserID    = "user_id"
	metaToken     = "token"
)

// Watermark devuelve la marca del último pull exitoso; cero si nunca hubo.
func (s *Store) Watermark() (time.Time, error) {
	v, err := s.getMeta(metaWatermark)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	return parseTime(v)
}

// SetWatermark avanza la marca de agua (siempre al reloj del servidor).
func (s *Store) SetWatermark(t time.Time) error {
	return s.setMeta(metaWatermark, fmtTime(t))
}

// Session devuelve el usuario y credencial guardados en el dispositivo.
func (s *Store) Session() (userID, token string, err error) {
	if userID, err = s.getMeta(metaUserID); err != nil {
		return "", "", err
	}
	if token, err = s.getMeta(metaToken); err != nil {
		return "", "", err
	}
	return userID, token, nil
}

// SetSession persiste el usuario y credencial tras verificar el OTP.
func (s *Store) SetSession(userID, token string) error {
	if err := s.setMeta(metaUserID, userID); err != nil {
		return err
	}
	return s.setMeta(metaToken, token)
}

func (s *Store) getMeta(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get meta %q: %w", key, err)
	}
	return v, nil
}

func (s *Store) setMeta(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set meta %q: %w", key, err)
	}
	return nil
}

// ── Internos ──────────────────────────────────────────────────────────────────

const customerCols = `local_id, server_id, name, phone, notes, synced, created_at, updated_at, deleted_at`

const debtCols = `local_id, server_id, customer_local_id, customer_server_id, amount, paid_amount,
	note, is_paid, paid_at, paid_via, synced, created_at, updated_at, deleted_at`

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx local: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func upsertCustomerTx(tx *sql.Tx, c *entity.Customer) error {
	_, err := tx.Exec(`
		INSERT INTO customers (local_id, server_id, name, phone, notes, synced, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (local_id) DO UPDATE SET
			server_id = excluded.server_id, name = excluded.name, phone = excluded.phone,
			notes = excluded.notes, synced = excluded.synced,
			updated_at = excluded.updated_at, deleted_at = excluded.deleted_at`,
		c.LocalID, c.ServerID, c.Name, c.Phone, c.Notes, boolInt(c.Synced),
		fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt), fmtTimePtr(c.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

func upsertDebtTx(tx *sql.Tx, d *entity.Debt) error {
	_, err := tx.Exec(`
		INSERT INTO debts (local_id, server_id, customer_local_id, customer_server_id, amount, paid_amount,
			note, is_paid, paid_at, paid_via, synced, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (local_id) DO UPDATE SET
			server_id = excluded.server_id, customer_server_id = excluded.customer_server_id,
			paid_amount = excluded.paid_amount, note = excluded.note, is_paid = excluded.is_paid,
			paid_at = excluded.paid_at, paid_via = excluded.paid_via, synced = excluded.synced,
			updated_at = excluded.updated_at, deleted_at = excluded.deleted_at`,
		d.LocalID, d.ServerID, d.CustomerLocalID, d.CustomerServerID,
		d.Amount.String(), d.PaidAmount.String(),
		d.Note, boolInt(d.IsPaid), fmtTimePtr(d.PaidAt), d.PaidVia, boolInt(d.Synced),
		fmtTime(d.CreatedAt), fmtTime(d.UpdatedAt), fmtTimePtr(d.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert debt: %w", err)
	}
	return nil
}

func appendChangeTx(tx *sql.Tx, action, table, localID string, payload entity.Payload, at time.Time) error {
	raw, err := entity.EncodePayload(payload)
	if err != nil {
		return err
	}
	var data any
	if raw != nil {
		data = string(raw)
	}
	_, err = tx.Exec(
		`INSERT INTO sync_queue (action, tbl, local_id, payload, ts) VALUES (?, ?, ?, ?, ?)`,
		action, table, localID, data, fmtTime(at),
	)
	if err != nil {
		return fmt.Errorf("append change: %w", err)
	}
	return nil
}

// debtPayload arma la carga de cola según la acción: create viaja completo,
// update solo los campos mutables.
func debtPayload(d *entity.Debt, action string) entity.Payload {
	if action == entity.ActionCreate {
		amount := d.Amount
		note := d.Note
		return entity.DebtPayload{
			CustomerLocalID: d.CustomerLocalID,
			Amount:          &amount,
			Note:            &note,
		}
	}
	paid := d.PaidAmount
	note := d.Note
	isPaid := d.IsPaid
	return entity.DebtPayload{
		PaidAmount: &paid,
		Note:       &note,
		IsPaid:     &isPaid,
		PaidVia:    d.PaidVia,
	}
}

func scanCustomer(row *sql.Row) (*entity.Customer, error) {
	var c entity.Customer
	var synced int
	var created, updated string
	var deleted sql.NullString
	err := row.Scan(&c.LocalID, &c.ServerID, &c.Name, &c.Phone, &c.Notes, &synced, &created, &updated, &deleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer local: %w", err)
	}
	return fillCustomer(&c, synced, created, updated, deleted)
}

func scanCustomers(rows *sql.Rows) ([]*entity.Customer, error) {
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		var synced int
		var created, updated string
		var deleted sql.NullString
		if err := rows.Scan(&c.LocalID, &c.ServerID, &c.Name, &c.Phone, &c.Notes, &synced, &created, &updated, &deleted); err != nil {
			return nil, fmt.Errorf("scan customer local: %w", err)
		}
		out, err := fillCustomer(&c, synced, created, updated, deleted)
		if err != nil {
			return nil, err
		}
		list = append(list, out)
	}
	return list, rows.Err()
}

func fillCustomer(c *entity.Customer, synced int, created, updated string, deleted sql.NullString) (*entity.Customer, error) {
	var err error
	c.Synced = synced != 0
	if c.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if deleted.Valid {
		t, err := parseTime(deleted.String)
		if err != nil {
			return nil, err
		}
		c.DeletedAt = &t
	}
	return c, nil
}

func scanDebt(row *sql.Row) (*entity.Debt, error) {
	var d entity.Debt
	var amount, paidAmount, created, updated string
	var paidAt, deleted sql.NullString
	var isPaid, synced int
	err := row.Scan(&d.LocalID, &d.ServerID, &d.CustomerLocalID, &d.CustomerServerID,
		&amount, &paidAmount, &d.Note, &isPaid, &paidAt, &d.PaidVia, &synced,
		&created, &updated, &deleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get debt local: %w", err)
	}
	return fillDebt(&d, amount, paidAmount, isPaid, synced, paidAt, created, updated, deleted)
}

func scanDebts(rows *sql.Rows) ([]*entity.Debt, error) {
	defer rows.Close()
	var list []*entity.Debt
	for rows.Next() {
		var d entity.Debt
		var amount, paidAmount, created, updated string
		var paidAt, deleted sql.NullString
		var isPaid, synced int
		if err := rows.Scan(&d.LocalID, &d.ServerID, &d.CustomerLocalID, &d.CustomerServerID,
			&amount, &paidAmount, &d.Note, &isPaid, &paidAt, &d.PaidVia, &synced,
			&created, &updated, &deleted); err != nil {
			return nil, fmt.Errorf("scan debt local: %w", err)
		}
		out, err := fillDebt(&d, amount, paidAmount, isPaid, synced, paidAt, created, updated, deleted)
		if err != nil {
			return nil, err
		}
		list = append(list, out)
	}
	return list, rows.Err()
}

func fillDebt(d *entity.Debt, amount, paidAmount string, isPaid, synced int, paidAt sql.NullString, created, updated string, deleted sql.NullString) (*entity.Debt, error) {
	var err error
	if d.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("amount inválido en base local: %w", err)
	}
	if d.PaidAmount, err = decimal.NewFromString(paidAmount); err != nil {
		return nil, fmt.Errorf("paid_amount inválido en base local: %w", err)
	}
	d.IsPaid = isPaid != 0
	d.Synced = synced != 0
	if paidAt.Valid {
		t, err := parseTime(paidAt.String)
		if err != nil {
			return nil, err
		}
		d.PaidAt = &t
	}
	if d.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	if deleted.Valid {
		t, err := parseTime(deleted.String)
		if err != nil {
			return nil, err
		}
		d.DeletedAt = &t
	}
	return d, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp inválido en base local: %w", err)
	}
	return t, nil
}

// foldForSearch normaliza para búsqueda: minúsculas y sin diacríticos.
func foldForSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
