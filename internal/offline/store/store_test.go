package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fiado-sync/internal/domain/entity"
	"github.com/jhoicas/fiado-sync/internal/offline/store"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testCustomer(localID, name string) *entity.Customer {
	now := time.Now().UTC()
	return &entity.Customer{
		LocalID:   localID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testDebt(localID, customerLocalID string, amount string) *entity.Debt {
	now := time.Now().UTC()
	return &entity.Debt{
		LocalID:         localID,
		CustomerLocalID: customerLocalID,
		Amount:          decimal.RequireFromString(amount),
		PaidAmount:      decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Toda escritura por la ruta normal encola su cambio en la misma transacción.
func TestSaveCustomer_EncolaElCambio(t *testing.T) {
	st := openTestStore(t)

	c := testCustomer("c-1", "Fátima")
	require.NoError(t, st.SaveCustomer(c, entity.ActionCreate))

	queue, err := st.Queue()
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, entity.ActionCreate, queue[0].Action)
	assert.Equal(t, entity.TableCustomers, queue[0].Table)
	assert.Equal(t, "c-1", queue[0].LocalID)

	payload, ok := queue[0].Payload.(entity.CustomerPayload)
	require.True(t, ok)
	assert.Equal(t, "Fátima", payload.Name)
}

// La ruta del pull no encola nada.
func TestApplyRemoteCustomer_NoEncola(t *testing.T) {
	st := openTestStore(t)

	c := testCustomer("c-1", "Karim")
	c.ServerID = "srv-1"
	c.Synced = true
	require.NoError(t, st.ApplyRemoteCustomer(c))

	queue, err := st.Queue()
	require.NoError(t, err)
	assert.Empty(t, queue)

	got, err := st.GetCustomerByServerID("srv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Karim", got.Name)
	assert.True(t, got.Synced)
}

// La cola se lee sin drenar y se limpia solo con ClearQueue.
func TestQueue_LecturaSinDrenar(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveCustomer(testCustomer("c-1", "Amina"), entity.ActionCreate))
	require.NoError(t, st.SaveCustomer(testCustomer("c-2", "Rachid"), entity.ActionCreate))

	first, err := st.Queue()
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := st.Queue()
	require.NoError(t, err)
	assert.Len(t, second, 2, "leer la cola no debe drenarla")

	require.NoError(t, st.ClearQueue())
	third, err := st.Queue()
	require.NoError(t, err)
	assert.Empty(t, third)
}

// Las entradas salen en orden FIFO de inserción.
func TestQueue_OrdenFIFO(t *testing.T) {
	st := openTestStore(t)

	c := testCustomer("c-1", "Said")
	require.NoError(t, st.SaveCustomer(c, entity.ActionCreate))
	c.Name = "Said Alaoui"
	c.UpdatedAt = c.UpdatedAt.Add(time.Second)
	require.NoError(t, st.SaveCustomer(c, entity.ActionUpdate))
	require.NoError(t, st.DeleteCustomer("c-1", time.Now().UTC()))

	queue, err := st.Queue()
	require.NoError(t, err)
	require.Len(t, queue, 3)
	assert.Equal(t, entity.ActionCreate, queue[0].Action)
	assert.Equal(t, entity.ActionUpdate, queue[1].Action)
	assert.Equal(t, entity.ActionDelete, queue[2].Action)
	assert.Nil(t, queue[2].Payload, "el delete viaja sin carga")
}

// El borrado es lógico: tombstone, nunca remoción física.
func TestDeleteCustomer_Tombstone(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveCustomer(testCustomer("c-1", "Hassan"), entity.ActionCreate))
	require.NoError(t, st.DeleteCustomer("c-1", time.Now().UTC()))

	list, err := st.ListCustomers()
	require.NoError(t, err)
	assert.Empty(t, list, "los listados excluyen tombstones")

	got, err := st.GetCustomer("c-1")
	require.NoError(t, err)
	require.NotNil(t, got, "el registro sigue existiendo")
	assert.True(t, got.Deleted())
}

// MarkSynced fija server id y flag sin tocar la cola.
func TestMarkCustomerSynced(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveCustomer(testCustomer("c-1", "Leila"), entity.ActionCreate))
	require.NoError(t, st.MarkCustomerSynced("c-1", "srv-9"))

	got, err := st.GetCustomer("c-1")
	require.NoError(t, err)
	assert.Equal(t, "srv-9", got.ServerID)
	assert.True(t, got.Synced)

	// Un mark posterior sin server id no borra el existente
	require.NoError(t, st.MarkCustomerSynced("c-1", ""))
	got, err = st.GetCustomer("c-1")
	require.NoError(t, err)
	assert.Equal(t, "srv-9", got.ServerID)
}

// Los montos sobreviven el round-trip con precisión decimal exacta.
func TestSaveDebt_PrecisionDecimal(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveCustomer(testCustomer("c-1", "Omar"), entity.ActionCreate))
	d := testDebt("d-1", "c-1", "123.45")
	d.PaidAmount = decimal.RequireFromString("0.05")
	require.NoError(t, st.SaveDebt(d, entity.ActionCreate))

	got, err := st.GetDebt("d-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("123.45")))
	assert.True(t, got.PaidAmount.Equal(decimal.RequireFromString("0.05")))
	assert.True(t, got.Remaining().Equal(decimal.RequireFromString("123.40")))
}

// Las deudas abiertas del cliente salen en orden FIFO por creación.
func TestListOpenDebtsByCustomer_OrdenFIFO(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.SaveCustomer(testCustomer("c-1", "Nadia"), entity.ActionCreate))

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"d-b", "d-a", "d-c"} {
		d := testDebt(id, "c-1", "10")
		d.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		d.UpdatedAt = d.CreatedAt
		require.NoError(t, st.SaveDebt(d, entity.ActionCreate))
	}
	// Una pagada y una borrada no aparecen
	paid := testDebt("d-paid", "c-1", "10")
	paid.IsPaid = true
	require.NoError(t, st.SaveDebt(paid, entity.ActionCreate))
	require.NoError(t, st.SaveDebt(testDebt("d-del", "c-1", "10"), entity.ActionCreate))
	require.NoError(t, st.DeleteDebt("d-del", time.Now().UTC()))

	open, err := st.ListOpenDebtsByCustomer("c-1")
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, "d-b", open[0].LocalID)
	assert.Equal(t, "d-a", open[1].LocalID)
	assert.Equal(t, "d-c", open[2].LocalID)
}

// La búsqueda ignora mayúsculas y diacríticos.
func TestSearchCustomers_IgnoraDiacriticos(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveCustomer(testCustomer("c-1", "García Pérez"), entity.ActionCreate))
	require.NoError(t, st.SaveCustomer(testCustomer("c-2", "Mohammed"), entity.ActionCreate))

	got, err := st.SearchCustomers("garcia")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "García Pérez", got[0].Name)

	got, err = st.SearchCustomers("PÉREZ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// La marca de agua persiste y arranca en cero.
func TestWatermark_Persistencia(t *testing.T) {
	st := openTestStore(t)

	w, err := st.Watermark()
	require.NoError(t, err)
	assert.True(t, w.IsZero(), "sin pulls previos la marca es cero")

	serverTime := time.Date(2024, 5, 2, 12, 30, 0, 0, time.UTC)
	require.NoError(t, st.SetWatermark(serverTime))

	w, err = st.Watermark()
	require.NoError(t, err)
	assert.True(t, w.Equal(serverTime))
}

// La sesión del dispositivo persiste usuario y credencial.
func TestSession_Persistencia(t *testing.T) {
	st := openTestStore(t)

	userID, token, err := st.Session()
	require.NoError(t, err)
	assert.Empty(t, userID)
	assert.Empty(t, token)

	require.NoError(t, st.SetSession("u-1", "tok-abc"))
	userID, token, err = st.Session()
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "tok-abc", token)
}

// Los contadores excluyen tombstones.
func TestCounts(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.SaveCustomer(testCustomer("c-1", "Ali"), entity.ActionCreate))
	require.NoError(t, st.SaveCustomer(testCustomer("c-2", "Sara"), entity.ActionCreate))
	require.NoError(t, st.DeleteCustomer("c-2", time.Now().UTC()))
	require.NoError(t, st.SaveDebt(testDebt("d-1", "c-1", "50"), entity.ActionCreate))

	nc, err := st.CountCustomers()
	require.NoError(t, err)
	assert.Equal(t, 1, nc)

	nd, err := st.CountDebts()
	require.NoError(t, err)
	assert.Equal(t, 1, nd)
}
