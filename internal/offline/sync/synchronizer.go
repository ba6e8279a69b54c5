package sync

import (
	"sync/atomic"

	"github.com/jhoicas/fiado-sync/internal/offline/api"
	"github.com/jhoicas/fiado-sync/internal/offline/store"
	"github.com/jhoicas/fiado-sync/pkg/logger"
)

// State estado observable del orquestador.
type State int32

const (
	StateIdle State = iota
	StateSyncing
)

// String para logs y aserciones.
func (s State) String() string {
	if s == StateSyncing {
		return "syncing"
	}
	return "idle"
}

// Synchronizer reconcilia la libreta local con el servidor: drena la cola de
// cambios (push), trae los registros remotos modificados (pull) y orquesta la
// secuencia completa. Los fallos nunca escapan como errores: se resuelven a un
// booleano para que el caller pinte un indicador de estado sin romperse.
type Synchronizer struct {
	store     *store.Store
	transport api.SyncTransport
	log       *logger.Logger

	online  func() bool
	state   atomic.Int32 // State del full-sync
	pushing atomic.Bool  // guard propio del push
}

// NewSynchronizer construye el sincronizador. El probe de conectividad por
// defecto asume online; el agente inyecta el suyo con SetOnlineProbe.
func NewSynchronizer(st *store.Store, transport api.SyncTransport, log *logger.Logger) *Synchronizer {
	return &Synchronizer{
		store:     st,
		transport: transport,
		log:       log,
		online:    func() bool { return true },
	}
}

// SetOnlineProbe reemplaza la detección de conectividad.
func (s *Synchronizer) SetOnlineProbe(fn func() bool) {
	s.online = fn
}

// State devuelve el estado actual del orquestador (idle o syncing).
func (s *Synchronizer) State() State {
	return State(s.state.Load())
}
