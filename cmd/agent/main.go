package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fiado-sync/internal/offline/api"
	"github.com/jhoicas/fiado-sync/internal/offline/store"
	syncengine "github.com/jhoicas/fiado-sync/internal/offline/sync"
	"github.com/jhoicas/fiado-sync/pkg/config"
	"github.com/jhoicas/fiado-sync/pkg/logger"
)

// agent corre en el dispositivo del comerciante: mantiene la libreta local y
// la reconcilia con el servidor cuando hay conectividad.
type agent struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
	sync  *syncengine.Synchronizer
}

func newAgent() (*agent, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		File:  cfg.Sync.LogPath,
	})
	st, err := store.Open(cfg.Sync.DBPath)
	if err != nil {
		return nil, err
	}
	client := api.NewClient(cfg.Sync.ServerURL)
	sy := syncengine.NewSynchronizer(st, client, log)
	sy.SetOnlineProbe(healthProbe(cfg.Sync.ServerURL))
	return &agent{cfg: cfg, log: log, store: st, sync: sy}, nil
}

func (a *agent) Close() {
	_ = a.store.Close()
}

// credential devuelve el bearer token: SYNC_TOKEN si está definido, si no la
// sesión guardada en el dispositivo.
func (a *agent) credential() (string, error) {
	if a.cfg.Sync.Token != "" {
		return a.cfg.Sync.Token, nil
	}
	_, token, err := a.store.Session()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("sin credencial: define SYNC_TOKEN o inicia sesión")
	}
	return token, nil
}

// healthProbe consulta /health con timeout corto para detectar conectividad.
func healthProbe(baseURL string) func() bool {
	client := &http.Client{Timeout: 3 * time.Second}
	return func() bool {
		resp, err := client.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "fiado-agent",
		Short: "Agente de sincronización de la libreta de fiados",
		Long: `fiado-agent mantiene la libreta local del dispositivo (SQLite) y la
reconcilia con el servidor: empuja los cambios encolados y trae los
registros remotos modificados desde el último pull.`,
		SilenceUsage: true,
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Ejecuta un full-sync (push y luego pull) una sola vez",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAgent()
			if err != nil {
				return err
			}
			defer a.Close()
			cred, err := a.credential()
			if err != nil {
				return err
			}
			if ok := a.sync.FullSync(cmd.Context(), cred); !ok {
				return fmt.Errorf("sync fallido (¿sin conexión?); los cambios locales quedan encolados")
			}
			a.log.Info().Msg("sync completado")
			return nil
		},
	}

	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Sincroniza periódicamente mientras haya conectividad",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAgent()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			interval := a.cfg.Sync.Interval
			a.log.Info().Dur("interval", interval).Msg("daemon iniciado")

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			runOnce := func() {
				cred, err := a.credential()
				if err != nil {
					a.log.Warn().Err(err).Msg("sin credencial, ciclo saltado")
					return
				}
				if ok := a.sync.FullSync(ctx, cred); !ok {
					a.log.Warn().Msg("ciclo de sync fallido, se reintenta en el próximo tick")
				}
			}

			runOnce()
			for {
				select {
				case <-ctx.Done():
					a.log.Info().Msg("daemon detenido")
					return nil
				case <-ticker.C:
					runOnce()
				}
			}
		},
	}

	rootCmd.AddCommand(syncCmd, daemonCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
