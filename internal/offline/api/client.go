package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/fiado-sync/internal/application/dto"
)

// ── Puerto (interfaz) ──────────────────────────────────────────────────────────

// SyncTransport define el puerto de salida hacia el servidor de sincronización.
// La implementación concreta habla JSON sobre HTTP; para tests se inyecta un fake.
type SyncTransport interface {
	// PushChanges envía el lote ordenado de cambios y devuelve un resultado
	// por entrada, en el mismo orden.
	PushChanges(ctx context.Context, credential string, in dto.SyncPushRequest) (*dto.SyncPushResponse, error)
	// PullChanges pide los registros modificados después de since. Un since
	// cero equivale a "desde el principio".
	PullChanges(ctx context.Context, credential string, since time.Time) (*dto.SyncPullResponse, error)
}

// ── Implementación HTTP ────────────────────────────────────────────────────────

// Client implementa SyncTransport contra el API remoto.
// Usa net/http de la stdlib; no requiere librerías de terceros.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ SyncTransport = (*Client)(nil)

// NewClient construye el cliente con un timeout de transporte de 30 s. El
// sincronizador no impone deadlines propios: un request colgado falla por
// este timeout y se reporta como push/pull fallido.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// PushChanges envía el lote a POST /api/sync/push.
func (c *Client) PushChanges(ctx context.Context, credential string, in dto.SyncPushRequest) (*dto.SyncPushResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal push: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sync/push", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	var out dto.SyncPushResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PullChanges consulta GET /api/sync/pull?since=… (RFC 3339).
func (c *Client) PullChanges(ctx context.Context, credential string, since time.Time) (*dto.SyncPullResponse, error) {
	u := c.baseURL + "/api/sync/pull"
	if !since.IsZero() {
		u += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339Nano))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build pull request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	var out dto.SyncPullResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// La credencial vencida también cae aquí: el sincronizador lo trata
		// como fallo genérico, sin re-autenticación automática.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("servidor respondió %d en %s: %s", resp.StatusCode, req.URL.Path, string(snippet))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode respuesta %s: %w", req.URL.Path, err)
	}
	return nil
}
