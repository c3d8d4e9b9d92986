// Package ticketing opens and closes homologation cases in the Zoho Desk
// gateway. Ticket creation logs in once, caches the session token and retries
// exactly once when the gateway answers 401.
package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/providers"
	"github.com/cavidescun/314q34wefasd/pkg/platform/circuit"
)

const (
	providerID        = "zoho-desk"
	defaultBaseURL    = "https://zoho.cunapp.pro/api"
	defaultWebhookURL = "https://flow.zoho.com/707796366/flow/webhook/incoming"
	defaultTokenTTL   = 2 * time.Hour
)

var errUnauthorized = errors.New("desk session rejected")

// CircuitObserver is told whenever the breaker opens or closes.
type CircuitObserver interface {
	SetCircuitOpen(name string, open bool)
}

type Client struct {
	baseURL    string
	webhookURL string
	webhookKey string
	username   string
	password   string
	tokenTTL   time.Duration

	httpClient *http.Client
	tokens     TokenCache
	breaker    *circuit.Breaker
	observer   CircuitObserver
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithTokenCache(cache TokenCache) Option {
	return func(cl *Client) {
		cl.tokens = cache
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) {
		cl.breaker = b
	}
}

func WithCircuitObserver(o CircuitObserver) Option {
	return func(cl *Client) {
		cl.observer = o
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func New(cfg config.Ticketing, opts ...Option) (*Client, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("ticketing username and password are required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(orDefault(cfg.BaseURL, defaultBaseURL), "/"),
		webhookURL: orDefault(cfg.WebhookURL, defaultWebhookURL),
		webhookKey: cfg.WebhookKey,
		username:   cfg.Username,
		password:   cfg.Password,
		tokenTTL:   cfg.TokenTTL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	if c.tokenTTL <= 0 {
		c.tokenTTL = defaultTokenTTL
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tokens == nil {
		c.tokens = NewMemoryTokenCache()
	}
	if c.breaker == nil {
		c.breaker = circuit.New(providerID)
	}
	return c, nil
}

type loginResponse struct {
	Token string `json:"token"`
}

type createResponse struct {
	Status bool `json:"status"`
	Code   int  `json:"code"`
	Ticket *struct {
		ID           string `json:"id"`
		TicketNumber string `json:"ticketNumber"`
	} `json:"ticket"`
}

// CreateTicket opens a desk ticket. A response without a ticket number is a
// failure.
func (c *Client) CreateTicket(ctx context.Context, req models.TicketRequest) (*models.Ticket, error) {
	if !c.breaker.Allow() {
		return nil, providers.NewProviderError(providers.ErrorProviderOutage, providerID, "circuit open", nil)
	}

	ticket, err := c.createWithRetry(ctx, req)
	c.record(err)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (c *Client) createWithRetry(ctx context.Context, req models.TicketRequest) (*models.Ticket, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	ticket, err := c.create(ctx, token, req)
	if !errors.Is(err, errUnauthorized) {
		return ticket, err
	}

	c.logger.InfoContext(ctx, "desk session expired, logging in again")
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.WarnContext(ctx, "failed to clear desk token", "error", err)
	}
	token, err = c.token(ctx)
	if err != nil {
		return nil, err
	}
	ticket, err = c.create(ctx, token, req)
	if errors.Is(err, errUnauthorized) {
		return nil, providers.NewProviderError(providers.ErrorAuthentication, providerID, "ticket creation unauthorized after re-login", err)
	}
	return ticket, err
}

func (c *Client) create(ctx context.Context, token string, req models.TicketRequest) (*models.Ticket, error) {
	body, contentType, err := ticketForm(req)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "build ticket form", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Desk/CreateTicket", body)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.FromTransport(providerID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, providers.FromStatus(providerID, resp.StatusCode, providers.Excerpt(resp.Body))
	}

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "decode ticket response", err)
	}
	if !out.Status || out.Code != http.StatusOK {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID,
			fmt.Sprintf("ticket rejected: status=%t code=%d", out.Status, out.Code), nil)
	}
	if out.Ticket == nil || out.Ticket.TicketNumber == "" {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "response has no ticket number", nil)
	}
	return &models.Ticket{Number: out.Ticket.TicketNumber}, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	if token, ok, err := c.tokens.Get(ctx); err != nil {
		c.logger.WarnContext(ctx, "desk token cache unavailable", "error", err)
	} else if ok {
		return token, nil
	}

	payload, err := json.Marshal(map[string]string{"username": c.username, "password": c.password})
	if err != nil {
		return "", providers.NewProviderError(providers.ErrorInternal, providerID, "encode login", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Login/Auth", bytes.NewReader(payload))
	if err != nil {
		return "", providers.NewProviderError(providers.ErrorInternal, providerID, "build login request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", providers.FromTransport(providerID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", providers.FromStatus(providerID, resp.StatusCode, providers.Excerpt(resp.Body))
	}
	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", providers.NewProviderError(providers.ErrorBadData, providerID, "decode login response", err)
	}
	if out.Token == "" {
		return "", providers.NewProviderError(providers.ErrorAuthentication, providerID, "login response has no token", nil)
	}
	if err := c.tokens.Set(ctx, out.Token, c.tokenTTL); err != nil {
		c.logger.WarnContext(ctx, "failed to cache desk token", "error", err)
	}
	return out.Token, nil
}

// CloseTicket posts the closure to the desk flow webhook.
func (c *Client) CloseTicket(ctx context.Context, ticketNumber, reason string) error {
	payload, err := json.Marshal(map[string]string{"ticketNumber": ticketNumber, "motivoCierre": reason})
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, providerID, "encode close request", err)
	}
	u, err := url.Parse(c.webhookURL)
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, providerID, "parse webhook url", err)
	}
	q := u.Query()
	q.Set("zapikey", c.webhookKey)
	q.Set("isdebug", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, providerID, "build close request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.FromTransport(providerID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return providers.FromStatus(providerID, resp.StatusCode, providers.Excerpt(resp.Body))
	}
	return nil
}

func (c *Client) record(err error) {
	if err == nil {
		if _, change := c.breaker.RecordSuccess(); change.Closed && c.observer != nil {
			c.observer.SetCircuitOpen(c.breaker.Name(), false)
		}
		return
	}
	if !providers.IsRetryable(err) {
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.Warn("ticketing circuit opened", "error", err)
		if c.observer != nil {
			c.observer.SetCircuitOpen(c.breaker.Name(), true)
		}
	}
}

func ticketForm(req models.TicketRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"nombres", req.FullName},
		{"telefono", req.Phone},
		{"numero_documento", req.NationalID.String()},
		{"correo_institucional", req.InstitutionalEmail},
		{"correo_personal", req.PersonalEmail},
		{"programa", req.Program},
		{"modalidad", req.Modality},
		{"periodo", req.Period},
		{"sede", req.City},
		{"asunto", req.Subject},
		{"solicitud", req.Request},
		{"categoria", req.Category},
		{"categoria_2", req.Category2},
		{"categoria_3", req.Category3},
		{"descripcion", req.Description},
		{"habeas_data", "FALSE"},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
