// Package email sends the homologation confirmation through the ZeptoMail
// transactional API.
package email

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/providers"
	emailutil "github.com/cavidescun/314q34wefasd/pkg/email"
)

const (
	providerID      = "zeptomail"
	defaultAPIURL   = "https://api.zeptomail.com/v1.1/email"
	defaultFromAddr = "noreply@homologaciones.edu.co"
	defaultFromName = "Sistema de Homologaciones"
	subject         = "Confirmación de solicitud de homologación"
	notSpecified    = "No especificada"
)

//go:embed templates/*.html
var templateFS embed.FS

var confirmationTemplate = template.Must(template.ParseFS(templateFS, "templates/confirmation.html"))

type address struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type recipient struct {
	EmailAddress address `json:"email_address"`
}

type sendRequest struct {
	From     address     `json:"from"`
	To       []recipient `json:"to"`
	Subject  string      `json:"subject"`
	HTMLBody string      `json:"htmlbody"`
}

type Client struct {
	apiURL     string
	apiKey     string
	from       address
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func New(cfg config.Email, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("zeptomail api key is required")
	}
	c := &Client{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		from: address{
			Address: cfg.FromAddr,
			Name:    cfg.FromName,
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	if c.apiURL == "" {
		c.apiURL = defaultAPIURL
	}
	if c.from.Address == "" {
		c.from.Address = defaultFromAddr
	}
	if c.from.Name == "" {
		c.from.Name = defaultFromName
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendConfirmationEmail renders and sends the confirmation message.
func (c *Client) SendConfirmationEmail(ctx context.Context, msg models.ConfirmationEmail) error {
	if !emailutil.IsValid(msg.To) {
		return providers.NewProviderError(providers.ErrorBadData, providerID, "invalid recipient address", nil)
	}
	name := emailutil.DisplayName(msg.StudentName, msg.To)

	var html bytes.Buffer
	err := confirmationTemplate.Execute(&html, map[string]string{
		"Subject":     subject,
		"StudentName": name,
		"Institution": orNotSpecified(msg.Institution),
		"Program":     orNotSpecified(msg.Program),
		"SenderName":  c.from.Name,
	})
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, providerID, "render template", err)
	}

	payload, err := json.Marshal(sendRequest{
		From:     c.from,
		To:       []recipient{{EmailAddress: address{Address: msg.To, Name: name}}},
		Subject:  subject,
		HTMLBody: html.String(),
	})
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, providerID, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, providerID, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Zoho-enczapikey "+c.apiKey)

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

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}
