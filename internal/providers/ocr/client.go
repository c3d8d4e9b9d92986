// Package ocr validates identity documents against the Secura OCR reader.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/providers"
)

const (
	providerID        = "secura-ocr"
	defaultEndpoint   = "https://legantocc.cunapp.pro/api/Lector/LeerDocumento/"
	documentFieldName = "documento"
	defaultOCRTimeout = 30 * time.Second
	defaultUploadName = "documento.pdf"
)

type readerResponse struct {
	FullName       string `json:"nombresCompletos"`
	DocumentNumber string `json:"numeroDocumento"`
}

// Client calls the OCR reader. A transport failure or non-200 answer yields an
// "error" verdict together with a *providers.ProviderError.
type Client struct {
	endpoint   string
	email      string
	signer     *tokenSigner
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(cl *Client) {
		cl.now = now
	}
}

func New(cfg config.OCR, opts ...Option) (*Client, error) {
	signer, err := newTokenSigner(cfg.EncryptKey, cfg.EncryptVector)
	if err != nil {
		return nil, err
	}
	if cfg.Email == "" {
		return nil, fmt.Errorf("ocr email is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		email:      cfg.Email,
		signer:     signer,
		httpClient: &http.Client{Timeout: defaultOCRTimeout},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ValidateIdentityDocument(ctx context.Context, content []byte, filename string) (*models.IdentityValidation, error) {
	if filename == "" {
		filename = defaultUploadName
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(documentFieldName, filename)
	if err != nil {
		return failed("could not build request", providers.NewProviderError(providers.ErrorInternal, providerID, "build multipart", err))
	}
	if _, err := part.Write(content); err != nil {
		return failed("could not build request", providers.NewProviderError(providers.ErrorInternal, providerID, "write multipart", err))
	}
	if err := mw.Close(); err != nil {
		return failed("could not build request", providers.NewProviderError(providers.ErrorInternal, providerID, "close multipart", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return failed("could not build request", providers.NewProviderError(providers.ErrorInternal, providerID, "build request", err))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.signer.Token(c.email, c.now()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed("document validation failed", providers.FromTransport(providerID, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "ocr returned non-success status", "status", resp.StatusCode)
		return failed(fmt.Sprintf("document validation failed: %s", http.StatusText(resp.StatusCode)),
			providers.FromStatus(providerID, resp.StatusCode, providers.Excerpt(resp.Body)))
	}

	var out readerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failed("document validation failed", providers.NewProviderError(providers.ErrorBadData, providerID, "decode response", err))
	}
	if out.DocumentNumber == "" {
		return &models.IdentityValidation{
			Status:  models.IdentityInvalid,
			Message: "document is not valid or unreadable",
		}, nil
	}
	return &models.IdentityValidation{
		Status:     models.IdentityValid,
		Message:    "document is valid",
		FullName:   out.FullName,
		NationalID: out.DocumentNumber,
	}, nil
}

func failed(msg string, err *providers.ProviderError) (*models.IdentityValidation, error) {
	return &models.IdentityValidation{Status: models.IdentityError, Message: msg}, err
}
