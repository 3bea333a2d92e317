// Package accountapi is the HTTP client for the hosted Regeve content API.
// It implements registration.AccountAPI: OTP request/verify plus the final
// create-account call.
package accountapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prasanthpraju/Regeve-sub001/internal/domain"
	"github.com/prasanthpraju/Regeve-sub001/internal/modules/registration"
)

// maxResponseSize caps API response bodies.
const maxResponseSize = 1 << 20 // 1MB

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (custom transport, deadline).
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(client *Client) {
		client.token = token
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		client.logger = logger
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ registration.AccountAPI = (*Client)(nil)

// RequestOTP asks the API to email a one-time code.
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, "/api/otp/request", body, nil)
}

// VerifyOTP checks a code against the email it was sent to.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "code": code}
	return c.post(ctx, "/api/otp/verify", body, nil)
}

// adminRecord mirrors the API's admin collection entry.
type adminRecord struct {
	ID            int64  `json:"id"`
	CompanyName   string `json:"Company_Name"`
	FullName      string `json:"Full_Name"`
	Email         string `json:"Email"`
	DateOfBirth   string `json:"DOB"`
	Gender        string `json:"Gender"`
	Occupation    string `json:"Occupation"`
	PhoneNumber   int64  `json:"Phone_Number"`
	IDCardNumber  string `json:"ID_Card_Number"`
	EmailVerify   bool   `json:"Email_Verify"`
	ApprovedAdmin bool   `json:"Approved_Admin"`
}

type createAccountResponse struct {
	Data adminRecord `json:"data"`
	JWT  string      `json:"jwt"`
}

// CreateAccount creates the admin record and returns the stored account
// plus the session token the API issues for it.
func (c *Client) CreateAccount(ctx context.Context, req registration.CreateAccountRequest) (*registration.CreateAccountResult, error) {
	var resp createAccountResponse
	envelope := map[string]registration.CreateAccountRequest{"data": req}
	if err := c.post(ctx, "/api/admins", envelope, &resp); err != nil {
		return nil, err
	}
	return &registration.CreateAccountResult{
		Token: resp.JWT,
		Account: domain.AdminAccount{
			ID:            resp.Data.ID,
			CompanyName:   resp.Data.CompanyName,
			FullName:      resp.Data.FullName,
			Email:         resp.Data.Email,
			DateOfBirth:   resp.Data.DateOfBirth,
			Gender:        resp.Data.Gender,
			Occupation:    resp.Data.Occupation,
			PhoneNumber:   resp.Data.PhoneNumber,
			IDCardNumber:  resp.Data.IDCardNumber,
			EmailVerify:   resp.Data.EmailVerify,
			ApprovedAdmin: resp.Data.ApprovedAdmin,
		},
	}, nil
}

// errorEnvelope is the API's error payload shape.
type errorEnvelope struct {
	Error struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
		Details struct {
			Errors []struct {
				Path    []string `json:"path"`
				Message string   `json:"message"`
			} `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

// post sends a JSON body and decodes a JSON response into out (when out is
// non-nil). A response with status >= 400 becomes a *registration.APIError;
// no response at all becomes a *registration.TransportError.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("account api unreachable",
			"path", path,
			"request_id", requestID,
			"error", err)
		return &registration.TransportError{Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return &registration.TransportError{Err: err}
	}

	c.logger.Debug("account api call",
		"path", path,
		"request_id", requestID,
		"status", httpResp.StatusCode,
		"duration", time.Since(start))

	if httpResp.StatusCode >= 400 {
		return decodeAPIError(httpResp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(status int, raw []byte) *registration.APIError {
	apiErr := &registration.APIError{Status: status}

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return apiErr
	}
	apiErr.Message = envelope.Error.Message
	for _, v := range envelope.Error.Details.Errors {
		if v.Message != "" {
			apiErr.Validation = append(apiErr.Validation, v.Message)
		}
	}
	return apiErr
}
