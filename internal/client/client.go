// Package client provides an HTTP client for the Nivesh REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/investment"
	"nivesh/internal/logger"
	"nivesh/internal/models"
	"nivesh/internal/session"
)

// DefaultTimeout bounds every call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Credentials supplies the bearer token and is told when the backend
// rejects it. *session.Session satisfies it.
type Credentials interface {
	Token() string
	Logout()
}

// Client talks to the Nivesh API. Every call is bounded by the client's
// timeout; a deadline surfaces as TIMEOUT and network failures as
// TRANSPORT_ERROR. A 401 signs the session out and returns UNAUTHORIZED.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	creds      Credentials
}

// New creates a client for the API rooted at baseURL (for example
// "http://localhost:8000/api").
func New(baseURL string, httpClient *http.Client, timeout time.Duration, creds Credentials) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		creds:      creds,
	}
}

// Login exchanges credentials for a token. It implements
// session.Authenticator.
func (c *Client) Login(ctx context.Context, email, password string) (string, *session.User, error) {
	body := map[string]string{"email": email, "password": password}
	var result struct {
		Token string       `json:"token"`
		User  session.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, nil, &result); err != nil {
		return "", nil, err
	}
	return result.Token, &result.User, nil
}

// Me fetches the signed-in user.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var result struct {
		User session.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// ListClients fetches the client master list.
func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.do(ctx, http.MethodGet, "/clients/", nil, nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// ListAvenues fetches the investment avenues. It implements
// investment.AvenueSource.
func (c *Client) ListAvenues(ctx context.Context) ([]models.InvestmentAvenue, error) {
	var avenues []models.InvestmentAvenue
	if err := c.do(ctx, http.MethodGet, "/investment-avenues/", nil, nil, &avenues); err != nil {
		return nil, err
	}
	return avenues, nil
}

// InvestmentFilter narrows ListInvestments.
type InvestmentFilter struct {
	ClientCode     string
	InvestmentType models.InvestmentType
}

// ListInvestments fetches flat investment records.
func (c *Client) ListInvestments(ctx context.Context, f InvestmentFilter) ([]investment.Record, error) {
	q := url.Values{}
	if f.ClientCode != "" {
		q.Set("client_code", f.ClientCode)
	}
	if f.InvestmentType != "" {
		q.Set("investment_type", string(f.InvestmentType))
	}
	var records []investment.Record
	if err := c.do(ctx, http.MethodGet, "/investments/", nil, q, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetInvestment fetches one investment record.
func (c *Client) GetInvestment(ctx context.Context, id uint) (investment.Record, error) {
	var record investment.Record
	if err := c.do(ctx, http.MethodGet, "/investments/"+strconv.FormatUint(uint64(id), 10)+"/", nil, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// CreateInvestment posts a submission. Each call carries a fresh
// Idempotency-Key so a retried request cannot create a second record.
func (c *Client) CreateInvestment(ctx context.Context, sub *investment.Submission) (investment.Record, error) {
	var record investment.Record
	if err := c.doWithKey(ctx, http.MethodPost, "/investments/", sub, nil, &record, uuid.NewString()); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteInvestment removes an investment record.
func (c *Client) DeleteInvestment(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/investments/"+strconv.FormatUint(uint64(id), 10)+"/", nil, nil, nil)
}

// PortfolioSummary fetches the portfolio totals.
func (c *Client) PortfolioSummary(ctx context.Context) (*investment.Summary, error) {
	var s investment.Summary
	if err := c.do(ctx, http.MethodGet, "/portfolio/summary/", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpcomingMaturities fetches holdings maturing within days.
func (c *Client) UpcomingMaturities(ctx context.Context, days int) ([]investment.Maturity, error) {
	q := url.Values{"days": []string{strconv.Itoa(days)}}
	var result []investment.Maturity
	if err := c.do(ctx, http.MethodGet, "/dashboard/maturities/", nil, q, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	return c.doWithKey(ctx, method, path, body, query, out, "")
}

func (c *Client) doWithKey(ctx context.Context, method, path string, body any, query url.Values, out any, idempotencyKey string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Errorf("marshaling request: %w", err))
		}
		reader = bytes.NewReader(raw)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrTransport, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return apperrors.Wrap(apperrors.ErrTimeout, fmt.Errorf("%s %s: %w", method, path, err))
		}
		return apperrors.Wrap(apperrors.ErrTransport, fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		logger.Named("client").Warnw("Backend rejected credentials", "method", method, "path", path)
		if c.creds != nil {
			c.creds.Logout()
		}
		return decodeError(resp, apperrors.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, apperrors.ErrTransport)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return apperrors.Wrap(apperrors.ErrTimeout, err)
		}
		return apperrors.Wrap(apperrors.ErrTransport, fmt.Errorf("decoding %s response: %w", path, err))
	}
	return nil
}

// errorBody accepts both the API's {"error": {...}} shape and the plain
// {"detail": "...", "error": "..."} shape.
type errorBody struct {
	Error  json.RawMessage `json:"error"`
	Detail string          `json:"detail"`
}

type structuredError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// decodeError turns an error response into an AppError. Codes from the
// body are kept; otherwise fallback's code is used.
func decodeError(resp *http.Response, fallback *apperrors.AppError) error {
	out := &apperrors.AppError{
		Code:       fallback.Code,
		Message:    fmt.Sprintf("%s (HTTP %d)", fallback.Message, resp.StatusCode),
		StatusCode: resp.StatusCode,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		return out
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return out
	}

	var structured structuredError
	var plain string
	switch {
	case len(body.Error) > 0 && json.Unmarshal(body.Error, &structured) == nil && structured.Message != "":
		if structured.Code != "" && fallback != apperrors.ErrUnauthorized {
			out.Code = structured.Code
		}
		out.Message = structured.Message
		out.Fields = structured.Fields
	case body.Detail != "":
		out.Message = body.Detail
	case len(body.Error) > 0 && json.Unmarshal(body.Error, &plain) == nil && plain != "":
		out.Message = plain
	}
	return out
}
