package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/teemow/trellomcp/internal/instrumentation"
	"github.com/teemow/trellomcp/internal/logging"
)

// DefaultBaseURL is the Trello REST API root.
const DefaultBaseURL = "https://api.trello.com/1"

// DefaultTimeout bounds a single request when the caller supplies no client.
const DefaultTimeout = 30 * time.Second

// Client talks to the Trello REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	apiToken   string
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for tests or a proxy.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMetrics records API operation metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger for request debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client authenticating with the given key and token.
func NewClient(apiKey, apiToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		apiKey:     apiKey,
		apiToken:   apiToken,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Invoke sends one request to path (relative to the API root) and decodes a
// 2xx JSON response into out. Params is a struct with `url` tags, or nil.
// Body, when non-nil, is sent as JSON. Out may be nil.
func (c *Client) Invoke(ctx context.Context, method, path string, params, body, out any) error {
	operation := strings.ToLower(method) + " " + instrumentation.NormalizeRoute(path)
	return c.invoke(ctx, operation, method, path, params, body, out)
}

func (c *Client) invoke(ctx context.Context, operation, method, path string, params, body, out any) (err error) {
	ctx, span := instrumentation.StartAPISpan(ctx, operation,
		instrumentation.NewSpanAttributeBuilder().WithHTTP(method, path).Build()...)
	start := time.Now()
	defer func() {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		span.End()
		c.metrics.RecordAPIOperation(ctx, instrumentation.ServiceTrello, operation, status, time.Since(start))
	}()

	reqURL, err := c.requestURL(path, params)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("trello request",
		logging.Operation(operation),
		slog.String("method", method),
		slog.String("url", logging.SanitizeURL(reqURL)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

// requestURL joins path to the API root and appends the encoded params and
// the authentication pair.
func (c *Client) requestURL(path string, params any) (string, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}

	values := url.Values{}
	if params != nil {
		values, err = query.Values(params)
		if err != nil {
			return "", fmt.Errorf("failed to encode query parameters: %w", err)
		}
	}
	values.Set("key", c.apiKey)
	values.Set("token", c.apiToken)

	u.RawQuery = values.Encode()
	return u.String(), nil
}

// BoardCards returns the open cards of a board.
func (c *Client) BoardCards(ctx context.Context, boardID string) ([]Card, error) {
	var cards []Card
	err := c.invoke(ctx, instrumentation.OperationListBoardCards, http.MethodGet,
		"/boards/"+url.PathEscape(boardID)+"/cards", nil, nil, &cards)
	return cards, err
}

// ListCards returns the cards of a list.
func (c *Client) ListCards(ctx context.Context, listID string) ([]Card, error) {
	var cards []Card
	err := c.invoke(ctx, instrumentation.OperationListListCards, http.MethodGet,
		"/lists/"+url.PathEscape(listID)+"/cards", nil, nil, &cards)
	return cards, err
}

// CreateCard creates a card and returns it as stored by Trello.
func (c *Client) CreateCard(ctx context.Context, card CardCreate) (*Card, error) {
	var created Card
	if err := c.invoke(ctx, instrumentation.OperationCreateCard, http.MethodPost,
		"/cards", nil, card, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCard submits the non-nil fields of update and returns the card.
func (c *Client) UpdateCard(ctx context.Context, cardID string, update CardUpdate) (*Card, error) {
	var updated Card
	if err := c.invoke(ctx, instrumentation.OperationUpdateCard, http.MethodPut,
		"/cards/"+url.PathEscape(cardID), nil, update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCard permanently deletes a card.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	return c.invoke(ctx, instrumentation.OperationDeleteCard, http.MethodDelete,
		"/cards/"+url.PathEscape(cardID), nil, nil, nil)
}

// MemberBoards returns the open boards of the token owner.
func (c *Client) MemberBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	params := memberBoardsQuery{Filter: "open", Fields: []string{"name", "url"}}
	err := c.invoke(ctx, instrumentation.OperationListBoards, http.MethodGet,
		"/members/me/boards", params, nil, &boards)
	return boards, err
}

// BoardLists returns the lists of a board. Filter is ListFilterOpen or
// ListFilterAll.
func (c *Client) BoardLists(ctx context.Context, boardID, filter string) ([]List, error) {
	var lists []List
	err := c.invoke(ctx, instrumentation.OperationListLists, http.MethodGet,
		"/boards/"+url.PathEscape(boardID)+"/lists", boardListsQuery{Filter: filter}, nil, &lists)
	return lists, err
}
