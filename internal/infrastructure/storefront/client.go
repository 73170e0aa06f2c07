// Package storefront is the commerce backend client: GraphQL over HTTPS POST
// authenticated with the storefront access token header.
package storefront

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"fiber-storefront/internal/domain"
	"fiber-storefront/pkg/logger"
)

const (
	serviceName = "storefront"
	tokenHeader = "X-Shopify-Storefront-Access-Token"
)

type Config struct {
	StoreDomain string
	APIVersion  string
	Token       string
	Timeout     time.Duration
	// Endpoint overrides the URL derived from StoreDomain and APIVersion.
	Endpoint string
}

type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	ops        map[string]operation
}

// operation is a parsed GraphQL document ready to send.
type operation struct {
	name  string
	query string
}

func New(cfg Config) (*Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		if cfg.StoreDomain == "" {
			return nil, fmt.Errorf("storefront: store domain is required")
		}
		endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.StoreDomain, cfg.APIVersion)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		endpoint:   endpoint,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		ops:        make(map[string]operation),
	}
	for _, doc := range documents() {
		op, err := parseOperation(doc)
		if err != nil {
			return nil, err
		}
		c.ops[op.name] = op
	}
	return c, nil
}

func documents() []string {
	return []string{
		queryCart, mutationCartCreate, mutationCartLinesAdd, mutationCartLinesUpdate, mutationCartLinesRemove,
		queryProduct, queryCollection, queryRecommendations,
		mutationAccessTokenCreate, mutationAccessTokenDelete, mutationCustomerCreate, queryCustomer,
		mutationCustomerUpdate, mutationAddressCreate, mutationAddressUpdate, mutationAddressDelete,
		mutationDefaultAddressUpdate, mutationCustomerRecover, mutationCustomerReset,
	}
}

// parseOperation rejects malformed documents at construction time.
func parseOperation(doc string) (operation, error) {
	parsed, err := parser.ParseQuery(&ast.Source{Name: "storefront", Input: doc})
	if err != nil {
		return operation{}, fmt.Errorf("storefront: invalid document: %w", err)
	}
	if len(parsed.Operations) != 1 || parsed.Operations[0].Name == "" {
		return operation{}, fmt.Errorf("storefront: document must hold exactly one named operation")
	}
	return operation{name: parsed.Operations[0].Name, query: doc}, nil
}

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

// userError covers both userErrors and customerUserErrors.
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

// do sends the named operation and decodes its data into T.
func do[T any](ctx context.Context, c *Client, name string, vars map[string]interface{}) (T, error) {
	var zero T
	op, ok := c.ops[name]
	if !ok {
		return zero, fmt.Errorf("storefront: unknown operation %s", name)
	}

	start := time.Now()
	out, err := send[T](ctx, c, op, vars)
	logger.Upstream(ctx, serviceName, op.name, time.Since(start), err)
	if err != nil {
		return zero, err
	}
	return out, nil
}

func send[T any](ctx context.Context, c *Client, op operation, vars map[string]interface{}) (T, error) {
	var zero T

	body, err := json.Marshal(graphQLRequest{Query: op.query, OperationName: op.name, Variables: vars})
	if err != nil {
		return zero, fmt.Errorf("failed to marshal %s: %w", op.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%s request failed: %w", op.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read %s response: %w", op.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, &domain.UpstreamStatusError{Service: serviceName, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var envelope graphQLResponse[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return zero, fmt.Errorf("failed to decode %s response: %w", op.name, err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return zero, fmt.Errorf("%s: %s", op.name, strings.Join(msgs, "; "))
	}
	return envelope.Data, nil
}

// userErrorsToErr turns the first reported user error into a *domain.UserError.
func userErrorsToErr(errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return &domain.UserError{Field: first.Field, Code: first.Code, Message: first.Message}
}

// cartUserErrorsToErr detects the backend's "cart does not exist" report.
func cartUserErrorsToErr(errs []userError) error {
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e.Message), "does not exist") {
			return domain.ErrCartNotFound
		}
		for _, f := range e.Field {
			if f == "cartId" {
				return domain.ErrCartNotFound
			}
		}
	}
	return userErrorsToErr(errs)
}

var errEmptyCart = errors.New("storefront: mutation returned no cart")
