// Package airtable is the outbound REST client for the Airtable API:
// identity lookup, schema metadata, record creation and webhook
// lifecycle. Provider error bodies are logged, never returned to callers.
package airtable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// ErrProviderCall is returned for any non-2xx or transport failure from
// the provider.
var ErrProviderCall = errors.New("provider call failed")

// ErrTableNotFound is returned when a referenced table is absent.
var ErrTableNotFound = errors.New("table not found")

// SupportedFieldTypes is the allow-list of field types a form can map.
var SupportedFieldTypes = []string{
	"singleLineText", "multilineText", "singleSelect", "multipleSelects",
	"email", "url", "phoneNumber", "checkbox", "date", "multipleAttachments",
}

// Client calls the Airtable REST API on behalf of a user's access token.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(baseURL)
	}
}

// NewClient creates an Airtable API client.
func NewClient(logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/json"),
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetWhoAmI resolves the identity of the access token holder.
func (c *Client) GetWhoAmI(ctx context.Context, accessToken string) (*WhoAmI, error) {
	var identity WhoAmI
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&identity).
		Get("/meta/whoami")
	if err := c.checkResponse("whoami", resp, err); err != nil {
		return nil, err
	}
	return &identity, nil
}

// ListBases returns the bases visible to the token.
func (c *Client) ListBases(ctx context.Context, accessToken string) ([]Base, error) {
	var result basesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&result).
		Get("/meta/bases")
	if err := c.checkResponse("list bases", resp, err); err != nil {
		return nil, err
	}
	return result.Bases, nil
}

// ListTables returns the tables of a base, including their fields.
func (c *Client) ListTables(ctx context.Context, accessToken, baseID string) ([]Table, error) {
	var result tablesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&result).
		Get(fmt.Sprintf("/meta/bases/%s/tables", baseID))
	if err := c.checkResponse("list tables", resp, err); err != nil {
		return nil, err
	}
	return result.Tables, nil
}

// ListFields returns the fields of one table, filtered to the supported
// field types. Each field carries {id, name, type, options}.
func (c *Client) ListFields(ctx context.Context, accessToken, baseID, tableID string) ([]Field, error) {
	tables, err := c.ListTables(ctx, accessToken, baseID)
	if err != nil {
		return nil, err
	}

	for _, table := range tables {
		if table.ID != tableID {
			continue
		}
		fields := make([]Field, 0, len(table.Fields))
		for _, field := range table.Fields {
			if isSupportedFieldType(field.Type) {
				fields = append(fields, field)
			}
		}
		return fields, nil
	}

	return nil, ErrTableNotFound
}

// CreateRecord writes one record and returns its id.
func (c *Client) CreateRecord(ctx context.Context, accessToken, baseID, tableID string, fields map[string]interface{}) (string, error) {
	var result createRecordResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(createRecordRequest{Fields: fields}).
		SetResult(&result).
		Post(fmt.Sprintf("/%s/%s", baseID, tableID))
	if err := c.checkResponse("create record", resp, err); err != nil {
		return "", err
	}
	return result.ID, nil
}

// CreateWebhook registers a record-change webhook scoped to one table.
func (c *Client) CreateWebhook(ctx context.Context, accessToken, baseID, tableID, notificationURL string) (*Webhook, error) {
	var webhook Webhook
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(createWebhookRequest{
			NotificationURL: notificationURL,
			Specification: webhookSpecification{
				Options: webhookOptions{
					Filters: webhookFilters{
						DataTypes:         []string{"tableData"},
						RecordChangeScope: tableID,
					},
				},
			},
		}).
		SetResult(&webhook).
		Post(fmt.Sprintf("/bases/%s/webhooks", baseID))
	if err := c.checkResponse("create webhook", resp, err); err != nil {
		return nil, err
	}
	return &webhook, nil
}

// DeleteWebhook removes a webhook registration.
func (c *Client) DeleteWebhook(ctx context.Context, accessToken, baseID, webhookID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Delete(fmt.Sprintf("/bases/%s/webhooks/%s", baseID, webhookID))
	return c.checkResponse("delete webhook", resp, err)
}

func (c *Client) checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Error("airtable request failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, ErrProviderCall)
	}
	if resp.IsError() {
		c.logger.Error("airtable returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return fmt.Errorf("%s: status %d: %w", op, resp.StatusCode(), ErrProviderCall)
	}
	return nil
}

func isSupportedFieldType(fieldType string) bool {
	for _, supported := range SupportedFieldTypes {
		if fieldType == supported {
			return true
		}
	}
	return false
}
