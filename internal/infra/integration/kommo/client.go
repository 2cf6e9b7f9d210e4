package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/config"
	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

const TagQualified = "lead_qualified"

var ErrNotConfigured = errors.New("kommo: api token not configured")

// Client creates leads and contacts in the Kommo CRM.
type Client struct {
	apiToken   string
	baseURL    string
	statusID   int
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.KommoConfig, logger *slog.Logger) *Client {
	return &Client{
		apiToken:   cfg.APIToken,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		statusID:   cfg.StatusID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// SyncQualifiedLead creates a pipeline lead for a conversation that just qualified.
func (c *Client) SyncQualifiedLead(ctx context.Context, contact entity.Contact, conv entity.Conversation) error {
	_, err := c.CreateLead(ctx, CreateLeadInput{
		Name:       fmt.Sprintf("%s - %s Leads/Monat", contact.FirstName, conv.MonthlyLeadsBucket),
		FirstName:  contact.FirstName,
		Phone:      contact.WhatsAppE164,
		Tags:       []string{TagQualified},
		ExternalID: conv.ID,
	})
	return err
}

func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if c.apiToken == "" {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("kommo: find or create contact: %w", err)
	}

	tags := make([]map[string]interface{}, 0, len(input.Tags))
	for _, tag := range input.Tags {
		tags = append(tags, map[string]interface{}{"name": tag})
	}

	leadData := []map[string]interface{}{
		{
			"name":      input.Name,
			"status_id": c.statusID,
			"_embedded": map[string]interface{}{
				"tags": tags,
				"contacts": []map[string]interface{}{
					{"id": contactID},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", leadData, &result); err != nil {
		return 0, fmt.Errorf("kommo: create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("kommo: lead not created")
	}

	leadID := result.Embedded.Leads[0].ID
	c.logger.Info("kommo lead created",
		slog.Int("lead_id", leadID),
		slog.String("conversation_id", input.ExternalID),
	)
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactID, err := c.findContactByPhone(ctx, input.Phone)
	if err == nil && contactID > 0 {
		return contactID, nil
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedIDs
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(phone), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("contact not found")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactData := []map[string]interface{}{
		{
			"name": input.FirstName,
			"custom_fields_values": []map[string]interface{}{
				{
					"field_code": "PHONE",
					"values": []map[string]interface{}{
						{"value": input.Phone, "enum_code": "MOB"},
					},
				},
			},
		},
	}

	var result embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", contactData, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("created contact has no id")
	}
	return result.Embedded.Contacts[0].ID, nil
}

// do sends the request and decodes a 200/201 body into out. A 204 leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return json.Unmarshal(respBody, out)
	case http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
