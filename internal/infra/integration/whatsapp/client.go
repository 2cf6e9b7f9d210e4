package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leadbot/internal/config"
)

var ErrNotConfigured = errors.New("whatsapp: access token or phone id not configured")

// Client talks to the WhatsApp Cloud API.
type Client struct {
	accessToken  string
	phoneID      string
	baseURL      string
	languageCode string
	httpClient   *http.Client
	logger       *slog.Logger
}

func NewClient(cfg config.WhatsAppConfig, logger *slog.Logger) *Client {
	return &Client{
		accessToken:  cfg.AccessToken,
		phoneID:      cfg.PhoneID,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		languageCode: cfg.LanguageCode,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// SendText sends a free-form message. The provider only accepts it inside the 24h session window.
func (c *Client) SendText(ctx context.Context, input SendTextInput) (string, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                normalizePhone(input.PhoneNumber),
		"type":              "text",
		"text": map[string]interface{}{
			"preview_url": false,
			"body":        input.Body,
		},
	}
	return c.send(ctx, payload, input.PhoneNumber)
}

// SendTemplate sends a pre-approved template with positional body parameters.
func (c *Client) SendTemplate(ctx context.Context, input SendTemplateInput) (string, error) {
	template := map[string]interface{}{
		"name": input.TemplateName,
		"language": map[string]string{
			"code": c.languageCode,
		},
	}
	if len(input.Parameters) > 0 {
		template["components"] = []map[string]interface{}{
			{
				"type":       "body",
				"parameters": convertParametersToAPI(input.Parameters),
			},
		}
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                normalizePhone(input.PhoneNumber),
		"type":              "template",
		"template":          template,
	}
	return c.send(ctx, payload, input.PhoneNumber)
}

// send posts the payload and returns the provider message id.
func (c *Client) send(ctx context.Context, payload map[string]interface{}, to string) (string, error) {
	if c.accessToken == "" || c.phoneID == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("whatsapp: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: send: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil && resp.StatusCode < 300 {
			return "", fmt.Errorf("whatsapp: decode response: %w", err)
		}
	}

	if result.Error != nil {
		return "", fmt.Errorf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("whatsapp: api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var messageID string
	if len(result.Messages) > 0 {
		messageID = result.Messages[0].ID
	}
	c.logger.Info("whatsapp message sent", slog.String("to", to), slog.String("message_id", messageID))
	return messageID, nil
}

// normalizePhone drops the leading plus; the Cloud API expects bare digits.
func normalizePhone(e164 string) string {
	return strings.TrimPrefix(strings.TrimSpace(e164), "+")
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
