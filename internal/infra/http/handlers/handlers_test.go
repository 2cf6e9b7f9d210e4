package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leadbot/internal/config"
	"github.com/xavierca1/ligue-leadbot/internal/entity"
	"github.com/xavierca1/ligue-leadbot/internal/infra/logger"
	"github.com/xavierca1/ligue-leadbot/internal/infra/memory"
	"github.com/xavierca1/ligue-leadbot/internal/infra/template"
	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

var clockBase = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type testServer struct {
	bot     *usecase.BotService
	handler http.Handler
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()

	bot := usecase.NewBotService(
		memory.NewContactStore(),
		memory.NewConversationStore(),
		memory.NewTaskQueue(),
		memory.NewAuditLog(),
		template.NewRenderer(),
		config.DefaultBotConfig(),
		logger.Discard(),
	)
	bot.Now = func() time.Time { return clockBase }

	if limiter == nil {
		limiter = NewRateLimiter(100, time.Minute)
	}
	log := logger.Discard()
	h := NewHandlers(bot, NewHealthHandler(nil, nil, bot), limiter, log)

	return &testServer{
		bot:     bot,
		handler: NewRouter(RouterConfig{AllowedOrigins: []string{"*"}, Logger: log}, h),
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func (s *testServer) register(t *testing.T, contactID string) {
	t.Helper()
	rec, _ := s.do(t, http.MethodPost, "/contacts", map[string]string{
		"contactId":    contactID,
		"whatsappE164": "+4915112345678",
		"firstName":    "Max",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func inbound(id, conversationID, contactID, content string) map[string]string {
	return map[string]string{
		"providerMessageId": id,
		"conversationId":    conversationID,
		"contactId":         contactID,
		"content":           content,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	deps := body["dependencies"].(map[string]interface{})
	assert.Equal(t, "in-memory", deps["database"])
	assert.Equal(t, "not configured", deps["rabbitmq"])
}

func TestRegisterContact(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/contacts", map[string]string{
		"contactId":    "u1",
		"whatsappE164": "+4915112345678",
		"firstName":    "Max",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	contact := body["contact"].(map[string]interface{})
	assert.Equal(t, "u1", contact["contactId"])
	assert.Equal(t, "Europe/Berlin", contact["timezone"])
	assert.Equal(t, true, contact["consentGranted"])
}

func TestRegisterContactValidation(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/contacts", map[string]string{
		"contactId":    "u1",
		"whatsappE164": "015112345678",
		"firstName":    "Max",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "whatsappE164")
}

func TestEmptyBodyIsTreatedAsEmptyObject(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/contacts", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEqual(t, msgInvalidJSON, body["error"])
	assert.Contains(t, body["error"], "contactId")
}

func TestMalformedJSON(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/contacts", "/contacts/revoke-consent", "/webhooks/whatsapp/inbound", "/messages/send"} {
		rec, body := s.do(t, http.MethodPost, path, "{not json")

		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, msgInvalidJSON, body["error"], path)
	}
}

func TestRegisterContactRateLimited(t *testing.T) {
	s := newTestServer(t, NewRateLimiter(1, time.Minute))
	s.register(t, "u1")

	rec, body := s.do(t, http.MethodPost, "/contacts", map[string]string{
		"contactId":    "u2",
		"whatsappE164": "+4915112345679",
		"firstName":    "Erika",
	})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, body["error"])
}

func TestRevokeConsent(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "u1")

	rec, body := s.do(t, http.MethodPost, "/contacts/revoke-consent", map[string]string{"contactId": "u1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])

	rec, body = s.do(t, http.MethodPost, "/contacts/revoke-consent", map[string]string{"contactId": "ghost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown contact ghost", body["error"])
}

func TestInboundFlowAndDuplicate(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "u1")

	rec, body := s.do(t, http.MethodPost, "/webhooks/whatsapp/inbound", inbound("m1", "c1", "u1", "Hallo"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"Top. Schaltest du aktuell Ads? (Ja/Nein)"}, body["outbound"])
	assert.Len(t, body["tasks"], 3)
	conv := body["conversation"].(map[string]interface{})
	assert.Equal(t, "awaiting_ads", conv["state"])

	rec, body = s.do(t, http.MethodPost, "/webhooks/whatsapp/inbound", inbound("m1", "c1", "u1", "Hallo"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["outbound"])
	assert.Equal(t, []interface{}{}, body["tasks"])
	assert.NotContains(t, body, "conversation")
}

func TestInboundUnknownContact(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/webhooks/whatsapp/inbound", inbound("m1", "c1", "ghost", "Hallo"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown contact ghost", body["error"])
}

func TestSendMessage(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "u1")
	s.do(t, http.MethodPost, "/webhooks/whatsapp/inbound", inbound("m1", "c1", "u1", "Hallo"))

	rec, body := s.do(t, http.MethodPost, "/messages/send", map[string]string{
		"conversationId": "c1",
		"contactId":      "u1",
		"content":        "Danke!",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	msg := body["message"].(map[string]interface{})
	assert.Equal(t, "session_text", msg["messageType"])
	assert.Equal(t, "Danke!", msg["content"])
}

func TestSendMessageOutsideWindowIsDenied(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "u1")

	rec, body := s.do(t, http.MethodPost, "/messages/send", map[string]string{
		"conversationId": "c9",
		"contactId":      "u1",
		"content":        "Hallo?",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecase.ReasonTemplateRequired24h, body["error"])
	assert.Equal(t, usecase.CodePolicyDenied, body["code"])
}

func TestSchedulerRun(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/scheduler/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["sent"])
	assert.Equal(t, []interface{}{}, body["results"])

	s.register(t, "u1")
	s.do(t, http.MethodPost, "/webhooks/whatsapp/inbound", inbound("m1", "c1", "u1", "Hallo"))
	s.bot.Now = func() time.Time { return clockBase.Add(31 * time.Minute) }

	rec, body = s.do(t, http.MethodPost, "/scheduler/run", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["sent"], 1)
	sent := body["sent"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "template", sent["messageType"])
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "sent", results[0].(map[string]interface{})["outcome"])
}

func TestAuditEvents(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "u1")

	rec, body := s.do(t, http.MethodGet, "/audit", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	events := body["events"].([]interface{})
	require.Len(t, events, 1)
	assert.Equal(t, string(entity.AuditConsentGranted), events[0].(map[string]interface{})["eventType"])
}

func TestUnknownRoutesAndMethods(t *testing.T) {
	s := newTestServer(t, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/messages/send"},
		{http.MethodPost, "/health"},
	} {
		rec, body := s.do(t, tc.method, tc.path, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.Equal(t, msgNotFound, body["error"], tc.path)
	}
}

type failingBot struct {
	LeadBot
}

func (failingBot) AuditEvents(context.Context) ([]entity.AuditEvent, error) {
	return nil, &usecase.TechnicalError{Code: usecase.CodeStore, Message: "list audit events: boom", Err: errors.New("boom")}
}

func TestTechnicalErrorsAreInternal(t *testing.T) {
	h := NewAuditHandler(failingBot{}, logger.Discard())
	rec := httptest.NewRecorder()

	h.List(rec, httptest.NewRequest(http.MethodGet, "/audit", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := clockBase
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))

	now = now.Add(5 * time.Minute)
	rl.evictIdle()
	assert.Empty(t, rl.visitors)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}
