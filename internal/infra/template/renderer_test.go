package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leadbot/internal/entity"
)

func TestRenderSubstitutesVariables(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("lead_followup_24h_v1", map[string]string{"firstName": "Max"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Max, im Call zeige ich dir den Bot live. Soll ich dir einen Slot schicken?", out)

	out, err = r.Render("appointment_reminder_55m_v1", map[string]string{"link": "https://example.com/call"})
	require.NoError(t, err)
	assert.Contains(t, out, "https://example.com/call")
}

func TestRenderMissingVariableIsEmpty(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("appointment_reminder_22h_v1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Reminder zu deinem Termin morgen um . Wie viele Leads/Monat habt ihr aktuell?", out)
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render("does_not_exist", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrUnknownTemplate))
	assert.Contains(t, err.Error(), "does_not_exist")
}

func TestNamesListsAllTemplates(t *testing.T) {
	names := NewRenderer().Names()
	assert.Len(t, names, 7)
	assert.Contains(t, names, "lead_welcome_v1")
	assert.Contains(t, names, "appointment_reminder_5m_v1")
}

func TestParametersFollowPlaceholderOrder(t *testing.T) {
	r := NewRenderer()
	vars := map[string]string{"firstName": "Max", "time": "10:00", "link": "https://example.com/call"}

	assert.Equal(t, []string{"https://example.com/call"}, r.Parameters("appointment_reminder_55m_v1", vars))
	assert.Equal(t, []string{"Max"}, r.Parameters("lead_welcome_v1", vars))
	assert.Empty(t, r.Parameters("appointment_reminder_5m_v1", vars))
	assert.Nil(t, r.Parameters("does_not_exist", vars))
}
