package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DefaultBotConfig(), cfg.Bot)
	assert.Equal(t, time.Minute, cfg.Scheduler.TickInterval)
	assert.False(t, cfg.Scheduler.Autorun)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("BOT_SEND_WINDOW_START_HOUR", "8")
	t.Setenv("BOT_SEND_WINDOW_END_HOUR", "20")
	t.Setenv("SCHEDULER_AUTORUN", "true")
	t.Setenv("SCHEDULER_TICK_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Bot.SendWindowStartHour)
	assert.Equal(t, 20, cfg.Bot.SendWindowEndHour)
	assert.True(t, cfg.Scheduler.Autorun)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.TickInterval)
}

func TestValidate(t *testing.T) {
	valid := Config{Bot: DefaultBotConfig(), Scheduler: SchedulerConfig{TickInterval: time.Minute}}
	assert.NoError(t, valid.Validate())

	inverted := valid
	inverted.Bot.SendWindowStartHour = 22
	inverted.Bot.SendWindowEndHour = 6
	assert.Error(t, inverted.Validate())

	outOfRange := valid
	outOfRange.Bot.SendWindowEndHour = 24
	assert.Error(t, outOfRange.Validate())

	noTick := valid
	noTick.Scheduler.TickInterval = 0
	assert.Error(t, noTick.Validate())
}
