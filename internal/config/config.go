package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration, read from the environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	RabbitMQ  RabbitMQConfig
	Mail      MailConfig
	WhatsApp  WhatsAppConfig
	Kommo     KommoConfig
	Bot       BotConfig
	Scheduler SchedulerConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            int           `env:"PORT"                    env-default:"3000"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS"    env-default:"*"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig is optional; without a URL the contact registry and audit log stay in memory.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL"`
}

// RabbitMQConfig is optional; without a URL accepted sends are only returned to the caller.
type RabbitMQConfig struct {
	URL string `env:"RABBITMQ_URL"`
}

type MailConfig struct {
	Host       string `env:"MAIL_HOST"`
	Port       int    `env:"MAIL_PORT"        env-default:"587"`
	User       string `env:"MAIL_USER"`
	Password   string `env:"MAIL_PASS"`
	From       string `env:"MAIL_FROM"        env-default:"no-reply@liguemedicina.com"`
	HandoverTo string `env:"MAIL_HANDOVER_TO"`
}

type WhatsAppConfig struct {
	AccessToken  string `env:"WHATSAPP_ACCESS_TOKEN"`
	PhoneID      string `env:"WHATSAPP_PHONE_ID"`
	BaseURL      string `env:"WHATSAPP_BASE_URL"      env-default:"https://graph.facebook.com/v18.0"`
	LanguageCode string `env:"WHATSAPP_LANGUAGE_CODE" env-default:"de"`

	// AppSecret enables X-Hub-Signature-256 checks on the inbound webhook.
	AppSecret string `env:"WHATSAPP_APP_SECRET"`
}

type KommoConfig struct {
	APIToken string `env:"KOMMO_API_TOKEN"`
	BaseURL  string `env:"KOMMO_BASE_URL"  env-default:"https://liguemedicina.kommo.com/api/v4"`
	StatusID int    `env:"KOMMO_STATUS_ID" env-default:"96648371"`
}

// BotConfig holds the defaults for every optional parameter of the bot.
type BotConfig struct {
	// DefaultTimezone is stored on contacts registered without one.
	DefaultTimezone string `env:"BOT_DEFAULT_TIMEZONE" env-default:"Europe/Berlin"`

	// SendWindowStartHour and SendWindowEndHour bound the allowed send hours, both inclusive.
	SendWindowStartHour int `env:"BOT_SEND_WINDOW_START_HOUR" env-default:"7"`
	SendWindowEndHour   int `env:"BOT_SEND_WINDOW_END_HOUR"   env-default:"23"`

	// ReminderTime and ReminderLink fill the appointment reminder templates.
	ReminderTime string `env:"BOT_REMINDER_TIME" env-default:"10:00"`
	ReminderLink string `env:"BOT_REMINDER_LINK" env-default:"https://example.com/call"`
}

type SchedulerConfig struct {
	Autorun      bool          `env:"SCHEDULER_AUTORUN"       env-default:"false"`
	TickInterval time.Duration `env:"SCHEDULER_TICK_INTERVAL" env-default:"1m"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// DefaultBotConfig mirrors the env-default tags so tests and tools need no environment.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		DefaultTimezone:     "Europe/Berlin",
		SendWindowStartHour: 7,
		SendWindowEndHour:   23,
		ReminderTime:        "10:00",
		ReminderLink:        "https://example.com/call",
	}
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	b := c.Bot
	if b.SendWindowStartHour < 0 || b.SendWindowStartHour > 23 ||
		b.SendWindowEndHour < 0 || b.SendWindowEndHour > 23 {
		return fmt.Errorf("config: send window hours must be within 0-23")
	}
	if b.SendWindowStartHour > b.SendWindowEndHour {
		return fmt.Errorf("config: send window start %d is after end %d", b.SendWindowStartHour, b.SendWindowEndHour)
	}
	if c.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("config: scheduler tick interval must be positive")
	}
	return nil
}
