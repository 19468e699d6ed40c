package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Log          LogConfig          `yaml:"log"`
	Payment      PaymentConfig      `yaml:"payment"`
	Push         PushConfig         `yaml:"push"`
	Email        EmailConfig        `yaml:"email"`
	Notification NotificationConfig `yaml:"notification"`
	Auth         AuthConfig         `yaml:"auth"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	User             string        `yaml:"user"`
	Password         string        `yaml:"password"`
	Name             string        `yaml:"name"`
	MaxOpenConns     int           `yaml:"maxOpenConns"`
	MaxIdleConns     int           `yaml:"maxIdleConns"`
	ConnMaxLifetime  time.Duration `yaml:"connMaxLifetime"`
	// MaxRetryAttempts bounds attempts of a transaction that hit a deadlock.
	MaxRetryAttempts int           `yaml:"maxRetryAttempts"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}

type PaymentConfig struct {
	StripeSecretKey string `yaml:"stripeSecretKey"`
	DefaultCurrency string `yaml:"defaultCurrency"`
}

type PushConfig struct {
	Endpoint    string `yaml:"endpoint"`
	AccessToken string `yaml:"accessToken"`
}

type EmailConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	From     string `yaml:"from"`
}

type NotificationConfig struct {
	// DispatchTimeout bounds how long a caller waits for the aggregate report.
	DispatchTimeout time.Duration `yaml:"dispatchTimeout"`
	// ChannelTimeout bounds each channel attempt, which keeps running after
	// the caller stops waiting.
	ChannelTimeout  time.Duration `yaml:"channelTimeout"`
	// BrandStatuses names the statuses announced to the brand instead of the
	// assigned rep.
	BrandStatuses   []string      `yaml:"brandStatuses"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "samplehub")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "samplehub")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("PAYMENT_DEFAULT_CURRENCY", "usd")
	viper.SetDefault("PUSH_ENDPOINT", "https://exp.host/--/api/v2/push/send")
	viper.SetDefault("PUSH_ACCESS_TOKEN", "")
	viper.SetDefault("EMAIL_ENDPOINT", "https://api.resend.com/emails")
	viper.SetDefault("EMAIL_API_KEY", "")
	viper.SetDefault("EMAIL_FROM", "notifications@samplehub.local")
	viper.SetDefault("NOTIFICATION_DISPATCH_TIMEOUT", "10s")
	viper.SetDefault("NOTIFICATION_CHANNEL_TIMEOUT", "30s")
	viper.SetDefault("NOTIFICATION_BRAND_STATUSES", "")
	viper.SetDefault("AUTH_JWT_SECRET", "")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	dispatchTimeout, err := time.ParseDuration(viper.GetString("NOTIFICATION_DISPATCH_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	channelTimeout, err := time.ParseDuration(viper.GetString("NOTIFICATION_CHANNEL_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:             viper.GetString("DB_HOST"),
			Port:             viper.GetInt("DB_PORT"),
			User:             viper.GetString("DB_USER"),
			Password:         viper.GetString("DB_PASSWORD"),
			Name:             viper.GetString("DB_NAME"),
			MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime:  connMaxLifetime,
			MaxRetryAttempts: viper.GetInt("DB_MAX_RETRY_ATTEMPTS"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Payment: PaymentConfig{
			StripeSecretKey: viper.GetString("STRIPE_SECRET_KEY"),
			DefaultCurrency: viper.GetString("PAYMENT_DEFAULT_CURRENCY"),
		},
		Push: PushConfig{
			Endpoint:    viper.GetString("PUSH_ENDPOINT"),
			AccessToken: viper.GetString("PUSH_ACCESS_TOKEN"),
		},
		Email: EmailConfig{
			Endpoint: viper.GetString("EMAIL_ENDPOINT"),
			APIKey:   viper.GetString("EMAIL_API_KEY"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Notification: NotificationConfig{
			DispatchTimeout: dispatchTimeout,
			ChannelTimeout:  channelTimeout,
			BrandStatuses:   splitList(viper.GetString("NOTIFICATION_BRAND_STATUSES")),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("AUTH_JWT_SECRET"),
		},
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
