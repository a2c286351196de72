package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	MediaBackendDisk = "disk"
	MediaBackendS3   = "s3"
)

// Config is the process configuration, read from the environment.
// main loads a .env file (if any) before calling Load.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	DataDir         string        `env:"DATA_DIR" envDefault:"data"`
	AcceptedOrigins []string      `env:"ACCEPTED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"180s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"180s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"180s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`

	Media   MediaConfig
	Resend  ResendConfig `envPrefix:"RESEND_"`
	Twilio  TwilioConfig `envPrefix:"TWILIO_"`
	Contact ContactConfig
}

type MediaConfig struct {
	Backend    string `env:"MEDIA_BACKEND" envDefault:"disk"`
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"uploads"`
	S3Bucket   string `env:"S3_BUCKET"`
	S3Prefix   string `env:"S3_PREFIX" envDefault:"uploads/"`
	S3Endpoint string `env:"S3_ENDPOINT"`
}

type ResendConfig struct {
	APIKey    string `env:"API_KEY"`
	FromEmail string `env:"FROM_EMAIL"`
	Endpoint  string `env:"ENDPOINT" envDefault:"https://api.resend.com/emails"`
}

// Enabled reports whether contact emails can be sent
func (c ResendConfig) Enabled() bool {
	return c.APIKey != "" && c.FromEmail != ""
}

type TwilioConfig struct {
	AccountSID string `env:"ACCOUNT_SID"`
	AuthToken  string `env:"AUTH_TOKEN"`
	From       string `env:"FROM"`
	To         string `env:"TO"`
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != "" && c.To != ""
}

type ContactConfig struct {
	Recipient string `env:"CONTACT_RECIPIENT"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Media.Backend {
	case MediaBackendDisk:
		if c.Media.UploadsDir == "" {
			return fmt.Errorf("UPLOADS_DIR cannot be empty")
		}
		if sameDir(c.Media.UploadsDir, c.DataDir) {
			// every file in UPLOADS_DIR is served publicly
			return fmt.Errorf("UPLOADS_DIR must differ from DATA_DIR")
		}
	case MediaBackendS3:
		if c.Media.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when MEDIA_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q", c.Media.Backend)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Address is the listen address; binding to 0.0.0.0 keeps hosting platforms' port checks happy
func (c Config) Address() string {
	return fmt.Sprintf("0.0.0.0:%s", c.Port)
}
