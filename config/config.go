// Package config loads the service configuration from YAML with environment
// variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// SMS configuration for the outbound SMS provider. When nil or missing
	// credentials, dispatch is simulated and logged.
	SMS *SMSConfig `json:"sms" yaml:"sms"`

	// Vision configuration for medication label scanning.
	Vision *VisionConfig `json:"vision" yaml:"vision"`

	// Firebase configuration for push notifications.
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// PubSub configuration for adherence event publishing.
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Cron configuration for the scheduler-invoked check endpoints.
	Cron *CronConfig `json:"cron" yaml:"cron"`

	// Sync configuration for the device agent.
	Sync *SyncConfig `json:"sync" yaml:"sync"`

	// Billing configuration for subscription tiers and SMS allowances.
	Billing *BillingConfig `json:"billing" yaml:"billing"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig holds the primary database connection settings.
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     string `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	DBName   string `json:"dbName" yaml:"dbName"`
	SSLMode  string `json:"sslMode" yaml:"sslMode"`

	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// AuthConfig defines authentication-related configuration.
type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`
}

// SMSConfig defines the outbound SMS provider settings.
type SMSConfig struct {
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	AccountSID string `json:"accountSid" yaml:"accountSid"`
	AuthToken  string `json:"authToken" yaml:"authToken"`
	FromNumber string `json:"fromNumber" yaml:"fromNumber"`
}

// Configured reports whether a real provider is usable.
func (c *SMSConfig) Configured() bool {
	return c != nil && c.Endpoint != "" && c.AccountSID != "" && c.AuthToken != ""
}

// VisionConfig defines the vision/completion model used for label scanning.
type VisionConfig struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	APIKey   string `json:"apiKey" yaml:"apiKey"`
	Model    string `json:"model" yaml:"model"`
}

// FirebaseConfig defines Firebase configuration for push notifications.
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing.
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub.
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider).
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider).
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider).
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// CronConfig defines the scheduler-invoked check endpoints.
type CronConfig struct {
	// SharedSecret authenticates the external scheduler via a bearer header.
	SharedSecret string `json:"sharedSecret" yaml:"sharedSecret"`

	// MissedDoseGrace is how long after a scheduled time a dose may stay
	// unlogged before the missed-dose check alerts. A medication's own
	// alertDelayMinutes overrides this when set.
	MissedDoseGrace time.Duration `json:"missedDoseGrace" yaml:"missedDoseGrace"`

	// ReminderLead is how far ahead the reminder check looks for upcoming
	// scheduled times.
	ReminderLead time.Duration `json:"reminderLead" yaml:"reminderLead"`
}

// SyncConfig defines the device agent settings.
type SyncConfig struct {
	ServerURL      string        `json:"serverUrl" yaml:"serverUrl"`
	Email          string        `json:"email" yaml:"email"`
	Password       string        `json:"password" yaml:"password"`
	DataDir        string        `json:"dataDir" yaml:"dataDir"`
	Interval       time.Duration `json:"interval" yaml:"interval"`
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
}

// BillingConfig defines per-tier monthly SMS allowances.
type BillingConfig struct {
	FreeSMSAllowance    int `json:"freeSmsAllowance" yaml:"freeSmsAllowance"`
	FamilySMSAllowance  int `json:"familySmsAllowance" yaml:"familySmsAllowance"`
	PremiumSMSAllowance int `json:"premiumSmsAllowance" yaml:"premiumSmsAllowance"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads the service configuration for fx.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Cron == nil {
		cfg.Cron = &CronConfig{}
	}
	if cfg.Cron.MissedDoseGrace <= 0 {
		cfg.Cron.MissedDoseGrace = 30 * time.Minute
	}
	if cfg.Cron.ReminderLead <= 0 {
		cfg.Cron.ReminderLead = 15 * time.Minute
	}

	if cfg.Billing == nil {
		cfg.Billing = &BillingConfig{}
	}
	if cfg.Billing.FreeSMSAllowance <= 0 {
		cfg.Billing.FreeSMSAllowance = 10
	}
	if cfg.Billing.FamilySMSAllowance <= 0 {
		cfg.Billing.FamilySMSAllowance = 100
	}
	if cfg.Billing.PremiumSMSAllowance <= 0 {
		cfg.Billing.PremiumSMSAllowance = 500
	}

	if cfg.Sync != nil {
		if cfg.Sync.Interval <= 0 {
			cfg.Sync.Interval = 5 * time.Minute
		}
		if cfg.Sync.RequestTimeout <= 0 {
			cfg.Sync.RequestTimeout = 15 * time.Second
		}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
