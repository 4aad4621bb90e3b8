package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	platformstrings "certify/pkg/platform/strings"
)

// Config is loaded once at process start and passed down explicitly.
type Config struct {
	Server      Server
	Certificate Certificate
	Reference   Reference
	Mail        Mail
	Redis       RedisConfig
	Kafka       KafkaConfig
	DatabaseURL string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	RequestTimeout time.Duration
}

// Certificate holds the three deployment identifiers the issuance workflow needs.
type Certificate struct {
	TemplatePath  string
	OutputDir     string
	OperatorEmail string
	// WorkDir holds per-run working copies of the template.
	WorkDir       string
	// IssueLocation is the time zone used for the issue date printed on certificates.
	IssueLocation *time.Location
	// FontPath optionally points at a UTF-8 TrueType font. Without it names are
	// limited to the cp1252 repertoire of the core PDF fonts.
	FontPath      string
}

// Reference selects where the reviewer dataset is read from.
// CSVPath wins over Postgres when both are set.
type Reference struct {
	CSVPath     string
	PostgresDSN string
	Table       string
	CacheTTL    time.Duration
}

// Mail configures the SMTP transport. Host empty means messages are only logged.
type Mail struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	// SendTimeout bounds the notifications of one run. They run detached from
	// the caller's context so a cancelled request still gets its emails.
	SendTimeout time.Duration
}

// RedisConfig configures the optional reference snapshot cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional intake consumer.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	loc, err := time.LoadLocation(getEnv("CERT_ISSUE_TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return Config{}, fmt.Errorf("load issue timezone: %w", err)
	}

	cfg := Config{
		Server: Server{
			Addr:           getEnv("CERTIFY_ADDR", ":8080"),
			RequestTimeout: getDuration("CERTIFY_REQUEST_TIMEOUT", 60*time.Second),
		},
		Certificate: Certificate{
			TemplatePath:  os.Getenv("CERT_TEMPLATE_PATH"),
			OutputDir:     os.Getenv("CERT_OUTPUT_DIR"),
			OperatorEmail: os.Getenv("CERT_OPERATOR_EMAIL"),
			WorkDir:       getEnv("CERT_WORK_DIR", filepath.Join(os.TempDir(), "certify")),
			IssueLocation: loc,
			FontPath:      os.Getenv("CERT_FONT_PATH"),
		},
		Reference: Reference{
			CSVPath:     os.Getenv("REFERENCE_CSV_PATH"),
			PostgresDSN: os.Getenv("REFERENCE_DATABASE_URL"),
			Table:       getEnv("REFERENCE_TABLE", "reference_records"),
			CacheTTL:    getDuration("REFERENCE_CACHE_TTL", 10*time.Minute),
		},
		Mail: Mail{
			Host:        os.Getenv("SMTP_HOST"),
			Port:        getInt("SMTP_PORT", 587),
			Username:    os.Getenv("SMTP_USERNAME"),
			Password:    os.Getenv("SMTP_PASSWORD"),
			From:        getEnv("SMTP_FROM", "certificados@historiarevista.org"),
			SendTimeout: getDuration("SMTP_SEND_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: platformstrings.SplitList(os.Getenv("KAFKA_BROKERS"), ","),
			Topic:   getEnv("KAFKA_CLAIMS_TOPIC", "certificate-claims"),
			Group:   getEnv("KAFKA_CONSUMER_GROUP", "certify"),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the required deployment identifiers are present.
func (c Config) Validate() error {
	var errs []error
	if c.Certificate.TemplatePath == "" {
		errs = append(errs, errors.New("CERT_TEMPLATE_PATH is required"))
	}
	if c.Certificate.OutputDir == "" {
		errs = append(errs, errors.New("CERT_OUTPUT_DIR is required"))
	}
	if c.Certificate.OperatorEmail == "" {
		errs = append(errs, errors.New("CERT_OPERATOR_EMAIL is required"))
	}
	if c.Reference.CSVPath == "" && c.Reference.PostgresDSN == "" {
		errs = append(errs, errors.New("one of REFERENCE_CSV_PATH or REFERENCE_DATABASE_URL is required"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
