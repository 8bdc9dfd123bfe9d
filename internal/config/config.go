package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// Panel
	AppName       = "Thunder"
	AppVersion    = "1.0"
	TerminalWidth = 80 // Columns on the front-panel terminal

	// Storm tracking
	StormTimeout    = 30 * time.Minute // A storm is over after this long without a strike
	HistorySize     = 32               // Strike distances kept for the trend sparkline
	OutOfRangeKm    = 63               // AS3935 distance code for "out of range"
	MaxStrikeEnergy = 1<<21 - 1        // AS3935 energy register is 21 bits wide

	// Console
	RefreshInterval = time.Second // Report refresh period on the serial link
	DefaultBaudRate = 115200

	// Demo mode
	DemoInterval     = 2 * time.Second // Mock source event period
	DemoStrikeChance = 0.35            // Probability an emitted event is a strike

	// Preview
	TargetFPS = 10
)

// Build metadata printed in the banner. Overridden at link time, e.g.
//
//	go build -ldflags "-X thunder.klederson.com/internal/config.SerialNumber=TH-0042"
var (
	SensorModel  = "AS3935"
	SerialNumber = "unknown"
	AssemblyDate = "unknown"
	BuildTime    = "unknown"
)

// Layouts lists the accepted THUNDER_LAYOUT values.
var Layouts = []string{"full", "compact"}

// Config holds runtime settings, populated from environment variables.
// Command-line flags override individual fields after Load.
type Config struct {
	Port     string
	BaudRate int
	Layout   string
	Winter   bool

	StormTimeout    time.Duration
	RefreshInterval time.Duration

	LogLevel  string
	LogFormat string

	MetricsAddr     string
	ShutdownTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	baud, err := parseInt("THUNDER_BAUD", DefaultBaudRate)
	if err != nil {
		return nil, err
	}
	winter, err := parseBool("THUNDER_WINTER", false)
	if err != nil {
		return nil, err
	}
	stormTimeout, err := parseDuration("STORM_TIMEOUT", StormTimeout)
	if err != nil {
		return nil, err
	}
	refresh, err := parseDuration("REFRESH_INTERVAL", RefreshInterval)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            envOrDefault("THUNDER_PORT", "/dev/ttyUSB0"),
		BaudRate:        baud,
		Layout:          envOrDefault("THUNDER_LAYOUT", "full"),
		Winter:          winter,
		StormTimeout:    stormTimeout,
		RefreshInterval: refresh,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      envOrDefault("KAFKA_TOPIC", "lightning-events"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values. It is rerun after flags are applied.
func (c *Config) Validate() error {
	if c.BaudRate <= 0 {
		return errors.New("THUNDER_BAUD must be positive")
	}
	if !validLayout(c.Layout) {
		return fmt.Errorf("THUNDER_LAYOUT must be one of %s, got %q", strings.Join(Layouts, ", "), c.Layout)
	}
	if c.RefreshInterval <= 0 {
		return errors.New("REFRESH_INTERVAL must be positive")
	}
	if c.StormTimeout <= 0 {
		return errors.New("STORM_TIMEOUT must be positive")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// ParseBrokers splits a comma-separated broker list, dropping empty entries.
func ParseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func validLayout(name string) bool {
	for _, l := range Layouts {
		if l == name {
			return true
		}
	}
	return false
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
