package chring

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/chring/digest"
)

// Supported position widths in bits.
const (
	PositionBits64  = 64
	PositionBits128 = 128
	PositionBits256 = 256
)

// SourceConfig configures the NATS JetStream KV destination source.
type SourceConfig struct {
	// Bucket is the KV bucket holding destination registrations.
	Bucket string `yaml:"bucket"`

	// KeyPrefix namespaces registrations inside the bucket ("<prefix>.<id>").
	KeyPrefix string `yaml:"keyPrefix"`

	// OperationTimeout bounds each KV request (list, put, delete).
	// Recommended: 10 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// ResyncInterval is the polling fallback period used while watching the bucket.
	// Shorter intervals converge faster when watch updates are lost but add KV load.
	// Recommended: 5 seconds.
	ResyncInterval time.Duration `yaml:"resyncInterval"`
}

// MetricsConfig configures Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace prefixes every metric name (e.g. "chring_ring_lookups_total").
	Namespace string `yaml:"namespace"`
}

// Config is the configuration for the Router.
//
// All duration fields accept standard Go duration strings like "5s", "1m".
type Config struct {
	// ReplicationCount is the number of virtual nodes placed for every destination.
	// Higher values smooth the key distribution at the cost of memory and slower
	// membership changes.
	// Default: 5.
	ReplicationCount int `yaml:"replicationCount"`

	// PositionBits is the width of ring coordinates: 64, 128 or 256.
	// The digest selected by Hash must produce at least PositionBits/8 bytes.
	// Default: 256.
	PositionBits int `yaml:"positionBits"`

	// RingSlotCount records the theoretical address-space size. It is reported
	// for introspection only and has no effect on placement.
	// Default: 2^32.
	RingSlotCount uint64 `yaml:"ringSlotCount"`

	// Hash names the digest used to derive positions: "sha256", "xxh3" or "xxhash64".
	// Default: "sha256".
	Hash string `yaml:"hash"`

	// Source configures the KV destination source used by Watch-based deployments.
	Source SourceConfig `yaml:"source"`

	// Metrics configures Prometheus instrumentation.
	Metrics MetricsConfig `yaml:"metrics"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		ReplicationCount: 5,
		PositionBits:     PositionBits256,
		RingSlotCount:    1 << 32,
		Hash:             digest.NameSHA256,
		Source: SourceConfig{
			Bucket:           "chring-destinations",
			KeyPrefix:        "destinations",
			OperationTimeout: 10 * time.Second,
			ResyncInterval:   5 * time.Second,
		},
		Metrics: MetricsConfig{
			Namespace: "chring",
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.ReplicationCount == 0 {
		cfg.ReplicationCount = defaults.ReplicationCount
	}
	if cfg.PositionBits == 0 {
		cfg.PositionBits = defaults.PositionBits
	}
	if cfg.RingSlotCount == 0 {
		cfg.RingSlotCount = defaults.RingSlotCount
	}
	if cfg.Hash == "" {
		cfg.Hash = defaults.Hash
	}
	if cfg.Source.Bucket == "" {
		cfg.Source.Bucket = defaults.Source.Bucket
	}
	if cfg.Source.KeyPrefix == "" {
		cfg.Source.KeyPrefix = defaults.Source.KeyPrefix
	}
	if cfg.Source.OperationTimeout == 0 {
		cfg.Source.OperationTimeout = defaults.Source.OperationTimeout
	}
	if cfg.Source.ResyncInterval == 0 {
		cfg.Source.ResyncInterval = defaults.Source.ResyncInterval
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = defaults.Metrics.Namespace
	}
}

// Validate checks configuration constraints.
//
// Hard Validation Rules:
//   - ReplicationCount >= 1
//   - PositionBits is 64, 128 or 256
//   - Hash names a known digest at least PositionBits/8 bytes wide
//   - Source timeouts are positive
//
// Returns:
//   - error: Wraps ErrInvalidConfig with the first violated rule, nil if valid
func (cfg *Config) Validate() error {
	if cfg.ReplicationCount < 1 {
		return fmt.Errorf("%w: ReplicationCount must be >= 1, got %d", ErrInvalidConfig, cfg.ReplicationCount)
	}

	switch cfg.PositionBits {
	case PositionBits64, PositionBits128, PositionBits256:
	default:
		return fmt.Errorf("%w: PositionBits must be 64, 128 or 256, got %d", ErrInvalidConfig, cfg.PositionBits)
	}

	hasher, err := digest.ByName(cfg.Hash)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if hasher.Size()*8 < cfg.PositionBits {
		return fmt.Errorf("%w: %s produces %d bits, PositionBits is %d",
			ErrInvalidConfig, hasher.Name(), hasher.Size()*8, cfg.PositionBits)
	}

	if cfg.Source.OperationTimeout <= 0 {
		return fmt.Errorf("%w: Source.OperationTimeout must be > 0, got %v", ErrInvalidConfig, cfg.Source.OperationTimeout)
	}
	if cfg.Source.ResyncInterval <= 0 {
		return fmt.Errorf("%w: Source.ResyncInterval must be > 0, got %v", ErrInvalidConfig, cfg.Source.ResyncInterval)
	}

	return nil
}

// ValidateWithWarnings logs warnings for legal but non-recommended values.
//
// This is called after Validate() in NewRouter() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.ReplicationCount > 1000 {
		logger.Warn(
			"ReplicationCount is very high, membership changes will be slow",
			"replicationCount", cfg.ReplicationCount,
			"recommended", "1000 or lower",
		)
	}

	if cfg.Source.ResyncInterval < time.Second {
		logger.Warn(
			"Source.ResyncInterval is very short, may cause excessive KV scans",
			"resyncInterval", cfg.Source.ResyncInterval,
			"recommended", "1s or higher",
		)
	}
}

// LoadConfig reads a YAML configuration file, applies defaults and validates it.
//
// Parameters:
//   - path: Path to a YAML file using the field names of Config's yaml tags
//
// Returns:
//   - Config: Loaded configuration
//   - error: I/O, parse or validation error
//
// Example:
//
//	cfg, err := chring.LoadConfig("/etc/chring/router.yaml")
//	router, err := chring.NewRouter(&cfg)
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes, applies defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TestConfig returns a configuration tuned for fast tests: 64-bit positions
// and a short resync interval.
//
// Example:
//
//	cfg := chring.TestConfig()
//	router, err := chring.NewRouter(&cfg, chring.WithLogger(chringtest.NewTestLogger(t)))
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.PositionBits = PositionBits64
	cfg.ReplicationCount = 3
	cfg.Source.OperationTimeout = 2 * time.Second
	cfg.Source.ResyncInterval = 100 * time.Millisecond

	return cfg
}
