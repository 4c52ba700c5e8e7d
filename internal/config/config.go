package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/vtree-dev/vtree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vtree.json"

	// DefaultPort is the default transport server port.
	DefaultPort = 8080

	// DefaultHost is the default transport server host.
	DefaultHost = "0.0.0.0"

	// DefaultMaxBodyBytes is the default request body size limit for /diff.
	DefaultMaxBodyBytes = 1 << 20 // 1 MiB

	// DefaultMetricsNamespace is the default Prometheus metrics namespace.
	DefaultMetricsNamespace = "vtree"

	// DefaultLogLevel is the default structured logging level.
	DefaultLogLevel = "info"
)

// Config represents the complete vtree.json configuration.
type Config struct {
	// Name is the project name (for display and CLI banners only).
	Name string `json:"name,omitempty"`

	// Transport contains HTTP/WebSocket server configuration.
	Transport TransportConfig `json:"transport,omitempty"`

	// Snapshot contains document snapshot store configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Metrics contains Prometheus instrumentation configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// LogLevel is the structured logging level (debug, info, warn, error).
	LogLevel string `json:"logLevel,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// TransportConfig contains HTTP/WebSocket server settings.
type TransportConfig struct {
	// Port is the port the transport server listens on.
	Port int `json:"port,omitempty"`

	// Host is the host/interface to bind to.
	Host string `json:"host,omitempty"`

	// MaxBodyBytes caps the size of a /diff request body.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty"`
}

// SnapshotConfig contains document-snapshot store settings.
type SnapshotConfig struct {
	// Backend is "memory" or "s3".
	Backend string `json:"backend,omitempty"`

	// Bucket is the S3 bucket name (s3 backend only).
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the S3 key prefix under which snapshots are stored.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region to use for the S3 client.
	Region string `json:"region,omitempty"`
}

// MetricsConfig contains Prometheus instrumentation settings.
type MetricsConfig struct {
	// Enabled controls whether diff operations are instrumented.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the Prometheus metric namespace prefix.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	// Enabled is loaded and saved with the file but is not read by the serve
	// command: diff calls are always wrapped in spans on the global
	// OpenTelemetry tracer provider.
	Enabled bool `json:"enabled,omitempty"`

	// ServiceName identifies this service in exported spans.
	ServiceName string `json:"serviceName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Transport: TransportConfig{
			Port:         DefaultPort,
			Host:         DefaultHost,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Snapshot: SnapshotConfig{
			Backend: "memory",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultMetricsNamespace,
		},
		Tracing: TracingConfig{
			ServiceName: "vtree-transport",
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads configuration from the specified directory.
// It looks for vtree.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E080").
				WithDetail("No vtree.json found in " + filepath.Dir(path)).
				WithSuggestion("create vtree.json manually or pass config flags directly to the CLI")
		}
		return nil, errors.New("E001").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E001").
			WithDetail("Failed to parse vtree.json: " + err.Error()).
			WithSuggestion("Check that vtree.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E001").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E001").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Transport.Port == 0 {
		c.Transport.Port = DefaultPort
	}
	if c.Transport.Host == "" {
		c.Transport.Host = DefaultHost
	}
	if c.Transport.MaxBodyBytes == 0 {
		c.Transport.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = "memory"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "vtree-transport"
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Transport.Port < 0 || c.Transport.Port > 65535 {
		return errors.New("E003").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Snapshot.Backend != "memory" && c.Snapshot.Backend != "s3" {
		return errors.New("E004").
			WithDetail("snapshot.backend must be \"memory\" or \"s3\", got " + c.Snapshot.Backend)
	}
	if c.Snapshot.Backend == "s3" && (c.Snapshot.Bucket == "" || c.Snapshot.Region == "") {
		return errors.New("E004").
			WithDetail("snapshot.bucket and snapshot.region are required when backend is \"s3\"")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E005").
			WithDetail("logLevel must be one of debug, info, warn, error, got " + c.LogLevel)
	}
	return nil
}

// Address returns the listen address for the transport server.
func (c *Config) Address() string {
	return c.Transport.Host + ":" + itoa(c.Transport.Port)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vtree.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E080").
				WithDetail("No vtree.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
