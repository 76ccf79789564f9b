package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/chainequity/captable-indexer/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // e.g. "5m", "1h"
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // e.g. "10m", "30m"
}

// NATSConfig holds NATS JetStream configuration.
// Publishing is disabled when URL is empty.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// EthereumConfig holds chain and token contract configuration
type EthereumConfig struct {
	WebSocketURL    string       `mapstructure:"websocket_url"`
	RPCURL          string       `mapstructure:"rpc_url"`
	ChainID         domain.Chain `mapstructure:"chain_id"`
	ContractAddress string       `mapstructure:"contract_address"`
	// StartBlock is the token deployment block; backfill starts here and
	// historical queries before it are rejected
	StartBlock       uint64 `mapstructure:"start_block"`
	ResumeFromCursor bool   `mapstructure:"resume_from_cursor"`

	MaxBlockRange        uint64        `mapstructure:"max_block_range"`
	ChunkPause           time.Duration `mapstructure:"chunk_pause"`
	FetchConcurrency     int           `mapstructure:"fetch_concurrency"`
	FetchRetryMaxElapsed time.Duration `mapstructure:"fetch_retry_max_elapsed"`
	RequestsPerSecond    float64       `mapstructure:"requests_per_second"`
	RequestBurst         int           `mapstructure:"request_burst"`

	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
	BlockCacheSize       int           `mapstructure:"block_cache_size"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// CORSAllowedOrigins is a list, or a comma separated env value; empty allows every origin
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// IngestConfig holds live ingestion settings
type IngestConfig struct {
	// BufferSize is the capacity of the channel between watchers and the ingestor
	BufferSize int `mapstructure:"buffer_size"`
	// CursorSaveFreq saves the live cursor every N blocks
	CursorSaveFreq uint64 `mapstructure:"cursor_save_freq"`
	// CursorSaveDelay saves the live cursor every N seconds
	CursorSaveDelay time.Duration `mapstructure:"cursor_save_delay"`
	// CursorLag keeps the live cursor N blocks behind the newest acked event
	CursorLag uint64 `mapstructure:"cursor_lag"`
}

// IndexerConfig holds configuration for the indexer
type IndexerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
	Ingest     IngestConfig   `mapstructure:"ingest"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
}

// CheckConfig holds configuration for the ledger-check program
type CheckConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Rebuild    bool           `mapstructure:"rebuild"`
	RetryMax   time.Duration  `mapstructure:"retry_max_elapsed"`
}

// LoadIndexerConfig loads configuration for the indexer
func LoadIndexerConfig(configFile string, envPath string) (*IndexerConfig, error) {
	v := configureViper("indexer", configFile, envPath)

	setDatabaseDefaults(v)
	setEthereumDefaults(v)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "CAPTABLE_EVENTS")
	v.SetDefault("nats.connection_name", "captable-indexer")
	v.SetDefault("ingest.buffer_size", 1024)
	v.SetDefault("ingest.cursor_save_freq", 100)
	v.SetDefault("ingest.cursor_save_delay", "30s")
	v.SetDefault("ingest.cursor_lag", 12)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg IndexerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	setDatabaseDefaults(v)
	setEthereumDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadCheckConfig loads configuration for ledger-check
func LoadCheckConfig(configFile string, envPath string) (*CheckConfig, error) {
	v := configureViper("ledger-check", configFile, envPath)

	setDatabaseDefaults(v)
	v.SetDefault("rebuild", false)
	v.SetDefault("retry_max_elapsed", "1m")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg CheckConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
}

func setEthereumDefaults(v *viper.Viper) {
	v.SetDefault("ethereum.chain_id", string(domain.ChainBaseSepolia))
	v.SetDefault("ethereum.max_block_range", domain.DEFAULT_MAX_BLOCK_RANGE)
	v.SetDefault("ethereum.chunk_pause", "200ms")
	v.SetDefault("ethereum.fetch_concurrency", 4)
	v.SetDefault("ethereum.fetch_retry_max_elapsed", "30s")
	v.SetDefault("ethereum.requests_per_second", 10)
	v.SetDefault("ethereum.request_burst", 5)
	v.SetDefault("ethereum.block_head_ttl", "5s")
	v.SetDefault("ethereum.block_head_stale_window", "1m")
	v.SetDefault("ethereum.block_cache_size", 4096)
}

// readConfig reads the config file, tolerating its absence so env vars alone suffice
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("CAPTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees env vars for keys viper already knows about
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Ethereum
		"ethereum.websocket_url",
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.contract_address",
		"ethereum.start_block",
		"ethereum.resume_from_cursor",
		"ethereum.max_block_range",
		"ethereum.chunk_pause",
		"ethereum.fetch_concurrency",
		"ethereum.fetch_retry_max_elapsed",
		"ethereum.requests_per_second",
		"ethereum.request_burst",
		"ethereum.block_head_ttl",
		"ethereum.block_head_stale_window",
		"ethereum.block_cache_size",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_allowed_origins",
		// Ingest
		"ingest.buffer_size",
		"ingest.cursor_save_freq",
		"ingest.cursor_save_delay",
		"ingest.cursor_lag",
		// ledger-check
		"rebuild",
		"retry_max_elapsed",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files win
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for n := 0; n < 5; n++ {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
