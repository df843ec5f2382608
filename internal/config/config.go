package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Storage     StorageConfig     `mapstructure:"storage"`
	BlobStore   BlobStoreConfig   `mapstructure:"blob_store"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string `mapstructure:"migrations_path"`
}

type JWTConfig struct {
	Secret            string `mapstructure:"secret"`
	AccessTokenExpiry string `mapstructure:"access_token_expiry"`
}

// StorageConfig caps what the ingress boundary accepts before the core
// is invoked. MIME filtering and size limits never reach the services.
type StorageConfig struct {
	MaxFileSizeMB    int      `mapstructure:"max_file_size_mb"`
	AllowedMimeTypes []string `mapstructure:"allowed_mime_types"`
}

// BlobStoreConfig selects and configures the blob backend.
// Provider is "local", "azure" or "minio".
type BlobStoreConfig struct {
	Provider  string `mapstructure:"provider"`
	Path      string `mapstructure:"path"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type MaintenanceConfig struct {
	CronSecret string `mapstructure:"cron_secret"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Override with environment variables
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}
	if provider := os.Getenv("BLOB_STORE_PROVIDER"); provider != "" {
		cfg.BlobStore.Provider = provider
	}
	if endpoint := os.Getenv("BLOB_STORE_ENDPOINT"); endpoint != "" {
		cfg.BlobStore.Endpoint = endpoint
	}
	if accessKey := os.Getenv("BLOB_STORE_ACCESS_KEY"); accessKey != "" {
		cfg.BlobStore.AccessKey = accessKey
	}
	if secretKey := os.Getenv("BLOB_STORE_SECRET_KEY"); secretKey != "" {
		cfg.BlobStore.SecretKey = secretKey
	}
	if bucket := os.Getenv("BLOB_STORE_BUCKET"); bucket != "" {
		cfg.BlobStore.Bucket = bucket
	}
	if cronSecret := os.Getenv("CLEANUP_SECRET"); cronSecret != "" {
		cfg.Maintenance.CronSecret = cronSecret
	}
	if migrations := os.Getenv("MIGRATIONS_PATH"); migrations != "" {
		cfg.Database.MigrationsPath = migrations
	}

	return &cfg, nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// GetURL returns the postgres:// URL used by golang-migrate.
func (c *DatabaseConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// Helper methods to parse duration strings
func (c *JWTConfig) GetAccessTokenExpiry() (time.Duration, error) {
	return parseDuration(c.AccessTokenExpiry)
}

func (c *ServerConfig) GetReadTimeout() (time.Duration, error) {
	return parseDuration(c.ReadTimeout)
}

func (c *ServerConfig) GetWriteTimeout() (time.Duration, error) {
	return parseDuration(c.WriteTimeout)
}

func (c *ServerConfig) GetShutdownTimeout() (time.Duration, error) {
	return parseDuration(c.ShutdownTimeout)
}

func (c *DatabaseConfig) GetConnMaxLifetime() (time.Duration, error) {
	return parseDuration(c.ConnMaxLifetime)
}

// MaxUploadBytes returns the ingress upload cap in bytes.
func (c *StorageConfig) MaxUploadBytes() int64 {
	if c.MaxFileSizeMB <= 0 {
		return 50 << 20
	}
	return int64(c.MaxFileSizeMB) << 20
}

// AllowsMime reports whether the ingress boundary accepts contentType.
// An empty allow-list accepts everything.
func (c *StorageConfig) AllowsMime(contentType string) bool {
	if len(c.AllowedMimeTypes) == 0 {
		return true
	}
	for _, allowed := range c.AllowedMimeTypes {
		if allowed == contentType {
			return true
		}
	}
	return false
}

// parseDuration parses duration strings like "7d", "24h", "30m"
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	// Handle days (e.g., "7d")
	if len(s) > 1 && s[len(s)-1] == 'd' {
		days := s[:len(s)-1]
		var d int
		_, err := fmt.Sscanf(days, "%d", &d)
		if err != nil {
			return 0, fmt.Errorf("invalid duration format: %s", s)
		}
		return time.Duration(d) * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}
