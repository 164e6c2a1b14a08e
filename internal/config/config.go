package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	Auth     AuthConfig
	S3       S3Config
	Log      LogConfig
	OCR      OCRConfig
	Enhancer EnhancerConfig
	Ledger   LedgerConfig
	Batch    BatchConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// AuthConfig holds the operator login credential. Single-operator
// deployment: the username and bcrypt password hash come from environment,
// not the database.
type AuthConfig struct {
	OperatorName string `mapstructure:"operator_name"`
	PasswordHash string `mapstructure:"password_hash"`
}

// S3Config holds AWS S3 settings for the claim image archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OCRConfig holds text recognition settings.
type OCRConfig struct {
	Engine       string `mapstructure:"engine"`
	TesseractBin string `mapstructure:"tesseract_bin"`
	Languages    string `mapstructure:"languages"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// EnhancerConfig holds name-extraction enhancer settings.
type EnhancerConfig struct {
	Provider    string `mapstructure:"provider"`
	Endpoint    string `mapstructure:"endpoint"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// LedgerConfig holds payout workbook settings.
type LedgerConfig struct {
	Dir        string `mapstructure:"dir"`
	SheetName  string `mapstructure:"sheet_name"`
	FilePrefix string `mapstructure:"file_prefix"`
}

// BatchConfig holds batch claim processor settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxFiles    int `mapstructure:"max_files"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the CLAIMFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLAIMFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "claimflow")
	v.SetDefault("db.password", "claimflow_secret")
	v.SetDefault("db.name", "claimflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "12h")
	v.SetDefault("jwt.issuer", "claimflow")

	// Auth defaults (hash of "change-me", for development only)
	v.SetDefault("auth.operator_name", "operator")
	v.SetDefault("auth.password_hash", "$2a$10$N9qo8uLOickgx2ZMRZoMye1VdLkWkVirlZ8xOLvbRi96D5exKHczu")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "claimflow-era-images")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// OCR defaults
	v.SetDefault("ocr.engine", "tesseract")
	v.SetDefault("ocr.tesseract_bin", "tesseract")
	v.SetDefault("ocr.languages", "eng")
	v.SetDefault("ocr.timeout_secs", 60)

	// Enhancer defaults
	v.SetDefault("enhancer.provider", "noop")
	v.SetDefault("enhancer.endpoint", "http://localhost:11434")
	v.SetDefault("enhancer.model", "llama3.2-vision")
	v.SetDefault("enhancer.timeout_secs", 120)

	// Ledger defaults
	v.SetDefault("ledger.dir", "ledgers")
	v.SetDefault("ledger.sheet_name", "Payouts")
	v.SetDefault("ledger.file_prefix", "payout_ledger")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.max_files", 50)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "CLAIMFLOW_SERVER_PORT",
		"server.read_timeout":   "CLAIMFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "CLAIMFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":    "CLAIMFLOW_SERVER_ENVIRONMENT",
		"db.host":               "CLAIMFLOW_DB_HOST",
		"db.port":               "CLAIMFLOW_DB_PORT",
		"db.user":               "CLAIMFLOW_DB_USER",
		"db.password":           "CLAIMFLOW_DB_PASSWORD",
		"db.name":               "CLAIMFLOW_DB_NAME",
		"db.sslmode":            "CLAIMFLOW_DB_SSLMODE",
		"db.max_open":           "CLAIMFLOW_DB_MAX_OPEN",
		"db.max_idle":           "CLAIMFLOW_DB_MAX_IDLE",
		"jwt.secret":            "CLAIMFLOW_JWT_SECRET",
		"jwt.access_expiry":     "CLAIMFLOW_JWT_ACCESS_EXPIRY",
		"jwt.issuer":            "CLAIMFLOW_JWT_ISSUER",
		"auth.operator_name":    "CLAIMFLOW_AUTH_OPERATOR_NAME",
		"auth.password_hash":    "CLAIMFLOW_AUTH_PASSWORD_HASH",
		"s3.region":             "CLAIMFLOW_S3_REGION",
		"s3.bucket":             "CLAIMFLOW_S3_BUCKET",
		"s3.endpoint":           "CLAIMFLOW_S3_ENDPOINT",
		"s3.access_key":         "CLAIMFLOW_S3_ACCESS_KEY",
		"s3.secret_key":         "CLAIMFLOW_S3_SECRET_KEY",
		"s3.max_file_size_mb":   "CLAIMFLOW_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":     "CLAIMFLOW_S3_PRESIGN_EXPIRY",
		"log.level":             "CLAIMFLOW_LOG_LEVEL",
		"log.format":            "CLAIMFLOW_LOG_FORMAT",
		"ocr.engine":            "CLAIMFLOW_OCR_ENGINE",
		"ocr.tesseract_bin":     "CLAIMFLOW_OCR_TESSERACT_BIN",
		"ocr.languages":         "CLAIMFLOW_OCR_LANGUAGES",
		"ocr.timeout_secs":      "CLAIMFLOW_OCR_TIMEOUT_SECS",
		"enhancer.provider":     "CLAIMFLOW_ENHANCER_PROVIDER",
		"enhancer.endpoint":     "CLAIMFLOW_ENHANCER_ENDPOINT",
		"enhancer.model":        "CLAIMFLOW_ENHANCER_MODEL",
		"enhancer.timeout_secs": "CLAIMFLOW_ENHANCER_TIMEOUT_SECS",
		"ledger.dir":            "CLAIMFLOW_LEDGER_DIR",
		"ledger.sheet_name":     "CLAIMFLOW_LEDGER_SHEET_NAME",
		"ledger.file_prefix":    "CLAIMFLOW_LEDGER_FILE_PREFIX",
		"batch.concurrency":     "CLAIMFLOW_BATCH_CONCURRENCY",
		"batch.max_files":       "CLAIMFLOW_BATCH_MAX_FILES",
		"cors.allowed_origins":  "CLAIMFLOW_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CLAIMFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CLAIMFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.Auth = AuthConfig{
		OperatorName: v.GetString("auth.operator_name"),
		PasswordHash: v.GetString("auth.password_hash"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.OCR = OCRConfig{
		Engine:       v.GetString("ocr.engine"),
		TesseractBin: v.GetString("ocr.tesseract_bin"),
		Languages:    v.GetString("ocr.languages"),
		TimeoutSecs:  v.GetInt("ocr.timeout_secs"),
	}
	cfg.Enhancer = EnhancerConfig{
		Provider:    v.GetString("enhancer.provider"),
		Endpoint:    v.GetString("enhancer.endpoint"),
		Model:       v.GetString("enhancer.model"),
		TimeoutSecs: v.GetInt("enhancer.timeout_secs"),
	}
	cfg.Ledger = LedgerConfig{
		Dir:        v.GetString("ledger.dir"),
		SheetName:  v.GetString("ledger.sheet_name"),
		FilePrefix: v.GetString("ledger.file_prefix"),
	}
	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
		MaxFiles:    v.GetInt("batch.max_files"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
