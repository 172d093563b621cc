package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is applied by envconfig when expanding bare field names.
const EnvPrefix = "PARTSTREAM"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv    = "PARTSTREAM_APP_ENV"
	EnvPort      = "PARTSTREAM_APP_PORT"
	EnvDBDSN     = "PARTSTREAM_DB_DSN"
	EnvDBHost    = "PARTSTREAM_DB_HOST"
	EnvDBUser    = "PARTSTREAM_DB_USER"
	EnvDBName    = "PARTSTREAM_DB_NAME"
	EnvRedisURL  = "PARTSTREAM_REDIS_URL"
	EnvJWTSecret = "PARTSTREAM_JWT_SECRET"
	EnvJWTIssuer = "PARTSTREAM_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cache        CacheConfig
	Uploads      UploadsConfig
	AuthLimits   AuthRateLimitConfig
	GCS          GCSConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PARTSTREAM_APP_ENV" required:"true"`
	Port         string `envconfig:"PARTSTREAM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARTSTREAM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARTSTREAM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PARTSTREAM_DB_DSN"`
	Driver string `envconfig:"PARTSTREAM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PARTSTREAM_DB_HOST"`
	LegacyPort     int    `envconfig:"PARTSTREAM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PARTSTREAM_DB_USER"`
	LegacyPassword string `envconfig:"PARTSTREAM_DB_PASSWORD"`
	LegacyName     string `envconfig:"PARTSTREAM_DB_NAME"`
	LegacySSLMode  string `envconfig:"PARTSTREAM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARTSTREAM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARTSTREAM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARTSTREAM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARTSTREAM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PARTSTREAM_REDIS_URL"`
	Address      string        `envconfig:"PARTSTREAM_REDIS_ADDR"`
	Password     string        `envconfig:"PARTSTREAM_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARTSTREAM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARTSTREAM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARTSTREAM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARTSTREAM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARTSTREAM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARTSTREAM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PARTSTREAM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PARTSTREAM_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PARTSTREAM_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"PARTSTREAM_SESSION_TTL_MINUTES" default:"1440"`
}

// SessionTTL returns the server-side session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PARTSTREAM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PARTSTREAM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PARTSTREAM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PARTSTREAM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PARTSTREAM_ARGON_KEY_LEN" default:"32"`
}

// CacheConfig carries the per-route TTLs for the GET response cache.
type CacheConfig struct {
	Enabled           bool          `envconfig:"PARTSTREAM_CACHE_ENABLED" default:"true"`
	DefaultTTL        time.Duration `envconfig:"PARTSTREAM_CACHE_DEFAULT_TTL" default:"5m"`
	CategoryListTTL   time.Duration `envconfig:"PARTSTREAM_CACHE_CATEGORY_LIST_TTL" default:"24h"`
	CategoryDetailTTL time.Duration `envconfig:"PARTSTREAM_CACHE_CATEGORY_DETAIL_TTL" default:"1h"`
	ProductListTTL    time.Duration `envconfig:"PARTSTREAM_CACHE_PRODUCT_LIST_TTL" default:"5m"`
	ProductDetailTTL  time.Duration `envconfig:"PARTSTREAM_CACHE_PRODUCT_DETAIL_TTL" default:"10m"`
}

// AuthRateLimitConfig throttles credential endpoints per IP and per email.
type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"PARTSTREAM_AUTH_LOGIN_WINDOW" default:"15m"`
	LoginIPLimit     int           `envconfig:"PARTSTREAM_AUTH_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit  int           `envconfig:"PARTSTREAM_AUTH_LOGIN_EMAIL_LIMIT" default:"10"`
	SignupWindow     time.Duration `envconfig:"PARTSTREAM_AUTH_SIGNUP_WINDOW" default:"1h"`
	SignupIPLimit    int           `envconfig:"PARTSTREAM_AUTH_SIGNUP_IP_LIMIT" default:"10"`
	SignupEmailLimit int           `envconfig:"PARTSTREAM_AUTH_SIGNUP_EMAIL_LIMIT" default:"5"`
}

type UploadsConfig struct {
	MaxImageBytes int64 `envconfig:"PARTSTREAM_UPLOAD_MAX_IMAGE_BYTES" default:"5242880"`
}

type GCSConfig struct {
	BucketName             string        `envconfig:"PARTSTREAM_GCS_BUCKET_NAME"`
	DownloadURLExpiry      time.Duration `envconfig:"PARTSTREAM_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
	CredentialsJSON        string        `envconfig:"PARTSTREAM_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string        `envconfig:"PARTSTREAM_GOOGLE_APPLICATION_CREDENTIALS"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PARTSTREAM_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PARTSTREAM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PARTSTREAM_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
