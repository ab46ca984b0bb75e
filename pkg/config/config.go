package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "TAPFOLIO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TAPFOLIO_DB_DSN"
	EnvDBHost = "TAPFOLIO_DB_HOST"
	EnvDBUser = "TAPFOLIO_DB_USER"
	EnvDBName = "TAPFOLIO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Storefront   StorefrontConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
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
	Env          string `envconfig:"TAPFOLIO_APP_ENV" required:"true"`
	Port         string `envconfig:"TAPFOLIO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TAPFOLIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TAPFOLIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TAPFOLIO_DB_DSN"`
	Driver string `envconfig:"TAPFOLIO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TAPFOLIO_DB_HOST"`
	LegacyPort     int    `envconfig:"TAPFOLIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TAPFOLIO_DB_USER"`
	LegacyPassword string `envconfig:"TAPFOLIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"TAPFOLIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"TAPFOLIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TAPFOLIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TAPFOLIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TAPFOLIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TAPFOLIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TAPFOLIO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TAPFOLIO_REDIS_ADDR"`
	Password     string        `envconfig:"TAPFOLIO_REDIS_PASSWORD"`
	DB           int           `envconfig:"TAPFOLIO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TAPFOLIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TAPFOLIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TAPFOLIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TAPFOLIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TAPFOLIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TAPFOLIO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TAPFOLIO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TAPFOLIO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TAPFOLIO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TAPFOLIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TAPFOLIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TAPFOLIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TAPFOLIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TAPFOLIO_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TAPFOLIO_AUTO_MIGRATE" default:"false"`
}

// StorefrontConfig carries the public-facing storefront knobs: the host
// embedded in profile QR payloads and the shipping pricing rules.
type StorefrontConfig struct {
	ProfileHost           string `envconfig:"TAPFOLIO_PROFILE_HOST" default:"tapfolio.link"`
	FallbackQRPath        string `envconfig:"TAPFOLIO_FALLBACK_QR_PATH" default:"/tap"`
	OrderNumberPrefix     string `envconfig:"TAPFOLIO_ORDER_NUMBER_PREFIX" default:"TAP-"`
	FreeShippingThreshold string `envconfig:"TAPFOLIO_FREE_SHIPPING_THRESHOLD" default:"50"`
	FlatShippingRate      string `envconfig:"TAPFOLIO_FLAT_SHIPPING_RATE" default:"5.99"`
}

// FreeShippingThresholdAmount parses the threshold, falling back to the
// shipped default when the env value is malformed.
func (s StorefrontConfig) FreeShippingThresholdAmount() decimal.Decimal {
	if amount, err := decimal.NewFromString(s.FreeShippingThreshold); err == nil {
		return amount
	}
	return decimal.NewFromInt(50)
}

// FlatShippingRateAmount parses the flat rate, falling back to the shipped
// default when the env value is malformed.
func (s StorefrontConfig) FlatShippingRateAmount() decimal.Decimal {
	if amount, err := decimal.NewFromString(s.FlatShippingRate); err == nil {
		return amount
	}
	return decimal.RequireFromString("5.99")
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TAPFOLIO_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TAPFOLIO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TAPFOLIO_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"TAPFOLIO_GCS_BUCKET_NAME"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"TAPFOLIO_MAX_UPLOAD_MB" default:"10"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"TAPFOLIO_PUBSUB_ORDERS_TOPIC" default:"tf-order-events"`
	OrdersSubscription string `envconfig:"TAPFOLIO_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TAPFOLIO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TAPFOLIO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TAPFOLIO_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	Interval            time.Duration `envconfig:"TAPFOLIO_CRON_INTERVAL" default:"24h"`
	CartRetentionDays   int           `envconfig:"TAPFOLIO_CRON_CART_RETENTION_DAYS" default:"30"`
	OutboxRetentionDays int           `envconfig:"TAPFOLIO_CRON_OUTBOX_RETENTION_DAYS" default:"14"`
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
