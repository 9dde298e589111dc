package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "shipglide"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHIPGLIDE_DB_DSN"
	EnvDBHost = "SHIPGLIDE_DB_HOST"
	EnvDBUser = "SHIPGLIDE_DB_USER"
	EnvDBName = "SHIPGLIDE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	RTO          RTOConfig
	Couriers     CourierConfig
	Cron         CronConfig
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
	Env          string `envconfig:"SHIPGLIDE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHIPGLIDE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHIPGLIDE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHIPGLIDE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHIPGLIDE_DB_DSN"`
	Driver string `envconfig:"SHIPGLIDE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHIPGLIDE_DB_HOST"`
	LegacyPort     int    `envconfig:"SHIPGLIDE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHIPGLIDE_DB_USER"`
	LegacyPassword string `envconfig:"SHIPGLIDE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHIPGLIDE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHIPGLIDE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHIPGLIDE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHIPGLIDE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHIPGLIDE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHIPGLIDE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHIPGLIDE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHIPGLIDE_REDIS_ADDR"`
	Password     string        `envconfig:"SHIPGLIDE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHIPGLIDE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHIPGLIDE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHIPGLIDE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHIPGLIDE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHIPGLIDE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHIPGLIDE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RTOConfig tunes the return-to-origin engine.
type RTOConfig struct {
	TriggerWindow     time.Duration `envconfig:"SHIPGLIDE_RTO_TRIGGER_WINDOW" default:"1m"`
	TriggerLimit      int64         `envconfig:"SHIPGLIDE_RTO_TRIGGER_LIMIT" default:"30"`
	MinWalletBalance  string        `envconfig:"SHIPGLIDE_RTO_MIN_WALLET_BALANCE" default:"0"`
	StaleInitiatedAge time.Duration `envconfig:"SHIPGLIDE_RTO_STALE_INITIATED_AGE" default:"48h"`
}

// CourierConfig points at the internal courier gateway that fronts the
// carrier-specific wire protocols.
type CourierConfig struct {
	GatewayURL    string        `envconfig:"SHIPGLIDE_COURIER_GATEWAY_URL" required:"true"`
	APIKey        string        `envconfig:"SHIPGLIDE_COURIER_API_KEY"`
	Timeout       time.Duration `envconfig:"SHIPGLIDE_COURIER_TIMEOUT" default:"10s"`
	Carriers      []string      `envconfig:"SHIPGLIDE_COURIER_CARRIERS" default:"delhivery,bluedart,ekart,ecom-express,xpressbees,dtdc"`
	PickupCapable []string      `envconfig:"SHIPGLIDE_COURIER_PICKUP_CAPABLE" default:"delhivery,xpressbees"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SHIPGLIDE_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"SHIPGLIDE_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHIPGLIDE_AUTO_MIGRATE" default:"false"`
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
