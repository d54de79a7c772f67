package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	TransportLocal = "local"
	TransportKafka = "kafka"
)

type (
	Config struct {
		App      App      `env-prefix:"APP_"`
		Logger   Logger   `env-prefix:"LOGGER_"`
		HTTP     HTTP     `env-prefix:"HTTP_"`
		Metrics  Metrics  `env-prefix:"METRICS_"`
		Storage  Storage  `env-prefix:"STORAGE_"`
		Postgres Postgres `env-prefix:"DB_"`
		Mongo    Mongo    `env-prefix:"MONGO_"`
		Cache    Cache    `env-prefix:"CACHE_"`
		Sheets   Sheets
		SheetLog SheetLog `env-prefix:"SHEETLOG_"`
		Kafka    Kafka    `env-prefix:"KAFKA_"`
		DLQ      DLQ      `env-prefix:"DLQ_"`
		Env      string   `                      env:"ENV" env-default:"local" validate:"oneof=local dev staging prod"`
	}

	App struct {
		Name        string `env:"NAME"         validate:"required"                    env-default:"storefront-service"`
		Version     string `env:"VERSION"      validate:"required"                    env-default:"dev"`
		AssetPrefix string `env:"ASSET_PREFIX" validate:"required,alphanum,max=16"    env-default:"MARXIA"`
	}

	Logger struct {
		Level      string `env:"LEVEL"       env-default:"info"                          validate:"oneof=debug info warn error"`
		Filename   string `env:"FILENAME"    env-default:"./logs/storefront-service.log"`
		MaxSize    int    `env:"MAX_SIZE"    env-default:"100"                           validate:"min=1,max=1000"`
		MaxBackups int    `env:"MAX_BACKUPS" env-default:"3"                             validate:"min=1,max=20"`
		MaxAge     int    `env:"MAX_AGE"     env-default:"28"                            validate:"min=1,max=365"`
	}

	HTTP struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"8080"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"        validate:"gte=10ms,lte=120s"        env-default:"60s"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    validate:"gte=10ms,lte=30s"         env-default:"10s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
		RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"     validate:"gte=10ms,lte=30s"         env-default:"2s"`
	}

	Metrics struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"9090"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Storage struct {
		Driver string `env:"DRIVER" validate:"oneof=memory postgres mongo" env-default:"memory"`
	}

	Postgres struct {
		Host           string        `env:"HOST"             validate:"required"`
		Port           string        `env:"PORT"             validate:"required,gte=1,lte=65535"`
		Name           string        `env:"NAME"             validate:"required"`
		User           string        `env:"USER"             validate:"required"`
		Password       string        `env:"PASSWORD"         validate:"required"`
		SSLMode        string        `env:"SSL_MODE"         validate:"required"                                  env-default:"disable"`
		PoolMax        int32         `env:"POOL_MAX"         validate:"min=1,max=100"                             env-default:"20"`
		ConnAttempts   int           `env:"CONN_ATTEMPTS"    validate:"min=1,max=10"                              env-default:"5"`
		BaseRetryDelay time.Duration `env:"BASE_RETRY_DELAY" validate:"gte=10ms,lte=10s"                          env-default:"100ms"`
		MaxRetryDelay  time.Duration `env:"MAX_RETRY_DELAY"  validate:"gte=100ms,lte=30s,gtefield=BaseRetryDelay" env-default:"5s"`
	}

	Mongo struct {
		URI            string        `env:"URI"              validate:"required,startswith=mongodb"`
		Database       string        `env:"DATABASE"         validate:"required"                                  env-default:"storefront"`
		ConnAttempts   int           `env:"CONN_ATTEMPTS"    validate:"min=1,max=10"                              env-default:"5"`
		ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT"  validate:"gte=100ms,lte=60s"                         env-default:"10s"`
		BaseRetryDelay time.Duration `env:"BASE_RETRY_DELAY" validate:"gte=10ms,lte=10s"                          env-default:"100ms"`
		MaxRetryDelay  time.Duration `env:"MAX_RETRY_DELAY"  validate:"gte=100ms,lte=30s,gtefield=BaseRetryDelay" env-default:"5s"`
	}

	Cache struct {
		Capacity        int           `env:"CAPACITY"         validate:"required,min=1,max=1000000" env-default:"1000"`
		TTL             time.Duration `env:"TTL"              validate:"required,gt=0s,lte=24h"     env-default:"5m"`
		CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" validate:"gt=0s,lte=24h"              env-default:"10s"`
	}

	// Sheets keeps the variable names the Google client libraries read.
	Sheets struct {
		CredentialsFile string        `env:"GOOGLE_APPLICATION_CREDENTIALS"`
		SheetID         string        `env:"GOOGLE_SHEET_ID"`
		Range           string        `env:"GOOGLE_SHEET_RANGE"    validate:"required" env-default:"ProductLog!A1"`
		Timeout         time.Duration `env:"GOOGLE_SHEETS_TIMEOUT" validate:"gte=100ms,lte=2m" env-default:"10s"`
	}

	SheetLog struct {
		Transport string `env:"TRANSPORT"  validate:"oneof=local kafka"  env-default:"local"`
		QueueSize int    `env:"QUEUE_SIZE" validate:"min=1,max=100000"   env-default:"256"`
		Workers   int    `env:"WORKERS"    validate:"min=1,max=64"       env-default:"2"`
	}

	Kafka struct {
		GroupID      string        `env:"GROUP_ID"      validate:"required"`
		Brokers      []string      `env:"BROKERS"       validate:"min=1,dive,hostname_port" env-separator:","`
		Topic        string        `env:"TOPIC"         validate:"required"`
		BatchTimeout time.Duration `env:"BATCH_TIMEOUT" validate:"gte=1ms,lte=30s"          env-default:"100ms"`
	}

	DLQ struct {
		Brokers      []string      `env:"BROKERS"       validate:"min=1,dive,hostname_port" env-separator:","`
		Topic        string        `env:"TOPIC"         validate:"required"`
		BatchSize    int           `env:"BATCH_SIZE"    validate:"required,min=1,max=1000"  env-default:"100"`
		BatchTimeout time.Duration `env:"BATCH_TIMEOUT" validate:"required,gte=1ms,lte=30s" env-default:"1s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" validate:"required,gte=1ms,lte=30s" env-default:"2s"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT"  validate:"required,gte=1ms,lte=30s" env-default:"2s"`
	}
)

// SheetLogEnabled reports whether created products are handed to the sheet log.
func (c *Config) SheetLogEnabled() bool {
	return c.Sheets.SheetID != ""
}

func Load() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return nil, entity.ErrConfigPathNotSet
	}
	return LoadPath(path)
}

func LoadPath(configPath string) (*Config, error) {
	const op = "config.LoadPath"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	} else if err != nil {
		return nil, fmt.Errorf("%s: checking config file: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: read config: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: config validation: %w", op, err)
	}

	return &cfg, nil
}

// validate skips the sections of backends the configuration does not select.
func (c *Config) validate() error {
	validate := validator.New()

	var skipped []string
	if c.Storage.Driver != DriverPostgres {
		skipped = append(skipped, "Postgres")
	}
	if c.Storage.Driver != DriverMongo {
		skipped = append(skipped, "Mongo")
	}
	if c.SheetLog.Transport != TransportKafka || !c.SheetLogEnabled() {
		skipped = append(skipped, "Kafka", "DLQ")
	}

	err := validate.StructExcept(c, skipped...)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, ve := range validationErrs {
		messages = append(messages,
			fmt.Sprintf("%s=%v must satisfy '%s'", ve.Namespace(), ve.Value(), ve.Tag()))
	}
	return errors.New(strings.Join(messages, "; "))
}

func fetchConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "Path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}
