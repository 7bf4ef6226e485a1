package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config/config.json or the environment.
type AppConfig struct {
	AppPort        string
	AllowedOrigins []string
	// Rate limit for login and comment submission, per client IP
	RateLimitPerMinute int

	// Session cookie configuration
	JWTSecret         string
	SessionTTL        time.Duration
	SessionCookieName string
	CookieSecure      bool

	// Database: mysql (default), postgres or sqlite
	DBDriver       string
	DatabaseURI    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBQueueLimit   int
	DBTimeout      time.Duration
	DBConnLifetime time.Duration
	DBConnIdleTime time.Duration
	DBAutoMigrate  bool

	// Redis backs the shared caches when enabled; otherwise caches live in process memory
	RedisEnabled  bool
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Cache lifetimes
	IdentityCacheTTL time.Duration
	PostListCacheTTL time.Duration

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Gin framework configuration
	GinMode string
	GinPath string
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// envBindings maps configuration keys to the flat environment variable names operators use.
var envBindings = map[string]string{
	"app.port":                "APP_PORT",
	"app.allowed_origins":     "ALLOWED_ORIGINS",
	"app.rate_limit_per_min":  "RATE_LIMIT_PER_MINUTE",
	"session.secret":          "JWT_SECRET",
	"session.ttl":             "SESSION_TTL",
	"session.cookie_name":     "SESSION_COOKIE_NAME",
	"session.cookie_secure":   "COOKIE_SECURE",
	"database.driver":         "DB_DRIVER",
	"database.uri":            "DATABASE_URI",
	"database.host":           "DB_HOST",
	"database.port":           "DB_PORT",
	"database.user":           "DB_USER",
	"database.password":       "DB_PASSWORD",
	"database.name":           "DB_NAME",
	"database.max_open_conns": "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns": "DB_MAX_IDLE_CONNS",
	"database.queue_limit":    "DB_QUEUE_LIMIT",
	"database.timeout":        "DB_TIMEOUT",
	"database.conn_lifetime":  "DB_CONN_LIFETIME",
	"database.conn_idle_time": "DB_CONN_IDLE_TIME",
	"database.auto_migrate":   "DB_AUTO_MIGRATE",
	"redis.enabled":           "REDIS_ENABLED",
	"redis.host":              "REDIS_HOST",
	"redis.port":              "REDIS_PORT",
	"redis.db":                "REDIS_DB",
	"redis.password":          "REDIS_PASSWORD",
	"cache.identity_ttl":      "IDENTITY_CACHE_TTL",
	"cache.post_list_ttl":     "POST_LIST_CACHE_TTL",
	"log.level":               "LOG_LEVEL",
	"log.path":                "LOG_PATH",
	"log.max_size_mb":         "LOG_MAX_SIZE_MB",
	"log.max_backups":         "LOG_MAX_BACKUPS",
	"log.max_age_days":        "LOG_MAX_AGE_DAYS",
	"log.compress":            "LOG_COMPRESS",
	"gin.mode":                "GIN_MODE",
	"gin.path":                "GIN_PATH",
}

// Load loads the application configuration. It should be called once during boot.
// Precedence: environment variables -> config/config.json -> defaults.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	c, err := Read(viper.New(), "config")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.Lock()
	ok := loaded
	c := cfg
	mu.Unlock()
	if !ok {
		return Load()
	}
	return c
}

// Set replaces the cached configuration. Used by tests and embedding programs.
func Set(c AppConfig) {
	mu.Lock()
	defer mu.Unlock()
	applyDefaults(&c)
	cfg = c
	loaded = true
}

// Read builds an AppConfig from config.json found under dir plus environment overrides.
func Read(v *viper.Viper, dir string) (AppConfig, error) {
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return AppConfig{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	c := AppConfig{
		AppPort:            v.GetString("app.port"),
		AllowedOrigins:     splitList(v.GetStringSlice("app.allowed_origins")),
		RateLimitPerMinute: v.GetInt("app.rate_limit_per_min"),

		JWTSecret:         v.GetString("session.secret"),
		SessionTTL:        v.GetDuration("session.ttl"),
		SessionCookieName: v.GetString("session.cookie_name"),
		CookieSecure:      v.GetBool("session.cookie_secure"),

		DBDriver:       strings.ToLower(v.GetString("database.driver")),
		DatabaseURI:    v.GetString("database.uri"),
		DBHost:         v.GetString("database.host"),
		DBPort:         v.GetString("database.port"),
		DBUser:         v.GetString("database.user"),
		DBPassword:     v.GetString("database.password"),
		DBName:         v.GetString("database.name"),
		DBMaxOpenConns: v.GetInt("database.max_open_conns"),
		DBMaxIdleConns: v.GetInt("database.max_idle_conns"),
		DBQueueLimit:   v.GetInt("database.queue_limit"),
		DBTimeout:      v.GetDuration("database.timeout"),
		DBConnLifetime: v.GetDuration("database.conn_lifetime"),
		DBConnIdleTime: v.GetDuration("database.conn_idle_time"),
		DBAutoMigrate:  !v.IsSet("database.auto_migrate") || v.GetBool("database.auto_migrate"),

		RedisEnabled:  v.GetBool("redis.enabled"),
		RedisHost:     v.GetString("redis.host"),
		RedisPort:     v.GetInt("redis.port"),
		RedisDB:       v.GetInt("redis.db"),
		RedisPassword: v.GetString("redis.password"),

		IdentityCacheTTL: v.GetDuration("cache.identity_ttl"),
		PostListCacheTTL: v.GetDuration("cache.post_list_ttl"),

		LogLevel:      strings.ToLower(v.GetString("log.level")),
		LogPath:       v.GetString("log.path"),
		LogMaxSizeMB:  v.GetInt("log.max_size_mb"),
		LogMaxBackups: v.GetInt("log.max_backups"),
		LogMaxAgeDays: v.GetInt("log.max_age_days"),
		LogCompress:   v.GetBool("log.compress"),

		GinMode: v.GetString("gin.mode"),
		GinPath: v.GetString("gin.path"),
	}

	applyDefaults(&c)

	if err := c.validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = 60
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.SessionCookieName == "" {
		c.SessionCookieName = "blog_session"
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBName == "" {
		c.DBName = "blog"
	}
	if c.DBMaxOpenConns <= 0 {
		c.DBMaxOpenConns = 20
	}
	if c.DBMaxIdleConns <= 0 {
		c.DBMaxIdleConns = 5
	}
	if c.DBQueueLimit <= 0 {
		c.DBQueueLimit = 50
	}
	if c.DBTimeout <= 0 {
		c.DBTimeout = 10 * time.Second
	}
	if c.DBConnLifetime <= 0 {
		c.DBConnLifetime = 30 * time.Minute
	}
	if c.DBConnIdleTime <= 0 {
		c.DBConnIdleTime = 10 * time.Minute
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.IdentityCacheTTL <= 0 {
		c.IdentityCacheTTL = 5 * time.Minute
	}
	if c.PostListCacheTTL <= 0 {
		c.PostListCacheTTL = 30 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/app.log"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
}

func (c AppConfig) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set in config or environment variables")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	return nil
}

// splitList accepts both JSON arrays and comma separated environment values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
