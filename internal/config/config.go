package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/quickcart-next/internal/constants"
	"github.com/quickcart-next/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Cart     CartConfig     `mapstructure:"cart"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// JWTConfig 管理端 JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// CartConfig 购物车配置
type CartConfig struct {
	Storage               string          `mapstructure:"storage"`      // 快照存储（database/redis）
	StorageKey            string          `mapstructure:"storage_key"`  // 快照存储键
	PersistMode           string          `mapstructure:"persist_mode"` // 写入方式（inline/queue）
	PersistTimeoutSeconds int             `mapstructure:"persist_timeout_seconds"`
	LookupTimeoutSeconds  int             `mapstructure:"lookup_timeout_seconds"`
	FreeDeliveryThreshold int64           `mapstructure:"free_delivery_threshold"`
	DefaultDeliveryFee    int64           `mapstructure:"default_delivery_fee"`
	PlatformFee           int64           `mapstructure:"platform_fee"`
	CashbackThreshold     int64           `mapstructure:"cashback_threshold"`
	CashbackPercent       int64           `mapstructure:"cashback_percent"`
	RecommendedLimit      int             `mapstructure:"recommended_limit"`
	DefaultDeliveryTime   string          `mapstructure:"default_delivery_time"`
	CouponCacheTTLSeconds int             `mapstructure:"coupon_cache_ttl_seconds"`
	CouponRateLimit       RateLimitConfig `mapstructure:"coupon_rate_limit"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// PersistTimeout 单次快照写入超时
func (c CartConfig) PersistTimeout() time.Duration {
	return secondsOrDefault(c.PersistTimeoutSeconds, 5)
}

// LookupTimeout 目录服务查询超时
func (c CartConfig) LookupTimeout() time.Duration {
	return secondsOrDefault(c.LookupTimeoutSeconds, 3)
}

// CouponCacheTTL 优惠券缓存有效期
func (c CartConfig) CouponCacheTTL() time.Duration {
	return secondsOrDefault(c.CouponCacheTTLSeconds, 300)
}

func secondsOrDefault(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warnw("dotenv_load_failed", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("./")    // 备用路径
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	cfg.Cart.normalize()

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/quickcart.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "qc")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		constants.QueueDefault: 10,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("cart.storage", constants.CartStorageDatabase)
	v.SetDefault("cart.storage_key", constants.CartStorageKey)
	v.SetDefault("cart.persist_mode", constants.CartPersistModeLocal)
	v.SetDefault("cart.persist_timeout_seconds", 5)
	v.SetDefault("cart.lookup_timeout_seconds", 3)
	v.SetDefault("cart.free_delivery_threshold", constants.FreeDeliveryThreshold)
	v.SetDefault("cart.default_delivery_fee", constants.DefaultDeliveryFee)
	v.SetDefault("cart.platform_fee", constants.PlatformFee)
	v.SetDefault("cart.cashback_threshold", constants.CashbackThreshold)
	v.SetDefault("cart.cashback_percent", constants.CashbackPercent)
	v.SetDefault("cart.recommended_limit", constants.RecommendedLimit)
	v.SetDefault("cart.default_delivery_time", constants.DefaultDeliveryTime)
	v.SetDefault("cart.coupon_cache_ttl_seconds", 300)
	v.SetDefault("cart.coupon_rate_limit.window_seconds", 60)
	v.SetDefault("cart.coupon_rate_limit.max_requests", 20)
}

// normalize 校正非法取值
func (c *CartConfig) normalize() {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage != constants.CartStorageRedis {
		c.Storage = constants.CartStorageDatabase
	}
	c.PersistMode = strings.ToLower(strings.TrimSpace(c.PersistMode))
	if c.PersistMode != constants.CartPersistModeQueue {
		c.PersistMode = constants.CartPersistModeLocal
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		c.StorageKey = constants.CartStorageKey
	}
	if strings.TrimSpace(c.DefaultDeliveryTime) == "" {
		c.DefaultDeliveryTime = constants.DefaultDeliveryTime
	}
	if c.RecommendedLimit <= 0 {
		c.RecommendedLimit = constants.RecommendedLimit
	}
}
