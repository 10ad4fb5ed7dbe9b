package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	App       AppConfig       `mapstructure:"app"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// UpstreamConfig 上游收款平台 API 配置
type UpstreamConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix 本地副本的键命名空间
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AdminConfig 运营者全局设置
// APIKey 在店铺没有自己的密钥时作为兜底凭证
type AdminConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Password string `mapstructure:"password"` // 预留，核心不做鉴权
}

type DashboardConfig struct {
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
	StoreID             string `mapstructure:"store_id"` // 为空表示全局汇总
}

type AppConfig struct {
	Env             string `mapstructure:"env"`
	Debug           bool   `mapstructure:"debug"`
	CheckoutBaseURL string `mapstructure:"checkout_base_url"`
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream base_url is required")
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return errors.New("upstream timeout_seconds must be positive")
	}
	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}
	if c.Redis.KeyPrefix == "" {
		return errors.New("redis key_prefix is required")
	}
	if c.Dashboard.PollIntervalSeconds <= 0 {
		return errors.New("dashboard poll_interval_seconds must be positive")
	}
	return nil
}

// Load 加载配置并返回，配置通过返回值显式传递而不是全局变量
func Load() (*Config, error) {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// 根据环境选择配置文件
	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("upstream.base_url", "http://localhost:4000")
	viper.SetDefault("upstream.timeout_seconds", 10)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.key_prefix", "paylink:")
	viper.SetDefault("dashboard.poll_interval_seconds", 30)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.checkout_base_url", "http://localhost:8080/checkout")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 手动覆盖，以防 viper 无法正确解析复杂结构或环境变量
	if baseURL := os.Getenv("UPSTREAM_BASE_URL"); baseURL != "" {
		cfg.Upstream.BaseURL = baseURL
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if apiKey := os.Getenv("ADMIN_API_KEY"); apiKey != "" {
		cfg.Admin.APIKey = apiKey
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", cfg.App.Env)
	return &cfg, nil
}
