package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Crawler  CrawlerConfig  `mapstructure:"crawler"`  // 抓取调度配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// CrawlerConfig 抓取调度配置。
// 两个数据源各自独立定时，共用同一周期与超时。
type CrawlerConfig struct {
	Interval      time.Duration `mapstructure:"interval"`       // 抓取周期（固定频率，无抖动）
	Timeout       time.Duration `mapstructure:"timeout"`        // 单次请求超时
	ItemBlockURL  string        `mapstructure:"item_block_url"` // 板块汇总接口地址
	StatisticsURL string        `mapstructure:"statistics_url"` // 大盘统计接口地址
	Enabled       bool          `mapstructure:"enabled"`        // 是否启动定时抓取
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("ITEM_BLOCK_URL"); v != "" {
		cfg.Crawler.ItemBlockURL = v
	}
	if v := os.Getenv("STATISTICS_URL"); v != "" {
		cfg.Crawler.StatisticsURL = v
	}
}

// applyDefaults 未配置项兜底（周期/超时与上游约定一致：30秒）
func applyDefaults(cfg *Config) {
	if cfg.Crawler.Interval <= 0 {
		cfg.Crawler.Interval = 30 * time.Second
	}
	if cfg.Crawler.Timeout <= 0 {
		cfg.Crawler.Timeout = 30 * time.Second
	}
	if cfg.Crawler.ItemBlockURL == "" {
		cfg.Crawler.ItemBlockURL = "https://sdt-api.ok-skins.com/index/item-block/v1/summary"
	}
	if cfg.Crawler.StatisticsURL == "" {
		cfg.Crawler.StatisticsURL = "https://sdt-api.ok-skins.com/index/statistics/v1/summary"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
}
