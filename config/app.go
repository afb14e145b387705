package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 是环境变量前缀，例如 PATHWISE_SERVER_ADDR 覆盖 server.addr。
const EnvPrefix = "PATHWISE"

// App 是进程级配置。
type App struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Bundles   BundleConfig    `mapstructure:"bundles"`
	Datasets  DatasetConfig   `mapstructure:"datasets"`
	Pipelines PipelinesConfig `mapstructure:"pipelines"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"` // development / production
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"` // SQLite 文件路径或 ":memory:"
}

// RedisConfig 中 Addr 为空时使用进程内存储。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// BundleConfig 决定模型包存放位置：file 为本地目录，kv 为 Redis / 内存存储。
type BundleConfig struct {
	Source string `mapstructure:"source"`
	Dir    string `mapstructure:"dir"`
}

// DatasetConfig 是重新训练时读取的 CSV 路径。
type DatasetConfig struct {
	Career    string `mapstructure:"career"`
	Education string `mapstructure:"education"`
	TESDA     string `mapstructure:"tesda"`
}

// Paths 返回 pathway 名称 -> CSV 路径，未配置的 pathway 不出现。
func (d DatasetConfig) Paths() map[string]string {
	out := make(map[string]string, 3)
	for name, path := range map[string]string{"career": d.Career, "education": d.Education, "tesda": d.TESDA} {
		if path != "" {
			out[name] = path
		}
	}
	return out
}

type PipelinesConfig struct {
	File string `mapstructure:"file"` // 为空时使用内置配置
}

// setDefaults 为每个 key 设置默认值；没有默认值的 key 不会被 AutomaticEnv 覆盖到 Unmarshal 结果里。
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.mode", "production")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("database.dsn", "pathwise.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "pathwise:")
	v.SetDefault("bundles.source", "file")
	v.SetDefault("bundles.dir", "models")
	v.SetDefault("datasets.career", "data/career_dataset.csv")
	v.SetDefault("datasets.education", "data/education_dataset.csv")
	v.SetDefault("datasets.tesda", "data/tesda_dataset.csv")
	v.SetDefault("pipelines.file", "")
}

// LoadApp 读取配置：默认值 < 配置文件 < .env / 环境变量。
// path 为空时依次在 ./configs 与 . 下查找 config.yaml，找不到文件不算错误。
func LoadApp(path string) (*App, error) {
	// .env 只补充尚未设置的环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg App
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate 校验启动必需的配置。
func (c *App) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (set PATHWISE_AUTH_JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	switch c.Bundles.Source {
	case "file":
		if c.Bundles.Dir == "" {
			return errors.New("bundles.dir is required for file source")
		}
	case "kv":
	default:
		return fmt.Errorf("bundles.source must be file or kv, got %q", c.Bundles.Source)
	}
	return nil
}
