package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int // 3D 模型上传较大，默认比用户端宽
	WriteTimeoutSec int
	IdleTimeoutSec  int
	// 启动时确保存在的后台账号（可选）
	BootstrapEmail    string
	BootstrapPassword string
}

// Limits 限流；Global* 为 0 时不启用全局令牌桶
type Limits struct {
	PerIPRPS    float64 `mapstructure:"perip_rps"`
	PerIPBurst  int     `mapstructure:"perip_burst"`
	GlobalRPS   float64 `mapstructure:"global_rps"`
	GlobalBurst int     `mapstructure:"global_burst"`
}

type App struct {
	Name        string
	Env         string
	HTTP        HTTP
	Admin       AdminHTTP
	Limits      Limits
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 为空则只写 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret             string
	Issuer             string
	AccessTokenTTLMin  int
	RefreshTokenTTLHrs int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Minio struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Storage struct {
	Driver           string // local | minio
	BasePath         string
	PresignExpiryMin int
	Minio            Minio
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Storage Storage
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "realestate3d")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8000)
	v.SetDefault("app.http.readtimeoutsec", 15)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8001)
	v.SetDefault("app.admin.readtimeoutsec", 120)
	v.SetDefault("app.admin.writetimeoutsec", 120)
	v.SetDefault("app.admin.idletimeoutsec", 60)
	v.SetDefault("app.limits.perip_rps", 200)
	v.SetDefault("app.limits.perip_burst", 400)
	v.SetDefault("app.cors_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 7)
	v.SetDefault("log.maxagedays", 30)

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.issuer", "realestate3d")
	v.SetDefault("jwt.accesstokenttlmin", 5)
	v.SetDefault("jwt.refreshtokenttlhrs", 24)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:realestate3d.db?_pragma=foreign_keys(1)")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.basepath", "./media")
	v.SetDefault("storage.presignexpirymin", 60)
}

// Load 读取 YAML + APP_ 前缀环境变量；文件不存在时只用默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
