package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 结构体包含所有应用的配置
type Config struct {
	Server ServerConfig `mapstructure:"server"` // `mapstructure` 标签用于Viper绑定结构体
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Log    LogConfig    `mapstructure:"log"`
	Reaper ReaperConfig `mapstructure:"reaper"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig 数据库配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	ExpiresIn time.Duration `mapstructure:"expires_in"`
	Issuer    string        `mapstructure:"issuer"`
}

// zap日志配置
type LogConfig struct {
	OutputPath string `mapstructure:"output_path"`
	ErrorPath  string `mapstructure:"error_path"`
	Level      string `mapstructure:"level"`
}

// ReaperConfig 过期资源回收配置
type ReaperConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // 两次扫描之间的间隔
}

// LoadConfig 加载配置
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")              // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")                // 配置文件类型
	viper.AddConfigPath(".")                   // 在当前目录查找配置文件
	viper.AddConfigPath("./configs")           // 也可以添加其他路径，例如 ./configs/
	viper.AddConfigPath("/etc/go-securesend/") // 生产环境常见路径

	// 读取环境变量，例如 GO_SECURESEND_MYSQL_DSN 对应 mysql.dsn
	viper.SetEnvPrefix("GO_SECURESEND")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 默认值（配置文件和环境变量都没有时生效）
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("jwt.expires_in", time.Hour)
	viper.SetDefault("jwt.issuer", "go-securesend")
	viper.SetDefault("log.output_path", "logs/app.log")
	viper.SetDefault("log.error_path", "logs/error.log")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("reaper.sweep_interval", time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// 配置文件未找到不是致命错误，可以依赖环境变量或默认值
			log.Println("Warning: config file not found, using environment variables or default values.")
		} else {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	log.Println("Configuration loaded successfully with Viper.")
	return cfg, nil
}
