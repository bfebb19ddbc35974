// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Log           LogConfig           `mapstructure:"log"`
	Session       SessionConfig       `mapstructure:"session"`
	Chat          ChatConfig          `mapstructure:"chat"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Ticket        TicketConfig        `mapstructure:"ticket"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// SessionConfig 存储会话存储相关的配置。
// Backend 取值 "memory" 或 "redis"，默认使用内存实现。
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	MaxSessions   int           `mapstructure:"max_sessions"`
	MaxHistory    int           `mapstructure:"max_history"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ChatConfig 存储对话引擎相关的配置。
type ChatConfig struct {
	MaxAnswerLength int           `mapstructure:"max_answer_length"`
	HighConfidence  float64       `mapstructure:"high_confidence"`
	LowConfidence   float64       `mapstructure:"low_confidence"`
	ClassifyTimeout time.Duration `mapstructure:"classify_timeout"`
	PhraseTimeout   time.Duration `mapstructure:"phrase_timeout"`
	PhrasingEnabled bool          `mapstructure:"phrasing_enabled"`
}

// LLMConfig 存储大语言模型相关的配置。
type LLMConfig struct {
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Model      string              `mapstructure:"model"`
	Generation LLMGenerationConfig `mapstructure:"generation"`
}

// LLMGenerationConfig 配置生成相关参数（可选）。
type LLMGenerationConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// ElasticsearchConfig 存储 Elasticsearch 相关的配置。
type ElasticsearchConfig struct {
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// TicketConfig 存储升级工单编号相关的配置。
type TicketConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}

	applyDefaults(&Conf)
}

// applyDefaults 为未配置的关键字段补齐默认值。
func applyDefaults(c *Config) {
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 30 * time.Minute
	}
	if c.Session.MaxSessions <= 0 {
		c.Session.MaxSessions = 1000
	}
	if c.Session.MaxHistory <= 0 {
		c.Session.MaxHistory = 50
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = 5 * time.Minute
	}
	if c.Chat.MaxAnswerLength <= 0 {
		c.Chat.MaxAnswerLength = 500
	}
	if c.Chat.HighConfidence == 0 {
		c.Chat.HighConfidence = 0.8
	}
	if c.Chat.LowConfidence == 0 {
		c.Chat.LowConfidence = 0.5
	}
	if c.Chat.ClassifyTimeout <= 0 {
		c.Chat.ClassifyTimeout = 8 * time.Second
	}
	if c.Chat.PhraseTimeout <= 0 {
		c.Chat.PhraseTimeout = 5 * time.Second
	}
	if c.Ticket.Prefix == "" {
		c.Ticket.Prefix = "TCK"
	}
}
