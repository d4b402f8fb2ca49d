package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"nexus/logger"
	"nexus/motion"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Animation motion.Config `yaml:"animation"`
	Render    RenderConfig  `yaml:"render"`
	Serial    SerialConfig  `yaml:"serial"`
	Console   ConsoleConfig `yaml:"console"`
	Logging   logger.Config `yaml:"logging"`
	Sentry    SentryConfig  `yaml:"sentry"`
	Stats     StatsConfig   `yaml:"stats"`
}

// ServerConfig Web 控制面板配置
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	EnableCORS bool   `yaml:"enable_cors"`
	StaticDir  string `yaml:"static_dir"`
}

// RenderConfig 帧循环配置
type RenderConfig struct {
	FrameRate int `yaml:"frame_rate"`
	LogEvery  int `yaml:"log_every"` // 每隔多少帧输出一次姿态日志
}

// SerialConfig 蓝牙摇杆串口配置
type SerialConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Device        string `yaml:"device"` // "auto" 表示自动探测
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ConsoleConfig 键盘控制台配置
type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SentryConfig 错误上报配置，DSN 为空时不启用
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// StatsConfig 运行时统计面板配置
type StatsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default 获取默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       5000,
			EnableCORS: true,
			StaticDir:  "./static",
		},
		Animation: motion.DefaultConfig(),
		Render: RenderConfig{
			FrameRate: 60,
			LogEvery:  60,
		},
		Serial: SerialConfig{
			Enabled:       false,
			Device:        "auto",
			Baud:          38400,
			ReadTimeoutMs: 100,
		},
		Console: ConsoleConfig{Enabled: true},
		Logging: logger.Config{Level: "info", Format: "text"},
		Sentry:  SentryConfig{Environment: "development"},
		Stats:   StatsConfig{Enabled: false, Addr: "localhost:18066"},
	}
}

// Load 从文件加载配置，未出现的字段保留默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败：%w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrCreate 配置文件不存在时写出默认配置
func LoadOrCreate(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}

	cfg = Default()
	if err := Save(cfg, path); err != nil {
		return nil, false, fmt.Errorf("保存默认配置失败：%w", err)
	}
	return cfg, true, nil
}

// Save 保存配置到文件
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建配置目录失败：%w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败：%w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("保存配置文件失败：%w", err)
	}
	return nil
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("无效的 Web 端口: %d", c.Server.Port)
	}
	if c.Render.FrameRate <= 0 || c.Render.FrameRate > 1000 {
		return fmt.Errorf("无效的帧率: %d", c.Render.FrameRate)
	}
	if c.Serial.Enabled {
		if c.Serial.Device == "" {
			return errors.New("启用串口时必须设置设备路径或 auto")
		}
		if c.Serial.Baud <= 0 {
			return fmt.Errorf("无效的波特率: %d", c.Serial.Baud)
		}
	}
	return nil
}

// Addr 返回 Web 服务监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = def.Server.StaticDir
	}
	if c.Render.FrameRate == 0 {
		c.Render.FrameRate = def.Render.FrameRate
	}
	if c.Serial.Device == "" {
		c.Serial.Device = def.Serial.Device
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}
	if c.Serial.ReadTimeoutMs == 0 {
		c.Serial.ReadTimeoutMs = def.Serial.ReadTimeoutMs
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Stats.Addr == "" {
		c.Stats.Addr = def.Stats.Addr
	}
}
