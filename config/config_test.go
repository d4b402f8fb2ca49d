package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLoad 使用表驱动测试覆盖配置加载的核心场景
func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		createFile bool
		content    string
		wantErr    bool
		validate   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:       "正常加载有效YAML",
			createFile: true,
			content: `server:
  host: "127.0.0.1"
  port: 8088
animation:
  step_length: 0.75
  rotate_step: 30
serial:
  enabled: true
  device: "/dev/rfcomm0"
  baud: 9600
logging:
  level: "debug"
  format: "json"
`,
			validate: func(t *testing.T, cfg *Config, err error) {
				if cfg.Server.Host != "127.0.0.1" {
					t.Errorf("Server.Host = %q, 期望 %q", cfg.Server.Host, "127.0.0.1")
				}
				if cfg.Server.Port != 8088 {
					t.Errorf("Server.Port = %d, 期望 %d", cfg.Server.Port, 8088)
				}
				if cfg.Animation.StepLength != 0.75 {
					t.Errorf("Animation.StepLength = %v, 期望 0.75", cfg.Animation.StepLength)
				}
				if cfg.Animation.RotateStep != 30 {
					t.Errorf("Animation.RotateStep = %v, 期望 30", cfg.Animation.RotateStep)
				}
				// 未出现的字段保留默认值
				if cfg.Animation.StepIncrement != 0.08 {
					t.Errorf("Animation.StepIncrement = %v, 期望默认 0.08", cfg.Animation.StepIncrement)
				}
				if !cfg.Serial.Enabled || cfg.Serial.Device != "/dev/rfcomm0" || cfg.Serial.Baud != 9600 {
					t.Errorf("Serial = %+v", cfg.Serial)
				}
				if cfg.Serial.ReadTimeoutMs != 100 {
					t.Errorf("Serial.ReadTimeoutMs = %d, 期望默认 100", cfg.Serial.ReadTimeoutMs)
				}
				if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
					t.Errorf("Logging = %+v", cfg.Logging)
				}
				if !cfg.Console.Enabled {
					t.Error("Console.Enabled 应保留默认 true")
				}
			},
		},
		{
			name:       "文件不存在",
			createFile: false,
			wantErr:    true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if !os.IsNotExist(err) {
					t.Errorf("期望文件不存在错误，实际: %v", err)
				}
			},
		},
		{
			name:       "YAML格式错误",
			createFile: true,
			content: `server:
  host: "127.0.0.1"
  port: [5000
`,
			wantErr: true,
			validate: func(t *testing.T, cfg *Config, err error) {
				if err == nil || !strings.Contains(err.Error(), "yaml") {
					t.Errorf("期望返回YAML解析错误，实际: %v", err)
				}
			},
		},
		{
			name:       "空文件",
			createFile: true,
			content:    "",
			validate: func(t *testing.T, cfg *Config, err error) {
				def := Default()
				if cfg.Server != def.Server {
					t.Errorf("Server = %+v, 期望默认 %+v", cfg.Server, def.Server)
				}
				if cfg.Animation != def.Animation {
					t.Errorf("Animation = %+v, 期望默认 %+v", cfg.Animation, def.Animation)
				}
			},
		},
		{
			name:       "端口为零时回退默认",
			createFile: true,
			content:    "server:\n  port: 0\n",
			validate: func(t *testing.T, cfg *Config, err error) {
				if cfg.Server.Port != 5000 {
					t.Errorf("Server.Port = %d, 期望 5000", cfg.Server.Port)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.createFile {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("写入临时配置失败: %v", err)
				}
			}

			cfg, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			tt.validate(t, cfg, err)
		})
	}
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "nexus.yaml")

	cfg, created, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate() = %v", err)
	}
	if !created {
		t.Error("首次调用应创建配置文件")
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}

	cfg.Server.Port = 6001
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() = %v", err)
	}

	again, created, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("第二次 LoadOrCreate() = %v", err)
	}
	if created {
		t.Error("文件已存在时不应重新创建")
	}
	if again.Server.Port != 6001 {
		t.Errorf("Server.Port = %d, 期望 6001", again.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"默认配置有效", func(c *Config) {}, false},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"帧率为零", func(c *Config) { c.Render.FrameRate = 0 }, true},
		{"启用串口但无设备", func(c *Config) { c.Serial.Enabled = true; c.Serial.Device = "" }, true},
		{"启用串口但波特率无效", func(c *Config) { c.Serial.Enabled = true; c.Serial.Baud = -1 }, true},
		{"未启用串口时忽略串口字段", func(c *Config) { c.Serial.Device = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
