package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"nexus/config"
)

// Options 命令行解析结果
type Options struct {
	ConfigPath string
	Created    bool // 配置文件是否为本次新建
	Config     *config.Config
}

// 解析配置：配置文件 < 命令行参数 < 环境变量
func ParseConfig(args []string) (*Options, error) {
	return parseConfig(args, os.Getenv, os.Stderr)
}

func parseConfig(args []string, getenv func(string) string, out io.Writer) (*Options, error) {
	fs := flag.NewFlagSet("nexus", flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		configPath = fs.String("config", "config.yaml", "配置文件路径（不存在时自动创建）")
		host       = fs.String("host", "", "Web 服务监听地址")
		port       = fs.Int("port", 0, "Web 服务的端口")
		serialDev  = fs.String("serial", "", "蓝牙串口设备路径，auto 表示自动探测")
		baud       = fs.Int("baud", 0, "串口波特率")
		noConsole  = fs.Bool("no-console", false, "禁用键盘控制台")
		logLevel   = fs.String("log-level", "", "日志级别 (debug, info, warn, error)")
		frameRate  = fs.Int("frame-rate", 0, "帧循环频率 (Hz)")
		stats      = fs.Bool("stats", false, "启用运行时统计面板")
	)
	fs.Usage = func() { printUsage(fs, out) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, created, err := config.LoadOrCreate(*configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败：%w", err)
	}

	// 只覆盖显式设置过的参数
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Server.Host = *host
		case "port":
			cfg.Server.Port = *port
		case "serial":
			cfg.Serial.Device = *serialDev
			cfg.Serial.Enabled = true
		case "baud":
			cfg.Serial.Baud = *baud
		case "no-console":
			cfg.Console.Enabled = !*noConsole
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "frame-rate":
			cfg.Render.FrameRate = *frameRate
		case "stats":
			cfg.Stats.Enabled = *stats
		}
	})

	// 环境变量覆盖命令行参数
	if envPort := getenv("NEXUS_WEB_PORT"); envPort != "" {
		p, err := strconv.Atoi(envPort)
		if err != nil {
			return nil, fmt.Errorf("NEXUS_WEB_PORT 无效：%w", err)
		}
		cfg.Server.Port = p
	}
	if envDevice := getenv("NEXUS_SERIAL_DEVICE"); envDevice != "" {
		cfg.Serial.Device = strings.TrimSpace(envDevice)
		cfg.Serial.Enabled = true
	}
	if envBaud := getenv("NEXUS_SERIAL_BAUD"); envBaud != "" {
		b, err := strconv.Atoi(envBaud)
		if err != nil {
			return nil, fmt.Errorf("NEXUS_SERIAL_BAUD 无效：%w", err)
		}
		cfg.Serial.Baud = b
	}
	if envLevel := getenv("NEXUS_LOG_LEVEL"); envLevel != "" {
		cfg.Logging.Level = envLevel
	}
	if dsn := getenv("SENTRY_DSN"); dsn != "" {
		cfg.Sentry.DSN = dsn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Options{ConfigPath: *configPath, Created: created, Config: cfg}, nil
}

func printUsage(fs *flag.FlagSet, out io.Writer) {
	fmt.Fprintln(out, "nexus - 程序化角色动画控制服务")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "用法: nexus [参数]")
	fmt.Fprintln(out)
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "环境变量:")
	fmt.Fprintln(out, "  NEXUS_WEB_PORT       覆盖 Web 端口")
	fmt.Fprintln(out, "  NEXUS_SERIAL_DEVICE  覆盖串口设备并启用串口")
	fmt.Fprintln(out, "  NEXUS_SERIAL_BAUD    覆盖串口波特率")
	fmt.Fprintln(out, "  NEXUS_LOG_LEVEL      覆盖日志级别")
	fmt.Fprintln(out, "  SENTRY_DSN           启用 Sentry 错误上报")
}
