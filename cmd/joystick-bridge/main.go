package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"nexus/logger"
	"nexus/remote"
	"nexus/serial"
)

// 独立运行的蓝牙摇杆桥接：串口 -> 远端角色服务的 POST /command
func main() {
	device := flag.String("serial", serial.AutoDevice, "串口设备路径，auto 表示自动探测")
	baud := flag.Int("baud", 38400, "串口波特率")
	url := flag.String("url", "http://127.0.0.1:5000", "角色服务地址")
	list := flag.Bool("list", false, "列出可用串口后退出")
	level := flag.String("log-level", "info", "日志级别 (debug, info, warn, error)")
	flag.Parse()

	if envURL := os.Getenv("NEXUS_URL"); envURL != "" {
		*url = envURL
	}
	if envDevice := os.Getenv("NEXUS_SERIAL_DEVICE"); envDevice != "" {
		*device = envDevice
	}

	log := logger.Init(logger.Config{Level: *level, Format: "text"})

	if *list {
		ports := serial.DiscoverPorts()
		if len(ports) == 0 {
			log.Warn("⚠️ 未找到串口设备，请检查连接和驱动")
			return
		}
		for i, p := range ports {
			if p.Bluetooth {
				log.Infof("  [%d] %s ⚡ 蓝牙设备", i, p.Device)
			} else {
				log.Infof("  [%d] %s", i, p.Device)
			}
		}
		return
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Warnf("⚠️ Sentry 初始化失败: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := remote.NewClient(*url)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if status, err := client.Status(pingCtx); err != nil {
		log.Warnf("⚠️ 角色服务暂不可用 (%s): %v", *url, err)
	} else {
		log.Infof("✅ 已连接角色服务，当前朝向 %.1f°", status.Rotation[1])
	}
	cancel()

	port, err := serial.Open(&serial.Config{Device: *device, Baud: *baud, ReadTimeout: 100})
	if err != nil {
		log.Fatalf("❌ 串口连接失败: %v", err)
	}
	defer port.Close()

	bridge := serial.NewBridge(port.Device(), port, client)
	log.Infof("🎮 摇杆桥接已启动: %s -> %s", port.Device(), *url)
	if err := bridge.Run(ctx); err != nil {
		log.Errorf("❌ 串口监听异常退出: %v", err)
	}

	st := bridge.Status()
	log.Infof("🛑 桥接已停止 (收到 %d 行, 转发 %d 条, 丢弃 %d 条)", st.Lines, st.Forwarded, st.Dropped)
}
