package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"

	"nexus/api"
	"nexus/cli"
	"nexus/config"
	"nexus/console"
	"nexus/engine"
	"nexus/logger"
	"nexus/motion"
	"nexus/serial"
)

// 打印服务配置
func logConfig(log *logrus.Logger, cfg *config.Config) {
	log.Infof("🔧 服务配置：")
	log.Infof("   - Web 地址: %s", cfg.Addr())
	log.Infof("   - 帧率: %d Hz", cfg.Render.FrameRate)
	log.Infof("   - 步长: %.2f, 转身角度: %.1f°", cfg.Animation.StepLength, cfg.Animation.RotateStep)
	if cfg.Serial.Enabled {
		log.Infof("   - 串口: %s @ %d baud", cfg.Serial.Device, cfg.Serial.Baud)
	} else {
		log.Infof("   - 串口: 未启用")
	}
	log.Infof("   - 键盘控制台: %v", cfg.Console.Enabled)
}

func main() {
	opts, err := cli.ParseConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(2)
	}
	cfg := opts.Config

	log := logger.Init(cfg.Logging)
	if opts.Created {
		log.Infof("📝 已生成默认配置文件: %s", opts.ConfigPath)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Warnf("⚠️ Sentry 初始化失败: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			log.Info("🛰️ Sentry 错误上报已启用")
		}
	}

	log.Info("🚀 启动 NEXUS 角色动画服务")
	logConfig(log, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 动画核心与帧循环
	animator := motion.NewStepAnimator(cfg.Animation, motion.DefaultActions())
	renderer := &engine.LogRenderer{Log: log.WithField("component", "render"), Every: cfg.Render.LogEvery}
	loop := engine.NewLoop(animator, engine.NewMailbox(), renderer, cfg.Render.FrameRate)
	go func() {
		if err := loop.Run(ctx); err != nil {
			log.Errorf("❌ 帧循环异常退出: %v", err)
		}
	}()

	server := api.NewServer(animator).WithLoop(loop).WithStatic(cfg.Server.StaticDir)

	// 蓝牙摇杆
	if cfg.Serial.Enabled {
		port, err := serial.Open(&serial.Config{
			Device:      cfg.Serial.Device,
			Baud:        cfg.Serial.Baud,
			ReadTimeout: cfg.Serial.ReadTimeoutMs,
		})
		if err != nil {
			log.Warnf("⚠️ 串口连接失败，仅使用键盘和 Web 控制: %v", err)
		} else {
			defer port.Close()
			bridge := serial.NewBridge(port.Device(), port, loop.Mailbox())
			server.WithSerial(bridge)
			go func() {
				if err := bridge.Run(ctx); err != nil {
					log.Errorf("❌ 串口监听异常退出: %v", err)
				}
			}()
		}
	}

	if cfg.Stats.Enabled {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.Stats.Addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		log.Infof("📈 运行时统计面板: http://%s/debug/statsview", cfg.Stats.Addr)
	}

	// 设置 Gin 模式
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	if cfg.Server.EnableCORS {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	server.SetupRoutes(r)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}
	go func() {
		log.Infof("🌐 控制面板运行在 http://%s", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("❌ 服务启动失败: %v", err)
			stop()
		}
	}()

	if cfg.Console.Enabled {
		go func() {
			err := console.NewConsole(loop.Mailbox(), animator).Start(ctx)
			switch {
			case errors.Is(err, console.ErrQuit):
				log.Info("👋 用户退出")
				stop()
			case err != nil:
				log.Warnf("⚠️ 键盘控制台不可用: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Info("🛑 正在关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("⚠️ 关闭 Web 服务失败: %v", err)
	}

	stats := loop.Stats()
	log.WithFields(logrus.Fields{
		"frames":      stats.Frames,
		"accepted":    stats.Accepted,
		"rejected":    stats.Rejected,
		"overwritten": stats.Overwritten,
	}).Info("✅ 服务已关闭")
}
