package api

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"nexus/engine"
	"nexus/motion"
	"nexus/serial"
)

// LoopReporter 提供帧循环计数
type LoopReporter interface {
	Stats() engine.Stats
}

// SerialReporter 提供串口桥接状态
type SerialReporter interface {
	Status() serial.Status
}

// Server API 服务器结构体
type Server struct {
	animator  *motion.StepAnimator
	loop      LoopReporter
	serial    SerialReporter
	staticDir string
	startTime time.Time
	version   string
}

// NewServer 创建新的 API 服务器实例
func NewServer(animator *motion.StepAnimator) *Server {
	return &Server{
		animator:  animator,
		startTime: time.Now(),
		version:   "1.0.0",
	}
}

// WithLoop 设置帧循环状态来源
func (s *Server) WithLoop(loop LoopReporter) *Server {
	s.loop = loop
	return s
}

// WithSerial 设置串口状态来源
func (s *Server) WithSerial(r SerialReporter) *Server {
	s.serial = r
	return s
}

// WithStatic 设置控制面板静态文件目录，为空时不挂载
func (s *Server) WithStatic(dir string) *Server {
	s.staticDir = dir
	return s
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(r *gin.Engine) {
	if s.staticDir != "" {
		r.StaticFile("/", filepath.Join(s.staticDir, "index.html"))
		r.Static("/static", s.staticDir)
	}

	// Web 面板兼容路由
	r.POST("/command", s.handleCommand)
	r.GET("/status", s.handleStatus)

	v2 := r.Group("/api/v2")
	{
		v2.GET("/pose", s.handleGetPose) // 获取完整姿态

		commands := v2.Group("/commands")
		{
			commands.GET("", s.handleGetCommands) // 获取可用指令列表
			commands.POST("", s.handleCommand)    // 提交指令
		}

		v2.GET("/actions", s.handleGetActions) // 获取已注册动作
		v2.POST("/reset", s.handleReset)       // 重置角色

		// 系统管理路由
		system := v2.Group("/system")
		{
			system.GET("/status", s.handleGetSystemStatus) // 获取系统状态
			system.GET("/health", s.handleHealthCheck)     // 健康检查
		}
	}
}
