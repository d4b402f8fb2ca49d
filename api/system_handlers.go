package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nexus/define"
)

// handleGetSystemStatus 获取系统状态
func (s *Server) handleGetSystemStatus(c *gin.Context) {
	response := SystemStatusResponse{
		State:   s.animator.State().String(),
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		Version: s.version,
	}

	if s.loop != nil {
		stats := s.loop.Stats()
		response.Loop = &stats
	}
	if s.serial != nil {
		status := s.serial.Status()
		response.Serial = &status
	}

	c.JSON(http.StatusOK, define.ApiResponse{
		Status: define.StatusSuccess,
		Data:   response,
	})
}

// handleHealthCheck 健康检查
func (s *Server) handleHealthCheck(c *gin.Context) {
	status := "healthy"

	// 帧循环停止后姿态不再推进
	if s.animator == nil || (s.loop != nil && !s.loop.Stats().Running) {
		status = "unhealthy"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   s.version,
	}

	httpStatus := http.StatusOK
	if status != "healthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, define.ApiResponse{
		Status: define.StatusSuccess,
		Data:   response,
	})
}
