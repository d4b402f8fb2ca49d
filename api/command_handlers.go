package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"nexus/define"
	"nexus/logger"
	"nexus/motion"
)

// handleCommand 提交一条指令。被拒绝的指令同样返回 200，状态字段给出原因
func (s *Server) handleCommand(c *gin.Context) {
	var req define.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, define.ApiResponse{
			Status: define.StatusError,
			Error:  "无效的指令请求：" + err.Error(),
		})
		return
	}

	err := s.animator.SubmitToken(req.Command)
	if err == nil {
		c.JSON(http.StatusOK, define.ApiResponse{
			Status:  define.StatusSuccess,
			Message: fmt.Sprintf("指令 %s 已执行", req.Command),
			Data:    s.characterStatus(),
		})
		return
	}

	reason := motion.ReasonOf(err)
	if reason == "" {
		logger.L().Errorf("❌ 指令处理失败: %v", err)
		c.JSON(http.StatusInternalServerError, define.ApiResponse{
			Status: define.StatusError,
			Error:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  string(reason),
		Message: err.Error(),
		Data:    s.characterStatus(),
	})
}

// handleGetCommands 获取可用指令列表
func (s *Server) handleGetCommands(c *gin.Context) {
	commands := lo.Map(motion.AllCommands, func(cmd motion.Command, _ int) CommandInfo {
		return CommandInfo{Token: cmd.String(), Kind: string(cmd.Kind())}
	})

	c.JSON(http.StatusOK, define.ApiResponse{
		Status: define.StatusSuccess,
		Data: CommandListResponse{
			Commands: commands,
			Total:    len(commands),
		},
	})
}

// handleReset 重置角色
func (s *Server) handleReset(c *gin.Context) {
	if err := s.animator.Submit(motion.CommandReset); err != nil {
		c.JSON(http.StatusInternalServerError, define.ApiResponse{
			Status: define.StatusError,
			Error:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  define.StatusSuccess,
		Message: "角色已重置",
		Data:    s.poseResponse(),
	})
}
