package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus/define"
)

// handleStatus 兼容 Web 面板的状态查询，直接返回状态对象
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.characterStatus())
}

// handleGetPose 获取完整姿态
func (s *Server) handleGetPose(c *gin.Context) {
	c.JSON(http.StatusOK, define.ApiResponse{
		Status: define.StatusSuccess,
		Data:   s.poseResponse(),
	})
}

// handleGetActions 获取已注册动作
func (s *Server) handleGetActions(c *gin.Context) {
	actions := s.animator.Actions().List()
	pose := s.animator.Snapshot()

	c.JSON(http.StatusOK, define.ApiResponse{
		Status: define.StatusSuccess,
		Data: ActionListResponse{
			Actions: actions,
			Current: pose.Action,
			Total:   len(actions),
		},
	})
}

func (s *Server) characterStatus() define.StatusResponse {
	pose := s.animator.Snapshot()
	return define.StatusResponse{
		IsWalking: pose.IsWalking(),
		Position:  [3]float64{pose.Position.X(), pose.Position.Y(), pose.Position.Z()},
		Rotation:  [3]float64{0, pose.Yaw, 0},
	}
}

func (s *Server) poseResponse() PoseResponse {
	pose := s.animator.Snapshot()
	resp := PoseResponse{
		State:        pose.State.String(),
		Action:       pose.Action,
		Position:     [3]float64{pose.Position.X(), pose.Position.Y(), pose.Position.Z()},
		Yaw:          pose.Yaw,
		Limbs:        pose.Limbs(),
		WalkProgress: pose.WalkProgress,
		EnergyPulse:  pose.EnergyPulse,
	}
	if target, ok := s.animator.Target(); ok {
		resp.Target = &[3]float64{target.X(), target.Y(), target.Z()}
	}
	return resp
}
