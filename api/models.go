package api

import (
	"time"

	"nexus/engine"
	"nexus/motion"
	"nexus/serial"
)

// ===== 姿态相关模型 =====

// PoseResponse 完整姿态快照
type PoseResponse struct {
	State        string             `json:"state"`
	Action       string             `json:"action,omitempty"`
	Position     [3]float64         `json:"position"`
	Yaw          float64            `json:"yaw"`
	Limbs        map[string]float64 `json:"limbs"`
	WalkProgress float64            `json:"walkProgress"`
	EnergyPulse  float64            `json:"energyPulse"`
	Target       *[3]float64        `json:"target,omitempty"` // 仅走步时存在
}

// ===== 指令相关模型 =====

// CommandInfo 指令说明
type CommandInfo struct {
	Token string `json:"token"`
	Kind  string `json:"kind"`
}

// CommandListResponse 指令列表响应
type CommandListResponse struct {
	Commands []CommandInfo `json:"commands"`
	Total    int           `json:"total"`
}

// ===== 动作相关模型 =====

// ActionListResponse 动作列表响应
type ActionListResponse struct {
	Actions []motion.ActionInfo `json:"actions"`
	Current string              `json:"current,omitempty"`
	Total   int                 `json:"total"`
}

// ===== 系统管理相关模型 =====

// SystemStatusResponse 系统状态响应
type SystemStatusResponse struct {
	State   string         `json:"state"`
	Uptime  string         `json:"uptime"`
	Version string         `json:"version"`
	Loop    *engine.Stats  `json:"loop,omitempty"`
	Serial  *serial.Status `json:"serial,omitempty"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}
