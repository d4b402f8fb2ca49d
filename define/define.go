package define

// API 响应结构体
type ApiResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// 响应状态，busy 与 unknown_command 与拒绝原因同名
const (
	StatusSuccess        = "success"
	StatusError          = "error"
	StatusBusy           = "busy"
	StatusUnknownCommand = "unknown_command"
)

// 指令请求结构体
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// 角色状态结构体（兼容 Web 面板的 /status 格式）
type StatusResponse struct {
	IsWalking bool       `json:"is_walking"`
	Position  [3]float64 `json:"position"`
	Rotation  [3]float64 `json:"rotation"`
}
