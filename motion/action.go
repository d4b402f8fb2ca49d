package motion

import (
	"sort"
	"sync"

	"nexus/logger"
)

// Action 定义了一个动作的闭式时间线
type Action interface {
	// Name 返回动作名称，与触发它的指令同名
	Name() string
	// Trigger 返回触发该动作的指令
	Trigger() Command
	// Duration 返回动作时长（参考帧数），0 表示循环播放直到被其他指令取消
	Duration() float64
	// Apply 按相位写入关节角度和根节点偏移，pose 的关节角度在调用前已清零
	Apply(phase float64, pose *Pose)
}

// ActionInfo 动作描述，供状态接口使用
type ActionInfo struct {
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Looping  bool    `json:"looping"`
}

// ActionRegistry 管理可用动作
type ActionRegistry struct {
	mu      sync.RWMutex
	actions map[Command]Action
}

// NewActionRegistry 创建一个空的动作注册表
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{actions: make(map[Command]Action)}
}

// DefaultActions 返回注册了 jump / wave / dance / nod 的注册表
func DefaultActions() *ActionRegistry {
	r := NewActionRegistry()
	r.Register(JumpAction{})
	r.Register(WaveAction{})
	r.Register(DanceAction{})
	r.Register(NodAction{})
	return r
}

// Register 注册一个动作，同名动作会被覆盖
func (r *ActionRegistry) Register(action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if action == nil {
		logger.L().Warn("⚠️ 尝试注册一个空动作")
		return
	}

	trigger := action.Trigger()
	if trigger.Kind() != KindAction {
		logger.L().Warnf("⚠️ 动作 %s 的触发指令 %s 不是动作指令，忽略", action.Name(), trigger)
		return
	}
	if _, exists := r.actions[trigger]; exists {
		logger.L().Warnf("⚠️ 动作 %s 已注册，将被覆盖", action.Name())
	}
	r.actions[trigger] = action
	logger.L().Debugf("✅ 动作 %s 已注册", action.Name())
}

// Get 按指令查找动作
func (r *ActionRegistry) Get(cmd Command) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	action, ok := r.actions[cmd]
	return action, ok
}

// List 返回已注册动作的描述，按名称排序
func (r *ActionRegistry) List() []ActionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ActionInfo, 0, len(r.actions))
	for _, action := range r.actions {
		infos = append(infos, ActionInfo{
			Name:     action.Name(),
			Duration: action.Duration(),
			Looping:  action.Duration() <= 0,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
