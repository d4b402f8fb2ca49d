package motion

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"nexus/logger"
)

const (
	legSwingDegrees  = 25.0
	armSwingDegrees  = 20.0
	idleArmDegrees   = 5.0
	stepBounceHeight = 0.1
	energyPulseRate  = 0.05
)

// Config 动画参数，速率均以参考帧（60Hz）为单位
type Config struct {
	StepLength    float64 `yaml:"step_length" json:"stepLength"`
	RotateStep    float64 `yaml:"rotate_step" json:"rotateStep"`
	StepIncrement float64 `yaml:"step_increment" json:"stepIncrement"`
	SwingRate     float64 `yaml:"swing_rate" json:"swingRate"`
	IdleRate      float64 `yaml:"idle_rate" json:"idleRate"`
}

// DefaultConfig 返回默认动画参数
func DefaultConfig() Config {
	return Config{
		StepLength:    0.5,
		RotateStep:    15,
		StepIncrement: 0.08,
		SwingRate:     0.3,
		IdleRate:      0.02,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.StepLength <= 0 {
		c.StepLength = def.StepLength
	}
	if c.RotateStep <= 0 {
		c.RotateStep = def.RotateStep
	}
	if c.StepIncrement <= 0 {
		c.StepIncrement = def.StepIncrement
	}
	if c.SwingRate <= 0 {
		c.SwingRate = def.SwingRate
	}
	if c.IdleRate <= 0 {
		c.IdleRate = def.IdleRate
	}
	return c
}

// motionState 动画器内部状态，按值拷贝
type motionState struct {
	mode     MotionState
	position mgl64.Vec3
	yaw      float64

	// 走步
	start        mgl64.Vec3
	target       mgl64.Vec3
	walkProgress float64
	swingPhase   float64

	// 动作
	action      Action
	actionPhase float64

	idlePhase   float64
	energyPulse float64
}

func (s motionState) actionName() string {
	if s.action == nil {
		return ""
	}
	return s.action.Name()
}

// StepAnimator 将离散指令转换为逐帧的关节角度和根节点变换。
//
// Submit 与 Advance 可以在不同 goroutine 中调用。锁只在接受/拒绝指令以及
// 读写状态时持有，不跨越一帧的计算。
type StepAnimator struct {
	cfg     Config
	actions *ActionRegistry
	log     *logrus.Entry

	mu   sync.Mutex
	st   motionState
	pose Pose
	gen  uint64 // 每接受一条指令加一
}

// NewStepAnimator 创建动画器，actions 为 nil 时使用默认动作
func NewStepAnimator(cfg Config, actions *ActionRegistry) *StepAnimator {
	if actions == nil {
		actions = DefaultActions()
	}
	return &StepAnimator{
		cfg:     cfg.withDefaults(),
		actions: actions,
		log:     logger.L().WithField("component", "animator"),
	}
}

// Config 返回生效的动画参数
func (a *StepAnimator) Config() Config { return a.cfg }

// Actions 返回动作注册表
func (a *StepAnimator) Actions() *ActionRegistry { return a.actions }

// SubmitToken 解析字符串指令并提交
func (a *StepAnimator) SubmitToken(token string) error {
	cmd, ok := ParseCommand(token)
	if !ok {
		a.log.Debugf("❓ 未知指令 %q", token)
		return &RejectedError{Token: token, Reason: ReasonUnknownCommand}
	}
	return a.Submit(cmd)
}

// Submit 提交一条指令，立即返回。被拒绝时返回 *RejectedError
func (a *StepAnimator) Submit(cmd Command) error {
	if cmd.Kind() == "" {
		return &RejectedError{Token: cmd.String(), Reason: ReasonUnknownCommand}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if cmd == CommandReset {
		a.st = motionState{}
		a.pose = Pose{}
		a.gen++
		a.log.Info("🔄 角色已重置")
		return nil
	}

	st := a.st
	switch st.mode {
	case StateStepping:
		return busy(cmd)
	case StateActionPlaying:
		if st.action.Duration() > 0 {
			return busy(cmd)
		}
		// 循环动作被任何被接受的指令取消
		a.log.Debugf("🛑 %s 动作被 %s 取消", st.actionName(), cmd)
		st.mode = StateIdle
		st.action = nil
		st.actionPhase = 0
		if cmd == CommandDance {
			a.commit(st)
			return nil
		}
	}

	switch cmd.Kind() {
	case KindMovement:
		st.mode = StateStepping
		st.start = st.position
		st.target = st.position.Add(a.stepOffset(cmd, st.yaw))
		st.walkProgress = 0
		st.swingPhase = 0
	case KindRotation:
		st.yaw = wrapDegrees(st.yaw + cmd.yawDelta()*a.cfg.RotateStep)
	case KindAction:
		action, ok := a.actions.Get(cmd)
		if !ok {
			return &RejectedError{Token: cmd.String(), Reason: ReasonUnknownCommand}
		}
		st.mode = StateActionPlaying
		st.action = action
		st.actionPhase = 0
	default:
		return &RejectedError{Token: cmd.String(), Reason: ReasonUnknownCommand}
	}

	a.commit(st)
	a.log.Debugf("▶️ 接受指令 %s (状态: %s)", cmd, st.mode)
	return nil
}

// commit 写回新状态并同步快照中的根节点信息，调用方持有锁
func (a *StepAnimator) commit(st motionState) {
	a.st = st
	a.gen++
	a.pose.Position = st.position
	a.pose.Yaw = st.yaw
	a.pose.State = st.mode
	a.pose.Action = st.actionName()
	a.pose.WalkProgress = st.walkProgress
}

// stepOffset 计算一步的世界坐标位移：本地方向绕 Y 轴旋转 yaw 后乘以步长
func (a *StepAnimator) stepOffset(cmd Command, yaw float64) mgl64.Vec3 {
	dir := mgl64.Rotate3DY(mgl64.DegToRad(yaw)).Mul3x1(cmd.localDirection())
	return dir.Mul(a.cfg.StepLength)
}

// Tick 按默认进度增量推进一帧
func (a *StepAnimator) Tick() Pose { return a.Advance(a.cfg.StepIncrement) }

// Advance 按进度增量推进一帧并返回新的姿态。
// 结果只由累计进度决定，与实际经过的时间无关。
func (a *StepAnimator) Advance(delta float64) Pose {
	if delta < 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		delta = 0
	}

	a.mu.Lock()
	st, gen := a.st, a.gen
	a.mu.Unlock()

	next, pose := a.step(st, delta)

	return a.commitFrame(gen, next, pose)
}

// commitFrame 写回一帧的计算结果。计算期间有新指令被接受时丢弃结果，
// 返回新状态下关节归零的姿态
func (a *StepAnimator) commitFrame(gen uint64, next motionState, pose Pose) Pose {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen {
		return restPose(a.st)
	}
	a.st = next
	a.pose = pose
	return pose
}

// Snapshot 返回最近一帧的姿态副本
func (a *StepAnimator) Snapshot() Pose {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pose
}

// State 返回当前运动模式
func (a *StepAnimator) State() MotionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.st.mode
}

// Target 返回正在进行的走步目标，非走步状态返回 false
func (a *StepAnimator) Target() (mgl64.Vec3, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.st.mode != StateStepping {
		return mgl64.Vec3{}, false
	}
	return a.st.target, true
}

// step 是纯函数：由旧状态和进度增量计算新状态和姿态
func (a *StepAnimator) step(st motionState, delta float64) (motionState, Pose) {
	frames := delta / a.cfg.StepIncrement
	st.energyPulse += energyPulseRate * frames

	switch st.mode {
	case StateStepping:
		st.walkProgress = math.Min(st.walkProgress+delta, 1)
		st.swingPhase += a.cfg.SwingRate * frames

		if st.walkProgress >= 1 {
			st.position = st.target
			st.mode = StateIdle
			pose := restPose(st)
			pose.WalkProgress = 1
			st.walkProgress = 0
			return st, pose
		}

		st.position = st.start.Add(st.target.Sub(st.start).Mul(Smoothstep(st.walkProgress)))
		pose := restPose(st)
		pose.Angles[LimbLeftLeg] = swing(st.swingPhase, sideLeft) * legSwingDegrees
		pose.Angles[LimbRightLeg] = swing(st.swingPhase, sideRight) * legSwingDegrees
		pose.Angles[LimbLeftArm] = -swing(st.swingPhase, sideLeft) * armSwingDegrees
		pose.Angles[LimbRightArm] = -swing(st.swingPhase, sideRight) * armSwingDegrees
		pose.Position[1] += math.Sin(st.swingPhase) * stepBounceHeight
		return st, pose

	case StateActionPlaying:
		st.actionPhase += frames
		if d := st.action.Duration(); d > 0 && st.actionPhase >= d {
			st.mode = StateIdle
			st.action = nil
			st.actionPhase = 0
			return st, restPose(st)
		}
		pose := restPose(st)
		st.action.Apply(st.actionPhase, &pose)
		return st, pose
	}

	st.idlePhase += a.cfg.IdleRate * frames
	pose := restPose(st)
	pose.Angles[LimbLeftArm] = swing(st.idlePhase, sideLeft) * idleArmDegrees
	pose.Angles[LimbRightArm] = swing(st.idlePhase, sideRight) * idleArmDegrees
	return st, pose
}

// restPose 返回关节角度全部为零的姿态
func restPose(st motionState) Pose {
	return Pose{
		Position:     st.position,
		Yaw:          st.yaw,
		State:        st.mode,
		Action:       st.actionName(),
		WalkProgress: st.walkProgress,
		EnergyPulse:  st.energyPulse,
	}
}
