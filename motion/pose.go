package motion

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Limb 可动关节
type Limb int

const (
	LimbLeftArm Limb = iota
	LimbRightArm
	LimbLeftLeg
	LimbRightLeg
	LimbHead
	limbCount
)

// AllLimbs 按固定顺序列出所有关节
var AllLimbs = []Limb{LimbLeftArm, LimbRightArm, LimbLeftLeg, LimbRightLeg, LimbHead}

func (l Limb) String() string {
	switch l {
	case LimbLeftArm:
		return "left_arm"
	case LimbRightArm:
		return "right_arm"
	case LimbLeftLeg:
		return "left_leg"
	case LimbRightLeg:
		return "right_leg"
	case LimbHead:
		return "head"
	}
	return "unknown"
}

// MotionState 顶层运动模式，同一时刻只有一个处于激活状态
type MotionState int

const (
	StateIdle MotionState = iota
	StateStepping
	StateActionPlaying
)

func (s MotionState) String() string {
	switch s {
	case StateStepping:
		return "stepping"
	case StateActionPlaying:
		return "action_playing"
	}
	return "idle"
}

// Pose 一帧的渲染状态：根节点位置、偏航角（度）以及各关节角度（度）
type Pose struct {
	Position mgl64.Vec3
	Yaw      float64
	Angles   [limbCount]float64

	// 以下字段供渲染器和状态接口使用
	State        MotionState
	Action       string
	WalkProgress float64
	EnergyPulse  float64
}

// Angle 返回指定关节的角度
func (p Pose) Angle(l Limb) float64 {
	if l < 0 || l >= limbCount {
		return 0
	}
	return p.Angles[l]
}

// Limbs 以 map 形式返回关节角度
func (p Pose) Limbs() map[string]float64 {
	limbs := make(map[string]float64, len(AllLimbs))
	for _, l := range AllLimbs {
		limbs[l.String()] = p.Angles[l]
	}
	return limbs
}

// IsWalking 是否正在走步
func (p Pose) IsWalking() bool { return p.State == StateStepping }

// side 返回左右两侧的相位偏移：左侧 0，右侧 1，使两侧交替摆动
type side float64

const (
	sideLeft  side = 0
	sideRight side = 1
)
