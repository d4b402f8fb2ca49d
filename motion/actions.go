package motion

import "math"

const (
	jumpFrames  = 30
	jumpHeight  = 1.5
	jumpArmLift = 30.0

	waveFrames   = 90
	waveArmRaise = 100.0
	waveArmSwing = 60.0
	waveArmFreq  = 0.2

	nodFrames    = 60
	nodHeadPitch = 25.0

	danceFreq     = 0.45
	danceArmSwing = 35.0
	danceLegSwing = 40.0
)

// --- JumpAction ---

// JumpAction 原地跳跃，根节点高度按 sin(π·t) 起落，无水平位移
type JumpAction struct{}

func (JumpAction) Name() string { return "jump" }
func (JumpAction) Trigger() Command { return CommandJump }
func (JumpAction) Duration() float64 { return jumpFrames }

func (j JumpAction) Apply(phase float64, pose *Pose) {
	lift := envelope(phase / j.Duration())
	pose.Position[1] += lift * jumpHeight
	pose.Angles[LimbLeftArm] = lift * jumpArmLift
	pose.Angles[LimbRightArm] = lift * jumpArmLift
}

// --- WaveAction ---

// WaveAction 右臂抬起挥手
type WaveAction struct{}

func (WaveAction) Name() string { return "wave" }
func (WaveAction) Trigger() Command { return CommandWave }
func (WaveAction) Duration() float64 { return waveFrames }

func (w WaveAction) Apply(phase float64, pose *Pose) {
	raise := envelope(phase / w.Duration())
	pose.Angles[LimbRightArm] = (waveArmRaise + math.Sin(phase*waveArmFreq)*waveArmSwing) * raise
}

// --- NodAction ---

// NodAction 点头两次
type NodAction struct{}

func (NodAction) Name() string { return "nod" }
func (NodAction) Trigger() Command { return CommandNod }
func (NodAction) Duration() float64 { return nodFrames }

func (n NodAction) Apply(phase float64, pose *Pose) {
	t := clamp01(phase / n.Duration())
	pose.Angles[LimbHead] = math.Abs(math.Sin(2*math.Pi*t)) * nodHeadPitch
}

// --- DanceAction ---

// DanceAction 手臂和腿同时摆动，频率高于走路；循环播放直到被其他指令取消
type DanceAction struct{}

func (DanceAction) Name() string { return "dance" }
func (DanceAction) Trigger() Command { return CommandDance }
func (DanceAction) Duration() float64 { return 0 }

func (DanceAction) Apply(phase float64, pose *Pose) {
	p := phase * danceFreq
	pose.Angles[LimbLeftArm] = swing(p, sideLeft) * danceArmSwing
	pose.Angles[LimbRightArm] = swing(p, sideRight) * danceArmSwing
	pose.Angles[LimbLeftLeg] = swing(p, sideLeft) * danceLegSwing
	pose.Angles[LimbRightLeg] = swing(p, sideRight) * danceLegSwing
}
