package engine

import (
	"github.com/sirupsen/logrus"

	"nexus/motion"
)

// Renderer 定义了消费每帧姿态的能力（图元绘制不在本服务内）
type Renderer interface {
	Render(pose motion.Pose) error
}

// RendererFunc 函数适配器
type RendererFunc func(pose motion.Pose) error

func (f RendererFunc) Render(pose motion.Pose) error { return f(pose) }

// LogRenderer 每隔 Every 帧以 debug 级别输出一次姿态
type LogRenderer struct {
	Log   *logrus.Entry
	Every int

	frame int
}

func (r *LogRenderer) Render(pose motion.Pose) error {
	r.frame++
	every := r.Every
	if every <= 0 {
		every = 60
	}
	if r.Log == nil || r.frame%every != 0 {
		return nil
	}
	r.Log.WithFields(logrus.Fields{
		"state":    pose.State.String(),
		"action":   pose.Action,
		"position": pose.Position,
		"yaw":      pose.Yaw,
		"limbs":    pose.Limbs(),
	}).Debug("🎞️ 姿态")
	return nil
}
