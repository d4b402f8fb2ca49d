package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"nexus/logger"
	"nexus/motion"
)

// defaultFrameRate 参考帧率
const defaultFrameRate = 60

// Stats 帧循环计数
type Stats struct {
	Frames      int64 `json:"frames"`
	Accepted    int64 `json:"accepted"`
	Rejected    int64 `json:"rejected"`
	Overwritten int64 `json:"overwritten"`
	Running     bool  `json:"running"`
}

// Loop 帧循环：每帧取出信箱中的指令交给动画器，再推进一帧并交给渲染器
type Loop struct {
	animator *motion.StepAnimator
	mailbox  *Mailbox
	renderer Renderer
	interval time.Duration
	delta    float64
	log      *logrus.Entry

	frames   atomic.Int64
	accepted atomic.Int64
	rejected atomic.Int64
	running  atomic.Bool
}

// NewLoop 创建帧循环。frameRate <= 0 时使用 60Hz
func NewLoop(animator *motion.StepAnimator, mailbox *Mailbox, renderer Renderer, frameRate int) *Loop {
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}
	if mailbox == nil {
		mailbox = NewMailbox()
	}
	return &Loop{
		animator: animator,
		mailbox:  mailbox,
		renderer: renderer,
		interval: time.Second / time.Duration(frameRate),
		delta:    animator.Config().StepIncrement,
		log:      logger.L().WithField("component", "loop"),
	}
}

// Mailbox 返回帧循环使用的信箱
func (l *Loop) Mailbox() *Mailbox { return l.mailbox }

// Run 运行帧循环直到 ctx 被取消
func (l *Loop) Run(ctx context.Context) error {
	if l.animator == nil {
		return fmt.Errorf("animator is nil")
	}
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("帧循环已在运行")
	}
	defer l.running.Store(false)
	defer sentry.Recover()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.log.Infof("🚀 帧循环已启动 (间隔: %s)", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.log.Info("🛑 帧循环已停止")
			return nil
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step 执行一帧
func (l *Loop) Step() motion.Pose {
	if cmd, ok := l.mailbox.Take(); ok {
		if err := l.animator.Submit(cmd); err != nil {
			l.rejected.Inc()
			l.log.WithField("command", cmd.String()).Debugf("⏳ 指令被拒绝: %v", err)
		} else {
			l.accepted.Inc()
		}
	}

	pose := l.animator.Advance(l.delta)
	l.frames.Inc()

	if l.renderer != nil {
		if err := l.renderer.Render(pose); err != nil {
			l.log.Warnf("⚠️ 渲染失败: %v", err)
		}
	}
	return pose
}

// Stats 返回计数快照
func (l *Loop) Stats() Stats {
	return Stats{
		Frames:      l.frames.Load(),
		Accepted:    l.accepted.Load(),
		Rejected:    l.rejected.Load(),
		Overwritten: l.mailbox.Overwritten(),
		Running:     l.running.Load(),
	}
}
