package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nexus/motion"
)

func TestMailboxLastWriterWins(t *testing.T) {
	m := NewMailbox()
	if _, ok := m.Take(); ok {
		t.Fatal("空信箱不应取到指令")
	}

	m.Post(motion.CommandForward)
	m.Post(motion.CommandJump)
	m.Post(motion.CommandWave)

	cmd, ok := m.Take()
	if !ok || cmd != motion.CommandWave {
		t.Errorf("Take() = (%s, %v), 期望 (wave, true)", cmd, ok)
	}
	if _, ok := m.Take(); ok {
		t.Error("信箱只有一个槽位，第二次 Take 应为空")
	}
	if m.Overwritten() != 2 {
		t.Errorf("Overwritten() = %d, 期望 2", m.Overwritten())
	}
}

func TestMailboxConcurrentPost(t *testing.T) {
	m := NewMailbox()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Post(motion.CommandNod)
			}
		}()
	}
	wg.Wait()

	if cmd, ok := m.Take(); !ok || cmd != motion.CommandNod {
		t.Errorf("Take() = (%s, %v)", cmd, ok)
	}
	if m.Overwritten() != 799 {
		t.Errorf("Overwritten() = %d, 期望 799", m.Overwritten())
	}
}

type recordingRenderer struct {
	poses []motion.Pose
	err   error
}

func (r *recordingRenderer) Render(pose motion.Pose) error {
	r.poses = append(r.poses, pose)
	return r.err
}

func TestLoopStepDrainsMailbox(t *testing.T) {
	animator := motion.NewStepAnimator(motion.DefaultConfig(), nil)
	renderer := &recordingRenderer{}
	loop := NewLoop(animator, nil, renderer, 60)

	loop.Mailbox().Post(motion.CommandForward)
	pose := loop.Step()
	if pose.State != motion.StateStepping {
		t.Fatalf("状态 = %s, 期望 stepping", pose.State)
	}

	// 走步中的指令被拒绝并丢弃
	loop.Mailbox().Post(motion.CommandJump)
	loop.Step()
	if _, ok := loop.Mailbox().Take(); ok {
		t.Error("被拒绝的指令不应留在信箱中")
	}

	stats := loop.Stats()
	if stats.Frames != 2 || stats.Accepted != 1 || stats.Rejected != 1 {
		t.Errorf("Stats = %+v, 期望 frames=2 accepted=1 rejected=1", stats)
	}
	if len(renderer.poses) != 2 {
		t.Errorf("渲染次数 = %d, 期望 2", len(renderer.poses))
	}
}

func TestLoopRenderErrorDoesNotStop(t *testing.T) {
	animator := motion.NewStepAnimator(motion.DefaultConfig(), nil)
	renderer := &recordingRenderer{err: errors.New("gpu lost")}
	loop := NewLoop(animator, nil, renderer, 60)

	for i := 0; i < 3; i++ {
		loop.Step()
	}
	if loop.Stats().Frames != 3 {
		t.Errorf("Frames = %d, 期望 3", loop.Stats().Frames)
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	animator := motion.NewStepAnimator(motion.DefaultConfig(), nil)
	loop := NewLoop(animator, nil, nil, 200)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for loop.Stats().Frames < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if loop.Stats().Frames < 3 {
		cancel()
		t.Fatal("帧循环没有推进")
	}
	if err := loop.Run(ctx); err == nil {
		t.Error("重复运行帧循环应返回错误")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run 没有在取消后退出")
	}
	if loop.Stats().Running {
		t.Error("退出后 Running 应为 false")
	}
}

func TestLogRendererNilLog(t *testing.T) {
	r := &LogRenderer{Every: 1}
	if err := r.Render(motion.Pose{}); err != nil {
		t.Errorf("Render() = %v", err)
	}
}
