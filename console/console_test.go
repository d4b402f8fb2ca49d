package console

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"nexus/motion"
)

type recordingSink struct{ cmds []motion.Command }

func (s *recordingSink) Post(cmd motion.Command) { s.cmds = append(s.cmds, cmd) }

type fixedState struct{ pose motion.Pose }

func (f fixedState) Snapshot() motion.Pose { return f.pose }

func newTestConsole(input string) (*Console, *recordingSink, *bytes.Buffer) {
	sink := &recordingSink{}
	out := &bytes.Buffer{}
	c := NewConsole(sink, fixedState{motion.Pose{Position: mgl64.Vec3{1, 0, -0.5}, Yaw: 90}})
	c.in = strings.NewReader(input)
	c.out = out
	return c, sink, out
}

func TestConsoleKeyMap(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []motion.Command
		wantQuit bool
	}{
		{"方向键", "\x1b[A\x1b[B\x1b[D\x1b[C", []motion.Command{
			motion.CommandForward, motion.CommandBackward, motion.CommandRotateLeft, motion.CommandRotateRight,
		}, false},
		{"动作键忽略大小写", " WwDnR", []motion.Command{
			motion.CommandJump, motion.CommandWave, motion.CommandWave, motion.CommandDance, motion.CommandNod, motion.CommandReset,
		}, false},
		{"横移", "as", []motion.Command{motion.CommandLeft, motion.CommandRight}, false},
		{"未绑定的按键被忽略", "xyz\x1b[Z", nil, false},
		{"q 退出并忽略之后的输入", "nqw", []motion.Command{motion.CommandNod}, true},
		{"Ctrl-C 退出", "\x03w", nil, true},
		{"单独 ESC 退出", "r\x1b", []motion.Command{motion.CommandReset}, true},
		{"命令行按顺序投递", ":forward \"rotate_left\" JUMP\r", []motion.Command{
			motion.CommandForward, motion.CommandRotateLeft, motion.CommandJump,
		}, false},
		{"命令行中的未知指令被跳过", ":fly nod\n", []motion.Command{motion.CommandNod}, false},
		{"命令行退格", ":nodx\x7f\r", []motion.Command{motion.CommandNod}, false},
		{"ESC 取消命令行", ":jump\x1bw", []motion.Command{motion.CommandWave}, false},
		{"命令行中的按键不触发指令", ":wq\rn", []motion.Command{motion.CommandNod}, false},
		{"命令行 quit", ":quit\r", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sink, _ := newTestConsole(tt.input)
			err := c.Start(context.Background())

			if tt.wantQuit != errors.Is(err, ErrQuit) {
				t.Fatalf("Start() = %v, wantQuit %v", err, tt.wantQuit)
			}
			if !tt.wantQuit && err != nil {
				t.Fatalf("Start() = %v", err)
			}
			if len(sink.cmds) != len(tt.want) {
				t.Fatalf("指令 = %v, 期望 %v", sink.cmds, tt.want)
			}
			for i := range tt.want {
				if sink.cmds[i] != tt.want[i] {
					t.Errorf("第 %d 条指令 = %s, 期望 %s", i, sink.cmds[i], tt.want[i])
				}
			}
		})
	}
}

func TestConsoleStateAndHelp(t *testing.T) {
	c, sink, out := newTestConsole(":state help\r")
	c.state = fixedState{motion.Pose{Position: mgl64.Vec3{1, 0, -0.5}, Yaw: 90, State: motion.StateActionPlaying, Action: "wave"}}
	if err := c.run(context.Background(), newReader(c)); err != nil {
		t.Fatalf("run() = %v", err)
	}
	if len(sink.cmds) != 0 {
		t.Errorf("state/help 不应投递指令: %v", sink.cmds)
	}
	text := out.String()
	for _, want := range []string{"action_playing:wave", "pos=(1.00, 0.00, -0.50)", "yaw= 90.0", "rotate_left"} {
		if !strings.Contains(text, want) {
			t.Errorf("输出缺少 %q: %q", want, text)
		}
	}
}

func TestConsoleBadQuoting(t *testing.T) {
	c, sink, out := newTestConsole(":jump \"wave\r")
	if err := c.run(context.Background(), newReader(c)); err != nil {
		t.Fatalf("run() = %v", err)
	}
	if len(sink.cmds) != 0 {
		t.Errorf("无法解析的命令行不应投递指令: %v", sink.cmds)
	}
	if !strings.Contains(out.String(), "无法解析命令") {
		t.Errorf("输出 = %q", out.String())
	}
}

func TestConsoleStopsOnCancelledContext(t *testing.T) {
	c, sink, _ := newTestConsole("wwww")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.run(ctx, newReader(c)); err != nil {
		t.Fatalf("run() = %v", err)
	}
	if len(sink.cmds) != 0 {
		t.Errorf("已取消时不应处理输入: %v", sink.cmds)
	}
}

func TestConsoleNilSink(t *testing.T) {
	c := NewConsole(nil, nil)
	if err := c.Start(context.Background()); err == nil {
		t.Error("sink 为 nil 时应返回错误")
	}
}

func newReader(c *Console) *bufio.Reader { return bufio.NewReader(c.in) }
