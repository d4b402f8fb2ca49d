package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"nexus/logger"
	"nexus/motion"
)

const defaultStatusInterval = 200 * time.Millisecond

// ErrQuit 用户在控制台请求退出
var ErrQuit = errors.New("console quit")

// CommandSink 接收键盘产生的指令
type CommandSink interface {
	Post(cmd motion.Command)
}

// StateProvider 提供状态栏显示的姿态
type StateProvider interface {
	Snapshot() motion.Pose
}

var keyCommands = map[byte]motion.Command{
	' ': motion.CommandJump,
	'w': motion.CommandWave,
	'd': motion.CommandDance,
	'n': motion.CommandNod,
	'r': motion.CommandReset,
	'a': motion.CommandLeft,
	's': motion.CommandRight,
}

// ESC [ X 方向键
var arrowCommands = map[byte]motion.Command{
	'A': motion.CommandForward,
	'B': motion.CommandBackward,
	'C': motion.CommandRotateRight,
	'D': motion.CommandRotateLeft,
}

type Console struct {
	sink           CommandSink
	state          StateProvider
	in             io.Reader
	out            io.Writer
	statusInterval time.Duration
	log            *logrus.Entry

	mu          sync.Mutex
	commandMode bool
	commandBuf  []rune
	statusWidth int
}

func NewConsole(sink CommandSink, state StateProvider) *Console {
	return &Console{
		sink:           sink,
		state:          state,
		in:             os.Stdin,
		out:            os.Stdout,
		statusInterval: defaultStatusInterval,
		log:            logger.L().WithField("component", "console"),
	}
}

// Start 进入原始终端模式读取按键，直到 ctx 取消、输入结束或用户退出（返回 ErrQuit）
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.sink == nil {
		return fmt.Errorf("console sink is nil")
	}
	defer sentry.Recover()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("set terminal raw mode: %w", err)
		}
		var once sync.Once
		restore := func() {
			once.Do(func() {
				_ = term.Restore(fd, oldState)
				fmt.Fprint(c.out, "\r\n")
			})
		}
		defer restore()

		// 读取会阻塞在 stdin 上，ctx 取消时先恢复终端
		stop := context.AfterFunc(ctx, restore)
		defer stop()
	}

	c.printf("🎮 键盘控制已启动 (↑↓ 走步, ←→ 转身, 空格 跳跃, W 挥手, D 跳舞, N 点头, R 重置, : 命令, Q 退出)\r\n")
	if c.state != nil {
		go c.statusLoop(ctx)
	}

	return c.run(ctx, bufio.NewReader(c.in))
}

func (c *Console) run(ctx context.Context, reader *bufio.Reader) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if quit := c.handleKey(reader, b); quit {
			return ErrQuit
		}
	}
}

func (c *Console) statusLoop(ctx context.Context) {
	defer sentry.Recover()
	ticker := time.NewTicker(c.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.renderStatusLine()
		}
	}
}

// handleKey 处理一个按键，返回是否退出
func (c *Console) handleKey(reader *bufio.Reader, b byte) bool {
	if c.isCommandMode() {
		return c.handleCommandByte(b)
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return false
	case 'q', 'Q', 3: // 3 = Ctrl-C
		return true
	case 'h', 'H', '?':
		c.printHelp()
		return false
	case 27:
		// 单独的 ESC 退出，ESC [ X 为方向键
		if reader.Buffered() == 0 {
			return true
		}
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return true
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return false
		}
		if cmd, ok := arrowCommands[arrow]; ok {
			c.post(cmd)
		}
		return false
	}

	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	if cmd, ok := keyCommands[b]; ok {
		c.post(cmd)
	}
	return false
}

func (c *Console) post(cmd motion.Command) {
	c.log.WithField("command", cmd.String()).Debug("⌨️ 按键指令")
	c.sink.Post(cmd)
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	c.printf("\r\n:")
}

func (c *Console) handleCommandByte(b byte) bool {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		line := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		c.printf("\r\n")
		if line != "" {
			return c.executeLine(line)
		}
		return false
	case 27: // ESC 取消命令模式
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		c.printf("\r\n[nexus] command cancelled\r\n")
		return false
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		c.printf("\r:%s \r:%s", buf, buf)
		return false
	default:
		if b < 32 || b > 126 {
			return false
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		c.printf("\r:%s", buf)
		return false
	}
}

// executeLine 用 shlex 拆分命令行，按顺序投递每个指令
func (c *Console) executeLine(line string) bool {
	tokens, err := shlex.Split(line)
	if err != nil {
		c.printf("[nexus] 无法解析命令: %v\r\n", err)
		return false
	}

	for _, token := range tokens {
		switch strings.ToLower(token) {
		case "quit", "exit":
			return true
		case "help":
			c.printHelp()
			continue
		case "state":
			c.printState()
			continue
		}

		cmd, ok := motion.ParseCommand(token)
		if !ok {
			c.printf("[nexus] 未知指令: %s\r\n", token)
			continue
		}
		c.post(cmd)
	}
	return false
}

func (c *Console) printHelp() {
	c.printf("[nexus] 按键: ↑ forward  ↓ backward  ← rotate_left  → rotate_right  A left  S right\r\n")
	c.printf("[nexus]       空格 jump  W wave  D dance  N nod  R reset  Q/ESC 退出\r\n")
	c.printf("[nexus] 命令: :<指令> [指令...]  :state  :help  :quit\r\n")
	c.printf("[nexus] 指令: %s\r\n", strings.Join(motion.CommandTokens(), " "))
}

func (c *Console) printState() {
	if c.state == nil {
		return
	}
	c.printf("%s\r\n", formatPose(c.state.Snapshot()))
}

func (c *Console) renderStatusLine() {
	if c.isCommandMode() {
		return
	}
	line := formatPose(c.state.Snapshot())

	c.mu.Lock()
	defer c.mu.Unlock()
	pad := ""
	if n := c.statusWidth - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	c.statusWidth = len(line)
	fmt.Fprintf(c.out, "\r%s%s", line, pad)
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusWidth = 0
	fmt.Fprintf(c.out, format, args...)
}

func formatPose(p motion.Pose) string {
	state := p.State.String()
	if p.Action != "" {
		state += ":" + p.Action
	}
	return fmt.Sprintf("[nexus] %-20s pos=(%.2f, %.2f, %.2f) yaw=%5.1f°",
		state, p.Position.X(), p.Position.Y(), p.Position.Z(), p.Yaw)
}
