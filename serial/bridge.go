package serial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"nexus/logger"
	"nexus/motion"
)

const (
	maxLineLength = 256
	idleBackoff   = 10 * time.Millisecond
)

// CommandSink receives commands decoded from the joystick
type CommandSink interface {
	Post(cmd motion.Command)
}

// Status is a snapshot of the bridge counters
type Status struct {
	Device    string `json:"device"`
	Connected bool   `json:"connected"`
	Lines     int64  `json:"lines"`
	Forwarded int64  `json:"forwarded"`
	Dropped   int64  `json:"dropped"`
	LastToken string `json:"lastToken,omitempty"`
}

// Bridge reads newline-terminated tokens from a serial link and forwards known commands
type Bridge struct {
	device string
	port   io.Reader
	sink   CommandSink
	log    *logrus.Entry

	// 只在 Run 所在的 goroutine 中读写
	discarding bool

	connected atomic.Bool
	lines     atomic.Int64
	forwarded atomic.Int64
	dropped   atomic.Int64
	lastToken atomic.String
}

// NewBridge creates a bridge reading from port
func NewBridge(device string, port io.Reader, sink CommandSink) *Bridge {
	return &Bridge{
		device: device,
		port:   port,
		sink:   sink,
		log:    logger.L().WithFields(logrus.Fields{"component": "serial", "device": device}),
	}
}

// Run reads until ctx is cancelled or the port fails. Read timeouts are not errors.
func (b *Bridge) Run(ctx context.Context) error {
	if b.port == nil || b.sink == nil {
		return fmt.Errorf("bridge requires a port and a sink")
	}
	defer sentry.Recover()

	b.connected.Store(true)
	defer b.connected.Store(false)
	b.log.Info("📡 串口监听已启动")

	buf := make([]byte, 64)
	var pending []byte
	for {
		select {
		case <-ctx.Done():
			b.log.Info("🛑 串口监听已停止")
			return nil
		default:
		}

		n, err := b.port.Read(buf)
		if n > 0 {
			pending = b.consume(append(pending, buf[:n]...))
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("读取串口失败：%w", err)
		}
		if n == 0 {
			select {
			case <-ctx.Done():
			case <-time.After(idleBackoff):
			}
		}
	}
}

// consume handles every complete line in data and returns the unterminated remainder.
// After an over-long line everything up to the next newline is discarded.
func (b *Bridge) consume(data []byte) []byte {
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		if b.discarding {
			b.discarding = false
		} else {
			b.handleLine(string(data[:i]))
		}
		data = data[i+1:]
	}
	if b.discarding {
		return nil
	}
	if len(data) > maxLineLength {
		b.dropped.Inc()
		b.discarding = true
		b.log.Warnf("⚠️ 丢弃过长的数据 (%d 字节)", len(data))
		return nil
	}
	// 复制剩余部分，避免持有整个读缓冲
	return append([]byte(nil), data...)
}

func (b *Bridge) handleLine(line string) {
	token := strings.TrimSpace(line)
	if token == "" {
		return
	}
	b.lines.Inc()
	b.lastToken.Store(token)

	cmd, ok := motion.ParseCommand(token)
	if !ok {
		b.dropped.Inc()
		b.log.Warnf("❓ 未知指令: %q", token)
		return
	}
	b.log.WithField("command", cmd.String()).Debug("🎮 收到指令")
	b.sink.Post(cmd)
	b.forwarded.Inc()
}

// Status returns the bridge counters
func (b *Bridge) Status() Status {
	return Status{
		Device:    b.device,
		Connected: b.connected.Load(),
		Lines:     b.lines.Load(),
		Forwarded: b.forwarded.Load(),
		Dropped:   b.dropped.Load(),
		LastToken: b.lastToken.Load(),
	}
}
