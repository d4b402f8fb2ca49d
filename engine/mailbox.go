package engine

import (
	"go.uber.org/atomic"

	"nexus/motion"
)

// Mailbox 单槽信箱：后写入的指令覆盖未被取走的指令，不排队
type Mailbox struct {
	slot        atomic.Pointer[motion.Command]
	overwritten atomic.Int64
}

// NewMailbox 创建空信箱
func NewMailbox() *Mailbox { return &Mailbox{} }

// Post 投递一条指令，从不阻塞
func (m *Mailbox) Post(cmd motion.Command) {
	if prev := m.slot.Swap(&cmd); prev != nil {
		m.overwritten.Inc()
	}
}

// Take 取走当前指令
func (m *Mailbox) Take() (motion.Command, bool) {
	cmd := m.slot.Swap(nil)
	if cmd == nil {
		return motion.CommandUnknown, false
	}
	return *cmd, true
}

// Overwritten 返回被覆盖（丢弃）的指令数
func (m *Mailbox) Overwritten() int64 { return m.overwritten.Load() }
