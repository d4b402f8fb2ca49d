package motion

import (
	"errors"
	"fmt"
)

// RejectReason 指令被拒绝的原因
type RejectReason string

const (
	ReasonBusy           RejectReason = "busy"
	ReasonUnknownCommand RejectReason = "unknown_command"
)

var (
	ErrBusy           = errors.New("animator busy")
	ErrUnknownCommand = errors.New("unknown command")
)

// RejectedError 指令被拒绝时返回，调用方自行决定重试或丢弃
type RejectedError struct {
	Token  string
	Reason RejectReason
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("command %q rejected: %s", e.Token, e.Reason)
}

func (e *RejectedError) Is(target error) bool {
	switch target {
	case ErrBusy:
		return e.Reason == ReasonBusy
	case ErrUnknownCommand:
		return e.Reason == ReasonUnknownCommand
	}
	return false
}

// ReasonOf 提取拒绝原因，非 RejectedError 返回空字符串
func ReasonOf(err error) RejectReason {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Reason
	}
	return ""
}

func busy(cmd Command) error {
	return &RejectedError{Token: cmd.String(), Reason: ReasonBusy}
}
