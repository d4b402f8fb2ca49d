package motion

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// Command 角色可接受的指令
type Command int

const (
	CommandUnknown Command = iota
	CommandForward
	CommandBackward
	CommandLeft
	CommandRight
	CommandRotateLeft
	CommandRotateRight
	CommandJump
	CommandWave
	CommandDance
	CommandNod
	CommandReset
)

// CommandKind 指令类别
type CommandKind string

const (
	KindMovement CommandKind = "movement"
	KindRotation CommandKind = "rotation"
	KindAction   CommandKind = "action"
	KindReset    CommandKind = "reset"
)

// AllCommands 按固定顺序列出所有有效指令
var AllCommands = []Command{
	CommandForward,
	CommandBackward,
	CommandLeft,
	CommandRight,
	CommandRotateLeft,
	CommandRotateRight,
	CommandJump,
	CommandWave,
	CommandDance,
	CommandNod,
	CommandReset,
}

var commandTokens = map[Command]string{
	CommandForward:     "forward",
	CommandBackward:    "backward",
	CommandLeft:        "left",
	CommandRight:       "right",
	CommandRotateLeft:  "rotate_left",
	CommandRotateRight: "rotate_right",
	CommandJump:        "jump",
	CommandWave:        "wave",
	CommandDance:       "dance",
	CommandNod:         "nod",
	CommandReset:       "reset",
}

var tokenCommands = lo.Invert(commandTokens)

// ParseCommand 将字符串指令转换为 Command，忽略大小写和首尾空白
func ParseCommand(token string) (Command, bool) {
	cmd, ok := tokenCommands[strings.ToLower(strings.TrimSpace(token))]
	return cmd, ok
}

// CommandTokens 返回所有有效指令的字符串形式
func CommandTokens() []string {
	return lo.Map(AllCommands, func(c Command, _ int) string { return c.String() })
}

func (c Command) String() string {
	if token, ok := commandTokens[c]; ok {
		return token
	}
	return "unknown"
}

// Kind 返回指令类别
func (c Command) Kind() CommandKind {
	switch c {
	case CommandForward, CommandBackward, CommandLeft, CommandRight:
		return KindMovement
	case CommandRotateLeft, CommandRotateRight:
		return KindRotation
	case CommandJump, CommandWave, CommandDance, CommandNod:
		return KindAction
	case CommandReset:
		return KindReset
	}
	return ""
}

// localDirection 返回移动指令在角色本地坐标系中的单位方向向量（-Z 为前方）
func (c Command) localDirection() mgl64.Vec3 {
	switch c {
	case CommandForward:
		return mgl64.Vec3{0, 0, -1}
	case CommandBackward:
		return mgl64.Vec3{0, 0, 1}
	case CommandLeft:
		return mgl64.Vec3{-1, 0, 0}
	case CommandRight:
		return mgl64.Vec3{1, 0, 0}
	}
	return mgl64.Vec3{}
}

// yawDelta 返回旋转指令对应的偏航方向（左转为负）
func (c Command) yawDelta() float64 {
	switch c {
	case CommandRotateLeft:
		return -1
	case CommandRotateRight:
		return 1
	}
	return 0
}
