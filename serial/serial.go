package serial

import (
	"io"
)

// Port 蓝牙摇杆所用的串口连接；Bridge 只需要其中的 io.Reader
type Port interface {
	io.ReadWriteCloser

	// Flush 丢弃已接收但尚未读取的数据
	Flush() error
}

// Config 摇杆串口参数
type Config struct {
	Device      string // 设备路径，如 /dev/rfcomm0；"auto" 表示自动探测
	Baud        int    // HC-05/HC-06 默认 38400
	ReadTimeout int    // 读超时（毫秒），超时后 Bridge 检查一次 ctx
}

// AutoDevice 让 Open 从 DiscoverPorts 的结果中挑选设备
const AutoDevice = "auto"

// DefaultConfig 蓝牙摇杆的默认串口参数
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        38400,
		ReadTimeout: 100,
	}
}
