package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"nexus/logger"
)

var _ Port = (*NativePort)(nil)

// NativePort 已打开的摇杆串口。读超时表现为 (0, io.EOF)，由 Bridge 忽略
type NativePort struct {
	*serial.Port
	device string
}

// Open 打开摇杆串口，"auto" 先经 ResolveDevice 解析为具体设备
func Open(cfg *Config) (*NativePort, error) {
	if cfg == nil {
		return nil, fmt.Errorf("串口配置为空")
	}

	device, err := ResolveDevice(cfg.Device)
	if err != nil {
		return nil, err
	}
	baud := cfg.Baud
	if baud <= 0 {
		baud = DefaultConfig(device).Baud
	}

	logger.L().Infof("⏳ 正在连接 %s @ %d baud...", device, baud)
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("打开串口 %s 失败：%w", device, err)
	}
	logger.L().Infof("✅ 串口已连接: %s", device)

	return &NativePort{Port: port, device: device}, nil
}

// Device 返回解析后的设备路径
func (p *NativePort) Device() string { return p.device }
