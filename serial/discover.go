package serial

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// PortInfo describes a candidate serial device
type PortInfo struct {
	Device    string `json:"device"`
	Bluetooth bool   `json:"bluetooth"`
}

var portPatterns = []string{
	"/dev/rfcomm*",
	"/dev/ttyUSB*",
	"/dev/ttyACM*",
	"/dev/tty.*",
	"/dev/serial/by-id/*",
}

var bluetoothMarkers = []string{"rfcomm", "hc-05", "hc05", "hc-06", "hc06", "bluetooth"}

// DiscoverPorts lists candidate serial devices, Bluetooth-looking ones first
func DiscoverPorts() []PortInfo {
	return discover(filepath.Glob)
}

func discover(glob func(pattern string) ([]string, error)) []PortInfo {
	var devices []string
	for _, pattern := range portPatterns {
		matches, err := glob(pattern)
		if err != nil {
			continue
		}
		devices = append(devices, matches...)
	}
	devices = lo.Uniq(devices)

	ports := lo.Map(devices, func(d string, _ int) PortInfo {
		return PortInfo{Device: d, Bluetooth: IsBluetooth(d)}
	})
	sort.SliceStable(ports, func(i, j int) bool {
		if ports[i].Bluetooth != ports[j].Bluetooth {
			return ports[i].Bluetooth
		}
		return ports[i].Device < ports[j].Device
	})
	return ports
}

// IsBluetooth reports whether a device name looks like a Bluetooth serial link
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	return lo.SomeBy(bluetoothMarkers, func(m string) bool {
		return strings.Contains(lower, m)
	})
}

// ResolveDevice returns device unchanged unless it is "auto" or empty, in which case
// the first Bluetooth candidate is picked, else the first port found.
func ResolveDevice(device string) (string, error) {
	return resolveDevice(device, DiscoverPorts())
}

func resolveDevice(device string, ports []PortInfo) (string, error) {
	if device != "" && !strings.EqualFold(device, AutoDevice) {
		return device, nil
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("未找到可用的串口设备")
	}
	if bt, ok := lo.Find(ports, func(p PortInfo) bool { return p.Bluetooth }); ok {
		return bt.Device, nil
	}
	return ports[0].Device, nil
}
