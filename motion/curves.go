package motion

import "math"

// Smoothstep 三次缓入缓出插值 t²(3-2t)，两端一阶导数为零；输入限制在 [0,1]
func Smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// swing 返回 sin(phase + side·π)。右侧直接取反，避免 sin(π) 的浮点残差
func swing(phase float64, s side) float64 {
	if s == sideRight {
		return -math.Sin(phase)
	}
	return math.Sin(phase)
}

// envelope 返回 sin(π·t)，t 为 [0,1] 内的动作进度，两端为零
func envelope(t float64) float64 {
	return math.Sin(math.Pi * clamp01(t))
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// wrapDegrees 将角度归一化到 [0,360)
func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		return 0
	}
	return deg
}
