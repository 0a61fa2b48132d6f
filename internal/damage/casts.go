package damage

import "math"

// castEpsilon keeps a cast that lands exactly on the window edge out of it.
const castEpsilon = 1e-9

// EffectiveCooldown applies ability haste: base / (1 + haste/100).
func EffectiveCooldown(base, haste float64) float64 {
	if haste <= 0 {
		return base
	}
	return base / (1 + haste/100)
}

// CastsInDuration counts the casts that fit in a window of duration seconds,
// the first one at t=0. A non-positive cooldown is treated as one cast every
// tenth of a second.
func CastsInDuration(cooldown, duration float64) int {
	if duration <= 0 {
		return 0
	}
	if math.IsInf(cooldown, 1) {
		return 0
	}
	if cooldown <= 0 {
		return max(1, int(duration*10))
	}
	return max(1, int(math.Floor((duration-castEpsilon)/cooldown))+1)
}
