package mathutil

import "math"

// Digamma approximates the digamma function (the logarithmic derivative of
// the gamma function) using the standard asymptotic expansion. The argument
// is shifted upward via the recurrence psi(x) = psi(x+1) - 1/x until it is
// at least 7, where the series is accurate to double precision.
func Digamma(x float64) float64 {
	var result float64
	for x < 7 {
		result -= 1 / x
		x++
	}
	x -= 0.5
	xx := 1 / x
	xx2 := xx * xx
	xx4 := xx2 * xx2
	result += math.Log(x) + (1.0/24.0)*xx2 - (7.0/960.0)*xx4 + (31.0/8064.0)*xx4*xx2 - (127.0/30720.0)*xx4*xx4
	return result
}

// ToLogProbs converts raw positive scores to log probabilities in place:
// s_i <- ln(s_i) - ln(sum_j s_j). Afterwards sum_i exp(s_i) == 1 up to
// floating point error.
func ToLogProbs(scores []float64) {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	logSum := math.Log(sum)
	for i, s := range scores {
		scores[i] = math.Log(s) - logSum
	}
}

// LogSumExp returns ln(exp(x) + exp(y)) computed stably. When init is true
// the accumulator x is considered empty and y is returned unchanged; this
// matches the accumulation pattern used by the lattice forward/backward
// passes.
func LogSumExp(x, y float64, init bool) float64 {
	if init {
		return y
	}
	vmax := x
	vmin := y
	if y > x {
		vmax, vmin = y, x
	}
	const minusLogEpsilon = 50.0
	if vmin > vmax-minusLogEpsilon {
		return vmax + math.Log(math.Exp(vmin-vmax)+1)
	}
	return vmax
}
