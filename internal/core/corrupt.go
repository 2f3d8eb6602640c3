package core

import (
	"math"
	"strconv"
)

// Strategy is one of the fixed noise formulas applied to a true result.
type Strategy int

const (
	SmallAdditive Strategy = iota
	Multiplicative5
	OddDecimalOffset
	ScaledSubtractive
	OscillatoryOffset
	Multiplicative10
)

// NumStrategies is the size of the strategy table.
const NumStrategies = 6

// MaxPrecision bounds the fractional digits kept in a corrupted result.
const MaxPrecision = 8

func (s Strategy) String() string {
	switch s {
	case SmallAdditive:
		return "small_additive"
	case Multiplicative5:
		return "multiplicative_5pct"
	case OddDecimalOffset:
		return "odd_decimal_offset"
	case ScaledSubtractive:
		return "scaled_subtractive"
	case OscillatoryOffset:
		return "oscillatory_offset"
	case Multiplicative10:
		return "multiplicative_10pct"
	default:
		return "unknown"
	}
}

// Perturb applies the strategy formula to x.
//
//	0  x + (r-0.5)*2
//	1  x * (0.95 + r*0.1)
//	2  x + 0.7 if r > 0.5, else x - 0.3
//	3  x - r*1.5
//	4  x + sin(seed)*0.5
//	5  x * (1 + (r-0.5)*0.2)
func (s Strategy) Perturb(x float64, d Draw) float64 {
	r := d.R
	switch s {
	case SmallAdditive:
		return x + (r-0.5)*2
	case Multiplicative5:
		return x * (0.95 + r*0.1)
	case OddDecimalOffset:
		if r > 0.5 {
			return x + 0.7
		}
		return x - 0.3
	case ScaledSubtractive:
		return x - r*1.5
	case OscillatoryOffset:
		return x + math.Sin(float64(d.Seed))*0.5
	case Multiplicative10:
		return x * (1 + (r-0.5)*0.2)
	default:
		return x
	}
}

// StrategyFor selects the strategy for a sample r in [0, 1).
func StrategyFor(r float64) Strategy {
	return Strategy(bucket(r, NumStrategies))
}

// PrecisionFor returns the number of fractional digits, 1 to MaxPrecision,
// kept for a sample r in [0, 1).
func PrecisionFor(r float64) int {
	return bucket(r, MaxPrecision) + 1
}

func bucket(r float64, n int) int {
	i := int(math.Floor(normalizeR(r) * float64(n)))
	if i >= n {
		return n - 1
	}
	return i
}

// Corruption describes one perturbed result.
type Corruption struct {
	True      float64
	Value     float64
	Strategy  Strategy
	Precision int
}

// Text renders the corrupted value the way the display shows it.
func (c Corruption) Text() string {
	return Format(c.Value)
}

// Corrupt perturbs a true result with the strategy and precision picked by d.
// The returned value is always finite: a non-finite input is treated as 0 and
// a perturbation that overflows keeps the unperturbed value.
func Corrupt(trueResult float64, d Draw) Corruption {
	d.R = normalizeR(d.R)
	if !isFinite(trueResult) {
		trueResult = 0
	}

	strategy := StrategyFor(d.R)
	precision := PrecisionFor(d.R)

	noisy := strategy.Perturb(trueResult, d)
	if !isFinite(noisy) {
		noisy = trueResult
	}

	return Corruption{
		True:      trueResult,
		Value:     roundTo(noisy, precision),
		Strategy:  strategy,
		Precision: precision,
	}
}

// roundTo rounds x to p fractional digits through its decimal text, so the
// result prints with at most p fractional digits.
func roundTo(x float64, p int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', p, 64), 64)
	if err != nil || !isFinite(v) {
		return x
	}
	if v == 0 {
		// drop negative zero
		return 0
	}
	return v
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
