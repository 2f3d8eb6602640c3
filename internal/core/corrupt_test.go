package core

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestCorruptStrategyTable(t *testing.T) {
	tests := []struct {
		r         float64
		strategy  Strategy
		precision int
		want      float64
	}{
		{r: 0, strategy: SmallAdditive, precision: 1, want: 7},
		{r: 0.2, strategy: Multiplicative5, precision: 2, want: 7.76},
		{r: 0.4, strategy: OddDecimalOffset, precision: 4, want: 7.7},
		{r: 0.55, strategy: ScaledSubtractive, precision: 5, want: 7.175},
		{r: 0.7, strategy: OscillatoryOffset, precision: 6, want: 8},
		{r: 0.9, strategy: Multiplicative10, precision: 8, want: 8.64},
	}

	for _, tc := range tests {
		t.Run(tc.strategy.String(), func(t *testing.T) {
			got := Corrupt(8, Draw{Seed: 0, R: tc.r})

			if got.Strategy != tc.strategy {
				t.Fatalf("expected strategy %s, got %s", tc.strategy, got.Strategy)
			}
			if got.Precision != tc.precision {
				t.Fatalf("expected precision %d, got %d", tc.precision, got.Precision)
			}
			if got.Value != tc.want {
				t.Fatalf("expected value %v, got %v", tc.want, got.Value)
			}
			if got.True != 8 {
				t.Fatalf("expected true result 8, got %v", got.True)
			}
		})
	}
}

func TestPerturbOddDecimalOffsetBranches(t *testing.T) {
	if got := OddDecimalOffset.Perturb(1, Draw{R: 0.75}); got != 1.7 {
		t.Fatalf("expected 1.7, got %v", got)
	}
	if got := OddDecimalOffset.Perturb(1, Draw{R: 0.5}); got != 0.7 {
		t.Fatalf("expected 0.7, got %v", got)
	}
}

func TestPerturbOscillatoryOffsetUsesSeed(t *testing.T) {
	d := Draw{Seed: 42, R: 0.7}
	want := 10 + math.Sin(42)*0.5

	if got := OscillatoryOffset.Perturb(10, d); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStrategyForCoversEveryBucket(t *testing.T) {
	seen := make(map[Strategy]bool)
	for i := 0; i < NumStrategies; i++ {
		r := (float64(i) + 0.5) / NumStrategies
		seen[StrategyFor(r)] = true
	}

	if len(seen) != NumStrategies {
		t.Fatalf("expected %d strategies, got %d", NumStrategies, len(seen))
	}
	if got := StrategyFor(math.Nextafter(1, 0)); got != Multiplicative10 {
		t.Fatalf("expected last strategy for r just below 1, got %s", got)
	}
}

func TestCorruptNonFiniteInputReadsAsZero(t *testing.T) {
	for _, x := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		got := Corrupt(x, Draw{R: 0})
		if got.True != 0 || got.Value != -1 {
			t.Fatalf("input %v: expected true 0 and value -1, got %+v", x, got)
		}
	}
}

func TestCorruptOverflowKeepsTrueResult(t *testing.T) {
	got := Corrupt(math.MaxFloat64, Draw{R: 0.99})
	if got.Strategy != Multiplicative10 {
		t.Fatalf("expected %s, got %s", Multiplicative10, got.Strategy)
	}
	if math.IsInf(got.Value, 0) || math.IsNaN(got.Value) {
		t.Fatalf("expected finite value, got %v", got.Value)
	}
}

func TestCorruptDropsNegativeZero(t *testing.T) {
	// 0.99999 - 1 rounds to -0.0 at one fractional digit.
	got := Corrupt(0.99999, Draw{R: 0})
	if got.Value != 0 || math.Signbit(got.Value) {
		t.Fatalf("expected +0, got %v", got.Value)
	}
	if got.Text() != "0" {
		t.Fatalf("expected text %q, got %q", "0", got.Text())
	}
}

func TestCorruptIsFiniteWithBoundedPrecision(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.Float64Range(-1e12, 1e12).Draw(rt, "x")
		d := Draw{
			Seed: rapid.Int64().Draw(rt, "seed"),
			R:    rapid.Float64Range(0, 1).Draw(rt, "r"),
		}

		got := Corrupt(x, d)

		if math.IsInf(got.Value, 0) || math.IsNaN(got.Value) {
			rt.Fatalf("Corrupt(%v) produced non-finite %v", x, got.Value)
		}
		if got.Precision < 1 || got.Precision > MaxPrecision {
			rt.Fatalf("precision %d out of range", got.Precision)
		}
		if n := fractionDigits(got.Text()); n > got.Precision {
			rt.Fatalf("text %q has %d fractional digits, precision %d", got.Text(), n, got.Precision)
		}
		if _, err := strconv.ParseFloat(got.Text(), 64); err != nil {
			rt.Fatalf("text %q does not parse: %v", got.Text(), err)
		}
	})
}

func TestCorruptMultiplicativeStrategiesStayClose(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.Float64Range(1, 1e9).Draw(rt, "x")
		r := rapid.Float64Range(0, 1).Draw(rt, "r")

		got := Corrupt(x, Draw{R: r})
		switch got.Strategy {
		case Multiplicative5, Multiplicative10:
			if got.Value < x*0.89 || got.Value > x*1.11 {
				rt.Fatalf("%s moved %v to %v", got.Strategy, x, got.Value)
			}
		}
	})
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a := NewSeededSource(7)
	b := NewSeededSource(7)

	for i := 0; i < 10; i++ {
		da, db := a.Draw(), b.Draw()
		if da != db {
			t.Fatalf("draw %d: expected %+v, got %+v", i, da, db)
		}
		if da.R < 0 || da.R >= 1 {
			t.Fatalf("draw %d: r %v out of [0, 1)", i, da.R)
		}
	}
}

func TestDrawFromSeedIsInUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := DrawFromSeed(rapid.Int64().Draw(rt, "seed"))
		if d.R < 0 || d.R >= 1 {
			rt.Fatalf("r %v out of [0, 1)", d.R)
		}
	})
}

func TestFixedSourceNormalizesR(t *testing.T) {
	if got := (FixedSource{R: 1.25}).Draw().R; got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
	if got := (FixedSource{R: math.NaN()}).Draw().R; got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func fractionDigits(s string) int {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}
