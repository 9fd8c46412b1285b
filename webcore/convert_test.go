package webcore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/constraints"
)

// roundTrip sends a Go-built value through the engine and back.
func roundTrip(t *testing.T, b *Bridge, v Value) Value {
	t.Helper()
	gv, err := b.toEngine(v)
	require.NoError(t, err)
	out, err := b.fromEngine(gv)
	require.NoError(t, err)
	return out
}

func checkIntRoundTrip[T constraints.Integer](t *testing.T, b *Bridge, dec Decoder[T], values ...T) {
	t.Helper()
	for _, x := range values {
		got, err := dec(roundTrip(t, b, Number(x)))
		if assert.NoError(t, err, "%v", x) {
			assert.Equal(t, x, got)
		}
	}
}

func TestRoundTripScalars(t *testing.T) {
	b := newBridge(t)

	for _, x := range []bool{true, false} {
		got, err := ToBool(roundTrip(t, b, Bool(x)))
		require.NoError(t, err)
		assert.Equal(t, x, got)
	}

	for _, s := range []string{"", "hello", "naïve", "😀 emoji", "nul\x00byte"} {
		got, err := ToString(roundTrip(t, b, String(s)))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, f := range []float64{0, -0.5, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(-1)} {
		got, err := ToFloat64(roundTrip(t, b, Number(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	checkIntRoundTrip(t, b, ToInt32, 0, 1, -1, math.MaxInt32, math.MinInt32)
	checkIntRoundTrip(t, b, ToUint32, 0, 1, math.MaxUint32)
	checkIntRoundTrip(t, b, ToInt64, 0, -42, MaxSafeInteger, -MaxSafeInteger)
	checkIntRoundTrip(t, b, ToUint64, 0, 7, MaxSafeInteger)
	checkIntRoundTrip(t, b, ToInt, 0, 123456789, -MaxSafeInteger)
}

func TestRoundTripBeyondSafeIntegers(t *testing.T) {
	b := newBridge(t)

	// 2^53 + 1 is not representable; the engine sees 2^53.
	v := roundTrip(t, b, Number(int64(MaxSafeInteger+2)))
	f, err := ToFloat64(v)
	require.NoError(t, err)
	assert.Equal(t, float64(1<<53), f)

	_, err = ToInt64(v)
	assert.ErrorIs(t, err, ErrRangeOverflow)
	_, err = ToUint64(Number(uint64(math.MaxUint64)))
	assert.ErrorIs(t, err, ErrRangeOverflow)
	_, err = ToInt64(Number(int64(-MaxSafeInteger - 1)))
	assert.ErrorIs(t, err, ErrRangeOverflow)
}

func TestIntegerConversionFailures(t *testing.T) {
	tests := []struct {
		name string
		conv func(Value) error
		in   Value
		want error
	}{
		{"uint32 negative", func(v Value) error { _, err := ToUint32(v); return err }, Number(-1), ErrRangeOverflow},
		{"uint64 negative", func(v Value) error { _, err := ToUint64(v); return err }, Number(-1), ErrRangeOverflow},
		{"uint32 too large", func(v Value) error { _, err := ToUint32(v); return err }, Number(int64(math.MaxUint32) + 1), ErrRangeOverflow},
		{"int32 too large", func(v Value) error { _, err := ToInt32(v); return err }, Number(int64(math.MaxInt32) + 1), ErrRangeOverflow},
		{"int32 too small", func(v Value) error { _, err := ToInt32(v); return err }, Number(int64(math.MinInt32) - 1), ErrRangeOverflow},
		{"uint32 fractional", func(v Value) error { _, err := ToUint32(v); return err }, Number(1.5), ErrLossyConversion},
		{"int fractional", func(v Value) error { _, err := ToInt(v); return err }, Number(-0.25), ErrLossyConversion},
		{"int NaN", func(v Value) error { _, err := ToInt(v); return err }, Number(math.NaN()), ErrLossyConversion},
		{"int infinite", func(v Value) error { _, err := ToInt(v); return err }, Number(math.Inf(1)), ErrRangeOverflow},
		{"int from string", func(v Value) error { _, err := ToInt(v); return err }, String("1"), ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.conv(tt.in), tt.want)
		})
	}
}

func TestTypeMismatch(t *testing.T) {
	b := newBridge(t)
	values := map[string]Value{
		"undefined": Undefined(),
		"null":      Null(),
		"bool":      Bool(true),
		"number":    Number(3),
		"string":    String("3"),
		"object":    eval(t, b, "({})"),
		"array":     Array(Number(1)),
		"error":     eval(t, b, "new Error('e')"),
	}
	convs := map[string]func(Value) error{
		"bool":    func(v Value) error { _, err := ToBool(v); return err },
		"number":  func(v Value) error { _, err := ToFloat64(v); return err },
		"string":  func(v Value) error { _, err := ToString(v); return err },
		"array":   func(v Value) error { _, err := v.Elements(); return err },
		"error":   func(v Value) error { _, err := ToError(v); return err },
		"uint32":  func(v Value) error { _, err := ToUint32(v); return err },
		"wrapper": func(v Value) error { _, err := testTextAreaType.Downcast(v); return err },
	}
	accepts := map[string][]string{
		"bool":    {"bool"},
		"number":  {"number"},
		"string":  {"string"},
		"array":   {"array"},
		"error":   {"error"},
		"uint32":  {"number"},
		"wrapper": {},
	}

	for convName, conv := range convs {
		for valueName, v := range values {
			if contains(accepts[convName], valueName) {
				continue
			}
			err := conv(v)
			require.Error(t, err, "%s from %s", convName, valueName)
			assert.ErrorIs(t, err, ErrTypeMismatch, "%s from %s", convName, valueName)

			var ce *ConversionError
			require.ErrorAs(t, err, &ce)
			if v.IsNullish() {
				assert.Equal(t, AbsentValue, ce.Kind)
				assert.ErrorIs(t, err, ErrAbsentValue)
			} else {
				assert.Equal(t, TypeMismatch, ce.Kind)
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func TestStringsWithSurrogates(t *testing.T) {
	b := newBridge(t)

	paired := eval(t, b, `"😀"`)
	s, err := ToString(paired)
	require.NoError(t, err)
	assert.Equal(t, "😀", s)

	replacement := eval(t, b, `"�"`)
	s, err = ToString(replacement)
	require.NoError(t, err)
	assert.Equal(t, "�", s)

	lone := eval(t, b, `"a\uD800b"`)
	_, err = ToString(lone)
	assert.ErrorIs(t, err, ErrLossyConversion)

	s, err = ToStringLossy(lone)
	require.NoError(t, err)
	assert.Equal(t, "a�b", s)

	trailing := eval(t, b, `"\uDC00"`)
	_, err = ToString(trailing)
	assert.ErrorIs(t, err, ErrLossyConversion)
}

func TestNullable(t *testing.T) {
	for _, v := range []Value{Null(), Undefined()} {
		p, err := Nullable(v, ToUint32)
		require.NoError(t, err)
		assert.Nil(t, p)
	}

	p, err := Nullable(Number(0), ToUint32)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, uint32(0), *p)

	_, err = Nullable(String("0"), ToUint32)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSlice(t *testing.T) {
	b := newBridge(t)

	got, err := Slice(eval(t, b, "['a', 'b', 'c']"), ToString)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got, err = Slice(Strings([]string{"x", "y"}), ToString)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got)

	empty, err := Slice(eval(t, b, "[]"), ToInt)
	require.NoError(t, err)
	assert.Empty(t, empty)

	ints, err := Slice(eval(t, b, "[1, 2, 'three', 4.5]"), ToInt)
	assert.Nil(t, ints)
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "element 2")

	holes, err := Slice(eval(t, b, "[1, , 3]"), ToInt)
	assert.Nil(t, holes)
	assert.ErrorIs(t, err, ErrAbsentValue)

	nested, err := Slice(eval(t, b, "[[1], [2, 3]]"), func(v Value) ([]int, error) { return Slice(v, ToInt) })
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1}, {2, 3}}, nested)

	_, err = Slice(String("abc"), ToString)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestToError(t *testing.T) {
	b := newBridge(t)

	werr, err := ToError(eval(t, b, "new DOMException('bad offset', 'IndexSizeError')"))
	require.NoError(t, err)
	var ise *IndexSizeError
	require.ErrorAs(t, werr, &ise)
	assert.Equal(t, "bad offset", ise.Message)

	werr, err = ToError(eval(t, b, "new TypeError('nope')"))
	require.NoError(t, err)
	var fe *ForeignError
	require.ErrorAs(t, werr, &fe)
	assert.Equal(t, "TypeError", fe.Name)

	_, err = ToError(eval(t, b, "({message: 'not an error'})"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
