package convert

import (
	"errors"
	"net/netip"
	"strconv"
	"time"
	"unicode/utf8"
)

var (
	ErrRune = errors.New("expected exactly one character")
	ErrZero = errors.New("value must not be zero")
)

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type integer interface {
	signed | unsigned
}

func parseSigned[T signed](bits int) Func[T] {
	return func(s string) (T, error) {
		n, err := strconv.ParseInt(s, 10, bits)
		return T(n), err
	}
}

func parseUnsigned[T unsigned](bits int) Func[T] {
	return func(s string) (T, error) {
		n, err := strconv.ParseUint(s, 10, bits)
		return T(n), err
	}
}

// Built-in conversions for primitive types. Integers are decimal.
var (
	Int   = parseSigned[int](strconv.IntSize)
	Int8  = parseSigned[int8](8)
	Int16 = parseSigned[int16](16)
	Int32 = parseSigned[int32](32)
	Int64 = parseSigned[int64](64)

	Uint   = parseUnsigned[uint](strconv.IntSize)
	Uint8  = parseUnsigned[uint8](8)
	Uint16 = parseUnsigned[uint16](16)
	Uint32 = parseUnsigned[uint32](32)
	Uint64 = parseUnsigned[uint64](64)
)

// String returns the text unchanged.
func String(s string) (string, error) { return s, nil }

// Bool accepts the forms of strconv.ParseBool.
func Bool(s string) (bool, error) { return strconv.ParseBool(s) }

func Float32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

func Float64(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// Rune accepts exactly one UTF-8 encoded character.
func Rune(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || (r == utf8.RuneError && size == 1) {
		return 0, ErrRune
	}
	return r, nil
}

func Duration(s string) (time.Duration, error) { return time.ParseDuration(s) }

func Addr(s string) (netip.Addr, error) { return netip.ParseAddr(s) }

func AddrPort(s string) (netip.AddrPort, error) { return netip.ParseAddrPort(s) }

func Prefix(s string) (netip.Prefix, error) { return netip.ParsePrefix(s) }

// NonZero wraps an integer conversion and rejects zero.
func NonZero[T integer](fn Func[T]) Func[T] {
	return func(s string) (T, error) {
		v, err := fn(s)
		if err != nil {
			return v, err
		}
		if v == 0 {
			return v, ErrZero
		}
		return v, nil
	}
}
