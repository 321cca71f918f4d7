package convert

import (
	"math"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"12", 12, false},
		{"-7", -7, false},
		{"+7", 7, false},
		{"0", 0, false},
		{"1x", 0, true},
		{"12 ", 0, true},
		{" 12", 0, true},
		{"", 0, true},
		{"0x10", 0, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := Int(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntegerRanges(t *testing.T) {
	t.Parallel()

	_, err := Int8("128")
	assert.Error(t, err)
	n8, err := Int8("-128")
	require.NoError(t, err)
	assert.Equal(t, int8(math.MinInt8), n8)

	_, err = Uint8("256")
	assert.Error(t, err)
	_, err = Uint("-1")
	assert.Error(t, err)

	u64, err := Uint64("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)

	n16, err := Int16("-300")
	require.NoError(t, err)
	assert.Equal(t, int16(-300), n16)

	n32, err := Int32("70000")
	require.NoError(t, err)
	assert.Equal(t, int32(70000), n32)

	n64, err := Int64("-9223372036854775808")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), n64)

	u16, err := Uint16("65535")
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), u16)

	u32, err := Uint32("4294967295")
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u32)
}

func TestFloatsAndBools(t *testing.T) {
	t.Parallel()

	f, err := Float64("3.25")
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)

	f32, err := Float32("-0.5")
	require.NoError(t, err)
	assert.Equal(t, float32(-0.5), f32)

	_, err = Float64("3.25.1")
	assert.Error(t, err)

	b, err := Bool("false")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = Bool("yes")
	assert.Error(t, err)
}

func TestRune(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    rune
		wantErr bool
	}{
		{"a", 'a', false},
		{"é", 'é', false},
		{"世", '世', false},
		{"", 0, true},
		{"ab", 0, true},
		{"\xff", 0, true},
	}
	for _, tt := range tests {
		got, err := Rune(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrRune, "input %q", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNetworkAndDuration(t *testing.T) {
	t.Parallel()

	a, err := Addr("::1")
	require.NoError(t, err)
	assert.Equal(t, netip.IPv6Loopback(), a)

	_, err = Addr("10.0.0.256")
	assert.Error(t, err)

	_, err = AddrPort("10.0.0.1")
	assert.Error(t, err)

	p, err := Prefix("192.168.0.0/16")
	require.NoError(t, err)
	assert.Equal(t, 16, p.Bits())

	d, err := Duration("250ms")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	_, err = Duration("5")
	assert.Error(t, err)
}

func TestNonZero(t *testing.T) {
	t.Parallel()

	port := NonZero(Uint16)

	got, err := port("8080")
	require.NoError(t, err)
	assert.Equal(t, uint16(8080), got)

	_, err = port("0")
	assert.ErrorIs(t, err, ErrZero)

	_, err = port("x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrZero)
}
