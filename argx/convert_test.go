//nolint:testpackage // using package name 'argx' to access unexported fields for testing
package argx

import (
	"net/netip"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conversionCase struct {
	in   string
	want any
	err  string // expected message when non-empty; "!" means any error
}

func runConversions(t *testing.T, c *Converter, cases []conversionCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(c.Name()+"/"+tt.in, func(t *testing.T) {
			got, err := c.Accept(tt.in)
			if tt.err != "" {
				var ce *ConversionError
				require.ErrorAs(t, err, &ce)
				if tt.err != "!" {
					assert.Equal(t, tt.err, err.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntegerConverters(t *testing.T) {
	runConversions(t, Integer, []conversionCase{
		{in: "10", want: 10},
		{in: "010", want: 8},
		{in: "0x10", want: 16},
		{in: "0o17", want: 15},
		{in: "0b101", want: 5},
		{in: "-5", want: -5},
		{in: "-0x10", want: -16},
		{in: "-00", want: 0},
		{in: "-010", err: "invalid integer value: '-010'"},
		{in: "+07", err: "!"},
		{in: " 7 ", want: 7},
		{in: "09", err: "!"},
		{in: "abc", err: "invalid integer value: 'abc'"},
	})
	runConversions(t, Unsigned, []conversionCase{
		{in: "5", want: 5},
		{in: "0", want: 0},
		{in: "-1", err: "invalid unsigned value: '-1'"},
	})
	runConversions(t, UFloat, []conversionCase{
		{in: "1.5", want: 1.5},
		{in: "-0.5", err: "invalid unsigned float value: '-0.5'"},
	})
}

func TestAddressConverters(t *testing.T) {
	runConversions(t, IPv4Address, []conversionCase{
		{in: "192.168.1.1", want: netip.MustParseAddr("192.168.1.1")},
		{in: "::1", err: "invalid IPv4 address value: '::1'"},
		{in: "256.1.1.1", err: "!"},
	})
	runConversions(t, IPAddress, []conversionCase{
		{in: "::1", want: netip.MustParseAddr("::1")},
		{in: "10.0.0.1", want: netip.MustParseAddr("10.0.0.1")},
		{in: "fe80::1%eth0", err: "!"},
		{in: "1.2.3", err: "invalid IP address value: '1.2.3'"},
	})
	runConversions(t, IPPrefix, []conversionCase{
		{in: "10.0.0.0/8", want: "10.0.0.0/8"},
		{in: "10.0.0.0/255.0.0.0", want: "10.0.0.0/255.0.0.0"},
		{in: "10.0.0.0", want: "10.0.0.0"},
		{in: "2001:db8::/32", want: "2001:db8::/32"},
		{in: "10.0.0.0/33", err: "invalid IP/prefix value: '10.0.0.0/33'"},
		{in: "2001:db8::/129", err: "!"},
		{in: "10.0.0.0/x", err: "!"},
	})
	runConversions(t, Hostname, []conversionCase{
		{in: "example.com", want: "example.com"},
		{in: "example.com.", want: "example.com."},
		{in: "localhost", want: "localhost"},
		{in: "1.2.3.4", want: "1.2.3.4"},
		{in: "-bad.com", err: "!"},
		{in: "a..b", err: "!"},
		{in: "host_name", err: "!"},
		{in: "1.2.3.400", err: "invalid hostname value: '1.2.3.400'"},
		{in: "", err: "!"},
	})
}

func TestHMS(t *testing.T) {
	runConversions(t, HMS, []conversionCase{
		{in: "4w3d12h30m15s", want: 2723415 * time.Second},
		{in: "1.5h", want: 90 * time.Minute},
		{in: "2H", want: 2 * time.Hour},
		{in: "1.5s", want: 2 * time.Second},
		{in: "0.5s", want: time.Duration(0)},
		{in: "15000w", want: 15000 * 7 * 24 * time.Hour},
		{in: "20000w", err: "duration too long: 20000w"},
		{in: "90", err: "expected something like `4w3d12h30m15s'"},
		{in: "", err: "required argument missing"},
	})
}

func TestTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 20, 30, 0, time.UTC)
	conv := NewTimestamp(time.UTC, func() time.Time { return now })

	ms := func(y int, mo time.Month, d, h, mi, s, msec int) int64 {
		return time.Date(y, mo, d, h, mi, s, msec*int(time.Millisecond), time.UTC).UnixMilli()
	}

	tests := []struct {
		in   string
		want int64
		err  string
	}{
		{in: "2024-01-02T03:04:05Z", want: ms(2024, 1, 2, 3, 4, 5, 0)},
		{in: "2024-01-02 03:04", want: ms(2024, 1, 2, 3, 4, 0, 0)},
		{in: "2024-01-02", want: ms(2024, 1, 2, 0, 0, 0, 0)},
		{in: "01/02", want: ms(2024, 1, 2, 0, 0, 0, 0)},
		{in: "2023/12/31", want: ms(2023, 12, 31, 0, 0, 0, 0)},
		{in: "12:00:00.5Z", want: ms(2024, 3, 15, 12, 0, 0, 500)},
		{in: "12:00:00.1000", want: ms(2024, 3, 15, 12, 0, 0, 100)},
		{in: "08:15", want: ms(2024, 3, 15, 8, 15, 0, 0)},
		{in: "12:00:00.1234", err: "cannot specify time with more than milliseconds precision"},
		{in: "2024-13-01", err: "specify date as YYYY-MM-DD or MM/DD"},
		{in: "02/30", err: "specify date as YYYY-MM-DD or MM/DD"},
		{in: "2024-01-02T25:00", err: "specify time as HH:MM:SS or HH:MM"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := conv.Accept(tt.in)
			if tt.err != "" {
				assert.EqualError(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.IsType(t, time.Time{}, got)
			assert.Equal(t, tt.want, got.(time.Time).UnixMilli())
		})
	}
}

func TestLibraryConverters(t *testing.T) {
	v, err := Semver.Accept("1.2.3")
	require.NoError(t, err)
	assert.True(t, v.(*semver.Version).Equal(semver.MustParse("1.2.3")))

	_, err = Semver.Accept("not-a-version")
	assert.EqualError(t, err, "invalid version value: 'not-a-version'")

	id, err := UUID.Accept("123e4567-e89b-12d3-a456-426614174000")
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"), id)

	_, err = UUID.Accept("xyz")
	assert.EqualError(t, err, "invalid UUID value: 'xyz'")

	d, err := Date.Accept("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.(time.Time).Year())

	_, err = Date.Accept("not a date")
	assert.Error(t, err)
}

func TestConvertWrapsPlainErrors(t *testing.T) {
	c := Convert("even number", func(s string) (int, error) {
		n, err := parseInteger(s)
		if err != nil {
			return 0, err
		}
		if n%2 != 0 {
			return 0, Rejectf("%d is odd", n)
		}
		return n, nil
	})

	v, err := c.Accept("4")
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	_, err = c.Accept("x")
	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "even number", ce.Name)
	assert.Equal(t, "x", ce.Value)
	assert.Equal(t, "invalid even number value: 'x'", err.Error())
	assert.Error(t, ce.Unwrap())

	_, err = c.Accept("3")
	assert.EqualError(t, err, "3 is odd")
}
