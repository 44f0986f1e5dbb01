package argx

import (
	"math"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/araddon/dateparse"
	"github.com/google/uuid"
)

// Integer accepts decimal, 0x, 0o, 0b and legacy 0NNN octal notation.
var Integer = Convert("integer", parseInteger)

// Unsigned is an Integer that must not be negative.
var Unsigned = Convert("unsigned", func(s string) (int, error) {
	n, err := parseInteger(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &ConversionError{}
	}
	return n, nil
})

// UFloat is a float64 that must not be negative.
var UFloat = Convert("unsigned float", func(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, &ConversionError{}
	}
	return f, nil
})

// IPv4Address accepts dotted-quad addresses.
var IPv4Address = Convert("IPv4 address", parseIPv4)

// IPAddress accepts IPv6 addresses (anything containing ':') or IPv4 ones.
var IPAddress = Convert("IP address", parseIP)

// IPPrefix accepts ADDR or ADDR/MASK. The mask is a length (0..32 or
// 0..128) or, for IPv4, a dotted netmask. The value is the input string.
var IPPrefix = Convert("IP/prefix", parseIPPrefix)

// Hostname accepts IP addresses and RFC 1123 host names. A single trailing
// dot is allowed. The value is the input string.
var Hostname = Convert("hostname", parseHostname)

// HMS accepts durations written as a sequence of <number><unit> with units
// w, d, h, m and s, e.g. 4w3d12h30m15s. Fractions are allowed and the total
// is rounded to whole seconds.
var HMS = Convert("hms", parseHMS)

// Timestamp parses dates and times in the local time zone. See NewTimestamp.
var Timestamp = NewTimestamp(time.Local, time.Now)

// Semver accepts semantic versions.
var Semver = Convert("version", semver.NewVersion)

// UUID accepts RFC 4122 identifiers in any of the usual spellings.
var UUID = Convert("UUID", uuid.Parse)

// Date accepts dates in any format dateparse understands.
var Date = Convert("date", func(s string) (time.Time, error) {
	return dateparse.ParseAny(s)
})

var signedOctal = regexp.MustCompile(`^[+-]0[0-9]*[1-9][0-9]*$`)

// parseInteger reads 0NNN as octal, but only without a sign.
func parseInteger(s string) (int, error) {
	s = strings.TrimSpace(s)
	if signedOctal.MatchString(s) {
		return 0, &ConversionError{}
	}
	n, err := strconv.ParseInt(s, 0, 0)
	return int(n), err
}

func parseIPv4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if !addr.Is4() {
		return netip.Addr{}, &ConversionError{}
	}
	return addr, nil
}

func parseIP(s string) (netip.Addr, error) {
	if !strings.Contains(s, ":") {
		return parseIPv4(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if !addr.Is6() || addr.Zone() != "" {
		return netip.Addr{}, &ConversionError{}
	}
	return addr, nil
}

func parseIPPrefix(s string) (string, error) {
	addr, mask, hasMask := strings.Cut(s, "/")

	if strings.Contains(addr, ":") {
		if _, err := parseIP(addr); err != nil {
			return "", err
		}
		if hasMask {
			if n, err := strconv.Atoi(mask); err != nil || n < 0 || n > 128 {
				return "", &ConversionError{}
			}
		}
		return s, nil
	}

	if _, err := parseIPv4(addr); err != nil {
		return "", err
	}
	if hasMask {
		n, err := strconv.Atoi(mask)
		if err != nil {
			if _, err := parseIPv4(mask); err != nil {
				return "", err
			}
		} else if n < 0 || n > 32 {
			return "", &ConversionError{}
		}
	}
	return s, nil
}

var invalidHostnameChar = regexp.MustCompile(`[^a-zA-Z0-9-]`)

func parseHostname(host string) (string, error) {
	if _, err := parseIP(host); err == nil {
		return host, nil
	}
	if host == "" {
		return "", &ConversionError{}
	}

	domain := strings.TrimSuffix(host, ".")
	if len(domain) > 253 {
		return "", &ConversionError{}
	}

	labels := strings.Split(domain, ".")
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return "", &ConversionError{}
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "", &ConversionError{}
		}
		if invalidHostnameChar.MatchString(label) {
			return "", &ConversionError{}
		}
	}

	// A numeric top-level label would make 1.2.3.400 a host name.
	if isDecimal(labels[len(labels)-1]) {
		return "", &ConversionError{}
	}
	return host, nil
}

func isDecimal(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// The "." alternative catches anything that is not a <number><unit> pair.
var hmsTerm = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)([wdhms])|.`)

var hmsUnits = map[byte]float64{
	'w': 7 * 24 * 60 * 60,
	'd': 24 * 60 * 60,
	'h': 60 * 60,
	'm': 60,
	's': 1,
}

const maxHMSSeconds = float64(math.MaxInt64 / int64(time.Second))

func parseHMS(s string) (time.Duration, error) {
	if s == "" {
		return 0, Rejectf("required argument missing")
	}

	var sec float64
	for _, m := range hmsTerm.FindAllStringSubmatch(s, -1) {
		if m[1] == "" {
			return 0, Rejectf("expected something like `4w3d12h30m15s'")
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		sec += n * hmsUnits[strings.ToLower(m[2])[0]]
	}
	if sec > maxHMSSeconds {
		return 0, Rejectf("duration too long: %s", s)
	}
	return time.Duration(math.RoundToEven(sec)) * time.Second, nil
}

// NewTimestamp returns a converter for
//
//	YYYY-MM-DD[ T]HH:MM[:SS][.mmm][Z]
//	YYYY/MM/DD or MM/DD (current year)
//	HH:MM[:SS][.mmm][Z] (today, midnight UTC)
//
// Dates are interpreted in loc. now supplies the current year and day.
// Precision is limited to milliseconds.
func NewTimestamp(loc *time.Location, now func() time.Time) *Converter {
	return Convert("timestamp", func(s string) (time.Time, error) {
		return parseTimestamp(s, loc, now)
	})
}

var timestampTail = regexp.MustCompile(`(?:\.(\d+))?Z?$`)

func parseTimestamp(value string, loc *time.Location, now func() time.Time) (time.Time, error) {
	sep := "T"
	if strings.Contains(value, " ") {
		sep = " "
	}
	first, second, hasSep := strings.Cut(value, sep)

	var (
		date    string
		clock   string
		hasDate bool
		seconds int64
	)
	switch {
	case hasSep:
		date, clock, hasDate = first, second, true
	case strings.ContainsAny(first, "-/"):
		date, hasDate = first, true
	default:
		clock = first
		today := now().UTC()
		seconds = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).Unix()
	}

	if hasDate {
		layout := "2006-1-2"
		switch strings.Count(date, "/") {
		case 1:
			// The year makes day-of-month validation possible.
			date = strconv.Itoa(now().UTC().Year()) + "/" + date
			layout = "2006/1/2"
		case 2:
			layout = "2006/1/2"
		}
		t, err := time.ParseInLocation(layout, date, loc)
		if err != nil {
			return time.Time{}, Rejectf("specify date as YYYY-MM-DD or MM/DD")
		}
		seconds = t.Unix()
	}

	var ms int64
	if !hasDate || hasSep {
		if tail := timestampTail.FindStringSubmatchIndex(clock); tail != nil && tail[0] != tail[1] {
			subsec := ""
			if tail[2] >= 0 {
				subsec = strings.TrimRight(clock[tail[2]:tail[3]], "0")
			}
			clock = clock[:tail[0]]
			if len(subsec) > 3 {
				return time.Time{}, Rejectf("cannot specify time with more than milliseconds precision")
			}
			if subsec != "" {
				n, _ := strconv.Atoi(subsec)
				for i := len(subsec); i < 3; i++ {
					n *= 10
				}
				ms = int64(n)
			}
		}

		layout := "15:4:5"
		if strings.Count(clock, ":") == 1 {
			layout = "15:4"
		}
		t, err := time.Parse(layout, clock)
		if err != nil {
			return time.Time{}, Rejectf("specify time as HH:MM:SS or HH:MM")
		}
		seconds += int64(t.Hour()*60*60 + t.Minute()*60 + t.Second())
	}

	return time.UnixMilli(seconds*1000 + ms), nil
}

var (
	onWords  = []string{"on", "yes", "true", "1"}
	offWords = []string{"off", "no", "false", "0"}
)

// parseOnOff interprets the words accepted by Boolean flags.
func parseOnOff(s string) (bool, error) {
	s = strings.ToLower(s)
	for _, w := range onWords {
		if s == w {
			return true, nil
		}
	}
	for _, w := range offWords {
		if s == w {
			return false, nil
		}
	}
	return false, Rejectf("boolean value expected")
}
