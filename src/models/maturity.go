package models

import (
	"fmt"
	"time"
)

const secondsPerYear = 31536000.0

// Now is the clock used to turn absolute maturities into year fractions.
var Now = time.Now

// Maturity is an absolute expiry instant or a fixed year fraction. It is comparable and can
// be used as a map key.
type Maturity struct {
	absolute bool
	seconds  int64 // unix seconds of an absolute expiry
	nanos    int32
	years    float64
}

func ExpiresAt(t time.Time) Maturity {
	return Maturity{absolute: true, seconds: t.Unix(), nanos: int32(t.Nanosecond())}
}

func ExpiresIn(years float64) Maturity {
	return Maturity{years: years}
}

func (m Maturity) IsAbsolute() bool {
	return m.absolute
}

func (m Maturity) Time() (time.Time, bool) {
	if !m.IsAbsolute() {
		return time.Time{}, false
	}

	return time.Unix(m.seconds, int64(m.nanos)).UTC(), true
}

// Tau returns the time to maturity in years as seen from now.
func (m Maturity) Tau(now time.Time) float64 {
	if !m.IsAbsolute() {
		return m.years
	}

	seconds := float64(m.seconds-now.Unix()) + float64(int64(m.nanos)-int64(now.Nanosecond()))/float64(time.Second)
	return seconds / secondsPerYear
}

func (m Maturity) Before(other Maturity) bool {
	if m.IsAbsolute() && other.IsAbsolute() {
		if m.seconds != other.seconds {
			return m.seconds < other.seconds
		}

		return m.nanos < other.nanos
	}

	if !m.IsAbsolute() && !other.IsAbsolute() {
		return m.years < other.years
	}

	now := Now()
	return m.Tau(now) < other.Tau(now)
}

func (m Maturity) String() string {
	if t, ok := m.Time(); ok {
		return t.Format(time.RFC3339)
	}

	return fmt.Sprintf("%.6fy", m.years)
}
