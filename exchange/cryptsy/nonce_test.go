package cryptsy

import (
	"testing"
	"time"
)

func TestNonceIsEpochMilliseconds(t *testing.T) {
	nonces := newNonceSource()
	nonces.now = func() time.Time { return time.Unix(1400000000, 123456789) }

	if n := nonces.next(); n != 1400000000123 {
		t.Errorf("Expected nonce 1400000000123 but was instead %d.", n)
	}
}

func TestNonceStrictlyIncreasesWithinAMillisecond(t *testing.T) {
	nonces := newNonceSource()
	nonces.now = func() time.Time { return time.Unix(1400000000, 0) }

	first := nonces.next()
	second := nonces.next()
	third := nonces.next()

	if !(first < second && second < third) {
		t.Errorf("Expected strictly increasing nonces but got %d, %d, %d.", first, second, third)
	}
}

func TestNonceSurvivesClockGoingBackwards(t *testing.T) {
	nonces := newNonceSource()
	clock := time.Unix(1400000000, 0)
	nonces.now = func() time.Time { return clock }

	first := nonces.next()

	clock = clock.Add(-time.Minute)

	if second := nonces.next(); second <= first {
		t.Errorf("Expected nonce after %d but got %d.", first, second)
	}
}
