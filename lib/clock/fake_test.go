// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeClockStandsStill(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	c := Fake(start)

	if got := c.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}
	if got := c.Now(); !got.Equal(start) {
		t.Errorf("second Now() = %v, want %v (fake time must not drift)", got, start)
	}
}

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	c := Fake(start)

	c.Advance(90 * time.Second)
	want := start.Add(90 * time.Second)
	if got := c.Now(); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockSet(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c.Set(want)
	if got := c.Now(); !got.Equal(want) {
		t.Errorf("Now() after Set = %v, want %v", got, want)
	}
}

func TestRealClockTracksTime(t *testing.T) {
	before := time.Now()
	got := Real().Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Real().Now() = %v, want within [%v, %v]", got, before, after)
	}
}
