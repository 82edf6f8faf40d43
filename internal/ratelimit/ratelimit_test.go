package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"streamline/internal/models"
)

func TestFixedWindowNilLimitAlwaysAllows(t *testing.T) {
	ms := &models.MemberState{}
	now := time.Now()
	for i := 0; i < 100; i++ {
		assert.True(t, FixedWindow{}.Allow(ms, nil, now))
	}
}

func TestFixedWindowBlocksAtLimit(t *testing.T) {
	ms := &models.MemberState{}
	limit := 3
	now := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, FixedWindow{}.Allow(ms, &limit, now))
	}
	assert.False(t, FixedWindow{}.Allow(ms, &limit, now), "the fourth send within the window is over the cap")
}

func TestFixedWindowResetsAfterWindowElapses(t *testing.T) {
	ms := &models.MemberState{}
	limit := 1
	now := time.Now()

	assert.True(t, FixedWindow{}.Allow(ms, &limit, now))
	assert.False(t, FixedWindow{}.Allow(ms, &limit, now))

	later := now.Add(window + time.Second)
	assert.True(t, FixedWindow{}.Allow(ms, &limit, later), "a new window resets the counter")
}
