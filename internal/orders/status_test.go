package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPreparing, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusPreparing, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPreparing, false},
		{Status("lost"), StatusPreparing, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestPrevious(t *testing.T) {
	from, ok := StatusDelivered.Previous()
	assert.True(t, ok)
	assert.Equal(t, StatusOutForDelivery, from)

	_, ok = StatusCancelled.Previous()
	assert.False(t, ok)
	_, ok = StatusPending.Previous()
	assert.False(t, ok)
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusOutForDelivery.Terminal())
	assert.False(t, Status("lost").Valid())
}
