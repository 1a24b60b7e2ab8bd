package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay_Modes(t *testing.T) {
	linear := Policy{Mode: BackoffLinear, Initial: time.Second, Max: 3 * time.Second}
	assert.Equal(t, time.Second, linear.Delay(1))
	assert.Equal(t, 2*time.Second, linear.Delay(2))
	assert.Equal(t, 3*time.Second, linear.Delay(5)) // capped

	exp := Policy{Mode: BackoffExponential, Initial: time.Second, Max: 10 * time.Second}
	assert.Equal(t, time.Second, exp.Delay(1))
	assert.Equal(t, 4*time.Second, exp.Delay(3))
	assert.Equal(t, 10*time.Second, exp.Delay(6)) // capped

	fixed := Policy{Mode: BackoffFixed, Initial: 2 * time.Second, Max: time.Minute}
	assert.Equal(t, 2*time.Second, fixed.Delay(4))

	assert.Equal(t, time.Duration(0), linear.Delay(0))
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	policy := Policy{Mode: BackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 3}

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	policy := Policy{Mode: BackoffFixed, Initial: time.Millisecond, Max: time.Millisecond, MaxRetries: 2}

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return errors.New("always")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls) // first attempt plus two retries
}

func TestDo_ContextCancelsWait(t *testing.T) {
	policy := Policy{Mode: BackoffFixed, Initial: time.Minute, Max: time.Minute, MaxRetries: 5}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := policy.Do(ctx, func() error { return errors.New("down") })
	assert.Error(t, err)
}
