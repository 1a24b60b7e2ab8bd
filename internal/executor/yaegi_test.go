package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DefinitionsPersistWithinEnvironment(t *testing.T) {
	env, err := New(0).NewEnvironment(context.Background())
	require.NoError(t, err)

	require.NoError(t, env.Run(context.Background(), `func double(n int) int { return n * 2 }`))
	require.NoError(t, env.Run(context.Background(), `if double(21) != 42 { panic("wrong") }`))
}

func TestRun_EvalError(t *testing.T) {
	env, err := New(0).NewEnvironment(context.Background())
	require.NoError(t, err)

	err = env.Run(context.Background(), `this is not go`)
	assert.Error(t, err)
}

func TestNewEnvironment_Isolated(t *testing.T) {
	x := New(0)

	first, err := x.NewEnvironment(context.Background())
	require.NoError(t, err)
	require.NoError(t, first.Run(context.Background(), `func marker() int { return 1 }`))

	second, err := x.NewEnvironment(context.Background())
	require.NoError(t, err)
	assert.Error(t, second.Run(context.Background(), `_ = marker()`))
}

func TestRun_Timeout(t *testing.T) {
	env, err := New(100 * time.Millisecond).NewEnvironment(context.Background())
	require.NoError(t, err)

	start := time.Now()
	err = env.Run(context.Background(), `for {}`)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_CanceledContext(t *testing.T) {
	env, err := New(0).NewEnvironment(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = env.Run(ctx, `for {}`)
	assert.Error(t, err)
}
