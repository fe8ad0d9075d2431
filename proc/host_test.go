package proc

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostSeesItself(t *testing.T) {
	ctx := context.Background()
	h := NewHost()
	self := int32(os.Getpid())

	procs, err := h.Processes(ctx)
	require.NoError(t, err)

	found := false
	for _, p := range procs {
		if p.Pid == self {
			found = true
			assert.NotEmpty(t, p.Name)
		}
	}
	require.True(t, found, "own pid missing from enumeration")

	total, err := h.ProcessTime(ctx, self)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total.Nanoseconds(), int64(0))

	ws, err := h.WorkingSet(ctx, self)
	require.NoError(t, err)
	assert.Positive(t, ws)

	sys, err := h.SystemTime(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sys.Nanoseconds(), total.Nanoseconds())
}

func TestHostUnknownPid(t *testing.T) {
	h := NewHost()
	_, err := h.ProcessTime(context.Background(), 1<<30)
	assert.Error(t, err)
}

func TestEndAllCountsFailures(t *testing.T) {
	failed, err := Controller{}.EndAll(context.Background(), []int32{0, -3}, SignalTerminate)
	assert.Equal(t, 2, failed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PID: 0")
	assert.Contains(t, err.Error(), "invalid PID: -3")

	failed, err = Controller{}.EndAll(context.Background(), nil, SignalKill)
	assert.Zero(t, failed)
	assert.NoError(t, err)
}

func TestSignalString(t *testing.T) {
	assert.Equal(t, "terminate", SignalTerminate.String())
	assert.Equal(t, "kill", SignalKill.String())
}
