package latency_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"godash/internal/pkg/latency"
)

func TestSimulator_WaitsConfiguredDelay(t *testing.T) {
	var waited []time.Duration
	sim := latency.New(true).WithSleep(func(d time.Duration) { waited = append(waited, d) })

	sim.Wait(latency.OpGet)
	sim.Wait(latency.OpMutate)
	sim.Wait(latency.OpList)
	sim.Wait(latency.OpStats)

	assert.Equal(t, []time.Duration{
		50 * time.Millisecond, 200 * time.Millisecond, 100 * time.Millisecond, 150 * time.Millisecond,
	}, waited)
}

func TestSimulator_DisabledAndNil(t *testing.T) {
	called := false
	latency.New(false).WithSleep(func(time.Duration) { called = true }).Wait(latency.OpMutate)
	assert.False(t, called)

	var nilSim *latency.Simulator
	assert.NotPanics(t, func() { nilSim.Wait(latency.OpGet) })
	assert.Equal(t, time.Duration(0), nilSim.Delay(latency.OpGet))
}
