package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cmilne/telegrid/internal/errors"
)

func testConfig() Config {
	return Config{
		FailureThreshold:  3,
		OpenTimeout:       time.Minute,
		HalfOpenSuccesses: 1,
	}
}

func failing() error { return errors.New("boom") }

func TestBreaker_StartsClosed(t *testing.T) {
	b := New(testConfig())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New(testConfig())

	for i := 0; i < 3; i++ {
		err := b.Execute(failing)
		require.Error(t, err)
	}
	assert.Equal(t, StateOpen, b.State())

	err := b.Execute(func() error {
		t.Fatal("should not be called while open")
		return nil
	})
	assert.Equal(t, apperrors.CodeCircuitOpen, apperrors.GetErrorCode(err))
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New(testConfig())

	require.Error(t, b.Execute(failing))
	require.Error(t, b.Execute(failing))
	require.NoError(t, b.Execute(func() error { return nil }))
	require.Error(t, b.Execute(failing))
	require.Error(t, b.Execute(failing))

	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenAfterTimeout(t *testing.T) {
	b := New(testConfig())
	current := time.Now()
	b.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		require.Error(t, b.Execute(failing))
	}
	require.Equal(t, StateOpen, b.State())

	current = current.Add(61 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())
}

func TestBreaker_HalfOpenSuccessCloses(t *testing.T) {
	b := New(testConfig())
	current := time.Now()
	b.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		require.Error(t, b.Execute(failing))
	}
	current = current.Add(61 * time.Second)

	require.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := New(testConfig())
	current := time.Now()
	b.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		require.Error(t, b.Execute(failing))
	}
	current = current.Add(61 * time.Second)
	require.Equal(t, StateHalfOpen, b.State())

	require.Error(t, b.Execute(failing))
	assert.Equal(t, StateOpen, b.State())

	// Reopening restarts the timeout from the new failure.
	current = current.Add(30 * time.Second)
	assert.Equal(t, StateOpen, b.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
