package cache

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls int
}

func (p *countingPurger) PurgeExpired() int {
	p.calls++
	return 0
}

func TestNewSweeper(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	t.Run("default schedule", func(t *testing.T) {
		s, err := NewSweeper(&countingPurger{}, "", logger)

		require.NoError(t, err)
		assert.Len(t, s.cron.Entries(), 1)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		s, err := NewSweeper(&countingPurger{}, "not a schedule", logger)

		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestSweeper_Sweep(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := newTestCache(t)
	c.Set("AAPL", 5, sampleHistory(), 10*time.Millisecond)

	s, err := NewSweeper(c, "@every 1h", logger)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	s.sweep()

	assert.Equal(t, 0, c.Len())
}

func TestSweeper_StartStop(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	purger := &countingPurger{}
	s, err := NewSweeper(purger, "@every 1h", logger)
	require.NoError(t, err)

	s.Start()
	s.Stop()

	assert.Equal(t, 0, purger.calls)
}
