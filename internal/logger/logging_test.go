package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewWithConfigWritesPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "index", log.InfoLevel, false, false, log.TextFormatter)
	l.Info("rebuilt", "records", 3)
	assert.Contains(t, buf.String(), "index")
	assert.Contains(t, buf.String(), "records=3")

	buf.Reset()
	l.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestSetupLevels(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	Setup(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	Setup(false)
	assert.Equal(t, log.WarnLevel, log.GetLevel())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.Equal(t, log.FatalLevel, l.GetLevel())
	l.Error("dropped")
}
