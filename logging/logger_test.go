package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("attaches service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Output: &buf, Service: "chartly"})
		log.Info("hello")
		assert.Contains(t, buf.String(), "service=chartly")
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Output: &buf, Level: slog.LevelWarn})
		log.Info("quiet")
		log.Warn("loud")
		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "loud")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Output: &buf, JSON: true})
		log.Info("hello")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().Error("dropped")
	})
}
