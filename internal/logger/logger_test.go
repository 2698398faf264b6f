package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestPrettyHandler(t *testing.T) {
	t.Run("should hide info below warn by default", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		log := New(&buf, false, false)

		// Act
		log.Info("hidden")
		log.Warn("visible", "count", 3)

		// Assert
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "[WARN]  visible count=3")
	})

	t.Run("should show info in verbose mode", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, false, true)

		log.Info("fetching documentation", "url", "https://example.com/docs")

		assert.Contains(t, buf.String(), "[INFO]  fetching documentation url=https://example.com/docs")
	})

	t.Run("should prefix grouped attributes", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, false, false).WithGroup("gate").With("threshold", 0.75)

		log.Error("drift")

		assert.Contains(t, buf.String(), "gate.threshold=0.75")
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("should carry logger through context", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), New(&buf, false, false))
		ctx = With(ctx, "pr", 42)

		// Act
		Error(ctx, "judgment failed", errors.New("boom"))

		// Assert
		out := buf.String()
		assert.Contains(t, out, "[ERROR] judgment failed")
		assert.Contains(t, out, "pr=42")
		assert.Contains(t, out, "error=boom")
	})

	t.Run("should fall back to default logger", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}
