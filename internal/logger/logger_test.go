package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Run("JSONRespectsLevel", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "warn", Output: &buf})

		log.Info("hidden")
		log.Warn("shown", zap.String("key", "inventory"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		assert.Equal(t, "shown", entry["msg"])
		assert.Equal(t, "inventory", entry["key"])
	})

	t.Run("InvalidLevelDefaultsToInfo", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Level: "loud", Format: "console", Output: &buf})

		log.Debug("hidden")
		log.Info("visible")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
	})
}
