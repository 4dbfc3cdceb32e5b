package logger

import (
	"bytes"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdduha/regression-plot/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithOutput(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.WithField("plot", "3d").Warn("slow render")
	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "slow render", entry["msg"])
	assert.Equal(t, "3d", entry["plot"])
	assert.Equal(t, "warning", entry["level"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l := newWithOutput(config.LogConfig{Level: "debug", Format: "text"}, &buf)

	l.Debug("fit done")
	assert.Contains(t, buf.String(), `msg="fit done"`)
	assert.Contains(t, buf.String(), "level=debug")
}

func TestNew_UnknownLevel(t *testing.T) {
	l := New(config.LogConfig{Level: "chatty", Format: "json"})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}
