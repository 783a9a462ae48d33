package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewTagsService(t *testing.T) {
	var buf bytes.Buffer

	entry := New("≪test≫")
	prev := entry.Logger.Out
	entry.Logger.SetOutput(&buf)
	defer entry.Logger.SetOutput(prev)

	entry.Info("hello")

	assert.Equal(t, "≪test≫", entry.Data[ServiceKey])
	assert.Contains(t, buf.String(), "hello")
}

func TestSetVerbose(t *testing.T) {
	prev := Base().GetLevel()
	defer Base().SetLevel(prev)

	SetVerbose(true)

	assert.Equal(t, logrus.DebugLevel, Base().GetLevel())
}
