package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationConfig(t *testing.T) {
	cfg := generationConfig(0.2, true)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-6)

	assert.Empty(t, generationConfig(0.2, false).ResponseMIMEType)
}

func TestGeminiPingTargetsModel(t *testing.T) {
	var asked []string
	g := &Gemini{model: "gemini-text", visionModel: "gemini-vision-missing"}
	g.modelInfo = func(_ context.Context, name string) error {
		asked = append(asked, name)
		if name == "gemini-vision-missing" {
			return errors.New("404 model not found")
		}
		return nil
	}

	require.NoError(t, g.Ping(context.Background()))
	err := g.PingVision(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini-vision-missing")
	assert.Equal(t, []string{"gemini-text", "gemini-vision-missing"}, asked)
}
