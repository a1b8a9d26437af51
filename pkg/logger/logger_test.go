package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConCamposFijos(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "debug", Service: "erp-location", Out: &buf})

	log.Tenant("t-1").Component("reconciler").Info().Int("started", 2).Msg("pasada")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "info", ev["level"])
	assert.Equal(t, "erp-location", ev["service"])
	assert.Equal(t, "t-1", ev["tenant_id"])
	assert.Equal(t, "reconciler", ev["component"])
	assert.EqualValues(t, 2, ev["started"])
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "ruidoso", Out: &buf})

	log.Debug().Msg("oculto")
	assert.Empty(t, buf.String())

	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
