package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope_WithRows(t *testing.T) {
	body := []byte(`{
		"fields": ["ID", "GR_ID", "UN_ID", "CODE", "STATUS", "WEIGHT", "NOTE"],
		"rows": [
			[101, 7, 3, "AB12345", "Released", 1.25, null],
			[102, 8, 4, "AB12345", "Older", 2, "ignored"]
		]
	}`)

	result, err := ParseEnvelope("AB12345", body)
	require.NoError(t, err)

	assert.Equal(t, "AB12345", result.TrackingCode)
	assert.True(t, result.HasData)
	assert.Equal(t, StatusProcessing, result.Status)
	assert.Equal(t, map[string]string{
		"CODE":   "AB12345",
		"STATUS": "Released",
		"WEIGHT": "1.25",
		"NOTE":   "",
	}, result.Fields)
}

func TestParseEnvelope_EmptyRows(t *testing.T) {
	result, err := ParseEnvelope("XY99999", []byte(`{"fields": ["ID", "CODE"], "rows": []}`))
	require.NoError(t, err)

	assert.Equal(t, "XY99999", result.TrackingCode)
	assert.False(t, result.HasData)
	assert.Empty(t, result.Status)
	assert.Empty(t, result.Fields)
}

func TestParseEnvelope_ShortRow(t *testing.T) {
	result, err := ParseEnvelope("AB12345", []byte(`{"fields": ["CODE", "STATUS"], "rows": [["AB12345"]]}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"CODE": "AB12345"}, result.Fields)
}

func TestParseEnvelope_Invalid(t *testing.T) {
	_, err := ParseEnvelope("AB12345", []byte(`<html>Service Unavailable</html>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse customs response")
}
