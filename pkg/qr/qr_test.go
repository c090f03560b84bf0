package qr

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRendererDataURI(t *testing.T) {
	r := NewRenderer(128)
	uri, err := r.DataURI("session-payload")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	require.Equal(t, []byte("\x89PNG"), raw[:4])
}

func TestRendererEmptyPayload(t *testing.T) {
	r := NewRenderer(0)
	_, err := r.DataURI("")
	require.Error(t, err)
}
