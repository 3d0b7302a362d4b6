package helpers

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestSniffImage(t *testing.T) {
	png, err := base64.StdEncoding.DecodeString(tinyPNG)
	require.NoError(t, err)

	ct, r, err := SniffImage(bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	replayed, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, png, replayed)

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	ct, _, err = SniffImage(bytes.NewReader(gif))
	require.NoError(t, err)
	assert.Equal(t, "image/gif", ct)
}

func TestSniffImageRejects(t *testing.T) {
	cases := map[string]string{
		"html":  "<html><body><script>alert(1)</script></body></html>",
		"svg":   `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`,
		"text":  "just some words",
		"empty": "",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := SniffImage(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrNotAnImage)
		})
	}
}
