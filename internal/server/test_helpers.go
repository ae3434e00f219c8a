package server

import (
	"bytes"
	"image/png"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/unfish/internal/converter"
	"github.com/MeKo-Tech/unfish/internal/testutil"
)

// newTestServer creates a server with default options for handler tests.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(Config{
		Host:        "localhost",
		Port:        8080,
		CORSOrigin:  "*",
		MaxUploadMB: 10,
		TimeoutSec:  30,
		Options:     converter.DefaultOptions(),
	})
	require.NoError(t, err)
	return srv
}

// encodeTestImage returns a synthetic fisheye image encoded as PNG.
func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()

	cfg := testutil.DefaultFisheyeImageConfig()
	cfg.Width = width
	cfg.Height = height
	img := testutil.GenerateFisheyeImage(cfg)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartImageBody builds a multipart form body with the image under the
// given field name plus any extra form fields.
func multipartImageBody(t *testing.T, field string, imageData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(field, "test.png")
	require.NoError(t, err)
	_, err = part.Write(imageData)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}
