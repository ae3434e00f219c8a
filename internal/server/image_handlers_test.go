package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertImageHandler(t *testing.T) {
	srv := newTestServer(t)
	imageData := encodeTestImage(t, 128, 128)

	body, contentType := multipartImageBody(t, "image", imageData, nil)
	req := httptest.NewRequest(http.MethodPost, "/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.convertImageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	out, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, out.Bounds().Dx())
	assert.Equal(t, 128, out.Bounds().Dy())
}

func TestConvertImageHandlerWithParams(t *testing.T) {
	srv := newTestServer(t)
	imageData := encodeTestImage(t, 160, 120)

	body, contentType := multipartImageBody(t, "image", imageData, map[string]string{
		"fov":             "190",
		"perspective_fov": "100",
		"camera_type":     "stereographic",
		"format":          "diagonal",
		"interpolation":   "bilinear",
		"width":           "96",
		"height":          "96",
	})
	req := httptest.NewRequest(http.MethodPost, "/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.convertImageHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 96, out.Bounds().Dx())
	assert.Equal(t, 96, out.Bounds().Dy())
}

func TestConvertImageHandlerErrors(t *testing.T) {
	srv := newTestServer(t)
	imageData := encodeTestImage(t, 64, 64)

	tests := []struct {
		name       string
		field      string
		data       []byte
		fields     map[string]string
		wantStatus int
	}{
		{
			name:       "missing image field",
			field:      "file",
			data:       imageData,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not an image",
			field:      "image",
			data:       []byte("plain text"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown camera type",
			field:      "image",
			data:       imageData,
			fields:     map[string]string{"camera_type": "pinhole"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad fov value",
			field:      "image",
			data:       imageData,
			fields:     map[string]string{"fov": "wide"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "orthographic fov over 180",
			field:      "image",
			data:       imageData,
			fields:     map[string]string{"camera_type": "orthographic", "fov": "200"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "width without height",
			field:      "image",
			data:       imageData,
			fields:     map[string]string{"width": "100"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartImageBody(t, tt.field, tt.data, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/convert", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			srv.convertImageHandler(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var resp ConvertError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestConvertImageHandlerMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/convert", nil)
	rec := httptest.NewRecorder()
	srv.convertImageHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestConvertImageHandlerNotMultipart(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader("not a form"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	srv.convertImageHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
