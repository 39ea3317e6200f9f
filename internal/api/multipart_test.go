package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostMultipart(t *testing.T) {
	var (
		field, filename, partType, content string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("image")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		field, filename, partType, content = "image", hdr.Filename, hdr.Header.Get("Content-Type"), string(data)
		writeJSON(w, http.StatusOK, map[string]string{"imageUrl": "/img/crop_5.jpg"})
	}))
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL})
	var out map[string]string
	err := c.PostMultipart(context.Background(), "/crops/5/image", File{
		Field:       "image",
		Name:        "crop_5.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg-bytes"),
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "image", field)
	assert.Equal(t, "crop_5.jpg", filename)
	assert.Equal(t, "image/jpeg", partType)
	assert.Equal(t, "jpeg-bytes", content)
	assert.Equal(t, "/img/crop_5.jpg", out["imageUrl"])
}
