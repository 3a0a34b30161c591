package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/timetable-import/internal/providers"
)

func TestExtractText(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"response": `{"items":[]}`})
	}))
	defer srv.Close()

	text, err := New(srv.URL+"/").ExtractText(context.Background(), providers.Config{
		Model:  "llava",
		Prompt: "read the timetable",
		Image:  []byte("img"),
	})
	require.NoError(t, err)

	assert.Equal(t, `{"items":[]}`, text)
	assert.Equal(t, "llava", got["model"])
	assert.Equal(t, false, got["stream"])
	assert.Equal(t, []interface{}{base64.StdEncoding.EncodeToString([]byte("img"))}, got["images"])
}

func TestExtractText_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ExtractText(context.Background(), providers.Config{Model: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
