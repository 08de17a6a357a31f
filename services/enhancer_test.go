package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fixitlocal/fixit-app/utils"
	"github.com/stretchr/testify/assert"
)

func TestParseEnhanced(t *testing.T) {
	parsed, ok := parseEnhanced(`{"enhancedDescription": "Fix the leaky kitchen faucet", "tags": ["plumbing", "faucet"]}`)
	assert.True(t, ok)
	assert.Equal(t, "Fix the leaky kitchen faucet", parsed.EnhancedDescription)
	assert.Equal(t, []string{"plumbing", "faucet"}, parsed.Tags)
}

func TestParseEnhancedWithSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the JSON you asked for:\n{\"enhancedDescription\": \"desc\", \"tags\": [\"a\"]}\nHope that helps."
	parsed, ok := parseEnhanced(raw)
	assert.True(t, ok)
	assert.Equal(t, "desc", parsed.EnhancedDescription)
	assert.Equal(t, []string{"a"}, parsed.Tags)
}

func TestChatAccumulatesStreamedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"model":"llama3","message":{"role":"assistant","content":"Shut off the water main, "},"done":false}`)
		fmt.Fprintln(w, `{"model":"llama3","message":{"role":"assistant","content":"then call a plumber."},"done":true}`)
	}))
	defer srv.Close()

	t.Setenv("OLLAMA_URL", srv.URL)
	enhancer, err := NewEnhancer()
	assert.NoError(t, err)

	reply, err := enhancer.Chat(context.Background(), "My pipe burst, what do I do?")
	assert.NoError(t, err)
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "Shut off the water main, then call a plumber.", reply.Content)
}

func TestChatUnreachableModel(t *testing.T) {
	t.Setenv("OLLAMA_URL", "http://127.0.0.1:1")
	enhancer, err := NewEnhancer()
	assert.NoError(t, err)

	_, err = enhancer.Chat(context.Background(), "hello")
	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.CodeInternal, appErr.Code)
}

func TestParseEnhancedRejectsGarbage(t *testing.T) {
	_, ok := parseEnhanced("the model rambled and never produced json")
	assert.False(t, ok)

	_, ok = parseEnhanced("{not json}")
	assert.False(t, ok)
}
