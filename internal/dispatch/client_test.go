package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridware/internal/compile"
)

func cleanResult() *compile.Result {
	return &compile.Result{
		Graph: map[string]*compile.RequestNode{
			"a": {Type: "Producer", Inputs: map[string]any{"seed": int64(7)}},
			"b": {Type: "Consumer", Inputs: map[string]any{
				"image": compile.ConnectionRef{NodeID: "a", OutputIndex: 0},
				"extra": []compile.ConnectionRef{
					{NodeID: "a", OutputIndex: 0},
					{NodeID: "a", OutputIndex: 1},
				},
			}},
		},
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the wire shape and returns the prompt id", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/prompt", r.URL.Path)

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &received))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"prompt_id": "p-123"}`))
		}))
		defer server.Close()

		client := New(server.URL, WithClientID("c-1"))
		defer client.Close()

		promptID, err := client.Submit(ctx, cleanResult())
		require.NoError(t, err)
		assert.Equal(t, "p-123", promptID)

		assert.Equal(t, "c-1", received["client_id"])

		prompt := received["prompt"].(map[string]any)
		nodeB := prompt["b"].(map[string]any)
		assert.Equal(t, "Consumer", nodeB["class_type"])

		inputs := nodeB["inputs"].(map[string]any)
		assert.Equal(t, []any{"a", float64(0)}, inputs["image"],
			"connection references travel as [sourceNodeId, outputIndex]")
		assert.Equal(t, []any{
			[]any{"a", float64(0)},
			[]any{"a", float64(1)},
		}, inputs["extra"], "connection lists keep arrival order")
	})

	t.Run("refuses results with blocking errors", func(t *testing.T) {
		client := New("http://127.0.0.1:0")
		defer client.Close()

		result := cleanResult()
		result.Errors = []string{"Missing required input image on B (b)."}

		_, err := client.Submit(ctx, result)
		assert.ErrorIs(t, err, ErrBlockingDiagnostics)
	})

	t.Run("refuses unacknowledged warnings", func(t *testing.T) {
		client := New("http://127.0.0.1:0")
		defer client.Close()

		result := cleanResult()
		result.Warnings = []compile.Warning{{Kind: compile.WarnMissingSchema, NodeID: "m", Message: "no schema"}}

		_, err := client.Submit(ctx, result)
		assert.ErrorIs(t, err, ErrUnconfirmedWarnings)
	})

	t.Run("acknowledged warnings pass through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"prompt_id": "p-9"}`))
		}))
		defer server.Close()

		client := New(server.URL, WithAcknowledgedWarnings())
		defer client.Close()

		result := cleanResult()
		result.Warnings = []compile.Warning{{Kind: compile.WarnMissingSchema, NodeID: "m", Message: "no schema"}}

		promptID, err := client.Submit(ctx, result)
		require.NoError(t, err)
		assert.Equal(t, "p-9", promptID)
	})

	t.Run("surfaces backend rejections", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid prompt", http.StatusBadRequest)
		}))
		defer server.Close()

		client := New(server.URL)
		defer client.Close()

		_, err := client.Submit(ctx, cleanResult())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend rejected request")
	})
}

func TestMarshalPrompt(t *testing.T) {
	rendered, err := MarshalPrompt(cleanResult())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rendered, &decoded))
	nodeA := decoded["a"].(map[string]any)
	assert.Equal(t, "Producer", nodeA["class_type"])
	assert.Equal(t, float64(7), nodeA["inputs"].(map[string]any)["seed"])
}
