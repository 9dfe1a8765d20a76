package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	pandocd "github.com/alnah/go-pandocd"
)

func postRPC(t *testing.T, h http.Handler, body string) rpcResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// The RPC transport always answers 200; errors ride in the envelope.
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2.0", resp.JSONRPC)
	return resp
}

func TestHandleRPC_Convert(t *testing.T) {
	var captured pandocd.Input
	conv := &stubConverter{
		convertFn: func(_ context.Context, in pandocd.Input) (*pandocd.Result, error) {
			captured = in
			return &pandocd.Result{Output: []byte("<h1>Hi</h1>"), Filename: "output.html"}, nil
		},
	}
	h := newTestServer(t, conv)

	body := fmt.Sprintf(`{
		"jsonrpc": "2.0",
		"method": "convert",
		"params": {"from": "markdown", "to": "html", "content": %q, "standalone": true},
		"id": 7
	}`, base64.StdEncoding.EncodeToString([]byte("# Hi\n")))

	resp := postRPC(t, h, body)
	require.Nil(t, resp.Error)
	require.JSONEq(t, "7", string(resp.ID))

	require.Equal(t, []byte("# Hi\n"), captured.Content)
	require.True(t, captured.Standalone)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var result rpcConvertResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Equal(t, "markdown", result.From)
	require.Equal(t, "html", result.To)

	decoded, err := base64.StdEncoding.DecodeString(result.Content)
	require.NoError(t, err)
	require.Equal(t, "<h1>Hi</h1>", string(decoded))
}

func TestHandleRPC_Errors(t *testing.T) {
	t.Run("unknown method", func(t *testing.T) {
		h := newTestServer(t, &stubConverter{})

		resp := postRPC(t, h, `{"jsonrpc":"2.0","method":"transmute","id":1}`)
		require.NotNil(t, resp.Error)
		require.Equal(t, rpcMethodNotFound, resp.Error.Code)
		require.JSONEq(t, "1", string(resp.ID))
	})

	t.Run("parse error has null id", func(t *testing.T) {
		h := newTestServer(t, &stubConverter{})

		resp := postRPC(t, h, `{"jsonrpc":`)
		require.NotNil(t, resp.Error)
		require.Equal(t, rpcParseError, resp.Error.Code)
		require.Equal(t, "null", strings.TrimSpace(string(resp.ID)))
	})

	t.Run("validation maps to invalid params", func(t *testing.T) {
		conv := &stubConverter{
			convertFn: func(context.Context, pandocd.Input) (*pandocd.Result, error) {
				return nil, fmt.Errorf("%w: to", pandocd.ErrMissingFormat)
			},
		}
		h := newTestServer(t, conv)

		resp := postRPC(t, h, `{"jsonrpc":"2.0","method":"convert","params":{"from":"markdown","content":"IyBIaQo="},"id":2}`)
		require.NotNil(t, resp.Error)
		require.Equal(t, rpcInvalidParams, resp.Error.Code)
	})

	t.Run("conversion failure maps to server error", func(t *testing.T) {
		conv := &stubConverter{
			convertFn: func(context.Context, pandocd.Input) (*pandocd.Result, error) {
				return nil, fmt.Errorf("%w: boom", pandocd.ErrConversion)
			},
		}
		h := newTestServer(t, conv)

		resp := postRPC(t, h, `{"jsonrpc":"2.0","method":"convert","params":{"from":"markdown","to":"html","content":"IyBIaQo="},"id":3}`)
		require.NotNil(t, resp.Error)
		require.Equal(t, rpcConversionErr, resp.Error.Code)
		require.Contains(t, resp.Error.Message, "boom")
	})

	t.Run("unexpected failure maps to internal error", func(t *testing.T) {
		conv := &stubConverter{
			convertFn: func(context.Context, pandocd.Input) (*pandocd.Result, error) {
				return nil, fmt.Errorf("disk on fire")
			},
		}
		h := newTestServer(t, conv)

		resp := postRPC(t, h, `{"jsonrpc":"2.0","method":"convert","params":{"from":"markdown","to":"html","content":"IyBIaQo="},"id":4}`)
		require.NotNil(t, resp.Error)
		require.Equal(t, rpcInternalError, resp.Error.Code)
	})
}
