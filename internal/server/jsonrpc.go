package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	pandocd "github.com/alnah/go-pandocd"
)

// JSON-RPC 2.0 error codes. The -32000 range is reserved for
// implementation-defined server errors; conversion failures live there.
const (
	rpcParseError     = -32700
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcInternalError  = -32603
	rpcConversionErr  = -32000
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  convertParams   `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcConvertResult struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Content string `json:"content"` // base64
}

// handleRPC is the JSON-RPC adapter. Compatible with pandoc server-mode
// style clients: method "convert", params matching the JSON adapter.
// The transport always answers 200; failures ride in the error object.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondRPCError(w, nil, rpcParseError, "parse error: "+err.Error())
		return
	}

	if req.Method != "convert" {
		s.respondRPCError(w, req.ID, rpcMethodNotFound, "method not found: "+req.Method)
		return
	}

	res, err := s.doConvert(r, req.Params.toInput())
	if err != nil {
		s.respondRPCError(w, req.ID, rpcCodeFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rpcResponse{
		JSONRPC: "2.0",
		Result: rpcConvertResult{
			From:    req.Params.From,
			To:      req.Params.To,
			Content: base64.StdEncoding.EncodeToString(res.Output),
		},
		ID: req.ID,
	})
}

func (s *Server) respondRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	respondJSON(w, http.StatusOK, rpcResponse{
		JSONRPC: "2.0",
		Error:   &rpcError{Code: code, Message: message},
		ID:      id,
	})
}

// rpcCodeFor maps executor errors onto JSON-RPC error codes.
func rpcCodeFor(err error) int {
	switch {
	case isValidationError(err):
		return rpcInvalidParams
	case errors.Is(err, pandocd.ErrConversion),
		errors.Is(err, pandocd.ErrEmptyOutput),
		errors.Is(err, pandocd.ErrTimeout):
		return rpcConversionErr
	default:
		return rpcInternalError
	}
}
