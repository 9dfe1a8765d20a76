package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	pandocd "github.com/alnah/go-pandocd"
)

// multipartMemory is the in-memory threshold for multipart parsing; larger
// parts spill to disk.
const multipartMemory = 10 << 20

// convertParams is the wire shape shared by the JSON and RPC adapters.
// Content is base64; plain text is accepted as a fallback for convenience.
type convertParams struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Content    string            `json:"content"`
	Standalone bool              `json:"standalone"`
	Template   string            `json:"template,omitempty"`
	Variables  map[string]string `json:"variables,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Filters    []string          `json:"filters,omitempty"`
	ExtraArgs  []string          `json:"extra_args,omitempty"`
}

func (p convertParams) toInput() pandocd.Input {
	return pandocd.Input{
		From:       p.From,
		To:         p.To,
		Content:    decodeContent(p.Content),
		Standalone: p.Standalone,
		Template:   p.Template,
		Variables:  p.Variables,
		Metadata:   p.Metadata,
		Filters:    p.Filters,
		ExtraArgs:  p.ExtraArgs,
	}
}

// convertResponse is the JSON adapter's envelope.
type convertResponse struct {
	Success  bool   `json:"success"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Content  string `json:"content,omitempty"` // base64
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	pandocVersion, err := s.conv.Version(r.Context())
	if err != nil {
		pandocVersion = "unavailable"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"name":           "pandocd",
		"version":        s.version,
		"pandoc_version": pandocVersion,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	pandocVersion, err := s.conv.Version(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":         "healthy",
		"pandoc_version": pandocVersion,
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	formats, err := s.conv.Formats(r.Context())
	if err != nil {
		respondJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, formats)
}

// handleConvertUpload is the multipart adapter: file in, raw bytes out.
func (s *Server) handleConvertUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		http.Error(w, "invalid or oversized multipart form", http.StatusBadRequest)
		return
	}

	in, err := parseUploadForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.doConvert(r, in)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(in.To, res.Output))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Output)
}

// handleConvertJSON is the JSON adapter. A well-formed request whose
// conversion fails still answers 200 with success=false; non-200 is
// reserved for malformed requests.
func (s *Server) handleConvertJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	var params convertParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondJSON(w, http.StatusBadRequest, convertResponse{
			Success: false,
			Error:   "invalid JSON body: " + err.Error(),
		})
		return
	}

	in := params.toInput()
	res, err := s.doConvert(r, in)
	if err != nil {
		if isValidationError(err) {
			respondJSON(w, http.StatusBadRequest, convertResponse{Success: false, Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, convertResponse{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, convertResponse{
		Success:  true,
		From:     in.From,
		To:       in.To,
		Content:  base64.StdEncoding.EncodeToString(res.Output),
		Filename: res.Filename,
		Message:  "conversion successful",
	})
}

// doConvert takes a pool slot, runs the conversion, and records metrics.
func (s *Server) doConvert(r *http.Request, in pandocd.Input) (*pandocd.Result, error) {
	ctx := r.Context()
	if err := s.pool.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.pool.Release()

	start := time.Now()
	res, err := s.conv.Convert(ctx, in)
	elapsed := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = outcomeFor(err)
		s.log.WithError(err).WithFields(logrus.Fields{
			"request_id": reqID(ctx),
			"from":       in.From,
			"to":         in.To,
		}).Warn("conversion failed")
	}
	s.metrics.observe(in.From, in.To, outcome, elapsed)

	return res, err
}

// parseUploadForm builds an Input from a parsed multipart form. The
// document comes from the "file" part or, failing that, a "content" field
// holding base64 or plain text.
func parseUploadForm(r *http.Request) (pandocd.Input, error) {
	var in pandocd.Input

	in.From = r.FormValue("from")
	in.To = r.FormValue("to")
	if in.From == "" || in.To == "" {
		return in, errors.New("'from' and 'to' parameters are required")
	}

	file, _, err := r.FormFile("file")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		content, err := io.ReadAll(file)
		if err != nil {
			return in, fmt.Errorf("reading uploaded file: %w", err)
		}
		in.Content = content
	case r.FormValue("content") != "":
		in.Content = decodeContent(r.FormValue("content"))
	default:
		return in, errors.New("either 'file' or 'content' must be provided")
	}

	if v := r.FormValue("standalone"); v != "" {
		standalone, err := strconv.ParseBool(v)
		if err != nil {
			return in, fmt.Errorf("invalid 'standalone' value %q", v)
		}
		in.Standalone = standalone
	}
	in.Template = r.FormValue("template")

	if v := r.FormValue("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.Variables); err != nil {
			return in, errors.New("invalid JSON in 'variables' parameter")
		}
	}
	if v := r.FormValue("metadata"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.Metadata); err != nil {
			return in, errors.New("invalid JSON in 'metadata' parameter")
		}
	}
	if v := r.FormValue("extra_args"); v != "" {
		if err := json.Unmarshal([]byte(v), &in.ExtraArgs); err != nil {
			return in, errors.New("invalid JSON in 'extra_args' parameter")
		}
	}
	if v := r.FormValue("filters"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				in.Filters = append(in.Filters, f)
			}
		}
	}

	return in, nil
}

// decodeContent decodes base64 content, falling back to the raw bytes when
// the payload is plain text.
func decodeContent(content string) []byte {
	if decoded, err := base64.StdEncoding.DecodeString(content); err == nil {
		return decoded
	}
	return []byte(content)
}

// statusFor maps executor errors onto HTTP statuses for the raw adapters.
func statusFor(err error) int {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, pandocd.ErrPandocNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, pandocd.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, pandocd.ErrConversion), errors.Is(err, pandocd.ErrEmptyOutput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, pandocd.ErrMissingFormat) || errors.Is(err, pandocd.ErrEmptyContent)
}

// outcomeFor labels an error for metrics.
func outcomeFor(err error) string {
	switch {
	case isValidationError(err):
		return "invalid"
	case errors.Is(err, pandocd.ErrTimeout):
		return "timeout"
	case errors.Is(err, pandocd.ErrPandocNotFound):
		return "unavailable"
	default:
		return "error"
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
