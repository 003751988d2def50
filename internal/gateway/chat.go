package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flemzord/chatrelay/internal/config"
	"github.com/flemzord/chatrelay/internal/relay"
	"github.com/go-chi/chi/v5/middleware"
)

// handleChat returns an http.HandlerFunc for POST /chat.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := keyFromContext(r.Context())
		r.Body = http.MaxBytesReader(w, r.Body, g.params.Server.MaxBodyBytes)

		payload, err := decodePayload(r, g.params.RequestMode)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusBadRequest, "Request body too large")
				return
			}
			g.logger.Debug("invalid chat payload", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid JSON format")
			return
		}

		answer, err := g.params.Service.Ask(r.Context(), key, payload.question())
		switch {
		case err == nil:
		case errors.Is(err, relay.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "Invalid key")
			return
		case errors.Is(err, relay.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Empty question")
			return
		default:
			g.logger.Error("upstream call failed",
				"error", err,
				"request_id", middleware.GetReqID(r.Context()),
			)
			writeError(w, http.StatusBadGateway, "Upstream error")
			return
		}

		body, err := encodeAnswer(answer, g.params.ResponseMode)
		if err != nil {
			g.logger.Error("encode answer", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

// encodeAnswer renders a successful answer. In JSON mode the envelope is
// written as UTF-8 without HTML escaping, so non-ASCII replies stay readable.
func encodeAnswer(a relay.Answer, mode config.ResponseMode) ([]byte, error) {
	if mode == config.ResponseModeText {
		return []byte(a.Content), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(a); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Detail: detail})
}
