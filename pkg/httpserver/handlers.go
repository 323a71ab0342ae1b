package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mohammedhabas11/vhost-inspector/pkg/resolver"
)

const (
	ResolutionRoutePrefix = "/reverse-proxy-resolution"
	FlushCacheRoute       = "/flush-nginx-cache"

	domainParam = "domain"
)

// Error messages are part of the public contract.
const (
	msgInvalidDomain    = "Invalid domain"
	msgDomainNotFound   = "Domain was not found on proxy server"
	msgInternalError    = "Internal server error"
	msgFlushDisabled    = "Cache flushing is disabled"
	msgNoRoute          = "Not found"
	msgMethodNotAllowed = "Method not allowed"
	indexMessage        = "vhost-inspector: GET " + ResolutionRoutePrefix + "/{domain} returns the parsed nginx configuration serving that domain"
)

// MessagePayload wraps every successful response.
type MessagePayload struct {
	Message interface{} `json:"message"`
}

// ErrorPayload wraps every error response.
type ErrorPayload struct {
	Error string `json:"error"`
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	b, err := json.Marshal(response)
	if err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
		statusCode = http.StatusInternalServerError
		b = []byte(`{"error":"` + msgInternalError + `"}`)
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(b); err != nil {
		s.logger.WithError(err).Warn("Error writing response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, msg string) {
	s.writeJSONResponse(w, statusCode, ErrorPayload{Error: msg})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, MessagePayload{Message: indexMessage})
}

func (s *Server) handleResolution(w http.ResponseWriter, r *http.Request) {
	domain := mux.Vars(r)[domainParam]

	result, err := s.resolver.Resolve(r.Context(), domain)
	switch {
	case err == nil:
		s.writeJSONResponse(w, http.StatusOK, MessagePayload{Message: result})
	case errors.Is(err, resolver.ErrInvalidDomain):
		s.writeError(w, http.StatusBadRequest, msgInvalidDomain)
	case errors.Is(err, resolver.ErrNotFound):
		s.writeError(w, http.StatusNotFound, msgDomainNotFound)
	default:
		s.logger.WithError(err).WithField("domain", domain).Error("Resolution failed")
		s.writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

// handleFlushCache is a permanently disabled stub; flushing the proxy
// cache from an HTTP request is not supported.
func (s *Server) handleFlushCache(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, msgFlushDisabled)
}

func (s *Server) handleNoRoute(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, msgNoRoute)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
