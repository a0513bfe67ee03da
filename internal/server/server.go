package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/m3u8relay/docs/swagger" // registers the generated OpenAPI doc
	"github.com/raysh454/m3u8relay/internal/logging"
	"github.com/raysh454/m3u8relay/internal/relay"
)

// RequestIDHeader carries the per-request ID on responses.
const RequestIDHeader = "X-Request-ID"

const (
	msgMethodNotAllowed = "Method not allowed"
	msgURLRequired      = "URL is required"
	msgFetchFailed      = "Failed to fetch M3U8 file"
	msgInvalidJSON      = "invalid JSON"
)

// Relayer is the operation the API exposes.
type Relayer interface {
	Fetch(ctx context.Context, req relay.Request) (*relay.Result, error)
}

// Server is the HTTP + WebSocket API surface for the relay.
type Server struct {
	cfg      Config
	relay    Relayer
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer wires the routes around r.
func NewServer(cfg Config, r Relayer) (*Server, error) {
	if r == nil {
		return nil, errors.New("server: nil relay")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	s := &Server{
		cfg:    cfg,
		relay:  r,
		router: chi.NewRouter(),
		logger: logger,
		upgrader: websocket.Upgrader{
			// Same policy as the CORS headers: any origin may use the relay.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)
	r.MethodNotAllowed(s.handleMethodNotAllowed)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	r.Post("/api/fetch-m3u8", s.handleFetchM3U8)
	r.Get("/healthz", s.handleHealth)

	if s.cfg.WebSocket {
		r.Get("/ws/fetch-m3u8", s.handleFetchWS)
	}

	if s.cfg.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}
}

// corsMiddleware marks responses readable from any origin. Preflight is not
// answered (OPTIONS is 405 like every non-POST method), so browsers on other
// origins can only send simple requests, e.g. a text/plain JSON body.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)

		next.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := requestIDFromHeader(r)
	w.Header().Set(RequestIDHeader, id)
	r = r.WithContext(withRequestID(r.Context(), id))

	fields := []logging.Field{
		{Key: "request_id", Value: id},
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
		// No write timeout: the relay waits as long as the origin does.
		WriteTimeout: 0,
	}
}

// --- request IDs ---

type requestIDKey struct{}

// requestIDFromHeader reuses a well-formed inbound ID, otherwise mints one.
func requestIDFromHeader(r *http.Request) string {
	if v := r.Header.Get(RequestIDHeader); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the ID stored on ctx by ServeHTTP, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// --- HTTP handlers ---

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFetchM3U8 godoc
// @Summary Fetch a remote playlist through the relay
// @Description Issues one GET against url with a browser User-Agent and the optional referer, and returns the body unchanged.
// @Tags relay
// @Accept json
// @Produce json
// @Param request body FetchRequest true "Playlist to fetch"
// @Success 200 {object} FetchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/fetch-m3u8 [post]
func (s *Server) handleFetchM3U8(w http.ResponseWriter, r *http.Request) {
	var body FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	frame := s.relayFetch(r.Context(), body)
	writeJSON(w, frame.Status, frame.payload())
}

// relayFetch runs one relay call and maps the outcome onto the wire contract.
// Upstream and validation failures other than a missing URL are logged once.
func (s *Server) relayFetch(ctx context.Context, body FetchRequest) RelayFrame {
	res, err := s.relay.Fetch(ctx, relay.Request{URL: body.URL, Referer: body.Referer})
	switch {
	case err == nil:
		return RelayFrame{
			Status: http.StatusOK,
			FetchResponse: &FetchResponse{
				Success:     true,
				Content:     res.Content,
				ContentType: res.ContentType,
			},
		}
	case errors.Is(err, relay.ErrURLRequired):
		return RelayFrame{
			Status:        http.StatusBadRequest,
			ErrorResponse: &ErrorResponse{Error: msgURLRequired},
		}
	default:
		s.logger.Error("fetch error",
			logging.Field{Key: "request_id", Value: RequestID(ctx)},
			logging.Field{Key: "url", Value: body.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return RelayFrame{
			Status:        http.StatusInternalServerError,
			ErrorResponse: &ErrorResponse{Error: msgFetchFailed, Details: err.Error()},
		}
	}
}
