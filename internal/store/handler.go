package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/character"
)

// maxBodyBytes bounds a POSTed record.
const maxBodyBytes = 1 << 20

// envelope is the reply shape for every response.
type envelope struct {
	StatusCode int               `json:"statusCode"`
	Body       *character.Record `json:"body,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// Handler serves the character endpoint on a single path.
type Handler struct {
	repo   Repository
	schema *jsonschema.Schema
	logger *zap.Logger
}

// NewHandler builds a Handler over repo.
//
// Precondition: repo and logger must be non-nil.
func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	schema, err := compileRecordSchema()
	if err != nil {
		panic(fmt.Sprintf("NewHandler: embedded record schema: %v", err))
	}
	return &Handler{repo: repo, schema: schema, logger: logger.Named("store")}
}

// Routes mounts the endpoint at path behind request-ID, access-log and
// OpenTelemetry middleware.
//
// Precondition: path must begin with "/".
// Postcondition: Returns a handler serving path; other paths get 404.
func (h *Handler) Routes(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return otelhttp.NewHandler(RequestID(AccessLog(h.logger, mux)), "charstore")
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.post(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		h.write(w, r, http.StatusMethodNotAllowed, envelope{Message: "method not allowed"})
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.repo.Get(r.Context())
	if errors.Is(err, ErrNotFound) {
		h.write(w, r, http.StatusNotFound, envelope{Message: "no character saved"})
		return
	}
	if err != nil {
		h.logger.Error("loading character", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		h.write(w, r, http.StatusInternalServerError, envelope{Message: "failed to load character"})
		return
	}
	h.write(w, r, http.StatusOK, envelope{Body: &rec})
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.write(w, r, http.StatusBadRequest, envelope{Message: "reading character payload: " + err.Error()})
		return
	}
	rec, err := h.decodeRecord(raw)
	if err != nil {
		h.write(w, r, http.StatusBadRequest, envelope{Message: "invalid character payload: " + err.Error()})
		return
	}
	if err := h.repo.Put(r.Context(), rec); err != nil {
		h.logger.Error("saving character", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
		h.write(w, r, http.StatusInternalServerError, envelope{Message: "failed to save character"})
		return
	}
	h.write(w, r, http.StatusOK, envelope{Message: "Character saved"})
}

// decodeRecord validates raw against the record schema before decoding it.
func (h *Handler) decodeRecord(raw []byte) (character.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return character.Record{}, err
	}
	if err := h.schema.Validate(doc); err != nil {
		return character.Record{}, err
	}
	var rec character.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return character.Record{}, err
	}
	return rec, nil
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, env envelope) {
	env.StatusCode = status
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.logger.Warn("writing response", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
	}
}
