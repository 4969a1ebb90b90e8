package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/leasing-calc/internal/config"
	"github.com/iwvelando/leasing-calc/internal/report"
	"github.com/iwvelando/leasing-calc/internal/store"
	"github.com/iwvelando/leasing-calc/pkg/constants"
	"github.com/iwvelando/leasing-calc/pkg/leasing"
	"github.com/iwvelando/leasing-calc/pkg/output"
	"github.com/iwvelando/leasing-calc/pkg/validation"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options configures the HTTP handler.
type Options struct {
	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string

	// Store enables the saved leasing endpoints when set.
	Store store.Storage
	// Cache holds computed reports. Defaults to an in-memory cache.
	Cache store.CacheRepository
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	store         store.Storage
	cache         store.CacheRepository
}

// NewHandler constructs the HTTP handler that serves the leasing API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	cache := opts.Cache
	if cache == nil {
		cache = store.NewMemoryCache()
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		store:         opts.Store,
		cache:         cache,
	}

	router := mux.NewRouter()

	// Schedule from an uploaded YAML configuration
	router.HandleFunc("/api/schedule", h.handleSchedule).Methods(http.MethodPost)

	// Schedule from the contract form
	router.HandleFunc("/api/editor/schedule", h.handleScheduleEditor).Methods(http.MethodPost)

	// Config serialization for editor downloads
	router.HandleFunc("/api/editor/export", h.handleConfigExport).Methods(http.MethodPost)

	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	if h.store != nil {
		router.HandleFunc("/api/leasings", h.handleListLeasings).Methods(http.MethodGet)
		router.HandleFunc("/api/leasings", h.handleCreateLeasing).Methods(http.MethodPost)
		router.HandleFunc("/api/leasings/{id}", h.handleGetLeasing).Methods(http.MethodGet)
		router.HandleFunc("/api/leasings/{id}", h.handleUpdateLeasing).Methods(http.MethodPut, http.MethodPatch)
		router.HandleFunc("/api/leasings/{id}", h.handleDeleteLeasing).Methods(http.MethodDelete)
		router.HandleFunc("/api/leasings/{id}/schedule", h.handleLeasingSchedule).Methods(http.MethodGet)
	}

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "server.route")
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondErrorWithOp(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), "server.route")
	})

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

type scheduleResponse struct {
	Report     report.Document `json:"report"`
	CSV        string          `json:"csv"`
	ConfigYAML string          `json:"configYaml,omitempty"`
	Cached     bool            `json:"cached"`
	Duration   string          `json:"duration"`
}

// cachedReport is the part of a schedule response that only depends on the
// configuration.
type cachedReport struct {
	Report report.Document `json:"report"`
	CSV    string          `json:"csv"`
}

type fieldErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields"`
}

type leasingList struct {
	Leasings []*store.Leasing `json:"leasings"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const op = "server.handleSchedule"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	conf, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runSchedule(r.Context(), w, conf, start, op)
}

func (h *handler) handleScheduleEditor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const op = "server.handleScheduleEditor"

	conf, ok := h.decodeConfiguration(w, r, op)
	if !ok {
		return
	}
	h.runSchedule(r.Context(), w, conf, start, op)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	conf, ok := h.decodeConfiguration(w, r, op)
	if !ok {
		return
	}

	yamlBytes, err := yaml.Marshal(conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleListLeasings(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListLeasings"

	limit, err := queryInt(r, "limit", constants.DefaultListLimit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	if limit > constants.MaxListLimit {
		limit = constants.MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	leasings, err := h.store.ListLeasings(limit, offset)
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	total, err := h.store.CountLeasings()
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	if leasings == nil {
		leasings = []*store.Leasing{}
	}

	h.writeJSON(w, http.StatusOK, leasingList{Leasings: leasings, Total: total, Limit: limit, Offset: offset})
}

func (h *handler) handleCreateLeasing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateLeasing"

	l, ok := h.decodeLeasing(w, r, config.Leasing{}, op)
	if !ok {
		return
	}

	saved := &store.Leasing{Name: l.Name, Config: *l}
	if err := h.store.CreateLeasing(saved); err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	h.logger.Info("leasing saved",
		zap.String("op", op),
		zap.String("id", saved.ID.String()),
	)
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleGetLeasing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetLeasing"

	saved, ok := h.loadLeasing(w, r, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

// handleUpdateLeasing replaces a saved contract on PUT and merges the given
// fields into it on PATCH.
func (h *handler) handleUpdateLeasing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateLeasing"

	saved, ok := h.loadLeasing(w, r, op)
	if !ok {
		return
	}
	var base config.Leasing
	if r.Method == http.MethodPatch {
		base = saved.Config
	}
	l, ok := h.decodeLeasing(w, r, base, op)
	if !ok {
		return
	}

	saved.Name = l.Name
	saved.Config = *l
	if err := h.store.UpdateLeasing(saved); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

func (h *handler) handleDeleteLeasing(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteLeasing"

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid leasing id: %v", err), op)
		return
	}
	if err := h.store.DeleteLeasing(id); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleLeasingSchedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const op = "server.handleLeasingSchedule"

	saved, ok := h.loadLeasing(w, r, op)
	if !ok {
		return
	}
	h.runSchedule(r.Context(), w, &config.Configuration{Leasing: saved.Config}, start, op)
}

func (h *handler) runSchedule(ctx context.Context, w http.ResponseWriter, conf *config.Configuration, start time.Time, op string) {
	if fieldErrs := conf.Leasing.FieldErrors(); len(fieldErrs) > 0 {
		h.respondFieldErrors(w, fieldErrs, op)
		return
	}

	configBytes, err := yaml.Marshal(conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	key, err := store.CacheKey(conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	if cached, hit := h.cachedReport(ctx, key, op); hit {
		h.writeJSON(w, http.StatusOK, scheduleResponse{
			Report:     cached.Report,
			CSV:        cached.CSV,
			ConfigYAML: string(configBytes),
			Cached:     true,
			Duration:   time.Since(start).String(),
		})
		return
	}

	result, err := report.ComputeFromConfig(h.logger, conf)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), fmt.Sprintf("failed to compute schedule: %v", err), op)
		return
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, result); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	entry := cachedReport{Report: result.Document(), CSV: csvBuf.String()}
	h.storeReport(ctx, key, entry, op)

	elapsed := time.Since(start)
	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.Int("periods", len(result.Schedule)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, scheduleResponse{
		Report:     entry.Report,
		CSV:        entry.CSV,
		ConfigYAML: string(configBytes),
		Duration:   elapsed.String(),
	})
}

func (h *handler) cachedReport(ctx context.Context, key, op string) (cachedReport, bool) {
	var entry cachedReport
	raw, ok := h.cache.Get(ctx, key)
	if !ok {
		return entry, false
	}
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		h.logger.Warn("discarding unreadable cache entry",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
		return entry, false
	}
	return entry, true
}

func (h *handler) storeReport(ctx context.Context, key string, entry cachedReport, op string) {
	encoded, err := json.Marshal(entry)
	if err == nil {
		err = h.cache.Set(ctx, key, string(encoded))
	}
	if err != nil {
		h.logger.Warn("failed to cache report",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (h *handler) decodeConfiguration(w http.ResponseWriter, r *http.Request, op string) (*config.Configuration, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var conf config.Configuration
	if err := json.NewDecoder(r.Body).Decode(&conf); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return nil, false
	}
	return &conf, true
}

// decodeLeasing reads a contract over base and rejects it unless it converts
// cleanly.
func (h *handler) decodeLeasing(w http.ResponseWriter, r *http.Request, base config.Leasing, op string) (*config.Leasing, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	l := base
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode leasing: %v", err), op)
		return nil, false
	}
	if fieldErrs := l.FieldErrors(); len(fieldErrs) > 0 {
		h.respondFieldErrors(w, fieldErrs, op)
		return nil, false
	}
	if _, err := l.ToTerms(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	if _, err := l.GraceSchedule(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	return &l, true
}

func (h *handler) loadLeasing(w http.ResponseWriter, r *http.Request, op string) (*store.Leasing, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid leasing id: %v", err), op)
		return nil, false
	}
	saved, err := h.store.GetLeasing(id)
	if err != nil {
		h.respondStoreError(w, err, op)
		return nil, false
	}
	return saved, true
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

// statusFor maps computation errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, leasing.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, leasing.ErrNumeric):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
}

func (h *handler) respondFieldErrors(w http.ResponseWriter, fieldErrs []validation.FieldError, op string) {
	h.logger.Error("leasing request rejected",
		zap.String("op", op),
		zap.Int("status", http.StatusBadRequest),
		zap.Int("fields", len(fieldErrs)),
	)
	h.writeJSON(w, http.StatusBadRequest, fieldErrorResponse{Error: "invalid leasing", Fields: fieldErrs})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("leasing request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
