// Package server exposes the projection engine over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/wealth-math/internal/config"
	"github.com/iwvelando/wealth-math/internal/forecast"
	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/iwvelando/wealth-math/pkg/datetime"
	"github.com/iwvelando/wealth-math/pkg/format"
	"github.com/iwvelando/wealth-math/pkg/loans"
	"github.com/iwvelando/wealth-math/pkg/mathutil"
	"github.com/iwvelando/wealth-math/pkg/output"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	clock         func() time.Time
	tracer        trace.Tracer
	registry      *prometheus.Registry
	metrics       *metrics
}

// Option configures the handler built by NewHandler.
type Option func(*handler)

// WithClock replaces the wall clock used as the projection date when a request
// does not pin one.
func WithClock(clock func() time.Time) Option {
	return func(h *handler) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithTracer replaces the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(h *handler) {
		if tracer != nil {
			h.tracer = tracer
		}
	}
}

// WithRegistry registers the handler's metrics with reg and serves reg on
// /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(h *handler) {
		if reg != nil {
			h.registry = reg
		}
	}
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		clock:         time.Now,
		tracer:        otel.Tracer(constants.DefaultServiceName),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = newRegistry()
	}
	h.metrics = newMetrics(h.registry)

	mux := http.NewServeMux()

	// Projection API endpoint for editor-driven updates
	mux.HandleFunc("/api/projection", h.instrument("projection", h.handleProjection))

	// Projection API endpoint (file upload)
	mux.HandleFunc("/api/projection/upload", h.instrument("projection_upload", h.handleProjectionUpload))

	// Yearly amortization schedule for a single loan
	mux.HandleFunc("/api/amortization", h.instrument("amortization", h.handleAmortization))

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/config/export", h.instrument("config_export", h.handleConfigExport))

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.instrument("version", h.handleVersion))

	mux.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	return mux
}

type projectionResponse struct {
	forecast.Forecast
	Formatted  formattedTotals        `json:"formatted"`
	CSV        string                 `json:"csv"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type formattedTotals struct {
	ProjectedAssets         string `json:"projectedAssets,omitempty"`
	InflationAdjustedAssets string `json:"inflationAdjustedAssets,omitempty"`
	ProjectedLiabilities    string `json:"projectedLiabilities,omitempty"`
}

type amortizationRequest struct {
	Name              string  `json:"name"`
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermYears         float64 `json:"termYears"`
}

type amortizationResponse struct {
	MonthlyPayment float64         `json:"monthlyPayment"`
	TotalInterest  float64         `json:"totalInterest"`
	Schedule       []loans.Payment `json:"schedule"`
}

func (h *handler) handleProjectionUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleProjectionUpload"
	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
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

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	h.runProjection(w, r, configBytes, configMap, r.FormValue("asOf"), start, op)
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleProjection"
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	asOf := ""
	if rawAsOf, ok := payload["asOf"]; ok {
		value, ok := rawAsOf.(string)
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid asOf: expected a YYYY-MM-DD string", op)
			return
		}
		asOf = value
		delete(payload, "asOf")
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.runProjection(w, r, configBytes, configPayload, asOf, start, op)
}

func (h *handler) handleAmortization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleAmortization"
	var req amortizationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	terms := loans.Terms{
		Name:              req.Name,
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		TermYears:         req.TermYears,
	}
	schedule, err := loans.NewAmortizationScheduleGenerator(h.logger).GenerateSchedule(terms)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var totalInterest float64
	for i := range schedule {
		totalInterest += schedule[i].Interest
		schedule[i].Payment = mathutil.Round(schedule[i].Payment)
		schedule[i].Principal = mathutil.Round(schedule[i].Principal)
		schedule[i].Interest = mathutil.Round(schedule[i].Interest)
		schedule[i].RemainingPrincipal = mathutil.Round(schedule[i].RemainingPrincipal)
	}

	h.writeJSON(w, http.StatusOK, amortizationResponse{
		MonthlyPayment: mathutil.Round(loans.MonthlyPayment(terms.Principal, terms.AnnualRatePercent, terms.TermYears)),
		TotalInterest:  mathutil.Round(totalInterest),
		Schedule:       schedule,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// marshalOrderedConfigYAML writes the well-known sections first so exported
// files read top-down: who, what, then how to log and print.
func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"profile", "instruments", "logging", "output"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runProjection(w http.ResponseWriter, r *http.Request, configBytes []byte, configMap map[string]interface{}, asOf string, start time.Time, op string) {
	_, span := h.tracer.Start(r.Context(), "projection")
	defer span.End()

	fail := func(status int, msg string) {
		span.SetStatus(codes.Error, msg)
		h.respondErrorWithOp(w, status, msg, op)
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		fail(http.StatusBadRequest, err.Error())
		return
	}

	now := h.clock()
	if strings.TrimSpace(asOf) != "" {
		now, err = datetime.ParseDate(asOf)
		if err != nil {
			fail(http.StatusBadRequest, fmt.Sprintf("invalid asOf: %v", err))
			return
		}
	}

	fc, err := forecast.GetForecast(h.logger, *cfg, now)
	if err != nil {
		fail(http.StatusBadRequest, err.Error())
		return
	}

	elapsed := time.Since(start)
	h.metrics.projectionDuration.Observe(elapsed.Seconds())
	for _, c := range fc.Result.Contributions {
		h.metrics.instruments.WithLabelValues(string(c.Kind)).Inc()
	}

	span.SetAttributes(
		attribute.Int("projection.instruments", len(cfg.Instruments)),
		attribute.String("projection.as_of", fc.AsOf.Format(datetime.DateLayout)),
		attribute.Int("projection.warnings", len(fc.Warnings)),
	)
	if fc.YearsToRetirement != nil {
		span.SetAttributes(attribute.Float64("projection.horizon_years", *fc.YearsToRetirement))
	}

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := projectionResponse{
		Forecast: fc,
		Formatted: formattedTotals{
			ProjectedAssets:         formatOptional(fc.Result.ProjectedAssets, fc.Currency),
			InflationAdjustedAssets: formatOptional(fc.Result.InflationAdjustedAssets, fc.Currency),
			ProjectedLiabilities:    formatOptional(fc.Result.ProjectedLiabilities, fc.Currency),
		},
		CSV:        output.CsvString(fc),
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.Int("instruments", len(fc.Result.Contributions)),
		zap.Int("warnings", len(fc.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func formatOptional(v *float64, currency string) string {
	if v == nil {
		return ""
	}
	return format.Currency(*v, currency)
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
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

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *handler) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		h.metrics.requests.WithLabelValues(endpoint, fmt.Sprintf("%d", rec.status)).Inc()
	}
}
