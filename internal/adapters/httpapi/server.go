// Package httpapi exposes device streams, live overrides and the reference
// standards over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/observability"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/app/pipeline"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/standards"
)

const maxBodyBytes = 1 << 16

type Server struct {
	reg      *pipeline.Registry
	pub      *pipeline.Publisher
	obs      ports.Observability
	gatherer prometheus.Gatherer
	log      *zap.Logger
	catalog  standards.Catalog
	brands   []domain.Brand
	origins  []string
}

// Deps lists what the handlers need. Only Registry is required; a nil
// Gatherer disables /metrics.
type Deps struct {
	Registry      *pipeline.Registry
	Publisher     *pipeline.Publisher
	Observability ports.Observability
	Gatherer      prometheus.Gatherer
	Logger        *zap.Logger
	Brands        []domain.Brand

	// AllowedOrigins feeds CORS for browser dashboards; empty allows any origin.
	AllowedOrigins []string
}

func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	obs := d.Observability
	if obs == nil {
		obs = observability.NewPromObs(nil, log)
	}
	pub := d.Publisher
	if pub == nil {
		pub = pipeline.NewPublisher(nil, ports.Policy{}, obs)
	}
	brands := d.Brands
	if brands == nil {
		brands = standards.Brands()
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		reg:      d.Registry,
		pub:      pub,
		obs:      obs,
		gatherer: d.Gatherer,
		log:      log,
		catalog:  standards.Thresholds(),
		brands:   brands,
		origins:  origins,
	}
}

// Handler is Router wrapped with panic recovery and CORS. Preflight requests
// are answered before routing.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPut, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(panicLogger{s.log}))
	return cors(recovery(s.Router()))
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests(s.log))

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/devices", s.listDevices).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id}", s.getDevice).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id}/schedule", s.getSchedule).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id}/uv", s.putUV).Methods(http.MethodPut)
	api.HandleFunc("/devices/{id}/override", s.postOverride).Methods(http.MethodPost)
	api.HandleFunc("/ref/standards", s.getStandards).Methods(http.MethodGet)

	return r
}

type deviceView struct {
	DeviceID string          `json:"deviceId"`
	Location string          `json:"location"`
	UVOn     bool            `json:"uvOn"`
	Ticks    uint64          `json:"ticks"`
	Latest   *domain.Reading `json:"latest,omitempty"`
}

func viewOf(st *pipeline.Stream) deviceView {
	v := deviceView{DeviceID: st.ID(), Location: st.Location(), UVOn: st.UV(), Ticks: st.Ticks()}
	if r, ok := st.Last(); ok {
		v.Latest = &r
	}
	return v
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "devices": s.reg.Len()})
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	streams := s.reg.List()
	out := make([]deviceView, 0, len(streams))
	for _, st := range streams {
		out = append(out, viewOf(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	st, ok := s.stream(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(st))
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	st, ok := s.stream(w, r)
	if !ok {
		return
	}
	state := st.Schedule()
	safe := 0
	for _, l := range state.Slots {
		if l == domain.LabelSafe {
			safe++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"windowStart": state.WindowStart,
		"cursor":      state.Cursor,
		"slots":       len(state.Slots),
		"safeSlots":   safe,
		"badSlots":    len(state.Slots) - safe,
	})
}

func (s *Server) putUV(w http.ResponseWriter, r *http.Request) {
	st, ok := s.stream(w, r)
	if !ok {
		return
	}
	var req struct {
		UVOn *bool `json:"uvOn"`
	}
	if err := decodeBody(r, &req); err != nil || req.UVOn == nil {
		writeError(w, http.StatusBadRequest, "body must be {\"uvOn\": true|false}")
		return
	}

	reading, has := st.SetUV(*req.UVOn)
	s.obs.LogInfo("uv_toggled",
		ports.Field{Key: "device_id", Value: st.ID()},
		ports.Field{Key: "uv_on", Value: *req.UVOn})
	if !has {
		writeJSON(w, http.StatusOK, viewOf(st))
		return
	}
	s.pub.Publish(r.Context(), reading)
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) postOverride(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		PH  *float64 `json:"ph"`
		TDS *float64 `json:"tds"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	o := domain.Override{DeviceID: id, PH: req.PH, TDS: req.TDS}
	if o.Empty() {
		writeError(w, http.StatusBadRequest, "ph or tds is required")
		return
	}

	reading, err := pipeline.ApplyOverride(r.Context(), s.reg, s.pub, o, s.obs)
	switch {
	case errors.Is(err, pipeline.ErrUnknownDevice):
		writeError(w, http.StatusNotFound, "unknown device")
	case errors.Is(err, pipeline.ErrNoReading):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, reading)
	}
}

type standardView struct {
	Key      domain.ParameterKey     `json:"key"`
	Name     string                  `json:"name"`
	Category domain.Category         `json:"category"`
	Limit    string                  `json:"limit"`
	Rule     standards.ThresholdRule `json:"rule"`
}

type brandView struct {
	domain.Brand
	Label string `json:"label"`
}

func (s *Server) getStandards(w http.ResponseWriter, r *http.Request) {
	params := make([]standardView, 0, domain.NumParameters)
	for _, k := range domain.AllParameters() {
		params = append(params, standardView{
			Key:      k,
			Name:     s.catalog.DisplayName(k),
			Category: k.Category(),
			Limit:    s.catalog.Limit(k),
			Rule:     s.catalog.Rule(k),
		})
	}
	brands := make([]brandView, 0, len(s.brands))
	for _, b := range s.brands {
		brands = append(brands, brandView{Brand: b, Label: b.Label()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"standard":   "SNI 6989-11:2019 / Permenkes 492/2010",
		"parameters": params,
		"brands":     brands,
	})
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request) (*pipeline.Stream, bool) {
	id := mux.Vars(r)["id"]
	st, ok := s.reg.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown device")
		return nil, false
	}
	return st, true
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
