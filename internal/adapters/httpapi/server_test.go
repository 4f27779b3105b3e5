package httpapi

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/observability"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/queue"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/app/pipeline"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/domain"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/ports"
	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/schedule"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixture struct {
	router http.Handler
	reg    *pipeline.Registry
	q      *queue.MemQueue
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	promReg := prometheus.NewRegistry()
	obs := observability.NewPromObs(promReg, zap.NewNop())
	q := queue.NewMemQueue(16)
	pub := pipeline.NewPublisher(q, ports.Policy{OnQueueFull: "drop", MaxQueueLen: 16}, obs)

	reg := pipeline.NewRegistry()
	for i, id := range []string{"D1", "D2"} {
		st, err := pipeline.NewStream(pipeline.StreamConfig{
			DeviceID: id,
			Location: "lab",
			UVOn:     true,
			Schedule: schedule.DefaultConfig(),
		}, nil, rand.New(rand.NewPCG(uint64(i), 7)), fixedClock{time.Unix(1700000000, 0)})
		if err != nil {
			t.Fatalf("new stream: %v", err)
		}
		if err := reg.Add(st); err != nil {
			t.Fatalf("add stream: %v", err)
		}
	}
	srv := NewServer(Deps{Registry: reg, Publisher: pub, Observability: obs, Gatherer: promReg})
	return fixture{router: srv.Handler(), reg: reg, q: q}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthSetsRequestID(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
	if !strings.Contains(rec.Body.String(), `"devices":2`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestListAndGetDevices(t *testing.T) {
	f := newFixture(t)
	st, _ := f.reg.Get("D1")
	st.Tick()

	rec := f.do(t, http.MethodGet, "/api/devices", "")
	var list []deviceView
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].DeviceID != "D1" || list[0].Latest == nil || list[1].Latest != nil {
		t.Fatalf("unexpected list %+v", list)
	}

	if rec := f.do(t, http.MethodGet, "/api/devices/D1", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/devices/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOverrideEndpoint(t *testing.T) {
	f := newFixture(t)

	if rec := f.do(t, http.MethodPost, "/api/devices/D1/override", `{"ph":7.5}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before first tick, got %d", rec.Code)
	}
	st, _ := f.reg.Get("D1")
	st.Tick()

	if rec := f.do(t, http.MethodPost, "/api/devices/D1/override", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty override, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/devices/XX/override", `{"tds":20}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/api/devices/D1/override", `{"ph":7.5,"tds":20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var r domain.Reading
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, _ := r.Packet.Value(domain.PH); v != 7.5 {
		t.Fatalf("expected overridden ph, got %v", v)
	}
	if r.Seq != 2 {
		t.Fatalf("expected seq 2 after override, got %d", r.Seq)
	}
	if f.q.Len() != 1 {
		t.Fatalf("expected override reading queued, got %d", f.q.Len())
	}
}

func TestUVToggle(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(t, http.MethodPut, "/api/devices/D1/uv", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	st, _ := f.reg.Get("D1")
	st.Tick()
	rec := f.do(t, http.MethodPut, "/api/devices/D1/uv", `{"uvOn":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var r domain.Reading
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Verdict.Safe || !strings.Contains(r.Verdict.Reason, "UV sterilizer inactive") {
		t.Fatalf("expected UV verdict, got %+v", r.Verdict)
	}
	if st.UV() {
		t.Fatalf("expected stream UV flag off")
	}
}

func TestScheduleAndStandards(t *testing.T) {
	f := newFixture(t)
	st, _ := f.reg.Get("D2")
	st.Tick()
	rec := f.do(t, http.MethodGet, "/api/devices/D2/schedule", "")
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, `"slots":60`) || !strings.Contains(body, `"safeSlots":36`) || !strings.Contains(body, `"cursor":1`) {
		t.Fatalf("unexpected schedule response %d %s", rec.Code, body)
	}

	rec = f.do(t, http.MethodGet, "/api/ref/standards", "")
	body = rec.Body.String()
	for _, want := range []string{`"key":"ph"`, `"kind":"range"`, `"key":"ecoli"`, `"kind":"max","max":0}`, `"Watercoin (pH 7.3-8.1, TDS 14-35 ppm)"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	st, _ := f.reg.Get("D1")
	st.Tick()
	f.do(t, http.MethodPut, "/api/devices/D1/uv", `{"uvOn":true}`)

	rec := f.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "watercoin_readings_total") {
		t.Fatalf("expected readings metric, got %d", rec.Code)
	}
}

func TestWrongMethodIsRejected(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(t, http.MethodDelete, "/api/devices/D1", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/devices/D1/uv", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS allow-origin header")
	}
}
