package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sceneTarget struct {
	mu     sync.Mutex
	s      scene.Scene
	closed bool
	quits  int
}

func (t *sceneTarget) Do(ctx context.Context, fn func(scene.Scene) error) (scene.State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return scene.State{}, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return scene.State{}, err
	}
	err := fn(t.s)
	return t.s.State(), err
}

func (t *sceneTarget) Quit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quits++
}

func newTestServer(t *testing.T) (*Server, *sceneTarget) {
	t.Helper()
	dir := t.TempDir()
	s, err := scene.NewScene(renderertest.New(),
		scene.WithMeshPaths(filepath.Join(dir, "bunny.ply"), filepath.Join(dir, "dragon.ply")))
	require.NoError(t, err)
	t.Cleanup(s.Release)

	target := &sceneTarget{s: s}
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "framework_test_total"}))
	return NewServer(target, WithGatherer(reg)), target
}

func executeRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decodeState(t *testing.T, rr *httptest.ResponseRecorder) StateView {
	t.Helper()
	var v StateView
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func TestGetState(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := executeRequest(srv, "GET", "/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	v := decodeState(t, rr)
	assert.Equal(t, scene.DefaultState(), v.State)
	assert.Equal(t, "Teapot", v.ModelName)
	assert.Equal(t, rr.Header().Get(RequestIDHeader), v.Request)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest("GET", "/state", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", decodeState(t, rr).Request)
}

func TestPutMode(t *testing.T) {
	srv, target := newTestServer(t)

	rr := executeRequest(srv, "PUT", "/mode/5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, decodeState(t, rr).State.Mode)
	assert.Equal(t, 5, target.s.Mode())

	rr = executeRequest(srv, "PUT", "/mode/12", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 5, target.s.Mode())

	rr = executeRequest(srv, "PUT", "/mode/x", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = executeRequest(srv, "GET", "/mode/3", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestPutModel(t *testing.T) {
	srv, target := newTestServer(t)

	rr := executeRequest(srv, "PUT", "/model/3", "")
	require.Equal(t, http.StatusOK, rr.Code)
	v := decodeState(t, rr)
	assert.Equal(t, scene.ModelSphere, v.State.CentralModel)
	assert.Equal(t, "Sphere", v.ModelName)

	// The bunny file does not exist; the sphere stays selected.
	rr = executeRequest(srv, "PUT", "/model/1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, scene.ModelSphere, target.s.CentralModel())

	rr = executeRequest(srv, "PUT", "/model/4", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestToggles(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := executeRequest(srv, "POST", "/toggle/ground", "")
	require.Equal(t, http.StatusOK, rr.Code)
	v := decodeState(t, rr)
	assert.False(t, v.State.DrawGround)
	assert.True(t, v.State.DrawSpheres)

	rr = executeRequest(srv, "POST", "/toggle/spheres", "")
	v = decodeState(t, rr)
	assert.False(t, v.State.DrawSpheres)

	rr = executeRequest(srv, "POST", "/toggle/ground", "")
	assert.True(t, decodeState(t, rr).State.DrawGround)
}

func TestPutLight(t *testing.T) {
	srv, target := newTestServer(t)

	rr := executeRequest(srv, "PUT", "/light", `{"spin": 10, "dist": 80}`)
	require.Equal(t, http.StatusOK, rr.Code)
	l := target.s.Light()
	assert.Equal(t, float32(10), l.Spin)
	assert.Equal(t, float32(-60), l.Tilt)
	assert.Equal(t, float32(80), l.Dist)
	assert.Equal(t, l, decodeState(t, rr).State.Light)

	rr = executeRequest(srv, "PUT", "/light", `{"dist": -1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = executeRequest(srv, "PUT", "/light", `{"height": 3}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, float32(80), target.s.Light().Dist)
}

func TestGetModels(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := executeRequest(srv, "GET", "/models", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var models []ModelView
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&models))
	require.Len(t, models, 4)
	assert.Equal(t, ModelView{Index: 2, Name: "Dragon"}, models[2])
}

func TestQuitAndUnavailable(t *testing.T) {
	srv, target := newTestServer(t)

	rr := executeRequest(srv, "POST", "/quit", "")
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, 1, target.quits)

	target.closed = true
	rr = executeRequest(srv, "POST", "/toggle/ground", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := executeRequest(srv, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "framework_test_total")
}

func TestNewServerPanicsWithoutTarget(t *testing.T) {
	assert.Panics(t, func() { NewServer(nil) })
}
