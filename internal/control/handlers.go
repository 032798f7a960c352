package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// StateView is the JSON body of every successful command response.
type StateView struct {
	Request   string      `json:"request"`
	State     scene.State `json:"state"`
	ModelName string      `json:"modelName"`
}

// ModelView names one central model selection.
type ModelView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// LightUpdate is the body of PUT /light. Absent fields keep their value.
type LightUpdate struct {
	Spin *float32 `json:"spin,omitempty"`
	Tilt *float32 `json:"tilt,omitempty"`
	Dist *float32 `json:"dist,omitempty"`
}

type errorView struct {
	Request string `json:"request"`
	Error   string `json:"error"`
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(scene.Scene) error { return nil })
}

func (s *Server) getModels(w http.ResponseWriter, r *http.Request) {
	models := make([]ModelView, 0, scene.ModelSphere+1)
	for i := scene.ModelTeapot; i <= scene.ModelSphere; i++ {
		models = append(models, ModelView{Index: i, Name: scene.ModelName(i)})
	}
	respondWithJSON(w, http.StatusOK, models)
}

func (s *Server) putMode(w http.ResponseWriter, r *http.Request) {
	n, err := pathInt(r, "n")
	if err != nil || n > scene.MaxMode {
		respondWithError(w, r, http.StatusBadRequest, fmt.Errorf("mode must be 0-%d", scene.MaxMode))
		return
	}
	s.run(w, r, func(sc scene.Scene) error { return sc.SetMode(n) })
}

func (s *Server) putModel(w http.ResponseWriter, r *http.Request) {
	n, err := pathInt(r, "n")
	if err != nil || n > scene.ModelSphere {
		respondWithError(w, r, http.StatusBadRequest, fmt.Errorf("model must be 0-%d", scene.ModelSphere))
		return
	}
	s.run(w, r, func(sc scene.Scene) error { return sc.SetCentralModel(n) })
}

func (s *Server) toggleGround(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(sc scene.Scene) error {
		sc.ToggleGround()
		return nil
	})
}

func (s *Server) toggleSpheres(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(sc scene.Scene) error {
		sc.ToggleSpheres()
		return nil
	})
}

func (s *Server) putLight(w http.ResponseWriter, r *http.Request) {
	var u LightUpdate
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		respondWithError(w, r, http.StatusBadRequest, fmt.Errorf("invalid light body: %w", err))
		return
	}
	if u.Dist != nil && *u.Dist <= 0 {
		respondWithError(w, r, http.StatusBadRequest, errors.New("light dist must be positive"))
		return
	}
	s.run(w, r, func(sc scene.Scene) error {
		l := sc.Light()
		if u.Spin != nil {
			l.Spin = *u.Spin
		}
		if u.Tilt != nil {
			l.Tilt = *u.Tilt
		}
		if u.Dist != nil {
			l.Dist = *u.Dist
		}
		sc.SetLight(l)
		return nil
	})
}

func (s *Server) postQuit(w http.ResponseWriter, r *http.Request) {
	s.target.Quit()
	w.WriteHeader(http.StatusAccepted)
}

// run hands fn to the target and writes the resulting state or error.
func (s *Server) run(w http.ResponseWriter, r *http.Request, fn func(scene.Scene) error) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	st, err := s.target.Do(ctx, fn)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, StateView{
			Request:   requestID(r),
			State:     st,
			ModelName: scene.ModelName(st.CentralModel),
		})
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondWithError(w, r, http.StatusServiceUnavailable, err)
	default:
		s.logger.Warn("command failed", zap.String("path", r.URL.Path), zap.Error(err))
		respondWithError(w, r, http.StatusUnprocessableEntity, err)
	}
}

func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, r *http.Request, status int, err error) {
	respondWithJSON(w, status, errorView{Request: requestID(r), Error: err.Error()})
}
