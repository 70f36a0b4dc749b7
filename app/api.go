package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lixenwraith/holodisc/parameter"
	"github.com/lixenwraith/holodisc/session"
	"github.com/lixenwraith/holodisc/trigger"
)

// DefaultWorld is used when a request names no world
const DefaultWorld = "world"

// SessionView is one entry of GET /sessions
type SessionView struct {
	Identity  string `json:"identity"`
	World     string `json:"world"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Z         int    `json:"z"`
	StartTick int64  `json:"start_tick"`
	Elapsed   int64  `json:"elapsed"`
	Loop      bool   `json:"loop"`
}

// Call runs fn on the loop goroutine and waits for its result
func (a *App) Call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	a.Loop.Post(func() {
		done <- fn()
	})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sessions returns the active sessions, read on the loop goroutine
func (a *App) Sessions(ctx context.Context) ([]SessionView, error) {
	var out []SessionView
	err := a.Call(ctx, func() error {
		now := a.Driver.Now()
		for _, s := range a.Driver.Sessions() {
			out = append(out, SessionView{
				Identity:  s.Identity,
				World:     s.Location.World,
				X:         s.Location.X,
				Y:         s.Location.Y,
				Z:         s.Location.Z,
				StartTick: s.StartTick,
				Elapsed:   s.Elapsed(now),
				Loop:      s.Loop,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []SessionView{}
	}
	return out, nil
}

// Routes registers the control endpoints on mux:
//
//	POST /trigger/{action}?world=&x=&y=&z=   place, insert, regular, eject, stop, break, dropper
//	POST /reload
//	GET  /sessions
func (a *App) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /trigger/{action}", a.serveTrigger)
	mux.HandleFunc("POST /reload", a.serveReload)
	mux.HandleFunc("GET /sessions", a.serveSessions)
}

func (a *App) serveTrigger(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	action := r.PathValue("action")

	ctx, cancel := context.WithTimeout(r.Context(), parameter.CallTimeout)
	defer cancel()

	err = a.Call(ctx, func() error {
		return a.Host.Do(action, loc)
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"action": action, "identity": loc.Identity()})
}

func (a *App) serveReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), parameter.CallTimeout)
	defer cancel()

	if err := a.Call(ctx, a.Reload); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"frames": a.Frames.Current().Len()})
}

func (a *App) serveSessions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), parameter.CallTimeout)
	defer cancel()

	views, err := a.Sessions(ctx)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func parseLocation(r *http.Request) (session.Location, error) {
	q := r.URL.Query()
	loc := session.Location{World: q.Get("world")}
	if loc.World == "" {
		loc.World = DefaultWorld
	}
	for _, axis := range []struct {
		name string
		dst  *int
	}{{"x", &loc.X}, {"y", &loc.Y}, {"z", &loc.Z}} {
		v, err := strconv.Atoi(q.Get(axis.name))
		if err != nil {
			return loc, fmt.Errorf("invalid %s: %q", axis.name, q.Get(axis.name))
		}
		*axis.dst = v
	}
	return loc, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, trigger.ErrUnknown):
		return http.StatusBadRequest
	case errors.Is(err, trigger.ErrNoJukebox):
		return http.StatusNotFound
	case errors.Is(err, trigger.ErrOccupied), errors.Is(err, trigger.ErrEmpty):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
