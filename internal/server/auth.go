package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"conlang/internal/domain"
)

const (
	sessionName   = "conlang_session"
	sessionUserID = "user_id"
)

func (s *Server) sessionUser(r *http.Request) (domain.UserID, bool) {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Values[sessionUserID].(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return domain.UserID(id), true
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user domain.PublicUser) error {
	// A stale or tampered cookie yields an error alongside a fresh session.
	sess, _ := s.sessions.Get(r, sessionName)
	sess.Values[sessionUserID] = int64(user.ID)
	return sess.Save(r, w)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in domain.NewUser
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.accounts.Register(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.startSession(w, r, user); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("user registered", zap.String("username", user.Username), zap.Stringer("user_id", user.ID))
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.accounts.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.startSession(w, r, user); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.sessions.Get(r, sessionName)
	delete(sess.Values, sessionUserID)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.GetUser(r.Context(), userFrom(r.Context()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
