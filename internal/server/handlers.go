package server

import (
	"context"
	"net/http"

	"conlang/internal/domain"
)

type shareFunc func(ctx context.Context, user domain.UserID, id domain.RecordID, with domain.UserID) error

// handleShare serves POST and DELETE /{kind}/{id}/share/{userID}.
func (s *Server) handleShare(fn shareFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := recordIDParam(r, "id")
		if err != nil {
			s.fail(w, r, err)
			return
		}
		with, err := userIDParam(r, "userID")
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if err := fn(r.Context(), userFrom(r.Context()), id, with); err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ---------- Lexicon ----------

func (s *Server) handleListLexicon(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lexicon.List(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSharedLexicon(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lexicon.Shared(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetLexicon(w http.ResponseWriter, r *http.Request) {
	id, err := recordIDParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.lexicon.Get(r.Context(), userFrom(r.Context()), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateLexicon(w http.ResponseWriter, r *http.Request) {
	var in domain.LexiconInput
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.lexicon.Create(r.Context(), userFrom(r.Context()), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateLexicon(w http.ResponseWriter, r *http.Request) {
	id, err := recordIDParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in domain.LexiconInput
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.lexicon.Update(r.Context(), userFrom(r.Context()), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteLexicon(w http.ResponseWriter, r *http.Request) {
	id, err := recordIDParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.lexicon.Delete(r.Context(), userFrom(r.Context()), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Phonology ----------

func (s *Server) handleGetPhonology(w http.ResponseWriter, r *http.Request) {
	cfg, ok, err := s.phonology.Current(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no phonology saved")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSharedPhonology(w http.ResponseWriter, r *http.Request) {
	cfgs, err := s.phonology.Shared(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfgs)
}

func (s *Server) handleSavePhonology(w http.ResponseWriter, r *http.Request) {
	var in domain.PhonologyInput
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	cfg, err := s.phonology.Save(r.Context(), userFrom(r.Context()), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cfg)
}

// GenerateRequest is the body of POST /api/phonology/generate.
type GenerateRequest struct {
	Count int `json:"count"`
}

// GenerateResponse lists generated words.
type GenerateResponse struct {
	Words []string `json:"words"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var in GenerateRequest
	if r.ContentLength != 0 {
		if err := s.decode(w, r, &in); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	words, err := s.phonology.Generate(r.Context(), userFrom(r.Context()), in.Count)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Words: words})
}

// ---------- Sound changes ----------

func (s *Server) handleListRuleSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.soundChange.List(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleSharedRuleSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.soundChange.Shared(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleCreateRuleSet(w http.ResponseWriter, r *http.Request) {
	var in domain.RuleSetInput
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	set, err := s.soundChange.Create(r.Context(), userFrom(r.Context()), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleDeleteRuleSet(w http.ResponseWriter, r *http.Request) {
	id, err := recordIDParam(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.soundChange.Delete(r.Context(), userFrom(r.Context()), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyRequest is the body of POST /api/sound-changes/apply. When Rules is
// non-nil it is applied directly and RuleSetIDs is ignored.
type ApplyRequest struct {
	Word       string            `json:"word"`
	RuleSetIDs []domain.RecordID `json:"ruleSetIds,omitempty"`
	Rules      []string          `json:"rules,omitempty"`
}

func (s *Server) handleApplySoundChanges(w http.ResponseWriter, r *http.Request) {
	var in ApplyRequest
	if err := s.decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.Rules != nil {
		if in.Word == "" {
			writeError(w, http.StatusBadRequest, "word is required")
			return
		}
		writeJSON(w, http.StatusOK, s.soundChange.ApplyRules(r.Context(), in.Word, in.Rules))
		return
	}
	res, err := s.soundChange.Apply(r.Context(), userFrom(r.Context()), in.Word, in.RuleSetIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
