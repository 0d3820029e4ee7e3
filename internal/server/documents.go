package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/thywilljoshua/studynotes/internal/ai"
	"github.com/thywilljoshua/studynotes/internal/extract"
	"github.com/thywilljoshua/studynotes/internal/session"
	"github.com/thywilljoshua/studynotes/internal/study"
)

const defaultQuestions = 5

type documentView struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Characters        int              `json:"characters"`
	Preview           string           `json:"preview"`
	GenerationEnabled bool             `json:"generation_enabled"`
	CreatedAt         time.Time        `json:"created_at"`
	Summary           *study.Summary   `json:"summary,omitempty"`
	MCQs              *study.MCQSet    `json:"mcq_quiz,omitempty"`
	Mixed             *study.MixedQuiz `json:"mixed_quiz,omitempty"`
}

func (s *Server) view(sess session.Session) documentView {
	return documentView{
		ID:                sess.ID,
		Name:              sess.Name,
		Characters:        utf8.RuneCountInString(sess.Text),
		Preview:           extract.Preview(sess.Text, s.cfg.PreviewChars),
		GenerationEnabled: strings.TrimSpace(sess.Text) != "",
		CreatedAt:         sess.CreatedAt,
		Summary:           sess.Summary,
		MCQs:              sess.MCQs,
		Mixed:             sess.Mixed,
	}
}

type generationResponse struct {
	Kind     study.Kind     `json:"kind"`
	Artifact study.Artifact `json:"artifact"`
	Error    string         `json:"error,omitempty"`
}

// createDocument accepts a multipart "file" upload or a JSON {"url": ...} body.
func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	data, name, status, err := s.readUpload(w, r)
	if err != nil {
		logger(r).Warn().Err(err).Msg("rejecting document upload")
		writeError(w, status, err.Error())
		return
	}

	text, err := s.cfg.Extractor.Extract(data)
	if err != nil {
		s.cfg.Metrics.ObserveExtraction("error")
		logger(r).Error().Err(err).Str("document", name).Msg("text extraction failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		s.cfg.Metrics.ObserveExtraction("empty")
		logger(r).Warn().Str("document", name).Msg("no text extracted, generation disabled")
	} else {
		s.cfg.Metrics.ObserveExtraction("ok")
	}

	sess := s.cfg.Store.Create(name, text)
	logger(r).Info().Str("session", sess.ID).Str("document", name).Int("chars", len(text)).Msg("document stored")
	writeJSON(w, http.StatusCreated, s.view(sess))
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, int, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, "", http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", s.cfg.MaxUploadBytes)
			}
			return nil, "", http.StatusBadRequest, fmt.Errorf("multipart field \"file\" is required: %w", err)
		}
		defer f.Close()
		if !strings.EqualFold(filepath.Ext(hdr.Filename), ".pdf") {
			return nil, "", http.StatusUnsupportedMediaType, fmt.Errorf("only PDF uploads are accepted, got %q", hdr.Filename)
		}
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, "", http.StatusBadRequest, fmt.Errorf("read upload: %w", err)
		}
		return b, filepath.Base(hdr.Filename), 0, nil

	case "application/json":
		var body struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err != nil {
			return nil, "", http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err)
		}
		if !extract.IsURL(body.URL) {
			return nil, "", http.StatusBadRequest, fmt.Errorf("url must be http or https, got %q", body.URL)
		}
		b, name, err := extract.ReadSource(r.Context(), s.cfg.Client, body.URL, s.cfg.MaxUploadBytes)
		if errors.Is(err, extract.ErrTooLarge) {
			return nil, "", http.StatusRequestEntityTooLarge, fmt.Errorf("document at url exceeds %d bytes", s.cfg.MaxUploadBytes)
		}
		if err != nil {
			return nil, "", http.StatusBadGateway, err
		}
		return b, name, 0, nil

	default:
		return nil, "", http.StatusUnsupportedMediaType, fmt.Errorf("expected multipart/form-data or application/json, got %q", ct)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	sess, err := s.cfg.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return session.Session{}, false
	}
	return sess, true
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.view(sess))
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) generateSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	res, err := s.cfg.Service.Summarize(r.Context(), sess.Name, sess.Text)
	s.finish(w, r, sess.ID, res.Value, res.Err, err)
}

func (s *Server) generateMCQs(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body struct {
		Count *int `json:"count"`
	}
	n, ok := s.questionCount(w, r, &body, &body.Count)
	if !ok {
		return
	}
	res, err := s.cfg.Service.GenerateMCQs(r.Context(), sess.Text, n)
	s.finish(w, r, sess.ID, res.Value, res.Err, err)
}

func (s *Server) generateMixed(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var body struct {
		Total *int `json:"total"`
	}
	n, ok := s.questionCount(w, r, &body, &body.Total)
	if !ok {
		return
	}
	split := study.SplitMixed(n)
	res, err := s.cfg.Service.GenerateMixedQuiz(r.Context(), sess.Text, split.MCQ, split.TrueFalse, split.ShortAnswer)
	s.finish(w, r, sess.ID, res.Value, res.Err, err)
}

// questionCount decodes an optional JSON body into dst and reads *field, which
// defaults to 5 when absent. Values outside 1..MaxQuestions answer 400.
func (s *Server) questionCount(w http.ResponseWriter, r *http.Request, dst any, field **int) (int, bool) {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return 0, false
	}
	n := min(defaultQuestions, s.cfg.MaxQuestions)
	if *field != nil {
		n = **field
	}
	if n < 1 || n > s.cfg.MaxQuestions {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("question count must be between 1 and %d", s.cfg.MaxQuestions))
		return 0, false
	}
	return n, true
}

// finish stores a generated artifact and reports it. Contained failures still
// answer 200 with the fallback artifact and a visible error.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, id string, a study.Artifact, contained, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case ai.IsConfigurationError(err):
			status = http.StatusServiceUnavailable
		case errors.Is(err, study.ErrInvalidRequest):
			status = http.StatusBadRequest
		case errors.Is(err, study.ErrEmptyDocument):
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	if perr := s.cfg.Store.Put(id, a); perr != nil {
		writeError(w, http.StatusNotFound, perr.Error())
		return
	}
	resp := generationResponse{Kind: a.Kind(), Artifact: a}
	if contained != nil {
		resp.Error = contained.Error()
		logger(r).Warn().Err(contained).Str("session", id).Str("artifact", string(a.Kind())).Msg("serving fallback artifact")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) exportArtifact(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	kind := study.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown artifact kind %q", kind))
		return
	}
	a, ok := sess.Artifact(kind)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no %s generated for this document yet", kind))
		return
	}
	b, err := study.Export(a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": study.ExportFileName(sess.Name, kind),
	}))
	_, _ = w.Write(b)
}
