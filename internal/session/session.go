package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thywilljoshua/studynotes/internal/study"
)

var ErrNotFound = errors.New("session not found")

// Session is one uploaded document and whatever artifacts have been generated
// for it. Artifacts are replaced wholesale and never mutated in place, so
// snapshots may share them.
type Session struct {
	ID        string
	Name      string
	Text      string
	CreatedAt time.Time

	Summary *study.Summary
	MCQs    *study.MCQSet
	Mixed   *study.MixedQuiz
}

// Artifact returns the stored artifact of kind, if any.
func (s Session) Artifact(kind study.Kind) (study.Artifact, bool) {
	switch kind {
	case study.KindSummary:
		if s.Summary != nil {
			return *s.Summary, true
		}
	case study.KindMCQ:
		if s.MCQs != nil {
			return *s.MCQs, true
		}
	case study.KindMixed:
		if s.Mixed != nil {
			return *s.Mixed, true
		}
	}
	return nil, false
}

// Store keeps sessions in process memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session), now: time.Now}
}

func (st *Store) Create(name, text string) Session {
	s := &Session{ID: uuid.NewString(), Name: name, Text: text, CreatedAt: st.now().UTC()}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return *s
}

func (st *Store) Get(id string) (Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *s, nil
}

// Put replaces the artifact of a's kind on session id.
func (st *Store) Put(id string, a study.Artifact) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	switch v := a.(type) {
	case study.Summary:
		s.Summary = &v
	case study.MCQSet:
		s.MCQs = &v
	case study.MixedQuiz:
		s.Mixed = &v
	default:
		return fmt.Errorf("unsupported artifact %T", a)
	}
	return nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(st.sessions, id)
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
