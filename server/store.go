package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jsphweid/scoreline/score"
)

// Store keeps decoded scores in memory under random ids.
type Store struct {
	mu     sync.RWMutex
	scores map[string]*score.Score
}

func NewStore() *Store {
	return &Store{scores: make(map[string]*score.Score)}
}

func (st *Store) Add(s *score.Score) string {
	id := uuid.New().String()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.scores[id] = s
	return id
}

func (st *Store) Get(id string) (*score.Score, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.scores[id]
	return s, ok
}

func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.scores[id]; !ok {
		return false
	}
	delete(st.scores, id)
	return true
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.scores)
}
