package services

import (
	"sync"

	"github.com/google/uuid"
	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/pkg/logger"
)

// viewKey identifies one snapshot of the filter inputs. The filtered view and
// every aggregation are memoized against it and recomputed lazily when any
// upstream input changes.
type viewKey struct {
	paramsVersion uint64
	chatRevision  uint64
}

// Session is the explicit per-session context threaded through the composer
// and aggregation functions, replacing process-wide table and chat state. The
// base dataset it references is immutable; the filtered row-set is a derived
// view with no identity of its own.
type Session struct {
	ID string

	mu      sync.Mutex
	dataset *models.Dataset
	filters *FilterService
	chat    ChatAdapter

	defaults      *models.FilterParams
	params        *models.FilterParams
	paramsVersion uint64

	cachedKey  viewKey
	cachedView []*models.Repository
	hasView    bool
	aggCache   map[string]interface{}
}

// NewSession creates a session over the shared dataset. Default filter
// parameters are computed once from the base table.
func NewSession(dataset *models.Dataset, filters *FilterService, chat ChatAdapter) *Session {
	defaults := filters.DefaultParams(dataset.Repositories)
	return &Session{
		ID:       uuid.New().String(),
		dataset:  dataset,
		filters:  filters,
		chat:     chat,
		defaults: defaults,
		params:   defaults.Clone(),
		aggCache: make(map[string]interface{}),
	}
}

// Dataset returns the immutable base dataset.
func (s *Session) Dataset() *models.Dataset {
	return s.dataset
}

// Params returns a copy of the current manual filter parameters.
func (s *Session) Params() *models.FilterParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Clone()
}

// Defaults returns a copy of the configured default parameters.
func (s *Session) Defaults() *models.FilterParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaults.Clone()
}

// SetParams replaces the manual filter parameters and invalidates every
// derived value.
func (s *Session) SetParams(params *models.FilterParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = params.Clone()
	s.paramsVersion++
}

// Reset restores every manual parameter to its default and signals the chat
// adapter to clear its own filter state. An adapter failure only costs the
// signal, never the reset itself.
func (s *Session) Reset() {
	s.mu.Lock()
	s.params = s.defaults.Clone()
	s.paramsVersion++
	chat := s.chat
	s.mu.Unlock()

	if chat != nil {
		if err := chat.Reset(); err != nil {
			logger.WithError(err).Warnf("Failed to signal chat adapter reset")
		}
	}
}

// Filtered returns the composed row-set, recomputing only when a manual
// parameter or the chat result changed since the last read.
func (s *Session) Filtered() []*models.Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

func (s *Session) filteredLocked() []*models.Repository {
	key := viewKey{paramsVersion: s.paramsVersion}
	if s.chat != nil {
		key.chatRevision = s.chat.Revision()
	}
	if s.hasView && key == s.cachedKey {
		return s.cachedView
	}

	s.cachedView = s.filters.Compose(s.dataset.Repositories, s.params, s.chat)
	s.cachedKey = key
	s.hasView = true
	s.aggCache = make(map[string]interface{})
	return s.cachedView
}

// Aggregate memoizes a named aggregation over the current filtered view.
// Repeated reads without an intervening input change return the cached value.
func (s *Session) Aggregate(name string, compute func([]*models.Repository) interface{}) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.filteredLocked()
	if cached, ok := s.aggCache[name]; ok {
		return cached
	}
	value := compute(view)
	s.aggCache[name] = value
	return value
}

// SessionService manages dashboard sessions and their chat adapters.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*Session
	chats    map[string]*ChatService

	dataset *models.Dataset
	filters *FilterService
}

func NewSessionService(dataset *models.Dataset, filters *FilterService) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		chats:    make(map[string]*ChatService),
		dataset:  dataset,
		filters:  filters,
	}
}

// GetOrCreate returns the session for an id, creating a fresh one (with its
// own chat adapter) when the id is unknown or empty.
func (s *SessionService) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if session, ok := s.sessions[id]; ok {
			return session
		}
	}

	chat := NewChatService()
	session := NewSession(s.dataset, s.filters, chat)
	s.sessions[session.ID] = session
	s.chats[session.ID] = chat
	return session
}

// ChatFor returns the chat adapter backing a session, or nil for an unknown
// session.
func (s *SessionService) ChatFor(sessionID string) *ChatService {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats[sessionID]
}
