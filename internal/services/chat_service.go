package services

import (
	"sync"

	"github.com/juanis2112/repoexplorer/internal/models"
)

// ResetInstruction is the message sent to the chat collaborator when the
// dashboard filters are reset, so it can clear its own filter state.
const ResetInstruction = "reset all filters"

// ChatAdapter is the composer-facing view of the external natural-language
// chat collaborator. The core treats its result as opaque except for row
// identity, and treats any failure as "no chat filter applied".
type ChatAdapter interface {
	// Result returns the row-set matched by the latest natural-language
	// query, or nil when no chat filter is active.
	Result() (*models.ChatResult, error)

	// Revision increases whenever the result changes; derived views use it
	// as an invalidation key.
	Revision() uint64

	// Reset instructs the collaborator to clear its own filter state.
	Reset() error
}

// ChatService is the in-process adapter implementation. The external chat
// collaborator pushes its latest result over HTTP and polls for pending
// instructions; the dashboard never mutates the collaborator's state directly.
type ChatService struct {
	mu           sync.Mutex
	result       *models.ChatResult
	revision     uint64
	instructions []string
}

func NewChatService() *ChatService {
	return &ChatService{}
}

// SetResult stores the latest chat row-set.
func (s *ChatService) SetResult(result *models.ChatResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.revision++
}

// Clear drops the chat filter without queueing an instruction, e.g. when the
// collaborator reports it has no active query.
func (s *ChatService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		s.result = nil
		s.revision++
	}
}

// Result returns the latest pushed row-set, nil when none is active.
func (s *ChatService) Result() (*models.ChatResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, nil
}

// Revision returns the current result revision.
func (s *ChatService) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Reset clears the stored result and queues a reset instruction for the
// collaborator to drain.
func (s *ChatService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		s.result = nil
		s.revision++
	}
	s.instructions = append(s.instructions, ResetInstruction)
	return nil
}

// DrainInstructions returns and clears the pending instructions.
func (s *ChatService) DrainInstructions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.instructions
	s.instructions = nil
	return pending
}
