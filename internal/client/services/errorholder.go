package services

import "sync"

// MessageType identifies a message the next screen should show.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageCallPasswordWrong
)

func (m MessageType) String() string {
	switch m {
	case MessageCallPasswordWrong:
		return "call password wrong"
	default:
		return "none"
	}
}

// ErrorHolder passes a message from a closing screen to whichever screen
// resumes. It is safe for concurrent use.
type ErrorHolder struct {
	mu  sync.Mutex
	msg MessageType
}

func (h *ErrorHolder) Set(m MessageType) {
	h.mu.Lock()
	h.msg = m
	h.mu.Unlock()
}

// Peek returns the held message without clearing it.
func (h *ErrorHolder) Peek() MessageType {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.msg
}

// Take returns the held message and resets the holder.
func (h *ErrorHolder) Take() MessageType {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.msg
	h.msg = MessageNone
	return m
}
