package lexer

import (
	"github.com/edwingeng/deque"
	"github.com/pontaoski/tally/types"
)

// Stream is a FIFO of already classified tokens with a small lookahead
// window in front of it. The parser never needs to see further than the
// second token.
type Stream struct {
	queue  deque.Deque
	window []types.Token
	end    types.Position
}

func NewStream(tokens []types.Token) *Stream {
	s := &Stream{queue: deque.NewDeque()}
	for _, t := range tokens {
		s.queue.PushBack(t)
	}
	if len(tokens) > 0 {
		s.end = tokens[len(tokens)-1].Location.To
	}
	return s
}

func (s *Stream) fill(n int) {
	for len(s.window) < n && !s.queue.Empty() {
		t := s.queue.Front().(types.Token)
		s.queue.PopFront()
		s.window = append(s.window, t)
	}
}

// Len is the number of tokens not consumed yet.
func (s *Stream) Len() int {
	return len(s.window) + s.queue.Len()
}

func (s *Stream) Empty() bool {
	return s.Len() == 0
}

// Peek returns the token i positions ahead without consuming it. Past the
// end of input it returns an EOF token located after the last token.
func (s *Stream) Peek(i int) types.Token {
	s.fill(i + 1)
	if i < len(s.window) {
		return s.window[i]
	}
	return types.Token{Kind: types.EOF, Location: types.SingleCharSpan(s.end)}
}

// Next consumes one token. ok is false when the stream is empty.
func (s *Stream) Next() (t types.Token, ok bool) {
	s.fill(1)
	if len(s.window) == 0 {
		return s.Peek(0), false
	}
	t = s.window[0]
	s.window = s.window[1:]
	return t, true
}
