package session

import (
	"context"
	"io"

	"github.com/appengine-ltd/reel-it/internal/autoplay"
)

// RunScript replays a command script against the session's encounter. The
// narration lands in the log like any other attempt.
func (s *Session) RunScript(ctx context.Context, r io.Reader) (autoplay.ScriptReport, error) {
	if s.Active() {
		return autoplay.ScriptReport{}, ErrBusy
	}
	intents, err := s.parser.ParseScript(r)
	if err != nil {
		return autoplay.ScriptReport{}, err
	}
	rep, err := autoplay.RunScript(ctx, s.enc, intents, s.logger)
	s.holding = false
	s.drain()
	return rep, err
}
