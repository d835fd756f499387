package assist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/cdpchat"
	"github.com/google/uuid"
)

// Transcript texts.
const (
	UserPrompt    = "You: "
	ReplyPrefix   = "Chatbot: "
	FarewellText  = "Goodbye!"
	TooLongText   = "That question is too long."
	exitCommand   = "exit"
	maxLineLength = 1024 * 1024
)

// Session runs an interactive question and answer loop.
// Questions are handled one at a time, in the order they are read.
type Session struct {
	ID        string
	Responder cdpchat.Responder
	Platforms []cdpchat.Platform
	Logger    *slog.Logger
}

// NewSession creates a Session with a fresh ID.
func NewSession(responder cdpchat.Responder, platforms []cdpchat.Platform, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		ID:        uuid.New().String(),
		Responder: responder,
		Platforms: platforms,
		Logger:    logger,
	}
}

// Greeting returns the lines printed when a session starts.
func (s *Session) Greeting() []string {
	return []string{
		"Welcome to the CDP Support Agent Chatbot! Ask your 'how-to' questions about " + cdpchat.JoinPlatforms(s.Platforms) + ".",
		"You can also ask for comparisons or advanced guidance. Type 'exit' to quit.",
	}
}

// Run reads questions from in and writes replies to out until the user
// types exit, the input ends, or ctx is canceled.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	logger := s.Logger.With("session", s.ID)

	for _, line := range s.Greeting() {
		fmt.Fprintln(out, line)
	}

	r := bufio.NewReader(in)

	for turn := 1; ; turn++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, UserPrompt)
		line, tooLong, err := readLine(r)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			fmt.Fprintln(out, FarewellText)
			logger.Debug("session ended", "reason", "eof", "turns", turn-1)
			return nil
		} else if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if tooLong {
			fmt.Fprintln(out, ReplyPrefix+TooLongText)
			logger.Debug("turn", "turn", turn, "rejected", "too long")
			continue
		}

		question := strings.TrimSpace(line)
		if strings.EqualFold(question, exitCommand) {
			fmt.Fprintln(out, FarewellText)
			logger.Debug("session ended", "reason", "exit", "turns", turn-1)
			return nil
		}

		begin := time.Now()
		reply := s.Responder.Respond(ctx, question)
		fmt.Fprintln(out, ReplyPrefix+reply)
		logger.Debug("turn",
			"turn", turn,
			"intent", string(cdpchat.ClassifyIntent(question)),
			"bytes", len(reply),
			"duration", time.Since(begin),
		)
	}
}

// readLine returns the next input line without its line ending. A line
// longer than maxLineLength is consumed in full and reported as too long.
func readLine(r *bufio.Reader) (string, bool, error) {
	var tooLong bool
	var buf []byte
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong) {
				return string(buf), tooLong, nil
			}
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineLength {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}
