package submit

import (
	"errors"

	"github.com/google/uuid"

	"github.com/linanwx/notakers/logger"
)

// Attempt is one submission, tagged with an id so its outcome line can be
// matched to the line that started it.
type Attempt struct {
	ID   string
	Text string
}

// NewAttempt logs the start of a submission and returns its handle.
func NewAttempt(text string) Attempt {
	a := Attempt{ID: uuid.New().String(), Text: text}
	logger.Info("attempting to submit note", "attempt", a.ID, "bytes", len(text))
	return a
}

// LogOutcome writes exactly one line for the attempt: success when err is
// nil, otherwise the failure kind.
func (a Attempt) LogOutcome(res *Result, err error) {
	if err == nil {
		var body, msg string
		if res != nil {
			body = res.Body.Raw
			msg = res.Message()
		}
		logger.Info("note saved", "attempt", a.ID, "message", msg, "response", body)
		return
	}

	args := []any{"attempt", a.ID, "kind", KindOf(err).String(), "err", err}
	var se *StatusError
	if errors.As(err, &se) {
		args = append(args, "status", se.StatusCode)
	}
	logger.Error("error saving note", args...)
}
