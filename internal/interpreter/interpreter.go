package interpreter

import (
	"context"
	"time"

	"github.com/noah51022/schedule-sensei-sync/internal/model"
)

// Request carries one user message plus the date context the prompt
// needs.  ReferenceDate anchors relative expressions; RangeStart and
// RangeEnd are the event's date range in YYYY-MM-DD form.
type Request struct {
	Message       string
	ReferenceDate time.Time
	RangeStart    string
	RangeEnd      string
}

// Interpreter binds the model call to the sanitize pass.  It is the only
// path from free text to a ChangeSet.
type Interpreter struct {
	LLM Completer
}

func New(llm Completer) *Interpreter { return &Interpreter{LLM: llm} }

// Interpret performs exactly one model call for the message and
// sanitizes the reply.  Transport errors come back unwrapped from the
// client; parse failures are ErrUnparsable or ErrBadAction; an empty
// change set with a nil error means nothing interpretable was found.
func (in *Interpreter) Interpret(ctx context.Context, req Request) (*model.ChangeSet, error) {
	system := BuildPrompt(req.ReferenceDate, req.RangeStart, req.RangeEnd)
	reply, err := in.LLM.Complete(ctx, system, req.Message)
	if err != nil {
		return nil, err
	}
	return Sanitize(reply, req.ReferenceDate)
}
