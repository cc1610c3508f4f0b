package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/middleclick/middleclick/engine"
	"github.com/middleclick/middleclick/types"
)

// TouchBatchRequest represents a sequence of touch events delivered at once
type TouchBatchRequest struct {
	Events []types.TouchEvent `json:"events"`
}

// TouchBatchResponse holds one result per delivered event
type TouchBatchResponse struct {
	Results []engine.Result `json:"results"`
	Errors  []string        `json:"errors,omitempty"`
}

// HistoryRequest represents the parameters for the history command
type HistoryRequest struct {
	Limit int `json:"limit"`
}

// TouchCommand delivers a single touch event to the running engine
func TouchCommand(ctx context.Context, ev types.TouchEvent) *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}

	result, err := e.Handle(ctx, ev)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("invalid touch event: %w", err))
	}
	return NewSuccessResponse(result)
}

// TouchBatchCommand delivers several events in order. Invalid events are
// reported but do not stop the batch.
func TouchBatchCommand(ctx context.Context, req TouchBatchRequest) *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}
	if len(req.Events) == 0 {
		return NewErrorResponse(fmt.Errorf("events is required"))
	}

	results, errs := e.HandleBatch(ctx, req.Events)
	response := TouchBatchResponse{Results: results}
	for _, err := range errs {
		response.Errors = append(response.Errors, err.Error())
	}
	return NewSuccessResponse(response)
}

// StatsCommand returns the engine counters
func StatsCommand() *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(e.Stats())
}

// HistoryCommand returns recent sessions, newest first
func HistoryCommand(req HistoryRequest) *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}
	if req.Limit < 0 {
		return NewErrorResponse(fmt.Errorf("limit must be non-negative, got %d", req.Limit))
	}
	return NewSuccessResponse(map[string]interface{}{"sessions": e.History(req.Limit)})
}

// ResetCommand drops the in-flight session
func ResetCommand() *CommandResponse {
	e, err := requireEngine()
	if err != nil {
		return NewErrorResponse(err)
	}
	e.Reset()
	return NewSuccessResponse(map[string]interface{}{"message": "session reset"})
}

// joinErrors is used for one-line error summaries in responses
func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
