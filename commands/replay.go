package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/middleclick/middleclick/emitter"
	"github.com/middleclick/middleclick/engine"
	"github.com/middleclick/middleclick/gesture"
	"github.com/middleclick/middleclick/types"
)

// ReplayRequest represents the parameters for replaying a recorded event file
type ReplayRequest struct {
	Path   string
	Input  io.Reader
	Config *gesture.Config
	Strict bool
}

// ReplayResponse summarizes a replay
type ReplayResponse struct {
	Events   int                    `json:"events"`
	Clicks   int                    `json:"clicks"`
	Sessions []engine.SessionRecord `json:"sessions"`
	Errors   []string               `json:"errors,omitempty"`
}

// ReadTouchEvents parses one JSON touch event per line. Blank lines and lines
// starting with '#' are skipped.
func ReadTouchEvents(r io.Reader) ([]types.TouchEvent, error) {
	var events []types.TouchEvent
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var ev types.TouchEvent
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// ReplayCommand feeds recorded events through a fresh engine and reports
// what each session resolved to. No clicks are injected.
func ReplayCommand(ctx context.Context, req ReplayRequest) *CommandResponse {
	input := req.Input
	if input == nil {
		if req.Path == "" {
			return NewErrorResponse(fmt.Errorf("path is required"))
		}
		if req.Path == "-" {
			input = os.Stdin
		} else {
			f, err := os.Open(req.Path)
			if err != nil {
				return NewErrorResponse(fmt.Errorf("failed to open %s: %w", req.Path, err))
			}
			defer f.Close()
			input = f
		}
	}

	events, err := ReadTouchEvents(input)
	if err != nil {
		return NewErrorResponse(err)
	}

	var cfg gesture.Config
	if req.Config != nil {
		cfg = *req.Config
	} else {
		cfg, _, err = LoadConfig()
		if err != nil {
			return NewErrorResponse(err)
		}
	}

	recorder := &emitter.Recorder{}
	eng, err := engine.New(engine.Options{
		Config:      cfg,
		Emitter:     recorder,
		HistorySize: len(events) + 1,
	})
	if err != nil {
		return NewErrorResponse(err)
	}

	_, errs := eng.HandleBatch(ctx, events)
	if req.Strict && len(errs) > 0 {
		return NewErrorResponse(fmt.Errorf("invalid events: %s", joinErrors(errs)))
	}

	sessions := eng.History(0)
	// history is newest first, a replay reads better in order
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}

	response := ReplayResponse{
		Events:   len(events),
		Clicks:   len(recorder.Clicks()),
		Sessions: sessions,
	}
	for _, err := range errs {
		response.Errors = append(response.Errors, err.Error())
	}
	return NewSuccessResponse(response)
}
