// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/rsii/internal/cloud"
	"github.com/jeranaias/rsii/internal/detect"
	"github.com/jeranaias/rsii/internal/logging"
	"github.com/jeranaias/rsii/internal/prompt"
	"github.com/jeranaias/rsii/internal/storage"
	"github.com/jeranaias/rsii/internal/tools"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Dispatcher sends the chat request. *cloud.Client implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req cloud.ChatRequest) (*cloud.ChatResponse, error)
}

// Stager puts a command on the clipboard. *staging.Stager implements it.
type Stager interface {
	Stage(text string) error
}

// Paster fires the paste keystroke. *staging.Paster implements it.
type Paster interface {
	Trigger() error
}

// Journal records staged commands. *storage.Journal implements it.
type Journal interface {
	Record(ctx context.Context, e storage.Entry) (int64, error)
}

// SystemInfoFunc describes the host for the prompt.
type SystemInfoFunc func(ctx context.Context) (string, error)

// =============================================================================
// RESULT
// =============================================================================

// Outcome is what happened to one extracted command.
type Outcome struct {
	Command  string
	Staged   bool
	Pasted   bool
	StageErr error
	PasteErr error
}

// Result summarizes one run.
type Result struct {
	RequestID string
	Prompt    string
	Commands  []Outcome

	// Content is the model's free text, if it wrote any.
	Content string

	// ParseErr joins the per-call argument errors. It is never fatal.
	ParseErr error

	Duration time.Duration
}

// NoToolCalls reports whether the model produced no usable command.
func (r *Result) NoToolCalls() bool {
	return len(r.Commands) == 0
}

// =============================================================================
// PIPELINE
// =============================================================================

// Settings are the per-invocation values taken from config and flags.
type Settings struct {
	Model        string
	SystemPrompt string

	// DryRun resolves commands without touching the clipboard, the paste
	// helper or the journal.
	DryRun bool
}

// Pipeline runs prompt -> dispatch -> extract -> stage -> paste.
type Pipeline struct {
	settings   Settings
	dispatcher Dispatcher
	stager     Stager
	paster     Paster
	journal    Journal
	systemInfo SystemInfoFunc
	logger     *zap.Logger
	newID      func() string

	beforeDispatch func(prompt string)
}

// New creates a pipeline. Without WithStager the pipeline only reports the
// commands it resolved.
func New(settings Settings, dispatcher Dispatcher) *Pipeline {
	return &Pipeline{
		settings:   settings,
		dispatcher: dispatcher,
		systemInfo: detect.SystemInfo,
		logger:     zap.NewNop(),
		newID:      uuid.NewString,
	}
}

// WithStager sets the clipboard stager.
func (p *Pipeline) WithStager(s Stager) *Pipeline {
	p.stager = s
	return p
}

// WithPaster enables paste simulation after each successful stage.
func (p *Pipeline) WithPaster(pa Paster) *Pipeline {
	p.paster = pa
	return p
}

// WithJournal records each staged command.
func (p *Pipeline) WithJournal(j Journal) *Pipeline {
	p.journal = j
	return p
}

// WithSystemInfo replaces the host description source.
func (p *Pipeline) WithSystemInfo(fn SystemInfoFunc) *Pipeline {
	if fn != nil {
		p.systemInfo = fn
	}
	return p
}

// WithLogger sets the logger. A nil logger disables logging.
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	p.logger = logging.OrNop(logger)
	return p
}

// WithBeforeDispatch registers fn to be called with the built prompt just
// before the request is sent.
func (p *Pipeline) WithBeforeDispatch(fn func(prompt string)) *Pipeline {
	p.beforeDispatch = fn
	return p
}

// Run resolves query into commands and stages each one in response order.
//
// Only a failure before or during dispatch is returned as an error. Parse,
// clipboard, paste and journal problems are logged as warnings and recorded
// on the Result.
func (p *Pipeline) Run(ctx context.Context, query string) (*Result, error) {
	start := time.Now()
	result := &Result{RequestID: p.newID()}
	logger := p.logger.With(zap.String("request_id", result.RequestID))

	info, err := p.systemInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read system info: %w", err)
	}

	result.Prompt = prompt.Build(p.settings.SystemPrompt, info, query)
	logger.Debug("prompt built",
		zap.String("model", p.settings.Model),
		zap.String("system_info", info),
		zap.Int("prompt_len", len(result.Prompt)),
	)

	if p.beforeDispatch != nil {
		p.beforeDispatch(result.Prompt)
	}

	resp, err := p.dispatcher.Dispatch(ctx, cloud.NewCommandRequest(p.settings.Model, result.Prompt))
	if err != nil {
		return nil, err
	}
	result.Content = resp.GetContent()

	commands, parseErr := tools.FromResponse(resp)
	if parseErr != nil {
		result.ParseErr = parseErr
		logger.Warn("skipping malformed tool call", zap.Error(parseErr))
	}
	logger.Debug("tool calls extracted",
		zap.Int("tool_calls", len(resp.ToolCalls())),
		zap.Int("commands", len(commands)),
	)

	result.Commands = make([]Outcome, 0, len(commands))
	for _, cmd := range commands {
		result.Commands = append(result.Commands, p.stage(ctx, logger, result.RequestID, query, cmd))
	}

	result.Duration = time.Since(start)
	return result, nil
}

// stage copies one command, fires the paste and journals it.
func (p *Pipeline) stage(ctx context.Context, logger *zap.Logger, requestID, query, cmd string) Outcome {
	out := Outcome{Command: cmd}
	if p.settings.DryRun || p.stager == nil {
		return out
	}

	if err := p.stager.Stage(cmd); err != nil {
		out.StageErr = err
		logger.Warn("failed to stage command", zap.Error(err))
		return out
	}
	out.Staged = true

	if p.paster != nil {
		if err := p.paster.Trigger(); err != nil {
			out.PasteErr = err
			logger.Warn("paste simulation failed; command is still on the clipboard", zap.Error(err))
		} else {
			out.Pasted = true
		}
	}

	if p.journal != nil {
		entry := storage.Entry{
			RequestID: requestID,
			Query:     query,
			Command:   cmd,
			Model:     p.settings.Model,
			Pasted:    out.Pasted,
		}
		if out.PasteErr != nil {
			entry.PasteError = out.PasteErr.Error()
		}
		// The clipboard write already happened; do not let a cancelled
		// context drop the journal row for it.
		if _, err := p.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
			logger.Warn("failed to record staged command", zap.Error(err))
		}
	}

	return out
}
