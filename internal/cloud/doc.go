// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud sends the single chat completion request rsii makes per run.
//
// Any OpenAI-compatible endpoint works: OpenAI itself, OpenRouter, or a local
// server exposing /chat/completions.
//
// # Key Types
//
//   - Client: HTTP client for the chat completions API
//   - ChatRequest: Request structure carrying the call_command tool
//   - ChatResponse: Decoded reply; ToolCalls feeds the extractor
//   - DispatchError: The one error kind Dispatch returns
//
// # Usage
//
//	client := cloud.NewClient(apiKey).WithBaseURL(baseURL).WithLogger(logger)
//	resp, err := client.Dispatch(ctx, cloud.NewCommandRequest(model, prompt))
//	if errors.Is(err, cloud.ErrAuthFailed) {
//	    // bad key
//	}
//
// # Security
//
// API keys are never logged; only a SHA-256 fingerprint is. The
// Authorization header is cleared as soon as the request returns, and
// response bodies are capped at MaxResponseSize.
package cloud
