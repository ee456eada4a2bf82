// Package oracle exposes the typed operations of the external
// code-understanding service: per-file structural analysis, ambiguous-call
// disambiguation and external-function inference. It owns the prompts and the
// response validation; transport concerns live in internal/llm.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"codegraph/internal/llm"
	t "codegraph/internal/types"
	"codegraph/internal/util/jsonutil"
)

// Candidate describes one (file, function) pair sharing a simple name with an
// ambiguous call reference.
type Candidate struct {
	File            string        `json:"file"`
	FunctionName    string        `json:"function_name"`
	Description     string        `json:"description"`
	CalledFunctions []string      `json:"called_functions"`
	Parameters      []t.Parameter `json:"parameters"`
	ReturnType      string        `json:"return_type,omitempty"`
}

// CallerContext describes where an ambiguous call originates.
type CallerContext struct {
	File        string   `json:"file"`
	Description string   `json:"description"`
	Imports     []string `json:"imports"`
}

type Client struct {
	llm llm.LLMClient
}

func New(cli llm.LLMClient) *Client {
	return &Client{llm: cli}
}

// AnalyzeFile extracts the structural facts of one source file. A response
// from which no well-formed structure can be extracted is a per-file
// ingestion failure for the caller.
func (c *Client) AnalyzeFile(ctx context.Context, filename, source string) (t.FileFacts, error) {
	ctx = llm.WithOperation(ctx, "analyze_file")
	input := map[string]any{"filename": filename, "source": source}

	raw, err := c.llm.GenerateJSON(ctx, promptAnalyzeFile, input)
	if err != nil {
		return t.FileFacts{}, fmt.Errorf("analyze %s: %w", filename, err)
	}
	var facts t.FileFacts
	if err := jsonutil.ExtractInto(raw, &facts); err != nil {
		return t.FileFacts{}, fmt.Errorf("analyze %s: %w", filename, err)
	}
	return facts, nil
}

// ResolveAmbiguousCall asks which candidate file the caller most likely
// refers to. The returned file name is NOT guaranteed to be one of the
// candidates; the resolution engine checks that and falls back when it is not.
func (c *Client) ResolveAmbiguousCall(ctx context.Context, callName string, candidates []Candidate, caller CallerContext) (string, error) {
	ctx = llm.WithOperation(ctx, "resolve_ambiguous_call")
	input := map[string]any{
		"call_name":       callName,
		"caller":          caller,
		"implementations": candidates,
	}

	raw, err := c.llm.GenerateJSON(ctx, promptResolveAmbiguousCall, input)
	if err != nil {
		return "", fmt.Errorf("resolve ambiguous %s: %w", callName, err)
	}
	var out struct {
		File string `json:"file"`
	}
	if err := jsonutil.ExtractInto(raw, &out); err != nil {
		return "", fmt.Errorf("resolve ambiguous %s: %w", callName, err)
	}
	if strings.TrimSpace(out.File) == "" {
		return "", fmt.Errorf("resolve ambiguous %s: %w", callName, llm.ErrInvalidJSON)
	}
	return out.File, nil
}

// InferExternalFunction asks for a best guess about a call target that is not
// defined anywhere in the scanned repository.
func (c *Client) InferExternalFunction(ctx context.Context, callName, callerName, callerFile string) (t.InferredFunction, error) {
	ctx = llm.WithOperation(ctx, "infer_external_function")
	if callerFile == "" {
		callerFile = "unknown"
	}
	input := map[string]any{
		"called_function": callName,
		"caller":          callerName,
		"caller_file":     callerFile,
	}

	raw, err := c.llm.GenerateJSON(ctx, promptInferExternalFunction, input)
	if err != nil {
		return t.InferredFunction{}, fmt.Errorf("infer %s: %w", callName, err)
	}
	var out t.InferredFunction
	if err := jsonutil.ExtractInto(raw, &out); err != nil {
		return t.InferredFunction{}, fmt.Errorf("infer %s: %w", callName, err)
	}
	if strings.TrimSpace(out.Name) == "" {
		return t.InferredFunction{}, fmt.Errorf("infer %s: %w", callName, llm.ErrInvalidJSON)
	}
	if out.Description == "" {
		out.Description = "Inferred function"
	}
	return out, nil
}
