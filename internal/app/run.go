package app

import (
	"context"
	"fmt"

	"github.com/vk/gridware/internal/compile"
	"github.com/vk/gridware/internal/ctxlog"
	"github.com/vk/gridware/internal/dispatch"
	"github.com/vk/gridware/internal/workflow"
)

// Run executes one compile-and-dispatch pass over the configured workflow.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	g, err := workflow.Load(ctx, cfg.WorkflowPath)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}
	a.logger.Debug("Workflow loaded.", "nodes", len(g.Nodes), "edges", len(g.Edges))

	if cfg.Advance == AdvanceBefore {
		nodes, changed := a.engine.AdvanceBefore(ctx, g.Nodes, nil, a.seen)
		g.Nodes = nodes
		a.logger.Debug("Control fields advanced before compile.", "changed", changed)
	}

	result := compile.Compile(ctx, g, a.catalog)
	for _, w := range result.Warnings {
		a.logger.Warn(w.Message, "kind", string(w.Kind), "node", w.NodeID)
	}
	if !result.OK() {
		for _, e := range result.Errors {
			fmt.Fprintln(a.outW, e)
		}
		return fmt.Errorf("workflow has %d blocking error(s)", len(result.Errors))
	}

	if cfg.BackendURL == "" {
		rendered, err := dispatch.MarshalPrompt(result)
		if err != nil {
			return fmt.Errorf("failed to render request: %w", err)
		}
		fmt.Fprintln(a.outW, string(rendered))
	} else {
		opts := []dispatch.Option{}
		if cfg.AcknowledgeWarnings {
			opts = append(opts, dispatch.WithAcknowledgedWarnings())
		}
		client := dispatch.New(cfg.BackendURL, opts...)
		defer client.Close()

		promptID, err := client.Submit(ctx, result)
		if err != nil {
			return fmt.Errorf("dispatch failed: %w", err)
		}
		fmt.Fprintln(a.outW, promptID)
	}

	if cfg.Advance == AdvanceAfter {
		nodes, changed := a.engine.AdvanceAfter(ctx, g.Nodes, nil)
		g.Nodes = nodes
		a.logger.Debug("Control fields advanced after dispatch.", "changed", changed)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
