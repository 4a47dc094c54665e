package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ersonp/family-core/internal/application/handlers"
	"github.com/ersonp/family-core/internal/infrastructure/watcher"
)

type treeFlags struct {
	focus  string
	format string
	watch  string
}

func newTreeCmd() *cobra.Command {
	var flags treeFlags

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the family tree around a person",
		Long: `Reconstructs the family tree around the focus person: their ancestors,
the descendants of those ancestors and the spouses of everyone shown.

With --watch the given save document is read and the tree is redrawn every
time the file changes, until interrupted. The document is resolved in memory
only; the stored family is left as it is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.focus, "focus", "", "Focus person id (default: stored focus)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&flags.watch, "watch", "", "Save document to import and follow")

	return cmd
}

func runTree(cmd *cobra.Command, flags treeFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("invalid format %q, valid formats: [text json]", flags.format)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(deps *Deps) error {
		if flags.watch != "" {
			return watchTree(ctx, deps, out, flags)
		}
		return printTree(ctx, deps, out, flags)
	})
}

func printTree(ctx context.Context, deps *Deps, out io.Writer, flags treeFlags) error {
	view, err := deps.TreeHandler.Handle(ctx, deps.Family, flags.focus)
	if err != nil {
		return err
	}
	return writeTree(out, view, flags.format)
}

func writeTree(out io.Writer, view *handlers.TreeView, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding tree: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	renderTree(out, view)
	return nil
}

// watchTree reads the watched document and redraws the tree on every
// change until ctx is cancelled.
func watchTree(ctx context.Context, deps *Deps, out io.Writer, flags treeFlags) error {
	w, err := watcher.New(flags.watch, slog.Default())
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	if err := refreshTree(deps, out, flags); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Kind == watcher.ChangeRemoved {
				fmt.Fprintf(out, "%s was removed, waiting for it to come back\n", change.File)
				continue
			}
			if err := refreshTree(deps, out, flags); err != nil {
				slog.Warn("refreshing tree", "file", change.File, "error", err)
			}
		}
	}
}

func refreshTree(deps *Deps, out io.Writer, flags treeFlags) error {
	reg, result, err := deps.ImportHandler.Preview(deps.Family, flags.watch, handlers.ImportOptions{})
	if err != nil {
		return fmt.Errorf("reading %s: %w", flags.watch, err)
	}
	for _, e := range result.Errors {
		slog.Warn("skipped record", "file", flags.watch, "error", e.Error())
	}

	fmt.Fprintf(out, "--- %s: %d persons, %d events\n", flags.watch, result.Persons, result.Events)
	return writeTree(out, deps.TreeHandler.View(reg, flags.focus), flags.format)
}

// treeRenderer draws a tree view as indented text. Unions are shown as the
// couple they join, with the children of the couple below them.
type treeRenderer struct {
	focus string
	names map[string]string
	links map[string]handlers.SiblingLink
}

func renderTree(out io.Writer, view *handlers.TreeView) {
	if view.Root == nil || len(view.Root.Children) == 0 {
		fmt.Fprintln(out, "Empty tree.")
		return
	}

	r := &treeRenderer{
		focus: view.Focus,
		names: make(map[string]string),
		links: make(map[string]handlers.SiblingLink, len(view.Siblings)),
	}
	r.collectNames(view.Root)
	for _, l := range view.Siblings {
		r.links[l.Union] = l
	}

	for _, c := range view.Root.Children {
		fmt.Fprintln(out, r.label(c))
		r.renderChildren(out, c, "")
	}
}

func (r *treeRenderer) collectNames(n *handlers.TreeNode) {
	if !n.Hidden {
		r.names[n.ID] = n.Name
	}
	for _, c := range n.Children {
		r.collectNames(c)
	}
}

func (r *treeRenderer) renderChildren(out io.Writer, n *handlers.TreeNode, prefix string) {
	for i, c := range n.Children {
		branch, indent := "├── ", "│   "
		if i == len(n.Children)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintln(out, prefix+branch+r.label(c))
		r.renderChildren(out, c, prefix+indent)
	}
}

func (r *treeRenderer) label(n *handlers.TreeNode) string {
	switch {
	case n.Hidden:
		if l, ok := r.links[n.ID]; ok {
			return fmt.Sprintf("[%s + %s]", r.names[l.Source], r.names[l.Target])
		}
		return "[" + n.ID + "]"
	case n.Union != "":
		label := fmt.Sprintf("%s (%s), spouse", n.Name, n.ID)
		if l, ok := r.links[n.Union]; ok && l.Number > 1 {
			label += fmt.Sprintf(" #%d", l.Number)
		}
		return label
	case n.ID == r.focus:
		return fmt.Sprintf("%s (%s) *", n.Name, n.ID)
	default:
		return fmt.Sprintf("%s (%s)", n.Name, n.ID)
	}
}
