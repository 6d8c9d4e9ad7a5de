package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/varfmt/internal/document"
	"github.com/conneroisu/varfmt/internal/watcher"
)

var renderCmd = &cobra.Command{
	Use:   "render TEMPLATE",
	Short: "Render a document containing variable placeholders",
	Long: `Render a document, replacing every <!--#var ...--> and <dtml-var ...>
placeholder with its formatted value. Use - to read the document from stdin.

Values come from YAML or JSON data files and --set pairs. A failing
placeholder aborts the render unless --on-error says otherwise:
  abort   stop and report the error (default)
  marker  write the error marker in its place
  empty   write nothing in its place

Examples:
  varfmt render page.html --data data.yml
  varfmt render page.html --set title="Hello" --output out.html
  cat page.html | varfmt render - --on-error marker
  varfmt render page.html --data data.yml --output out.html --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderData   []string
	renderSets   []string
	renderOutput string
	renderWatch  bool
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringArrayVarP(&renderData, "data", "d", nil, "YAML or JSON data file (repeatable)")
	renderCmd.Flags().StringArrayVar(&renderSets, "set", nil, "bind key=value (repeatable)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the result to a file instead of stdout")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "re-render when the document or a data file changes")
	renderCmd.Flags().String("on-error", "", "placeholder error policy (abort, marker, empty)")
	renderCmd.Flags().String("error-marker", "", "marker written by the marker policy; %s is replaced by the variable name")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	source := args[0]

	if !renderWatch {
		return a.renderOnce(cmd, source)
	}
	if source == "-" {
		return fmt.Errorf("--watch needs a document file, not stdin")
	}
	if err := a.renderOnce(cmd, source); err != nil {
		a.logger.Error(cmd.Context(), err, "initial render failed")
	}
	return a.watchRender(cmd, source)
}

// renderOnce reads the document and data afresh and writes one rendering.
// With abort policy nothing is written when a placeholder fails.
func (a *app) renderOnce(cmd *cobra.Command, source string) error {
	src, err := readSource(source, cmd.InOrStdin())
	if err != nil {
		return err
	}

	opts := append(a.cfg.DocumentOptions(),
		document.WithPipeline(a.pipeline),
		document.WithLogger(a.logger),
	)
	tmpl, err := document.Parse(src, opts...)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", source, err)
	}

	ctx, err := loadBindings(renderData, renderSets)
	if err != nil {
		return err
	}

	if renderOutput == "" {
		return tmpl.Execute(cmd.OutOrStdout(), ctx)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return err
	}
	if err := os.WriteFile(renderOutput, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	a.logger.Info(cmd.Context(), "rendered", "source", source, "output", renderOutput)
	return nil
}

// watchRender re-renders after every debounced batch of changes until the
// process is interrupted. The watcher logs failed renders and keeps going.
func (a *app) watchRender(cmd *cobra.Command, source string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, e := range events {
			a.logger.Debug(ctx, "change detected", "path", e.Path, "type", e.Type.String())
		}
		return a.renderOnce(cmd, source)
	})

	if err := fw.WatchFiles(append([]string{source}, renderData...)...); err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		return err
	}
	a.logger.Info(ctx, "watching for changes", "source", source, "data", len(renderData))

	<-ctx.Done()
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
