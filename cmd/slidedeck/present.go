package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slidedeck/internal/services"
	"slidedeck/internal/tui"
)

var presentCmd = &cobra.Command{
	Use:   "present",
	Short: "Present the stored slides in the terminal",
	Long: `present shows one slide at a time. Left, right and space navigate,
q quits. With the file backend, edits saved elsewhere are picked up live.`,
	RunE: runPresent,
}

func runPresent(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// log output would tear the alternate screen
	quiet := zap.NewNop()

	b, err := openBackend(cfg, quiet)
	if err != nil {
		return err
	}
	defer b.close()

	doc, err := loadOrSeed(ctx, b.store, cfg.SeedDefault(), logger)
	if err != nil {
		return fmt.Errorf("failed to load presentation: %s", services.MessageOf(err))
	}
	logger.Debug("presenting", zap.String("name", doc.DocumentName), zap.Int("slideCount", len(doc.Slides)))

	p := tea.NewProgram(tui.New(doc), tea.WithAltScreen(), tea.WithContext(ctx))

	if b.path != "" && cfg.Watch() {
		watcher, err := services.NewFileWatcher(b.path, services.DefaultDebounce, func(ctx context.Context) {
			doc, err := b.store.Load(ctx)
			if err != nil {
				return
			}
			p.Send(tui.DocumentMsg{Document: doc})
		}, quiet)
		if err != nil {
			return err
		}
		defer watcher.Stop()
		if err := watcher.Start(ctx); err != nil {
			return err
		}
	}

	_, err = p.Run()
	return err
}
