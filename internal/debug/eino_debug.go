// Package debug optionally starts the eino visual debug server so agent
// runs can be inspected in a browser.
package debug

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/osokin/tradegram/internal/config"
)

// Init starts the eino devops server when debug mode is on. It is a no-op
// otherwise.
func Init(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Debug {
		return nil
	}
	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("init eino debug server: %w", err)
	}
	logger.Info("eino debug server started", "url", fmt.Sprintf("http://localhost:%d", cfg.EinoDebugPort))
	return nil
}
