package printing

import (
	"fmt"

	"github.com/nestapp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewRenderer builds the configured PDF renderer
func NewRenderer(cfg config.PrintingConfig, logger *zap.Logger) (PDFRenderer, error) {
	switch cfg.Renderer {
	case config.RendererChromedp:
		logger.Info("using chromedp renderer", zap.String("remote_url", cfg.ChromeRemoteURL))
		return NewChromedpRenderer(&ChromedpConfig{
			DefaultTimeout: cfg.Timeout,
			RemoteURL:      cfg.ChromeRemoteURL,
			NoSandbox:      cfg.NoSandbox,
			Logger:         logger,
		})
	case config.RendererHTML, "":
		logger.Info("using text renderer")
		return NewTextRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported renderer %q", cfg.Renderer)
	}
}
