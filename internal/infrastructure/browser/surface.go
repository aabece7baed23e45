package browser

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/config"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// Surface is the live window/tab surface implemented by Memory and Bridge
type Surface interface {
	ListWindows(ctx context.Context) ([]types.LiveWindow, error)
	CreateWindow(ctx context.Context, url string, attrs types.WindowAttrs) (types.LiveWindow, error)
	CreateTab(ctx context.Context, windowID int, url string, attrs types.TabAttrs) (types.LiveTab, error)
	UpdateWindow(ctx context.Context, id int, attrs types.WindowAttrs) error
	UpdateTab(ctx context.Context, id int, attrs types.TabAttrs) error
	ListTabs(ctx context.Context, windowID int) ([]types.LiveTab, error)
}

var (
	_ Surface = (*Memory)(nil)
	_ Surface = (*Bridge)(nil)
)

// New selects the bridge when a URL is configured, otherwise the memory surface
func New(cfg config.BrowserConfig, logger *zap.Logger, metrics *monitoring.Metrics) Surface {
	if cfg.BridgeURL == "" {
		if logger != nil {
			logger.Info("no browser bridge configured, using in-memory surface")
		}
		return NewMemory()
	}
	return NewBridge(BridgeConfig{
		BaseURL:           cfg.BridgeURL,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, logger, metrics)
}
