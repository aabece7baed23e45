package browser

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// BridgeConfig configures the HTTP bridge client
type BridgeConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond int
	RetryCount        int
}

// Bridge talks to a browser-side bridge over HTTP. Reads are retried;
// window and tab creation never are, since a retried POST could open a
// duplicate window.
type Bridge struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// createWindowBody is the POST /windows payload
type createWindowBody struct {
	URL string `json:"url"`
	types.WindowAttrs
}

// createTabBody is the POST /windows/:id/tabs payload
type createTabBody struct {
	URL string `json:"url"`
	types.TabAttrs
}

// bridgeError is the error envelope returned by the bridge
type bridgeError struct {
	Error string `json:"error"`
}

// NewBridge creates a bridge client
func NewBridge(cfg BridgeConfig, logger *zap.Logger, metrics *monitoring.Metrics) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = 2
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("User-Agent", "SessionKeeper/1.0").
		SetHeader("Content-Type", "application/json").
		SetTransport(retryClient.HTTPClient.Transport).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
				return false
			}
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)
	}

	breaker := resilience.New("browser-bridge", resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         10 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Bridge{
		resty:   client,
		limiter: limiter,
		breaker: breaker,
		metrics: metrics,
		logger:  logger,
	}
}

// Breaker exposes the circuit breaker for health reporting
func (b *Bridge) Breaker() *resilience.Breaker {
	return b.breaker
}

// ListWindows returns normal windows populated with their tabs
func (b *Bridge) ListWindows(ctx context.Context) ([]types.LiveWindow, error) {
	var windows []types.LiveWindow
	err := b.do(ctx, "list_windows", func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParams(map[string]string{
			"populate": "true",
			"type":     types.WindowTypeNormal,
		}).SetResult(&windows).Get("/windows")
	})
	return windows, err
}

// CreateWindow opens a window with a single tab at url
func (b *Bridge) CreateWindow(ctx context.Context, url string, attrs types.WindowAttrs) (types.LiveWindow, error) {
	var window types.LiveWindow
	err := b.do(ctx, "create_window", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(createWindowBody{URL: url, WindowAttrs: attrs}).
			SetResult(&window).
			Post("/windows")
	})
	return window, err
}

// CreateTab appends a tab to a window
func (b *Bridge) CreateTab(ctx context.Context, windowID int, url string, attrs types.TabAttrs) (types.LiveTab, error) {
	var tab types.LiveTab
	err := b.do(ctx, "create_tab", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", strconv.Itoa(windowID)).
			SetBody(createTabBody{URL: url, TabAttrs: attrs}).
			SetResult(&tab).
			Post("/windows/{id}/tabs")
	})
	return tab, err
}

// UpdateWindow applies focus/state to a window
func (b *Bridge) UpdateWindow(ctx context.Context, id int, attrs types.WindowAttrs) error {
	return b.do(ctx, "update_window", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", strconv.Itoa(id)).SetBody(attrs).Patch("/windows/{id}")
	})
}

// UpdateTab applies pinned/active to a tab
func (b *Bridge) UpdateTab(ctx context.Context, id int, attrs types.TabAttrs) error {
	return b.do(ctx, "update_tab", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", strconv.Itoa(id)).SetBody(attrs).Patch("/tabs/{id}")
	})
}

// ListTabs returns the tabs of one window
func (b *Bridge) ListTabs(ctx context.Context, windowID int) ([]types.LiveTab, error) {
	var tabs []types.LiveTab
	err := b.do(ctx, "list_tabs", func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", strconv.Itoa(windowID)).SetResult(&tabs).Get("/windows/{id}/tabs")
	})
	return tabs, err
}

// do runs one bridge call through the limiter and breaker
func (b *Bridge) do(ctx context.Context, op string, call func(*resty.Request) (*resty.Response, error)) error {
	start := time.Now()

	if err := b.limiter.Wait(ctx); err != nil {
		b.metrics.RecordBridgeCall(op, "rate_limited", time.Since(start))
		return fmt.Errorf("bridge %s: %w", op, err)
	}

	err := b.breaker.Call(func() error {
		var failure bridgeError
		resp, err := call(b.resty.R().SetContext(ctx).SetError(&failure))
		if err != nil {
			return err
		}
		if resp.IsError() {
			if failure.Error != "" {
				return fmt.Errorf("status %d: %s", resp.StatusCode(), failure.Error)
			}
			return fmt.Errorf("status %d", resp.StatusCode())
		}
		return nil
	})

	status := "success"
	if err != nil {
		status = "error"
		b.logger.Debug("bridge call failed", zap.String("op", op), zap.Error(err))
		err = fmt.Errorf("bridge %s: %w", op, err)
	}
	b.metrics.RecordBridgeCall(op, status, time.Since(start))
	return err
}
