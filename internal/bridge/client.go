package bridge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Harry110/crosswalk/internal/engine"
	"github.com/Harry110/crosswalk/internal/infrastructure/logging"
	"github.com/Harry110/crosswalk/internal/infrastructure/monitoring"
	"github.com/Harry110/crosswalk/internal/infrastructure/resilience"
	"github.com/Harry110/crosswalk/internal/policy/certerrors"
)

// Config configures the shell HTTP client.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	RetryMax int
}

// Client is an HTTP-backed contents-client bridge.
type Client struct {
	http      *resty.Client
	limiter   *rate.Limiter
	breaker   *resilience.Breaker
	sslPolicy *certerrors.Policy
	log       *logging.Logger
	metrics   *monitoring.Metrics
}

// certificateErrorPrompt is the payload for POST /certificate-error.
type certificateErrorPrompt struct {
	Error       string `json:"error"`
	URL         string `json:"url"`
	Subject     string `json:"subject"`
	Issuer      string `json:"issuer"`
	Fingerprint string `json:"fingerprint"`
	Overridable bool   `json:"overridable"`
}

// certificateErrorVerdict is the shell's answer.
type certificateErrorVerdict struct {
	Allow bool `json:"allow"`
}

// showNotificationRequest is the payload for POST /notifications.
type showNotificationRequest struct {
	Origin  string `json:"origin"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	IconURL string `json:"icon_url,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

type showNotificationResponse struct {
	ID string `json:"id"`
}

// NewClient creates a bridge client for the shell at cfg.Endpoint.
func NewClient(cfg Config, log *logging.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	httpClient := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	breaker := resilience.New("bridge", resilience.Settings{
		MaxRequests: 2,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(50), 100),
		breaker:   breaker,
		sslPolicy: certerrors.NewPolicy(),
		log:       log,
	}
}

// WithMetrics adds metrics tracking to the client.
func (c *Client) WithMetrics(m *monitoring.Metrics) *Client {
	c.metrics = m
	return c
}

// SSLPolicy exposes the verdict cache, mainly for the inspection API.
func (c *Client) SSLPolicy() *certerrors.Policy {
	return c.sslPolicy
}

// AllowCertificateError implements certerrors.Handler. The cancel flag is
// decided synchronously: a cached verdict or an accepted prompt keeps the
// request alive and the callback delivers the verdict; any failure to reach
// the shell cancels the request.
func (c *Client) AllowCertificateError(req *engine.CertificateErrorRequest, callback func(allow bool)) bool {
	if c.sslPolicy.Allowed(req) {
		go callback(true)
		return false
	}
	if !req.Overridable {
		return true
	}

	verdict, err := c.promptCertificateError(req)
	if err != nil {
		c.log.Warn("certificate error prompt failed",
			zap.String("url", req.RequestURL.String()),
			zap.Error(err))
		return true
	}

	// The verdict reaches the engine through the callback it handed us,
	// after this method has returned its synchronous cancel answer.
	go func() {
		if verdict.Allow {
			c.sslPolicy.Remember(req.RequestURL.Hostname(), req.SSL.Fingerprint)
		}
		callback(verdict.Allow)
	}()
	return false
}

func (c *Client) promptCertificateError(req *engine.CertificateErrorRequest) (*certificateErrorVerdict, error) {
	var verdict certificateErrorVerdict
	err := c.call(context.Background(), "certificate_error", func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(certificateErrorPrompt{
				Error:       req.Error.String(),
				URL:         req.RequestURL.String(),
				Subject:     req.SSL.Subject,
				Issuer:      req.SSL.Issuer,
				Fingerprint: req.SSL.Fingerprint,
				Overridable: req.Overridable,
			}).
			SetResult(&verdict).
			ForceContentType("application/json").
			Post("/certificate-error")
		if err != nil {
			return err
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("shell returned %s", resp.Status())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &verdict, nil
}

// ShowNotification presents a notification through the shell and returns a
// cancel func that withdraws it.
func (c *Client) ShowNotification(params engine.NotificationParams) (func(), error) {
	var created showNotificationResponse
	origin := ""
	if params.Origin != nil {
		origin = params.Origin.String()
	}

	err := c.call(context.Background(), "show_notification", func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(showNotificationRequest{
				Origin:  origin,
				Title:   params.Title,
				Body:    params.Body,
				IconURL: params.IconURL,
				Tag:     params.Tag,
			}).
			SetResult(&created).
			ForceContentType("application/json").
			Post("/notifications")
		if err != nil {
			return err
		}
		if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("shell returned %s", resp.Status())
		}
		if created.ID == "" {
			return fmt.Errorf("shell returned no notification id")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	id := created.ID
	cancel := func() {
		_ = c.call(context.Background(), "close_notification", func(ctx context.Context) error {
			_, err := c.http.R().SetContext(ctx).Delete("/notifications/" + id)
			return err
		})
	}
	return cancel, nil
}

// OpenExternal asks the shell to open a URL outside the runtime. Used as the
// window-open denial fallback on platforms that support it.
func (c *Client) OpenExternal(ctx context.Context, u *url.URL) error {
	return c.call(ctx, "open_external", func(callCtx context.Context) error {
		resp, err := c.http.R().
			SetContext(callCtx).
			SetBody(map[string]string{"url": u.String()}).
			Post("/open-external")
		if err != nil {
			return err
		}
		if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
			return fmt.Errorf("shell returned %s", resp.Status())
		}
		return nil
	})
}

// call runs one shell request through the rate limiter and circuit breaker.
func (c *Client) call(parent context.Context, endpoint string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, c.http.GetClient().Timeout+time.Second)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.RecordBridgeCall(endpoint, "rate_limited", time.Since(start))
		return err
	}

	err := c.breaker.Do(func() error { return fn(ctx) })
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordBridgeCall(endpoint, status, time.Since(start))
	return err
}
