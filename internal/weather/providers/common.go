package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// CircuitConfig tunes the breaker guarding a provider.
type CircuitConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

func newCircuit(cfg CircuitConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
	})
}

// doRequest executes a single attempt through the circuit breaker. Transport
// errors and 5xx responses count against the circuit; a 4xx is returned to
// the caller with its body still open so it can be classified.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			var ue *url.Error
			if errors.As(execErr, &ue) {
				ue.URL = redactURL(req.URL)
			}
			return nil, execErr
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			drain(resp)
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w: %v", weather.ErrUpstream, errCircuitOpen, err)
		}
		return nil, fmt.Errorf("%w: %w", weather.ErrUpstream, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrUpstream)
	}
	return resp, nil
}

// redactURL renders u with the API key masked so it can appear in errors
// and logs.
func redactURL(u *url.URL) string {
	masked := *u
	q := masked.Query()
	if q.Has("appid") {
		q.Set("appid", "REDACTED")
		masked.RawQuery = q.Encode()
	}
	return masked.String()
}

// unexpectedStatus consumes resp and reports its status as an upstream error.
func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	resp.Body.Close()
	return fmt.Errorf("%w: %w: %d: %s", weather.ErrUpstream, errUnexpected, resp.StatusCode, body)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
