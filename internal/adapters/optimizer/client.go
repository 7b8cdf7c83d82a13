package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"route-visualizer/internal/domain"
	"route-visualizer/internal/platform/metrics"
	"route-visualizer/internal/platform/obs"
	"route-visualizer/internal/ports"
)

// Client implements ports.Optimizer against a route-optimization service
// exposing POST /api/optimize.
//
// Every Submit is a single round trip: there is no retry, and the only
// deadline is the caller's context plus the optional client timeout.
// The client is safe for concurrent use.
type Client struct {
	session  *http.Client
	endpoint string
}

var _ ports.Optimizer = (*Client)(nil)

// NewClient returns a client for the service at baseURL. A zero timeout
// means no client-side limit.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("optimizer base url is empty")
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse optimizer base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("optimizer base url %q: scheme must be http or https", baseURL)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("optimizer timeout must be >= 0, got %s", timeout)
	}

	return &Client{
		session:  &http.Client{Timeout: timeout},
		endpoint: base + "/api/optimize",
	}, nil
}

// wireResult mirrors domain.OptimizationResult with pointers so that absent
// sections can be told apart from zero values.
type wireResult struct {
	Routes  *[]domain.Route `json:"routes"`
	Costs   *domain.Costs   `json:"costs"`
	Summary *domain.Summary `json:"summary"`
}

func (c *Client) Submit(
	ctx context.Context,
	req *domain.OptimizationRequest,
) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "optimizer.Submit")(&err)

	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.OptimizeRequests.WithLabelValues(outcome).Inc()
		metrics.OptimizeDuration.Observe(time.Since(start).Seconds())
	}()

	if req == nil {
		outcome = "encode"
		return nil, &domain.OptimizationError{Op: "encode", Message: "request is nil"}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		outcome = "encode"
		return nil, &domain.OptimizationError{Op: "encode", Message: "could not encode request", Err: err}
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		outcome = "encode"
		return nil, &domain.OptimizationError{Op: "submit", Message: "could not create request", Err: err}
	}

	resp, err := c.do(httpReq)
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			outcome = "status"
			return nil, &domain.OptimizationError{
				Op:         "submit",
				StatusCode: he.Code,
				Message:    he.Message(),
				Err:        err,
			}
		}

		outcome = "transport"
		return nil, &domain.OptimizationError{
			Op:      "submit",
			Message: fmt.Sprintf("optimization service unreachable: %v", err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	result, err := decodeResult(resp.Body)
	if err != nil {
		outcome = "decode"
		return nil, &domain.OptimizationError{
			Op:      "decode",
			Message: fmt.Sprintf("invalid response from optimization service: %v", err),
			Err:     err,
		}
	}

	return result, nil
}

// decodeResult reads exactly one JSON object holding routes, costs and
// summary.
func decodeResult(r io.Reader) (*domain.OptimizationResult, error) {
	dec := json.NewDecoder(r)

	var wr wireResult
	if err := dec.Decode(&wr); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode result: unexpected data after result object")
	}

	missing := make([]string, 0, 3)
	if wr.Routes == nil {
		missing = append(missing, "routes")
	}
	if wr.Costs == nil {
		missing = append(missing, "costs")
	}
	if wr.Summary == nil {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("result is missing %s", strings.Join(missing, ", "))
	}

	for i, rt := range *wr.Routes {
		if rt.Stops == nil {
			return nil, fmt.Errorf("route %d has no stops", i)
		}
	}

	return &domain.OptimizationResult{
		Routes:  *wr.Routes,
		Costs:   *wr.Costs,
		Summary: *wr.Summary,
	}, nil
}
