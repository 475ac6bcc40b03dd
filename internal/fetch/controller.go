// Package fetch issues httpcalls queries, stamps them with a sequence number
// so out-of-order completions can be discarded, and keeps a short-lived cache
// of recently fetched pages.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/platformbuilds/mirador-httptop/internal/models"
	"github.com/platformbuilds/mirador-httptop/internal/query"
	"github.com/platformbuilds/mirador-httptop/internal/services"
	"github.com/platformbuilds/mirador-httptop/pkg/cache"
	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

// CallsAPI is the slice of the MIRADOR-CORE client the controller needs.
type CallsAPI interface {
	GetHTTPCalls(ctx context.Context, req *models.CallsRequest) (*models.CallsResult, error)
	GetServices(ctx context.Context) (*models.ServicesResult, error)
}

// Result is a completed fetch. Seq identifies which request produced it so
// the view can ignore completions that were superseded while in flight.
type Result struct {
	Seq   uint64
	Query query.Query
	Data  *models.CallsResult
	Err   error
}

type Controller struct {
	api    CallsAPI
	cache  cache.ViewCache
	logger logger.Logger
	ttl    time.Duration
	seq    atomic.Uint64
}

func NewController(api CallsAPI, viewCache cache.ViewCache, ttl time.Duration, log logger.Logger) *Controller {
	return &Controller{
		api:    api,
		cache:  viewCache,
		logger: log,
		ttl:    ttl,
	}
}

// Fetch stamps a new request for q and returns the closure that performs it.
// The returned Result always carries the stamp, success or not. The relative
// time range is resolved against the wall clock inside the closure, at the
// moment the request actually runs.
func (c *Controller) Fetch(ctx context.Context, q query.Query) func() Result {
	seq := c.seq.Add(1)
	return func() Result {
		from, to := q.TimeRange.Resolve(time.Now())
		req := &models.CallsRequest{
			From:    from,
			To:      to,
			Limit:   q.Limit,
			Offset:  q.Offset,
			Service: q.Service,
			Filter:  q.Filter,
			Sort:    string(q.SortBy),
			Order:   string(q.SortOrder),
		}

		data, err := c.api.GetHTTPCalls(ctx, req)
		if err != nil {
			return Result{Seq: seq, Query: q, Err: err}
		}

		if err := c.cache.Set(ctx, viewKey(q), data, c.ttl); err != nil {
			c.logger.Debug("view cache write failed", "error", err)
		}
		return Result{Seq: seq, Query: q, Data: data}
	}
}

// Stale reports whether r was superseded by a request issued after it. The
// latest issued request wins regardless of completion order.
func (c *Controller) Stale(r Result) bool {
	return r.Seq < c.seq.Load()
}

// Cached returns the most recently cached page for q, if any. Used to paint
// the view immediately on startup while the first live fetch is in flight.
func (c *Controller) Cached(ctx context.Context, q query.Query) (*models.CallsResult, bool) {
	b, err := c.cache.Get(ctx, viewKey(q))
	if err != nil {
		return nil, false
	}
	var data models.CallsResult
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, false
	}
	return &data, true
}

// Services returns the closure that loads the service selector entries,
// preferring the cached list since service names change rarely.
func (c *Controller) Services(ctx context.Context) func() ([]string, error) {
	return func() ([]string, error) {
		if b, err := c.cache.Get(ctx, servicesKey); err == nil {
			var names []string
			if json.Unmarshal(b, &names) == nil {
				return names, nil
			}
		}

		result, err := c.api.GetServices(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(result.Services))
		for _, s := range result.Services {
			names = append(names, s.Service)
		}
		if err := c.cache.Set(ctx, servicesKey, names, c.ttl); err != nil {
			c.logger.Debug("services cache write failed", "error", err)
		}
		return names, nil
	}
}

const servicesKey = "httptop:services"

func viewKey(q query.Query) string {
	return "httptop:view:" + query.Encode(q).Encode()
}

// UserMessage turns a fetch error into the line shown in the status bar. A
// rejected filter expression gets the server's own explanation plus a hint,
// since that is the error users can actually act on.
func UserMessage(err error, q query.Query) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusBadRequest && q.Filter != "" {
			return fmt.Sprintf("filter rejected: %s (edit the filter expression and retry)", strings.TrimSpace(apiErr.Body))
		}
		return fmt.Sprintf("mirador-core error (status %d): %s", apiErr.StatusCode, strings.TrimSpace(apiErr.Body))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out; mirador-core may be overloaded"
	}
	return fmt.Sprintf("cannot reach mirador-core: %v", err)
}
