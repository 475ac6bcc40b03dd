package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-httptop/internal/models"
	"github.com/platformbuilds/mirador-httptop/internal/query"
	"github.com/platformbuilds/mirador-httptop/internal/services"
	"github.com/platformbuilds/mirador-httptop/pkg/cache"
	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

type stubAPI struct {
	result       *models.CallsResult
	err          error
	lastReq      *models.CallsRequest
	services     []string
	serviceCalls int
}

func (s *stubAPI) GetHTTPCalls(ctx context.Context, req *models.CallsRequest) (*models.CallsResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAPI) GetServices(ctx context.Context) (*models.ServicesResult, error) {
	s.serviceCalls++
	if s.err != nil {
		return nil, s.err
	}
	out := &models.ServicesResult{}
	for _, name := range s.services {
		out.Services = append(out.Services, models.ServiceEntry{Service: name})
	}
	return out, nil
}

func newTestController(api *stubAPI) *Controller {
	return NewController(api, cache.NewNoopCache(logger.NewNop()), time.Minute, logger.NewNop())
}

func TestFetchResolvesWindowAtRunTime(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{}}
	c := newTestController(api)

	q := query.Default()
	run := c.Fetch(context.Background(), q)

	before := time.Now().UTC().Truncate(time.Second)
	res := run()
	after := time.Now().UTC()

	require.NoError(t, res.Err)
	require.NotNil(t, api.lastReq)
	assert.Equal(t, 24*time.Hour, api.lastReq.To.Sub(api.lastReq.From))
	assert.False(t, api.lastReq.To.Before(before))
	assert.False(t, api.lastReq.To.After(after))
}

func TestStaleDiscard(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{}}
	c := newTestController(api)

	first := c.Fetch(context.Background(), query.Default())
	second := c.Fetch(context.Background(), query.Default())

	// the slow first request completes after the second was issued
	firstRes := first()
	secondRes := second()

	assert.True(t, c.Stale(firstRes))
	assert.False(t, c.Stale(secondRes))
}

func TestStaleStampedOnFailure(t *testing.T) {
	api := &stubAPI{err: errors.New("connection refused")}
	c := newTestController(api)

	failed := c.Fetch(context.Background(), query.Default())
	res := failed()
	require.Error(t, res.Err)
	assert.False(t, c.Stale(res))

	c.Fetch(context.Background(), query.Default())
	assert.True(t, c.Stale(res))
}

func TestFetchCachesSuccessfulPages(t *testing.T) {
	api := &stubAPI{result: &models.CallsResult{Total: 412, TotalCalls: 9876}}
	c := newTestController(api)

	q := query.Default()
	res := c.Fetch(context.Background(), q)()
	require.NoError(t, res.Err)

	cached, ok := c.Cached(context.Background(), q)
	require.True(t, ok)
	assert.Equal(t, int64(412), cached.Total)
	assert.Equal(t, int64(9876), cached.TotalCalls)

	other := q
	other.Offset = 50
	_, ok = c.Cached(context.Background(), other)
	assert.False(t, ok)
}

func TestFetchDoesNotCacheFailures(t *testing.T) {
	api := &stubAPI{err: errors.New("boom")}
	c := newTestController(api)

	q := query.Default()
	res := c.Fetch(context.Background(), q)()
	require.Error(t, res.Err)

	_, ok := c.Cached(context.Background(), q)
	assert.False(t, ok)
}

func TestServicesCached(t *testing.T) {
	api := &stubAPI{services: []string{"billing", "checkout"}}
	c := newTestController(api)

	names, err := c.Services(context.Background())()
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "checkout"}, names)

	// second load is served from cache
	names, err = c.Services(context.Background())()
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "checkout"}, names)
	assert.Equal(t, 1, api.serviceCalls)
}

func TestUserMessageFilterRejected(t *testing.T) {
	q := query.Default()
	q.Filter = `svc:checkout`
	err := &services.APIError{StatusCode: 400, Body: `unknown field "svc" in filter expression`}

	msg := UserMessage(err, q)
	assert.Contains(t, msg, "filter rejected")
	assert.Contains(t, msg, `unknown field "svc"`)
	assert.Contains(t, msg, "edit the filter")
}

func TestUserMessageOtherStatuses(t *testing.T) {
	q := query.Default()

	msg := UserMessage(&services.APIError{StatusCode: 503, Body: "upstream down"}, q)
	assert.Contains(t, msg, "status 503")
	assert.Contains(t, msg, "upstream down")

	// 400 without a filter set is not a filter problem
	msg = UserMessage(&services.APIError{StatusCode: 400, Body: "bad offset"}, q)
	assert.NotContains(t, msg, "filter rejected")

	msg = UserMessage(errors.New("dial tcp: connection refused"), q)
	assert.Contains(t, msg, "cannot reach")
}

func TestSchedulerFiresAndStops(t *testing.T) {
	var fired atomic.Int32
	s := NewScheduler(10*time.Millisecond, logger.NewNop())
	s.Start(func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	n := fired.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, fired.Load())

	// idempotent
	s.Stop()
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := NewScheduler(time.Second, logger.NewNop())
	s.Stop()
}
