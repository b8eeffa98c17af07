package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goinventory/internal/pkg/cache"
	"goinventory/internal/pkg/logger"
	"goinventory/internal/pkg/middleware"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) GetInt(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(c cache.Client) *httptest.ResponseRecorder {
	h := middleware.RateLimiter(c, 3, time.Minute, logger.NewLogger("error"))(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_FirstRequestOpensWindow(t *testing.T) {
	c := new(MockCache)
	c.On("GetInt", mock.Anything, "rate-limit:10.0.0.1").Return(0, cache.ErrCacheMiss)
	c.On("Set", mock.Anything, "rate-limit:10.0.0.1", 1, time.Minute).Return(nil)

	rec := serve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
	c.AssertExpectations(t)
}

func TestRateLimiter_IncrementsWithinLimit(t *testing.T) {
	c := new(MockCache)
	c.On("GetInt", mock.Anything, "rate-limit:10.0.0.1").Return(1, nil)
	c.On("Incr", mock.Anything, "rate-limit:10.0.0.1").Return(int64(2), nil)

	rec := serve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	c.AssertExpectations(t)
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	c := new(MockCache)
	c.On("GetInt", mock.Anything, "rate-limit:10.0.0.1").Return(3, nil)

	rec := serve(c)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	c.AssertNotCalled(t, "Incr", mock.Anything, mock.Anything)
}

func TestRateLimiter_FailsOpenWhenCacheIsDown(t *testing.T) {
	c := new(MockCache)
	c.On("GetInt", mock.Anything, "rate-limit:10.0.0.1").Return(0, errors.New("dial tcp: refused"))

	rec := serve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}
