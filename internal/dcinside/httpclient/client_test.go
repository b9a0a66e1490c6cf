package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaul/dc-harvester/internal/dcinside"
)

func TestSend_RetrySchedule(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	var delays []time.Duration
	c := New(srv.URL)
	c.sleepFunc = func(d time.Duration) { delays = append(delays, d) }

	body, err := c.Send(context.Background(), MethodGET, srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, 3, requests)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, delays)
}

func TestSend_ExhaustsRetriesThenPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.sleepFunc = func(time.Duration) {}

	_, err := c.Send(context.Background(), MethodGET, srv.URL, nil)
	assert.ErrorIs(t, err, dcinside.ErrHTTP)
}

func TestSend_NotFoundNeverRetries(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.sleepFunc = func(time.Duration) { t.Fatal("must not sleep on 404") }

	_, err := c.Send(context.Background(), MethodGET, srv.URL, nil)
	assert.ErrorIs(t, err, dcinside.ErrNotFound)
	assert.Equal(t, 1, requests)
}

func TestSend_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var delays []time.Duration
	c := New(srv.URL)
	c.sleepFunc = func(d time.Duration) { delays = append(delays, d) }

	_, err := c.Send(context.Background(), MethodGET, srv.URL, nil)
	assert.ErrorIs(t, err, dcinside.ErrRateLimited)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, delays)
}

func TestSend_StatsCountsRetriesAndRateLimitHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.sleepFunc = func(time.Duration) {}

	_, err := c.Send(context.Background(), MethodGET, srv.URL, nil)
	assert.ErrorIs(t, err, dcinside.ErrRateLimited)

	retryCount, rateLimitHits := c.Stats()
	assert.Equal(t, 2, retryCount)
	assert.Equal(t, 3, rateLimitHits)
}

func TestWithRateLimiter_BoundsDispatchRate(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, WithRateLimiter(1000, 1))
	_, err := c.Send(context.Background(), MethodGET, srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestSend_POSTEncodesForm(t *testing.T) {
	var gotBody string
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Requested-With")
		_ = r.ParseForm()
		gotBody = r.PostForm.Get("id")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	params := url.Values{"id": {"programming"}}
	_, err := c.Send(context.Background(), MethodPOST, srv.URL, params)
	require.NoError(t, err)
	assert.Equal(t, "programming", gotBody)
	assert.Equal(t, "XMLHttpRequest", gotHeader)
}
