package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type reportRecorder struct {
	errs []error
}

func (r *reportRecorder) report(c *gin.Context, err error) {
	r.errs = append(r.errs, err)
	HandleErrorGin(c, err, nil)
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	return w
}

func TestWrap(t *testing.T) {
	t.Run("Success_NoErrorReportsNothing", func(t *testing.T) {
		rec := &reportRecorder{}

		w := serve(Wrap(func(c *gin.Context) error {
			Respond(c, http.StatusOK, nil, "ok")
			return nil
		}, rec.report))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, rec.errs)
	})

	t.Run("Error_ReturnedErrorReportedOnce", func(t *testing.T) {
		rec := &reportRecorder{}
		failure := errors.New("storage unavailable")

		w := serve(Wrap(func(c *gin.Context) error {
			return failure
		}, rec.report))

		require.Len(t, rec.errs, 1)
		assert.Same(t, failure, rec.errs[0])
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"statusCode":500,"success":false}`, w.Body.String())
	})

	t.Run("Error_PanicReportedOnce", func(t *testing.T) {
		rec := &reportRecorder{}

		w := serve(Wrap(func(c *gin.Context) error {
			panic("boom")
		}, rec.report))

		require.Len(t, rec.errs, 1)
		assert.EqualError(t, rec.errs[0], "handler panic: boom")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Error_PanicWithErrorKeepsChain", func(t *testing.T) {
		rec := &reportRecorder{}
		cause := errors.New("nil map")

		serve(Wrap(func(c *gin.Context) error {
			panic(cause)
		}, rec.report))

		require.Len(t, rec.errs, 1)
		assert.ErrorIs(t, rec.errs[0], cause)
	})

	t.Run("Error_AsyncFailureReportedOnce", func(t *testing.T) {
		rec := &reportRecorder{}
		failure := errors.New("async hash failed")

		w := serve(Wrap(func(c *gin.Context) error {
			g, ctx := errgroup.WithContext(c.Request.Context())
			g.Go(func() error {
				return failure
			})
			g.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Second):
					return nil
				}
			})
			return g.Wait()
		}, rec.report))

		require.Len(t, rec.errs, 1)
		assert.ErrorIs(t, rec.errs[0], failure)
		assert.NotErrorIs(t, rec.errs[0], context.Canceled)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Success_NilReporterFallsBackToHandleErrorGin", func(t *testing.T) {
		w := serve(Wrap(func(c *gin.Context) error {
			return errors.New("failure")
		}, nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
