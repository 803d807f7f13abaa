package httputil

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// HandlerFunc is a gin handler that returns its failure instead of writing it.
type HandlerFunc func(c *gin.Context) error

// ErrorReporter is the single place a failed request is turned into a response.
type ErrorReporter func(c *gin.Context, err error)

// NewErrorReporter returns an ErrorReporter backed by HandleErrorGin.
func NewErrorReporter(logger *slog.Logger) ErrorReporter {
	return func(c *gin.Context, err error) {
		HandleErrorGin(c, err, logger)
	}
}

// Wrap adapts h to gin. A returned error or a panic inside h is forwarded to report
// exactly once; a nil return forwards nothing.
func Wrap(h HandlerFunc, report ErrorReporter) gin.HandlerFunc {
	if report == nil {
		report = NewErrorReporter(nil)
	}

	return func(c *gin.Context) {
		if err := run(h, c); err != nil {
			report(c, err)
		}
	}
}

func run(h HandlerFunc, c *gin.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("handler panic: %w", rerr)
				return
			}
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return h(c)
}
