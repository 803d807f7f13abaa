package httputil

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/taskhub/internal/errors"
	"github.com/allisson/taskhub/internal/validation"
)

const payloadKey = "httputil.payload"

// ValidatePayload decodes the JSON body into a T and runs rules against it. An undecodable
// body is reported as ErrBadRequest and a failed rule set as *validation.Errors; either way
// the chain is aborted and the next handler never runs. An empty body is validated as the
// zero value of T.
func ValidatePayload[T any](rules validation.RuleSet[T], report ErrorReporter) gin.HandlerFunc {
	if report == nil {
		report = NewErrorReporter(nil)
	}

	return func(c *gin.Context) {
		payload := new(T)
		if err := c.ShouldBindJSON(payload); err != nil && !errors.Is(err, io.EOF) {
			report(c, apperrors.Wrap(apperrors.ErrBadRequest, err.Error()))
			c.Abort()
			return
		}

		if verr := validation.Run(rules, payload); !verr.Empty() {
			report(c, verr)
			c.Abort()
			return
		}

		c.Set(payloadKey, payload)
		c.Next()
	}
}

// Payload returns the body stored by ValidatePayload.
func Payload[T any](c *gin.Context) (*T, error) {
	value, exists := c.Get(payloadKey)
	if !exists {
		return nil, apperrors.Wrap(apperrors.ErrBadRequest, "request payload not validated")
	}

	payload, ok := value.(*T)
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrBadRequest, "unexpected request payload type")
	}

	return payload, nil
}
