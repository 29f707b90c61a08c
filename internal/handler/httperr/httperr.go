package httperr

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fastpick/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// RetryAfter is advertised to clients that lost the race for a coupon lock.
const RetryAfter = time.Second

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Kind    string `json:"kind,omitempty"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errors.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	abort(c, err, resp)
}

// AbortWithDomainError answers with the status registered for err's kind.
// Errors without a kind become 500 and their message is not leaked.
func AbortWithDomainError(c *gin.Context, err error) {
	var de *errs.DomainError
	if !errors.As(err, &de) {
		AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	resp := Response{Status: StatusOf(de.Kind())}
	resp.Error.Message = de.Error()
	resp.Error.Kind = de.Kind().String()
	resp.Error.Code = de.Code()

	if de.Retryable() {
		c.Header("Retry-After", strconv.Itoa(int(RetryAfter/time.Second)))
	}
	abort(c, err, resp)
}

func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindCouponNotFound, errs.KindIssuedCouponNotFound:
		return http.StatusNotFound
	case errs.KindCouponDisabled, errs.KindCouponNotAvailablePeriod, errs.KindCouponExhausted:
		return http.StatusUnprocessableEntity
	case errs.KindAlreadyIssued, errs.KindAlreadyUsed:
		return http.StatusConflict
	case errs.KindLockTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error, resp Response) {
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}
