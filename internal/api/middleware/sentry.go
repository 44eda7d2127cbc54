package middleware

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Sentry 捕获 panic 并上报 5xx 请求
// panic 在上报后重新抛出，交给 gin.Recovery 返回 500
func Sentry() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})
}

// ReportServerErrors 5xx 响应时将 c.Errors 上报 Sentry（未初始化 Sentry 时无操作）
func ReportServerErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 500 {
			return
		}
		hub := sentrygin.GetHubFromContext(c)
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("route", c.FullPath())
			scope.SetTag("request_id", c.GetString(requestIDKey))
			if len(c.Errors) > 0 {
				hub.CaptureException(c.Errors.Last().Err)
				return
			}
			hub.CaptureMessage(fmt.Sprintf("%s %s -> %d", c.Request.Method, c.FullPath(), c.Writer.Status()))
		})
	}
}
