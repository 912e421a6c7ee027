package utils

import (
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// GetRequestID returns the ID set by the echo RequestID middleware on the response.
func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// GetTraceID returns the sentry trace of the request or an empty string when tracing is off.
func GetTraceID(c echo.Context) string {
	if span := sentryecho.GetSpanFromContext(c); span != nil {
		return span.TraceID.String()
	}
	return ""
}

// RequestAttrs are the slog attributes that tie a log line to the request being served.
func RequestAttrs(c echo.Context) []any {
	attrs := []any{"requestID", GetRequestID(c)}
	if traceID := GetTraceID(c); traceID != "" {
		attrs = append(attrs, "traceID", traceID)
	}
	return attrs
}
