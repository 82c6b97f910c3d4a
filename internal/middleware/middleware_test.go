package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/distr-sh/recoverd/internal/middleware"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func TestLoggerCtxMiddleware(t *testing.T) {
	g := NewWithT(t)

	var requestID, ipAddress string
	handler := chimiddleware.RequestID(
		chimiddleware.RealIP(
			middleware.LoggerCtxMiddleware(zap.NewNop())(
				middleware.LoggingMiddleware(
					http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						requestID = internalctx.GetRequestID(r.Context())
						ipAddress = internalctx.GetRequestIPAddress(r.Context())
						w.WriteHeader(http.StatusTeapot)
					}),
				),
			),
		),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	g.Expect(rec.Code).To(Equal(http.StatusTeapot))
	g.Expect(requestID).NotTo(BeEmpty())
	g.Expect(ipAddress).To(Equal("198.51.100.7"))
}
