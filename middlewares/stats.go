package middlewares

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"time"

	"github.com/MixinNetwork/amm.one/session"
	"github.com/MixinNetwork/amm.one/views"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "amm_http_request_duration_seconds",
	Help:    "HTTP request latency by method and status.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "status"})

func Stats(handler http.Handler, service string, logRequestBody bool, buildVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startAt := time.Now()
		logger := session.Logger(r.Context())

		if r.ContentLength > 0 && r.Body != nil {
			p, err := io.ReadAll(r.Body)
			if err != nil {
				views.RenderErrorResponse(w, r, session.BadRequestError(r.Context()))
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewBuffer(p))
			r = r.WithContext(session.WithRequestBody(r.Context(), string(p)))
			if logRequestBody && logger != nil {
				logger.Info(string(p))
			}
		}

		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			handler.ServeHTTP(w, r)
			return
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		for k, v := range rec.Header() {
			w.Header()[k] = v
		}
		spent := time.Since(startAt)
		w.Header().Set("X-Build-Info", buildVersion+"-"+runtime.Version())
		w.Header().Set("X-Request-Id", r.Header.Get("X-Request-Id"))
		w.Header().Set("X-Runtime", fmt.Sprintf("%f", spent.Seconds()))
		w.WriteHeader(rec.Code)
		contentLength, _ := rec.Body.WriteTo(w)
		requestDuration.WithLabelValues(r.Method, fmt.Sprint(rec.Code)).Observe(spent.Seconds())
		if logger != nil {
			logger.FillResponse(rec.Code, contentLength, spent)
			logger.Infof("{%s %s RESPOND %d bytes FINISHED %d IN %f seconds}", r.Method, r.URL, contentLength, rec.Code, spent.Seconds())
		}
	})
}
