package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MixinNetwork/amm.one/durable"
	"github.com/MixinNetwork/amm.one/session"
	"github.com/MixinNetwork/amm.one/views"
	"github.com/bugsnag/bugsnag-go"
)

var (
	generalRules = []durable.Rule{{Window: 5 * time.Second, Max: 500}, {Window: time.Hour, Max: 50000}}
	writeRules   = []durable.Rule{{Window: time.Minute, Max: 120}}
)

func checkLimiter(r *http.Request) error {
	limiter := session.Limiter(r.Context())
	if limiter == nil {
		return nil
	}
	remoteAddr := session.RemoteAddress(r.Context())
	if strings.TrimSpace(remoteAddr) == "" {
		return errors.New("rate limit without valid IP address")
	}

	if ok, err := limiter.Allow("general:ip:"+remoteAddr, generalRules...); err != nil {
		bugsnag.Notify(err, r)
	} else if !ok {
		return errors.New("general rate limit error")
	}
	if r.Method != "POST" {
		return nil
	}
	if ok, err := limiter.Allow("write:ip:"+remoteAddr, writeRules...); err != nil {
		bugsnag.Notify(err, r)
	} else if !ok {
		return errors.New("write rate limit error")
	}
	return nil
}

func Limit(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/_hc" {
			handler.ServeHTTP(w, r)
			return
		}
		if err := checkLimiter(r); err != nil {
			views.RenderErrorResponse(w, r, session.TooManyRequestsError(r.Context()))
			return
		}
		handler.ServeHTTP(w, r)
	})
}
