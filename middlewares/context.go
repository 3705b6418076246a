package middlewares

import (
	"context"
	"net/http"

	"github.com/MixinNetwork/amm.one/cache"
	"github.com/MixinNetwork/amm.one/durable"
	"github.com/MixinNetwork/amm.one/session"
	"github.com/unrolled/render"
)

// Context carries the process wide redis client of src and the request
// scoped helpers into every request context.
func Context(handler http.Handler, src context.Context, limiter *durable.Limiter, render *render.Render) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := session.WithRequest(r.Context(), r)
		ctx = cache.SetupRedis(ctx, cache.Redis(src))
		ctx = session.WithLimiter(ctx, limiter)
		ctx = session.WithRender(ctx, render)
		handler.ServeHTTP(w, r.WithContext(ctx))
	})
}
