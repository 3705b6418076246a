package main

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/MixinNetwork/amm.one/cache"
	"github.com/MixinNetwork/amm.one/config"
	"github.com/MixinNetwork/amm.one/durable"
	"github.com/MixinNetwork/amm.one/middlewares"
	"github.com/MixinNetwork/amm.one/persistence"
	"github.com/MixinNetwork/amm.one/session"
	"github.com/MixinNetwork/amm.one/views"
	"github.com/bugsnag/bugsnag-go"
	"github.com/dimfeld/httptreemux"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/unrolled/render"
)

type RequestHandler struct {
	hub      *cache.Hub
	persist  persistence.Persist
	upgrader *websocket.Upgrader
	router   *httptreemux.TreeMux
}

func (handler *RequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer bugsnag.Recover(r, bugsnag.ErrorClass{Name: "http.ServeHTTP"})

	if r.URL.Path == "/_hc" {
		views.RenderBlankResponse(w, r)
		return
	}

	if r.URL.Path != "/" {
		handler.router.ServeHTTP(w, r)
		return
	}

	if strings.ToLower(r.Header.Get("Upgrade")) != "websocket" {
		cp, err := persistence.ReadPropertyAsTime(r.Context(), handler.persist, persistence.CheckpointQuoteRefresh)
		if err != nil {
			views.RenderErrorResponse(w, r, session.ServerError(r.Context(), err))
			return
		}
		views.RenderDataResponse(w, r, map[string]interface{}{
			"build":      config.BuildVersion + "-" + runtime.Version(),
			"developers": "https://github.com/MixinNetwork/amm.one",
			"checkpoint": cp,
		})
		return
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	handler.hub.Serve(r.Context(), conn)
}

func NewHandler(ctx context.Context, sim *Simulator, hub *cache.Hub, persist persistence.Persist, limiter *durable.Limiter, logger *durable.LoggerClient) http.Handler {
	rh := &RequestHandler{
		hub:     hub,
		persist: persist,
		upgrader: &websocket.Upgrader{
			HandshakeTimeout: 60 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			CheckOrigin:      func(r *http.Request) bool { return true },
			Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
				views.RenderErrorResponse(w, r, session.BadRequestError(r.Context()))
			},
		},
		router: NewRouter(sim, persist, MarketQuotes),
	}
	handler := middlewares.Limit(rh)
	handler = middlewares.Constraint(handler)
	handler = middlewares.Context(handler, ctx, limiter, render.New(render.Options{UnEscapeHTML: true}))
	handler = middlewares.Stats(handler, "http", config.HTTPLogRequestBody, config.BuildVersion)
	handler = middlewares.Log(handler, logger, "http")
	handler = handlers.ProxyHeaders(handler)
	return bugsnag.Handler(handler)
}

func StartHTTP(ctx context.Context, sim *Simulator, persist persistence.Persist, limiter *durable.Limiter, port int) error {
	logger, err := durable.NewLoggerClient(config.GoogleCloudProject, config.Environment != "production")
	if err != nil {
		return err
	}
	defer logger.Close()

	hub := cache.NewHub()
	go hub.Run(ctx)

	handler := NewHandler(ctx, sim, hub, persist, limiter, logger)
	return gracehttp.Serve(&http.Server{Addr: fmt.Sprintf(":%d", port), Handler: handler})
}
