package handler

import (
	"net/http"
	"sync"

	"auraestate-backend/bootstrap"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	serve   http.HandlerFunc
	initErr error
)

// Handler is the serverless entry point. The app is built on the first request;
// a configuration error answers 503.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		app, err := bootstrap.New()
		if err != nil {
			initErr = err
			log.Error().Err(err).Msg("app init failed")
			return
		}
		serve = adaptor.FiberApp(app)
	})
	if initErr != nil {
		http.Error(w, `{"error":"Service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	r.RequestURI = r.URL.String()
	serve(w, r)
}
