package app

import (
	"context"
	"log"
	"net/http"

	"fleetreport/internal/batch"
	"fleetreport/internal/config"
	"fleetreport/internal/httpapi"
	"fleetreport/internal/metrics"
	"fleetreport/internal/rules"
)

// App wires the reporting components together.
type App struct {
	cfg   config.Config
	rules *rules.Store
	mux   *http.ServeMux
}

func New(cfg config.Config) *App {
	rulesStore := rules.NewStore(cfg.RulesPath)
	m := metrics.New()
	runner := batch.NewRunner(m)
	mux := http.NewServeMux()
	router := httpapi.NewRouter(cfg, rulesStore, runner, m)
	router.Register(mux)
	return &App{cfg: cfg, rules: rulesStore, mux: mux}
}

// Run starts the rules watcher and HTTP server.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.EnableRulesWatcher && a.cfg.RulesPath != "" {
		if err := a.rules.Watch(ctx); err != nil {
			return err
		}
	}
	srv := &http.Server{Addr: ":" + a.cfg.HTTPPort, Handler: a.mux}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	log.Printf("http listening on %s", a.cfg.HTTPPort)
	return srv.ListenAndServe()
}

func (a *App) Mux() *http.ServeMux { return a.mux }
