package cmd

import (
	"context"
	"fmt"
	"github.com/go-playground/validator/v10"
	"log"
	"log/slog"
	"net/http"
	"os"
	inboundCron "ru-ticket/inbound/cron"
	inboundHttp "ru-ticket/inbound/http"
	"ru-ticket/service"
	"runtime/pprof"
	"time"
)

func runHttpServerCmd(ctx context.Context, devMode bool) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("http-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()

		mem, err := os.Create("http-mem.prof")
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer mem.Close()

		err = pprof.WriteHeapProfile(mem)
		if err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}

	shutdownTracing := newOtel(ctx, cfg)
	defer shutdownTracing(context.Background())

	validate := validator.New()

	tickets, closeTickets := newTicketStore(cfg)
	defer closeTickets()

	extrasStore, closeExtras := newExtrasStore(cfg)
	defer closeExtras()

	publisher, closePublisher := newPublisher(ctx, cfg)
	defer closePublisher()

	engine := newEngine(cfg, devMode)
	ticketService := service.NewTicketService(tickets, extrasStore, newPixGenerator(cfg), publisher)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")
		w.WriteHeader(http.StatusOK)
	})

	if dir := cfg.GetString("server.static_dir"); dir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(dir)))
	}

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(20 * time.Second)

	inboundHttp.RegisterTicketHttp(mux, ticketService, validate)
	inboundHttp.RegisterPaymentHttp(mux, ticketService, validate)
	inboundHttp.RegisterRestaurantHttp(mux, engine)

	restaurantCron := &inboundCron.RestaurantCron{
		Cfg:     cfg,
		Engine:  engine,
		TimeNow: time.Now,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           inboundHttp.TracingMiddleware(timeoutMiddleware(inboundHttp.CorsMiddleware(mux))),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started",
		slog.String("addr", srv.Addr),
		slog.String("store", cfg.GetString("store.driver")),
		slog.String("extras", cfg.GetString("extras.driver")),
		slog.Bool("dev_mode", engine.DevMode),
	)

	go func() {
		restaurantCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}
