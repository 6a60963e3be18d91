// ubi-server hosts the trip store and the scoring pipeline over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/api"
	"github.com/NiranjanKaithota/InsurTech/internal/config"
	"github.com/NiranjanKaithota/InsurTech/internal/db"
	"github.com/NiranjanKaithota/InsurTech/internal/httputil"
	"github.com/NiranjanKaithota/InsurTech/internal/scoring"
	"github.com/NiranjanKaithota/InsurTech/internal/version"
)

var (
	listen     = flag.String("listen", "", "Listen address (overrides UBI_LISTEN)")
	dbPath     = flag.String("db", "", "SQLite database path (overrides UBI_DB_PATH)")
	tuningPath = flag.String("tuning", "", "Optional tuning config JSON")
	seedDemo   = flag.Bool("seed", false, "Seed the demo policy holders on startup")
)

func main() {
	flag.Parse()

	log.Printf("ubi-server %s", version.String())

	env := config.LoadServerEnv()
	if *listen != "" {
		env.Listen = *listen
	}
	if *dbPath != "" {
		env.DBPath = *dbPath
	}

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	database, err := db.NewDB(env.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *seedDemo {
		if err := database.SeedUsers(time.Now()); err != nil {
			log.Fatalf("failed to seed demo users: %v", err)
		}
	}

	explainer, err := analysis.NewEventExplainer(tuning.ExplainerConfig())
	if err != nil {
		log.Fatalf("invalid explainer thresholds: %v", err)
	}

	// A model server is optional. Without one the heuristic scorer keeps
	// the assess endpoint functional; it thresholds raw physical values,
	// so the fitted scaler only applies on the model-server path.
	var scorer scoring.Scorer = scoring.NewHeuristicScorer()
	if env.ModelServerURL != "" {
		var scaler *analysis.MinMaxScaler
		if env.ScalerPath != "" {
			scaler, err = analysis.LoadScaler(env.ScalerPath)
			if err != nil {
				log.Fatalf("failed to load scaler: %v", err)
			}
		}
		scorer = scoring.NewRemoteScorer(env.ModelServerURL,
			httputil.NewStandardClient(&http.Client{Timeout: 10 * time.Second}), scaler)
		log.Printf("scoring against model server at %s", env.ModelServerURL)
	} else if env.ScalerPath != "" {
		log.Printf("UBI_SCALER_PATH set without UBI_MODEL_SERVER_URL; heuristic scorer ignores it")
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(database, scorer, explainer, tuning.GetTimesteps()).ServeMux()

		server := &http.Server{
			Addr:    env.Listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", env.Listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
