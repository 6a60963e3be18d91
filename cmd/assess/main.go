// assess runs the scoring pipeline over a single trip JSON file and prints
// the risk report. It mirrors what the server's assess endpoint does, for
// offline use against captured trips.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/config"
	"github.com/NiranjanKaithota/InsurTech/internal/httputil"
	"github.com/NiranjanKaithota/InsurTech/internal/report"
	"github.com/NiranjanKaithota/InsurTech/internal/scoring"
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

var (
	tripPath   = flag.String("trip", "", "Trip JSON file to assess")
	tripDir    = flag.String("dir", "", "Assess the newest trip JSON in this directory")
	modelURL   = flag.String("model", "", "Model server URL; empty uses the heuristic scorer")
	scalerPath = flag.String("scaler", "", "Optional fitted scaler JSON")
	tuningPath = flag.String("tuning", "", "Optional tuning config JSON")
	plotPath   = flag.String("plot", "", "Optional PNG path for the speed profile")
)

func main() {
	flag.Parse()

	path := *tripPath
	if path == "" && *tripDir != "" {
		var err error
		path, err = trip.LatestFile(*tripDir)
		if err != nil {
			log.Fatalf("failed to locate latest trip: %v", err)
		}
		if path == "" {
			log.Fatalf("no trip JSON files in %s", *tripDir)
		}
	}
	if path == "" {
		log.Fatal("either -trip or -dir is required")
	}

	tr, err := trip.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read trip: %v", err)
	}

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	matrix, err := analysis.Vectorize(tr.Sequence, tuning.GetTimesteps())
	if err != nil {
		log.Fatalf("failed to vectorize trip: %v", err)
	}

	// The heuristic scorer thresholds raw m/s² and km/h values; the
	// fitted scaler belongs to the trained model and rides with the
	// remote scorer only.
	var scorer scoring.Scorer = scoring.NewHeuristicScorer()
	if *modelURL != "" {
		var scaler *analysis.MinMaxScaler
		if *scalerPath != "" {
			scaler, err = analysis.LoadScaler(*scalerPath)
			if err != nil {
				log.Fatalf("failed to load scaler: %v", err)
			}
		}
		scorer = scoring.NewRemoteScorer(*modelURL,
			httputil.NewStandardClient(&http.Client{Timeout: 10 * time.Second}), scaler)
	} else if *scalerPath != "" {
		log.Print("-scaler is only used with -model; heuristic scorer ignores it")
	}

	score, err := scorer.Score(matrix)
	if err != nil {
		log.Fatalf("failed to score trip: %v", err)
	}
	verdict, err := analysis.Assess(score)
	if err != nil {
		log.Fatalf("failed to assess score: %v", err)
	}

	explainer, err := analysis.NewEventExplainer(tuning.ExplainerConfig())
	if err != nil {
		log.Fatalf("invalid explainer thresholds: %v", err)
	}
	events := explainer.Explain(tr)

	fmt.Printf("Trip:    %s (%s, %d ticks)\n", tr.ID, tr.Style, len(tr.Sequence))
	fmt.Printf("Score:   %.4f\n", score)
	fmt.Printf("Verdict: %s\n", verdict.Verdict)
	fmt.Printf("Premium: %s\n", verdict.PremiumAction)

	if len(events) == 0 {
		fmt.Println("No risk events detected.")
	} else {
		fmt.Printf("%d risk events:\n", len(events))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tTYPE\tVALUE\tSEVERITY")
		for _, ev := range events {
			fmt.Fprintf(w, "%.0fs\t%s\t%s\t%s\n", ev.Time, ev.Type, ev.Value, ev.Severity)
		}
		w.Flush()

		for eventType, n := range analysis.Summary(events) {
			fmt.Printf("  %s: %d\n", eventType, n)
		}
	}

	if *plotPath != "" {
		if err := report.SpeedProfilePNG(tr, events, *plotPath); err != nil {
			log.Fatalf("failed to write plot: %v", err)
		}
		fmt.Printf("Speed profile written to %s\n", *plotPath)
	}
}
