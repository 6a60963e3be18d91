// generate produces a labeled synthetic trip corpus for model training.
// One JSON file is written per trip; an optional feature scaler is fitted
// over the whole corpus and saved alongside it.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/config"
	"github.com/NiranjanKaithota/InsurTech/internal/sim"
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

var (
	outDir     = flag.String("out", "trips", "Output directory for trip JSON files")
	count      = flag.Int("count", 50, "Trips to generate per driver style")
	seed       = flag.Int64("seed", 1, "Base random seed; trip i uses seed+i")
	workers    = flag.Int("workers", runtime.NumCPU(), "Parallel simulation workers")
	tuningPath = flag.String("tuning", "", "Optional tuning config JSON")
	scalerPath = flag.String("scaler", "", "Fit a min-max scaler over the corpus and save it here")
)

type job struct {
	index   int
	tripID  string
	profile sim.DriverProfile
}

type result struct {
	tr  *trip.Trip
	err error
}

func main() {
	flag.Parse()

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	registry := sim.NewProfileRegistry()
	if pf := tuning.GetProfileFile(); pf != "" {
		if err := registry.LoadFile(pf); err != nil {
			log.Fatalf("failed to load driver profiles: %v", err)
		}
	}

	minSeg, maxSeg := tuning.GetZoneRange()
	planner, err := sim.NewZonePlanner(sim.DefaultZoneCatalog(), minSeg, maxSeg)
	if err != nil {
		log.Fatalf("failed to build zone planner: %v", err)
	}
	simulator := sim.NewTripSimulator(sim.DefaultVehicle(), planner)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	var jobs []job
	for _, style := range registry.Styles() {
		profile, err := registry.Get(style)
		if err != nil {
			log.Fatalf("failed to resolve profile %q: %v", style, err)
		}
		for i := 0; i < *count; i++ {
			jobs = append(jobs, job{
				index:   len(jobs),
				tripID:  fmt.Sprintf("%s_%d", style, i),
				profile: profile,
			})
		}
	}

	duration := tuning.GetTripDuration()
	tick := tuning.GetTickInterval()

	jobCh := make(chan job)
	resultCh := make(chan result, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				// Per-trip seeding keeps the corpus reproducible no matter
				// how jobs land on workers.
				rng := rand.New(rand.NewSource(*seed + int64(j.index)))
				tr, err := simulator.Simulate(j.tripID, j.profile, duration, tick, rng)
				if err != nil {
					resultCh <- result{err: fmt.Errorf("simulate %s: %w", j.tripID, err)}
					continue
				}
				path := filepath.Join(*outDir, tr.ID+".json")
				if err := trip.WriteFile(path, tr); err != nil {
					resultCh <- result{err: fmt.Errorf("write %s: %w", path, err)}
					continue
				}
				resultCh <- result{tr: tr}
			}
		}()
	}

	go func() {
		for _, j := range jobs {
			jobCh <- j
		}
		close(jobCh)
		wg.Wait()
		close(resultCh)
	}()

	var trips []*trip.Trip
	for res := range resultCh {
		if res.err != nil {
			log.Fatalf("corpus generation failed: %v", res.err)
		}
		trips = append(trips, res.tr)
	}

	logCorpusSummary(trips)

	if *scalerPath != "" {
		matrices := make([][][]float64, 0, len(trips))
		for _, tr := range trips {
			matrix, err := analysis.Vectorize(tr.Sequence, tuning.GetTimesteps())
			if err != nil {
				log.Fatalf("failed to vectorize %s: %v", tr.ID, err)
			}
			matrices = append(matrices, matrix)
		}
		scaler, err := analysis.FitScaler(matrices)
		if err != nil {
			log.Fatalf("failed to fit scaler: %v", err)
		}
		if err := scaler.SaveFile(*scalerPath); err != nil {
			log.Fatalf("failed to save scaler: %v", err)
		}
		log.Printf("fitted scaler over %d trips -> %s", len(matrices), *scalerPath)
	}

	log.Printf("wrote %d trips to %s", len(trips), *outDir)
}

// logCorpusSummary prints per-style speed statistics so a skewed corpus is
// visible before any training run consumes it.
func logCorpusSummary(trips []*trip.Trip) {
	speeds := make(map[string][]float64)
	speedingTicks := make(map[string]int)
	totalTicks := make(map[string]int)
	for _, tr := range trips {
		for _, p := range tr.Sequence {
			speeds[tr.Style] = append(speeds[tr.Style], p.Speed)
			totalTicks[tr.Style]++
			if p.IsSpeeding == 1 {
				speedingTicks[tr.Style]++
			}
		}
	}
	for style, vals := range speeds {
		mean, std := stat.MeanStdDev(vals, nil)
		frac := float64(speedingTicks[style]) / float64(totalTicks[style])
		log.Printf("style %-12s mean=%.1f km/h stddev=%.1f speeding=%.1f%%",
			style, mean, std, frac*100)
	}
}
