// Command simulate plays many seeded attempts with a scripted angler and
// prints catch rates and timings, for checking balance changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/appengine-ltd/reel-it/internal/autoplay"
	"github.com/appengine-ltd/reel-it/internal/catalog"
	"github.com/appengine-ltd/reel-it/internal/config"
	"github.com/appengine-ltd/reel-it/internal/game"
)

func main() {
	var (
		trials     int
		seed       int64
		skill      float64
		lure       string
		location   string
		timePeriod string
		weather    string
		level      int
		tuningFile string
		step       time.Duration
	)

	flag.IntVar(&trials, "trials", 1000, "attempts to play")
	flag.Int64Var(&seed, "seed", 1, "base seed; trial i uses seed+i")
	flag.Float64Var(&skill, "skill", 0.7, "angler skill from 0 (hopeless) to 1 (flawless)")
	flag.StringVar(&lure, "lure", "spinner", "lure type")
	flag.StringVar(&location, "location", "lake", "water area")
	flag.StringVar(&timePeriod, "time", "day", "time period")
	flag.StringVar(&weather, "weather", "clear", "weather")
	flag.IntVar(&level, "level", 1, "player level")
	flag.StringVar(&tuningFile, "tuning", "", "YAML tuning overrides")
	flag.DurationVar(&step, "step", autoplay.DefaultStep, "virtual time between angler decisions")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := config.NewLogger(os.Stderr, "warn", "text")
	if err != nil {
		die(err)
	}
	cat, err := catalog.Default(logger)
	if err != nil {
		die(err)
	}
	lt, err := game.ParseLureType(lure)
	if err != nil {
		die(err)
	}
	tuning := game.DefaultTuning()
	if tuningFile != "" {
		if tuning, err = config.LoadTuning(tuningFile); err != nil {
			die(err)
		}
	}
	cond := game.Conditions{Location: location, TimePeriod: timePeriod, Weather: weather, PlayerLevel: level}
	area, ok := cat.Area(location)
	if !ok {
		die(fmt.Errorf("%w: %q", catalog.ErrUnknownLocation, location))
	}

	start := time.Now()
	sum, err := autoplay.Run(ctx, autoplay.SimConfig{
		Trials:     trials,
		Seed:       seed,
		Skill:      skill,
		Stats:      game.ResolveFromServices(nil, cat.Loadout(lt), cat.Outing(cond), logger),
		Catalog:    cat,
		Area:       area,
		Lure:       lt,
		Conditions: cond,
		Tuning:     tuning,
		Play:       autoplay.PlayOptions{Step: step},
		Logger:     logger,
	})
	if err != nil {
		die(err)
	}
	report(os.Stdout, sum)
	fmt.Printf("ran in %s\n", time.Since(start).Round(time.Millisecond))
}

func report(w io.Writer, sum autoplay.Summary) {
	fmt.Fprintf(w, "trials %d  caught %d  perfect %d  stalled %d  catch rate %.1f%%\n",
		sum.Trials, sum.Caught, sum.Perfect, sum.Stalled, sum.CatchRate*100)

	fmt.Fprintln(w, "\noutcomes")
	for _, k := range sortedKeys(sum.Outcomes) {
		fmt.Fprintf(w, "  %-20s %d\n", k, sum.Outcomes[k])
	}
	if len(sum.FailedIn) > 0 {
		fmt.Fprintln(w, "\nfailed in")
		failed := make(map[string]int, len(sum.FailedIn))
		for p, n := range sum.FailedIn {
			failed[string(p)] = n
		}
		for _, k := range sortedKeys(failed) {
			fmt.Fprintf(w, "  %-20s %d\n", k, failed[k])
		}
	}
	if len(sum.Species) > 0 {
		fmt.Fprintln(w, "\nspecies")
		for _, k := range sortedKeys(sum.Species) {
			fmt.Fprintf(w, "  %-20s %d\n", k, sum.Species[k])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "catch time    %s\n", sum.CatchTime.Seconds())
	fmt.Fprintf(w, "weight kg     mean %.2f sd %.2f p90 %.2f\n", sum.WeightKg.Mean, sum.WeightKg.StdDev, sum.WeightKg.P90)
	fmt.Fprintf(w, "qte failures  mean %.2f p90 %.1f\n", sum.QTEFailures.Mean, sum.QTEFailures.P90)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return strings.Compare(keys[i], keys[j]) < 0
	})
	return keys
}

func die(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
