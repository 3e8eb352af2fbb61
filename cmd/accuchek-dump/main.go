// Command accuchek-dump is the minimal CLI wrapper around pkg/session:
// it resolves the ACCUCHEK_DBG trace flag from the environment (§6, §9 —
// the core itself never reads this; only this external layer does),
// wires up a transport, and prints the downloaded readings one per line.
//
// Device enumeration, the vendor/product whitelist, SQLite persistence,
// and the PDF/JSON exporters are explicitly out of the core's scope
// (§1); this command only demonstrates the core's contract by replaying
// a scripted demo session when run with -demo, since a real libusb/
// gousb binding is an external-layer concern this repository does not
// vendor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"accuchek/phd-go/internal/logger"
	"accuchek/phd-go/pkg/measurement"
	"accuchek/phd-go/pkg/session"
	"accuchek/phd-go/pkg/transport/mocktransport"
)

func main() {
	demo := flag.Bool("demo", false, "replay the built-in single-reading demo session instead of a real device")
	verbose := flag.Bool("v", false, "enable verbose (debug-level) logging")
	flag.Parse()

	trace := os.Getenv("ACCUCHEK_DBG") != ""

	level := logger.LevelInfo
	if *verbose {
		level = logger.LevelDebug
	}
	log := logger.NewDefaultLogger(level)

	if !*demo {
		fmt.Fprintln(os.Stderr, "accuchek-dump: no device enumeration layer is wired into this binary; rerun with -demo")
		os.Exit(2)
	}

	cfg := session.DefaultConfig()
	cfg.Trace = trace
	cfg.TraceWriter = os.Stderr

	sess := session.New(cfg, log)

	ep := demoEndpoints()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	readings, err := sess.Download(ctx, ep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "accuchek-dump: download failed: %v\n", err)
		os.Exit(1)
	}

	for _, r := range readings {
		printReading(r)
	}
}

func printReading(r measurement.Reading) {
	t := time.Unix(r.Epoch, 0).UTC()
	fmt.Printf("#%d\t%s\t%d mg/dL\t%.2f mmol/L\n", r.SequenceIndex, t.Format(time.RFC3339), r.MgDl, r.MmolL)
}

// demoEndpoints builds the §8 scenario-1 happy-path script: a single
// 95 mg/dL reading from one segment of one PM-Store.
func demoEndpoints() *mocktransport.Endpoints {
	return mocktransport.New(demoScript())
}
