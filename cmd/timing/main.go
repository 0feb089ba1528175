package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hazel/mudae-tracker-go/internal/constants"
	"github.com/hazel/mudae-tracker-go/internal/timing"
)

// run parses args and writes the packed cooldown integer to out. Split from
// main so the flag handling is testable.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("timing", flag.ContinueOnError)
	fs.SetOutput(out)

	rollPeriod := fs.Int64("roll-period", int64(constants.TimingConfig.DefaultRollPeriod), "minutes between roll resets")
	claimPeriod := fs.Int64("claim-period", int64(constants.TimingConfig.DefaultClaimPeriod), "minutes between claim resets")
	rollRemaining := fs.Int64("roll-remaining", -1, "time left until the next roll reset (required)")
	claimRemaining := fs.Int64("claim-remaining", -1, "time left until the next claim reset (required)")
	inSeconds := fs.Bool("seconds", false, "interpret remaining values as seconds instead of minutes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *rollRemaining < 0 {
		return fmt.Errorf("-roll-remaining is required")
	}
	if *claimRemaining < 0 {
		return fmt.Errorf("-claim-remaining is required")
	}

	packed := timing.Encode(*rollPeriod, *claimPeriod, *rollRemaining, *claimRemaining, *inSeconds)
	fmt.Fprintf(out, "%d\n", packed)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "timing: %v\n", err)
		os.Exit(1)
	}
}
