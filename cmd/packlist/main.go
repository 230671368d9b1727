// Command packlist uploads trip photos and videos to a packlist server and
// prints the returned packing checklist.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/packlist/internal/client"
	"github.com/okian/packlist/internal/domain/checklist"
	"github.com/okian/packlist/internal/domain/model"
	"github.com/okian/packlist/pkg/logger"
)

const (
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	outputFileMode = 0o644
)

// options holds parsed command-line flags.
type options struct {
	baseURL     string
	destination string
	startDate   string
	endDate     string
	notes       *string
	output      string
	interactive bool
	repeat      int
	workers     int
	timeout     time.Duration
	verbose     bool
	files       []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		client.Fail(os.Stderr, err.Error())
		os.Exit(2)
	}

	if err := run(ctx, opts, os.Stdout); err != nil {
		client.Fail(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("packlist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.baseURL, "url", client.DefaultBaseURL, "Base URL of the packlist server")
	fs.StringVar(&o.destination, "destination", "", "Trip destination (required)")
	fs.StringVar(&o.startDate, "start", "", "Trip start date (required)")
	fs.StringVar(&o.endDate, "end", "", "Trip end date (required)")
	fs.Func("notes", "Optional trip notes", func(s string) error {
		o.notes = &s
		return nil
	})
	fs.StringVar(&o.output, "o", "", "Write the checklist as plain text to this file")
	fs.BoolVar(&o.interactive, "interactive", false, "Tick items off in an interactive list")
	fs.IntVar(&o.repeat, "repeat", 0, "Send the trip N times and check every answer is identical")
	fs.IntVar(&o.workers, "workers", runtime.NumCPU()*defaultWorkers, "Concurrent senders for -repeat")
	fs.DurationVar(&o.timeout, "timeout", client.DefaultTimeout, "HTTP request timeout")
	fs.BoolVar(&o.verbose, "verbose", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: packlist -destination D -start S -end E [options] FILE...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.files = fs.Args()

	var missing []string
	if o.destination == "" {
		missing = append(missing, "-destination")
	}
	if o.startDate == "" {
		missing = append(missing, "-start")
	}
	if o.endDate == "" {
		missing = append(missing, "-end")
	}
	if len(o.files) == 0 {
		missing = append(missing, "FILE")
	}
	if len(missing) > 0 {
		return o, fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return o, nil
}

func run(ctx context.Context, o options, stdout io.Writer) error {
	if err := logger.InitWith(os.Stderr, logger.FormatText); err != nil {
		return err
	}
	if o.verbose {
		_ = logger.SetLevelString("debug")
	} else {
		_ = logger.SetLevelString("warn")
	}

	c := client.New(o.baseURL, client.WithTimeout(o.timeout))
	trip := client.Trip{
		Destination: o.destination,
		StartDate:   o.startDate,
		EndDate:     o.endDate,
		Notes:       o.notes,
	}
	for _, path := range o.files {
		trip.Files = append(trip.Files, client.FromPath(path))
	}

	if o.repeat > 0 {
		report, err := c.Repeat(ctx, trip, client.RepeatConfig{Requests: o.repeat, Workers: o.workers})
		if err != nil {
			return err
		}
		client.OK(stdout, fmt.Sprintf("%d/%d identical answers in %s", report.Succeeded, report.Requests, report.Duration.Round(time.Millisecond)))
		return nil
	}

	logger.Get().Debug(ctx, "uploading trip", logger.Int("files", len(trip.Files)), logger.String("url", o.baseURL))
	resp, err := c.Generate(ctx, trip)
	if err != nil {
		return err
	}

	packed := client.Packed{}
	if o.interactive {
		if packed, err = client.RunInteractive(resp, packed); err != nil {
			return err
		}
	}
	if err := client.Render(stdout, resp, packed); err != nil {
		return err
	}

	if o.output != "" {
		if err := writeText(o.output, resp); err != nil {
			return err
		}
		client.OK(stdout, "saved "+o.output)
	}
	return nil
}

// writeText exports the checklist in the plain-text download format.
func writeText(path string, resp *model.ChecklistResponse) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFileMode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	h := checklist.Header{Destination: resp.Destination, StartDate: resp.StartDate, EndDate: resp.EndDate}
	if err := checklist.RenderText(f, h, resp.Checklist); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
