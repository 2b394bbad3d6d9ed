// student-cli is a terminal view over the front-end API.
//
//	go run ./cmd/student-cli --api=http://localhost:5173 list
//	go run ./cmd/student-cli show RA42
//	go run ./cmd/student-cli sgpa RA42
//	go run ./cmd/student-cli fetch
//
// Every state change of the session is re-rendered to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/aanand-mishra/student-frontend/internal/store"
	"github.com/aanand-mishra/student-frontend/internal/ui"
)

func main() {
	apiURL := flag.String("api", "http://localhost:5173", "Base URL of the student front-end")
	timeout := flag.Duration("timeout", 0, "HTTP timeout (0 = none)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, *apiURL, *timeout, flag.Args()); err != nil {
		log.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, apiURL string, timeout time.Duration, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: student-cli [flags] list | show <register_no> | sgpa <register_no> | fetch")
	}

	st := store.New()
	session := ui.NewSession(st, ui.NewAPIClient(apiURL, timeout))

	switch args[0] {
	case "list":
		// Skip the initial empty snapshot; render once the load settles.
		started := false
		unsubscribe := st.Subscribe(func(s store.State) {
			if s.Loading {
				started = true
				return
			}
			if started {
				_ = ui.Render(os.Stdout, s)
			}
		})
		defer unsubscribe()
		return session.Load(ctx)

	case "show":
		if len(args) < 2 {
			return errors.New("show needs a register number")
		}
		if err := session.Load(ctx); err != nil {
			return err
		}
		if err := session.Select(args[1]); err != nil {
			return err
		}
		return ui.Render(os.Stdout, st.Snapshot())

	case "sgpa":
		if len(args) < 2 {
			return errors.New("sgpa needs a register number")
		}
		points, err := session.SGPAProgression(ctx, args[1])
		if err != nil {
			return err
		}
		return ui.RenderSGPA(os.Stdout, points)

	case "fetch":
		result, err := session.RunFetcher(ctx)
		if err != nil {
			return err
		}
		if !result.Success {
			return errors.New(result.Error)
		}
		fmt.Fprintln(os.Stdout, result.Output)
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
