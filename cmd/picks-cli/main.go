package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"safepicks/internal/config"
	"safepicks/internal/util"
	"safepicks/internal/view"
	"safepicks/pkg/picks"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: picks-cli <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  version           Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "  picks [DATE]      Show picks for DATE (YYYY-MM-DD, default today)\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("picks-cli %s\n", version)

	case "picks":
		day := ""
		if len(os.Args) > 2 {
			day = os.Args[2]
		}
		if err := showPicks(day); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}
}

func showPicks(day string) error {
	cfg, err := config.LoadOrDefault(os.Getenv("SAFEPICKS_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cal, err := util.LoadGameCalendar(cfg.Display.Timezone)
	if err != nil {
		return err
	}

	ctrl := view.NewController(cal, time.Now())
	if day == "" {
		day = ctrl.SelectedDate()
	}
	if !util.ValidDate(day) {
		return fmt.Errorf("invalid date %q, want %s", day, util.DateLayout)
	}

	client := picks.NewClient(cfg.API.BaseURL,
		picks.WithTimeout(cfg.API.Timeout()),
		picks.WithLogger(util.NewLogger(cfg.Logging.Level, "text", os.Stderr)),
	)

	req := ctrl.SelectDate(day)
	data, err := client.FetchPicks(context.Background(), req.Date)
	if err != nil {
		ctrl.Failed(req.Generation, err.Error())
	} else {
		ctrl.Succeeded(req.Generation, data)
	}

	d := view.Project(ctrl.State())
	fmt.Printf("Top picks for %s\n\n", d.Date)
	switch d.Kind {
	case view.KindError:
		return fmt.Errorf("%s", d.Message)
	case view.KindEmpty:
		fmt.Println(d.Message)
	default:
		fmt.Printf("%-40s %-22s %8s  %s\n", "Matchup", "Pick", "Win Prob", "Conf")
		for _, r := range d.Rows {
			fmt.Printf("%-40s %-22s %8s  %s\n", r.Matchup, r.Pick, r.WinProb, r.Badge.Label())
		}
	}
	return nil
}
