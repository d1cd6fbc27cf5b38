package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	sonic "github.com/bytedance/sonic"

	"github.com/yfantasy-go/yfantasy/external/yahoo"
	"github.com/yfantasy-go/yfantasy/internal/config"
	"github.com/yfantasy-go/yfantasy/internal/league"
	"github.com/yfantasy-go/yfantasy/internal/observability"
	"github.com/yfantasy-go/yfantasy/internal/platform/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logging.LevelInfo
	if err := level.Set(cfg.LogLevel); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger := logging.NewJSON(level).With("service", cfg.ServiceName)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitUptrace(ctx, cfg, logger)
	defer shutdownTracing(context.Background())
	stopProfiler := observability.InitPyroscope(cfg, logger)
	defer stopProfiler()

	client := yahoo.NewClient(yahoo.ClientConfig{
		BaseURL:        cfg.YahooBaseURL,
		AccessToken:    cfg.YahooAccessToken,
		Timeout:        cfg.YahooTimeout,
		MaxRetries:     cfg.YahooMaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.CircuitBreaker,
	})
	lg := league.New(client, cfg.LeagueID, logger)

	command := "standings"
	args := os.Args[1:]
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	result, err := dispatch(ctx, lg, cfg.GameCode, command, args)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func dispatch(ctx context.Context, lg *league.League, gameCode, command string, args []string) (any, error) {
	switch command {
	case "standings":
		return lg.Standings(ctx)
	case "teams":
		return lg.Teams(ctx)
	case "settings":
		return lg.Settings(ctx)
	case "stat-categories":
		return lg.StatCategories(ctx)
	case "positions":
		return lg.Positions(ctx)
	case "free-agents":
		if len(args) < 1 {
			return nil, fmt.Errorf("usage: free-agents <position>")
		}
		return lg.FreeAgents(ctx, args[0])
	case "waivers":
		return lg.Waivers(ctx)
	case "taken":
		return lg.TakenPlayers(ctx)
	case "draft":
		return lg.DraftResults(ctx)
	case "transactions":
		types := "add,drop,trade"
		if len(args) > 0 {
			types = args[0]
		}
		return lg.Transactions(ctx, types, "")
	case "matchups":
		week, err := weekArg(args)
		if err != nil {
			return nil, err
		}
		return lg.Matchups(ctx, week)
	case "week-range":
		week, err := weekArg(args)
		if err != nil {
			return nil, err
		}
		return lg.WeekDateRange(ctx, week)
	case "current-week":
		return lg.CurrentWeek(ctx)
	case "team-key":
		return lg.TeamKey(ctx)
	case "player":
		if len(args) < 1 {
			return nil, fmt.Errorf("usage: player <name>")
		}
		return lg.Players(gameCode).MatchByName(ctx, args[0])
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

func weekArg(args []string) (int, error) {
	if len(args) < 1 {
		return 0, nil
	}
	week, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("parse week %q: %w", args[0], err)
	}
	return week, nil
}

func printJSON(value any) error {
	out, err := sonic.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
