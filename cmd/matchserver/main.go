package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kyrelis/orbrush/internal/config"
	"github.com/kyrelis/orbrush/internal/data"
	"github.com/kyrelis/orbrush/internal/db"
	"github.com/kyrelis/orbrush/internal/match"
	"github.com/kyrelis/orbrush/internal/model"
	"github.com/kyrelis/orbrush/internal/spawn"
)

const ConfigPath = "config/matchserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("ORBRUSH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadMatchServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("orbrush match server starting",
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate,
		"roster", len(cfg.Roster))

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// Every roster login must exist as an account before the participant
	// lines reference it at persist time.
	logins := cfg.RosterLogins()
	for _, login := range logins {
		if _, err := database.EnsureRosterAccount(ctx, login); err != nil {
			return fmt.Errorf("provisioning account %q: %w", login, err)
		}
	}
	slog.Info("roster accounts provisioned", "count", len(logins))

	catalog, err := data.Load(cfg.HeroDataPath, cfg.AbilityDataPath)
	if err != nil {
		return fmt.Errorf("loading hero catalog: %w", err)
	}
	slog.Info("hero catalog loaded",
		"heroes", catalog.HeroCount(),
		"abilities", catalog.AbilityCount())

	m := match.New(&cfg.Balance, catalog, cfg.TickRate, nil, nil)
	collector := match.NewStatsCollector(m.Hub())
	defer collector.Close()

	// Spawn the roster; the runtime id keyed back to the roster entry is
	// what ties hub stats to account lines at persist time.
	lanes := make(map[uint32]config.RosterEntry, len(cfg.Roster))
	for _, entry := range cfg.Roster {
		hero, err := m.Spawn(spawn.Request{
			HeroID:   entry.HeroID,
			Team:     model.TeamID(entry.Team),
			Level:    entry.Level,
			Position: model.Vec3{X: entry.SpawnX, Y: entry.SpawnY, Z: entry.SpawnZ},
		})
		if err != nil {
			return fmt.Errorf("spawning %s for %s: %w", entry.HeroID, entry.AccountLogin, err)
		}
		lanes[hero.ID()] = entry
		slog.Info("hero spawned",
			"account", entry.AccountLogin,
			"hero", entry.HeroID,
			"id", hero.ID(),
			"team", entry.Team)
	}

	startedAt := time.Now()
	if err := database.InsertMatch(ctx, m.ID(), startedAt); err != nil {
		return fmt.Errorf("recording match start: %w", err)
	}

	matchCtx, endMatch := context.WithTimeout(ctx, time.Duration(cfg.MatchDuration*float64(time.Second)))
	defer endMatch()

	g, gctx := errgroup.WithContext(matchCtx)
	g.Go(func() error {
		slog.Info("starting match loop", "match", m.ID())
		if err := m.Run(gctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("match loop: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// Shutdown or time-up ends the match; persist the outcome with a fresh
	// context so a SIGINT does not lose the result.
	persistCtx, cancelPersist := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPersist()

	if err := persistResult(persistCtx, database, m, collector, lanes, time.Now()); err != nil {
		return err
	}
	logRosterRecords(persistCtx, database, logins)
	return nil
}

// logRosterRecords reports each account's recent match record once this
// match's result is part of it.
func logRosterRecords(ctx context.Context, database *db.DB, logins []string) {
	for _, login := range logins {
		history, err := database.ParticipantHistory(ctx, login, 10)
		if err != nil {
			slog.Warn("loading match history failed", "login", login, "err", err)
			continue
		}
		var kills, deaths, orbs int32
		for _, p := range history {
			kills += p.Kills
			deaths += p.Deaths
			orbs += p.OrbsDeposited
		}
		slog.Info("account record",
			"login", login,
			"matches", len(history),
			"kills", kills,
			"deaths", deaths,
			"orbs", orbs)
	}
}

func persistResult(ctx context.Context, database *db.DB, m *match.Match, collector *match.StatsCollector, lanes map[uint32]config.RosterEntry, endedAt time.Time) error {
	scores := make(map[int16]int32)
	for _, entry := range lanes {
		scores[entry.Team] = m.Scoreboard().Total(model.TeamID(entry.Team))
	}

	var winner int16
	var best int32 = -1
	for team, score := range scores {
		if score > best || (score == best && team < winner) {
			winner, best = team, score
		}
	}

	tallies := make(map[uint32]match.HeroStats)
	for _, s := range collector.Snapshot() {
		tallies[s.HeroID] = s
	}

	participants := make([]db.ParticipantResult, 0, len(lanes))
	for id, entry := range lanes {
		s := tallies[id]
		participants = append(participants, db.ParticipantResult{
			AccountLogin:  entry.AccountLogin,
			HeroID:        entry.HeroID,
			Team:          entry.Team,
			Kills:         s.Kills,
			Deaths:        s.Deaths,
			OrbsDeposited: s.OrbsDeposited,
		})
	}

	if err := database.FinishMatch(ctx, m.ID(), endedAt, winner, scores, participants); err != nil {
		return fmt.Errorf("recording match result: %w", err)
	}
	slog.Info("match result recorded",
		"match", m.ID(),
		"winner", winner,
		"participants", len(participants))
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
