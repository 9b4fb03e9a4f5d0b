// Command hoopsim runs a headless match. Without a relay it plays bot
// against bot; with SIM_RELAY_URL set it joins a room and streams the home
// bot's state, optionally against a remote peer.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Peter211231231231232131/basketbgallgame/internal/config"
	"github.com/Peter211231231231232131/basketbgallgame/internal/court"
	"github.com/Peter211231231231232131/basketbgallgame/internal/game"
	"github.com/Peter211231231231232131/basketbgallgame/internal/logger"
	"github.com/Peter211231231231232131/basketbgallgame/internal/models"
	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
	"github.com/Peter211231231231232131/basketbgallgame/internal/relayclient"
	"github.com/Peter211231231231232131/basketbgallgame/internal/sim"
)

func main() {
	var (
		room       = flag.String("room", "", "room to join; a new room is created when empty")
		passphrase = flag.String("passphrase", "", "room passphrase")
		name       = flag.String("name", "hoopsim", "display name")
		peer       = flag.String("peer", "", "actor id of a remote opponent; a bot plays when empty")
		realtime   = flag.Bool("realtime", true, "pace ticks on the wall clock")
	)
	flag.Parse()

	cfg := config.Load()
	simCfg := config.LoadSim()

	log, err := logger.Init(cfg.LogLevel, cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		room:       *room,
		passphrase: *passphrase,
		name:       *name,
		peer:       *peer,
		realtime:   *realtime,
	}
	if err := run(ctx, cfg, simCfg, opts, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("hoopsim failed", zap.Error(err))
	}
}

type options struct {
	room, passphrase, name, peer string
	realtime                     bool
}

func run(ctx context.Context, cfg *config.Config, simCfg *config.SimConfig, opts options, log *zap.Logger) error {
	c, err := court.Load(cfg.CourtFile)
	if err != nil {
		return err
	}

	var (
		api     *relayclient.API
		session relayclient.Session
		client  *relayclient.Client
	)
	localID := physics.ActorID(uuid.NewString())
	if simCfg.RelayURL != "" {
		api = relayclient.NewAPI(simCfg.RelayURL)
		if opts.room == "" {
			if opts.room, err = api.CreateRoom(ctx, opts.passphrase); err != nil {
				return err
			}
			log.Info("created room", zap.String("room", opts.room))
		}
		if session, err = api.Join(ctx, opts.room, opts.name, opts.passphrase); err != nil {
			return err
		}
		url, err := api.SocketURL(session)
		if err != nil {
			return err
		}
		if client, err = relayclient.Dial(ctx, url, log); err != nil {
			return err
		}
		localID = physics.ActorID(session.ActorID)
	}

	m := game.NewMatch(c, game.Options{
		ID:         matchID(session),
		ScoreLimit: simCfg.ScoreLimit,
		Seed:       simCfg.Seed,
		Logger:     log.Named("match"),
	})
	if _, err := m.AddPlayer(localID, opts.name, game.TeamHome, game.KindBot); err != nil {
		return err
	}
	if opts.peer != "" {
		_, err = m.AddPlayer(physics.ActorID(opts.peer), "peer", game.TeamAway, game.KindRemote)
	} else {
		_, err = m.AddPlayer(physics.ActorID(uuid.NewString()), "bot", game.TeamAway, game.KindBot)
	}
	if err != nil {
		return err
	}

	runner := &sim.Runner{
		Match:          m,
		TickHz:         simCfg.TickHz,
		BroadcastEvery: simCfg.BroadcastEvery,
		MaxDuration:    simCfg.MaxDuration,
		Realtime:       opts.realtime,
		Log:            log.Named("sim"),
	}
	if client != nil {
		runner.Local = localID
		runner.Publisher = client
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()
	if client != nil {
		g.Go(func() error { return client.Run(runCtx, m) })
	}

	var sum sim.Summary
	g.Go(func() error {
		defer cancel()
		var err error
		sum, err = runner.Run(runCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("final score",
		zap.Int("home", sum.Home), zap.Int("away", sum.Away),
		zap.String("winner", string(sum.Winner)),
		zap.Duration("elapsed", sum.Elapsed), zap.Bool("completed", sum.Completed))

	if api == nil {
		return nil
	}
	saved, err := api.SubmitResult(ctx, session, models.MatchResult{
		RoomID:     session.RoomID,
		HomeScore:  sum.Home,
		AwayScore:  sum.Away,
		Winner:     string(sum.Winner),
		DurationMS: sum.Elapsed.Milliseconds(),
	})
	if err != nil {
		return err
	}
	log.Info("result recorded", zap.String("id", saved.ID))
	return nil
}

func matchID(s relayclient.Session) string {
	if s.RoomID != "" {
		return s.RoomID
	}
	return "local"
}
