package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/paologalligit/cinema-seeder/config"
	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/genrooms"
	"github.com/paologalligit/cinema-seeder/genshowtimes"
	"github.com/paologalligit/cinema-seeder/logger"
	"github.com/paologalligit/cinema-seeder/persistence"
	"github.com/paologalligit/cinema-seeder/scheduler"
	"github.com/paologalligit/cinema-seeder/seatindex"
	"github.com/paologalligit/cinema-seeder/utils"
	"golang.org/x/sync/errgroup"
)

const (
	MODE_ROOMS     = "rooms"
	MODE_SHOWTIMES = "showtimes"
	MODE_ALL       = "all"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Parse command line flags, env values are the defaults
	mode := flag.String("mode", MODE_ALL, "What to generate: rooms, showtimes or all")
	days := flag.Int("days", cfg.Generation.Days, "Number of days of showtimes to generate")
	seed := flag.Int64("seed", cfg.Generation.Seed, "Random seed, 0 picks a time based one")
	flag.Parse()

	log := logger.New(cfg.Log.Level, cfg.Log.Encoding).With("runId", uuid.New().String())
	defer log.Sync()

	if *mode != MODE_ROOMS && *mode != MODE_SHOWTIMES && *mode != MODE_ALL {
		log.Fatal("unknown mode", "mode", *mode)
	}
	cfg.Generation.Days = *days
	cfg.Generation.Seed = *seed
	if cfg.Generation.Seed == 0 {
		cfg.Generation.Seed = time.Now().UnixNano()
	}
	log.Info("Configuration",
		"mode", *mode,
		"days", cfg.Generation.Days,
		"seed", cfg.Generation.Seed,
		"sink", cfg.Sink.Type,
		"batchSize", cfg.Sink.BatchSize,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *mode, log); err != nil {
		log.Fatal("❌ Generation failed", "error", err)
	}
	log.Info("🏁 Done!")
}

type inputs struct {
	cinemas []entities.CinemaEntry
	movies  []entities.Movie
}

func run(ctx context.Context, cfg *config.Config, mode string, log logger.Logger) error {
	policy, err := policyFromConfig(cfg.Generation)
	if err != nil {
		return err
	}
	if mode != MODE_ROOMS {
		if err := policy.Validate(); err != nil {
			return fmt.Errorf("invalid scheduling policy: %w", err)
		}
	}

	// Every roster is read before the sink exists, so bad input never
	// leaves partial output behind.
	in, err := loadInputs(cfg, mode)
	if err != nil {
		return err
	}
	log.Info("📂 Rosters loaded", "cinemas", len(in.cinemas), "movies", len(in.movies))

	backend, err := persistence.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s sink: %w", cfg.Sink.Type, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("failed to close sink", "error", err)
		}
	}()
	sink := persistence.NewBufferedSink(backend, cfg.Sink.BatchSize)
	rng := rand.New(rand.NewSource(cfg.Generation.Seed))

	var indexed []scheduler.IndexedRoom
	if mode == MODE_ROOMS || mode == MODE_ALL {
		options := &genrooms.GenerateRoomsOptions{
			CinemasFile: cfg.Files.Path(cfg.Files.Cinemas),
			Rand:        rng,
			Now:         time.Now,
			Sink:        sink,
			Logger:      log.With("pass", MODE_ROOMS),
		}
		if mode == MODE_ALL {
			// Seat maps are not kept; the showtimes pass only needs the index.
			indexed = []scheduler.IndexedRoom{}
			options.OnRoom = func(room entities.Room) {
				indexed = append(indexed, genshowtimes.IndexRoom(room, seatindex.Build(room.SeatMap)))
			}
		}
		if _, err := genrooms.GenerateRooms(ctx, options, in.cinemas); err != nil {
			return err
		}
	}

	if mode == MODE_SHOWTIMES || mode == MODE_ALL {
		_, err := genshowtimes.RunGenerateShowtimes(ctx, &genshowtimes.GenerateShowtimesOptions{
			CinemasFile:  cfg.Files.Path(cfg.Files.Cinemas),
			MoviesFile:   cfg.Files.Path(cfg.Files.Movies),
			RoomsFile:    cfg.Files.Path(cfg.Files.Rooms),
			Cinemas:      in.cinemas,
			Movies:       in.movies,
			IndexedRooms: indexed,
			Policy:       policy,
			Rand:         rng,
			Today:        time.Now(),
			Sink:         sink,
			Logger:       log.With("pass", MODE_SHOWTIMES),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// loadInputs reads the rosters the mode needs. The rooms file of the
// showtimes mode is read by the showtimes pass, still before any write.
func loadInputs(cfg *config.Config, mode string) (*inputs, error) {
	in := &inputs{}
	var g errgroup.Group
	g.Go(func() error {
		cinemas, err := utils.ReadCinemas(cfg.Files.Path(cfg.Files.Cinemas))
		if err != nil {
			return fmt.Errorf("failed to read cinemas: %w", err)
		}
		in.cinemas = cinemas
		return nil
	})
	if mode != MODE_ROOMS {
		g.Go(func() error {
			movies, err := utils.ReadMovies(cfg.Files.Path(cfg.Files.Movies))
			if err != nil {
				return fmt.Errorf("failed to read movies: %w", err)
			}
			in.movies = movies
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func policyFromConfig(gen config.GenerationConfig) (scheduler.Policy, error) {
	slots, err := scheduler.ParseShowTimes(gen.ShowTimes)
	if err != nil {
		return scheduler.Policy{}, fmt.Errorf("invalid show times: %w", err)
	}
	return scheduler.Policy{
		Days:                     gen.Days,
		CinemaActiveProbability:  gen.CinemaActiveProbability,
		ShowTimes:                slots,
		MinShowsPerDay:           gen.MinShowsPerDay,
		MaxShowsPerDay:           gen.MaxShowsPerDay,
		MaxMoviesPerCinemaPerDay: gen.MaxMoviesPerCinemaPerDay,
		MinRoomUtilization:       gen.MinRoomUtilization,
		MaxRoomUtilization:       gen.MaxRoomUtilization,
		TwoDProbability:          gen.TwoDProbability,
	}, nil
}
