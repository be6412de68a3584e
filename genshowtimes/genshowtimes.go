package genshowtimes

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/logger"
	"github.com/paologalligit/cinema-seeder/persistence"
	"github.com/paologalligit/cinema-seeder/scheduler"
	"github.com/paologalligit/cinema-seeder/seatindex"
	"github.com/paologalligit/cinema-seeder/utils"
	"golang.org/x/sync/errgroup"
)

type GenerateShowtimesOptions struct {
	CinemasFile string
	MoviesFile  string
	RoomsFile   string
	// Rosters loaded by the caller; the matching file is not read when set.
	Cinemas []entities.CinemaEntry
	Movies  []entities.Movie
	// Rooms indexed earlier in the same process; RoomsFile is not read when set.
	IndexedRooms []scheduler.IndexedRoom
	Policy       scheduler.Policy
	Rand         *rand.Rand
	Today        time.Time
	Sink         *persistence.BufferedSink
	Logger       logger.Logger
}

type rosters struct {
	cinemas []entities.CinemaEntry
	movies  []entities.Movie
	rooms   []entities.Room
}

// RunGenerateShowtimes schedules showtimes over the rosters and streams them
// to the sink. It returns the number of showtimes generated.
func RunGenerateShowtimes(ctx context.Context, options *GenerateShowtimesOptions) (int, error) {
	if err := options.Policy.Validate(); err != nil {
		return 0, fmt.Errorf("invalid scheduling policy: %w", err)
	}

	in, err := loadRosters(options)
	if err != nil {
		return 0, err
	}
	active := utils.ActiveMovies(in.movies)

	var roomsByCinema map[string][]scheduler.IndexedRoom
	if options.IndexedRooms != nil {
		roomsByCinema = GroupRooms(in.cinemas, options.IndexedRooms, options.Logger)
	} else {
		roomsByCinema = IndexRooms(in.cinemas, in.rooms, options.Logger)
	}
	options.Logger.Info("🎬 Rosters loaded",
		"cinemas", len(in.cinemas),
		"rooms", countRooms(roomsByCinema),
		"movies", len(in.movies),
		"activeMovies", len(active),
	)

	s := scheduler.New(options.Rand, options.Policy, options.Today, options.Logger)
	next, err := s.Run(ctx, options.Sink, in.cinemas, roomsByCinema, active, 0)
	if err != nil {
		return int(next), fmt.Errorf("failed to schedule showtimes: %w", err)
	}
	if err := options.Sink.Flush(ctx); err != nil {
		return int(next), fmt.Errorf("failed to flush showtimes: %w", err)
	}
	options.Logger.Info("🏁 Showtimes generated", "count", next, "days", options.Policy.Days)
	return int(next), nil
}

func loadRosters(options *GenerateShowtimesOptions) (*rosters, error) {
	in := &rosters{cinemas: options.Cinemas, movies: options.Movies}
	var g errgroup.Group
	if options.Cinemas == nil {
		g.Go(func() error {
			cinemas, err := utils.ReadCinemas(options.CinemasFile)
			if err != nil {
				return fmt.Errorf("failed to read cinemas: %w", err)
			}
			in.cinemas = cinemas
			return nil
		})
	}
	if options.Movies == nil {
		g.Go(func() error {
			movies, err := utils.ReadMovies(options.MoviesFile)
			if err != nil {
				return fmt.Errorf("failed to read movies: %w", err)
			}
			in.movies = movies
			return nil
		})
	}
	if options.IndexedRooms == nil {
		g.Go(func() error {
			rooms, err := utils.ReadRooms(options.RoomsFile)
			if err != nil {
				return fmt.Errorf("failed to read rooms: %w", err)
			}
			in.rooms = rooms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// IndexRooms computes each room's seat index once and groups the rooms by
// cinema. Rooms pointing at a cinema missing from the roster are dropped so
// no showtime can reference it.
func IndexRooms(cinemas []entities.CinemaEntry, rooms []entities.Room, log logger.Logger) map[string][]scheduler.IndexedRoom {
	known := utils.CinemaIdSet(cinemas)
	kept := make([]entities.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := known[room.CinemaId]; !ok {
			log.Warn("dropping room of unknown cinema", "roomId", room.RoomId, "cinemaId", room.CinemaId)
			continue
		}
		kept = append(kept, room)
	}

	cache := seatindex.NewCache()
	cache.Warm(kept, runtime.NumCPU())
	indexed := make([]scheduler.IndexedRoom, 0, len(kept))
	for _, room := range kept {
		indexed = append(indexed, IndexRoom(room, cache.Get(room)))
	}
	log.Debug("seat indexes computed", "rooms", cache.Len())
	return GroupRooms(cinemas, indexed, log)
}

// IndexRoom keeps only what scheduling needs from a room.
func IndexRoom(room entities.Room, index entities.SeatIndex) scheduler.IndexedRoom {
	return scheduler.IndexedRoom{
		RoomId:   room.RoomId,
		CinemaId: room.CinemaId,
		Index:    index,
	}
}

// GroupRooms groups indexed rooms by cinema, dropping rooms of cinemas that
// are not in the roster.
func GroupRooms(cinemas []entities.CinemaEntry, rooms []scheduler.IndexedRoom, log logger.Logger) map[string][]scheduler.IndexedRoom {
	known := utils.CinemaIdSet(cinemas)
	byCinema := map[string][]scheduler.IndexedRoom{}
	for _, room := range rooms {
		if _, ok := known[room.CinemaId]; !ok {
			log.Warn("dropping room of unknown cinema", "roomId", room.RoomId, "cinemaId", room.CinemaId)
			continue
		}
		byCinema[room.CinemaId] = append(byCinema[room.CinemaId], room)
	}
	return byCinema
}

func countRooms(byCinema map[string][]scheduler.IndexedRoom) int {
	total := 0
	for _, rooms := range byCinema {
		total += len(rooms)
	}
	return total
}
