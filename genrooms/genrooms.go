package genrooms

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/paologalligit/cinema-seeder/constant"
	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/logger"
	"github.com/paologalligit/cinema-seeder/persistence"
	"github.com/paologalligit/cinema-seeder/rooms"
	"github.com/paologalligit/cinema-seeder/utils"
)

type GenerateRoomsOptions struct {
	CinemasFile string
	Rand        *rand.Rand
	Now         func() time.Time
	Sink        *persistence.BufferedSink
	Logger      logger.Logger
	// OnRoom, when set, sees every room after it was handed to the sink.
	OnRoom func(room entities.Room)
}

// RunGenerateRooms builds rooms for every cinema of the roster and streams
// them to the sink. It returns the number of rooms generated.
func RunGenerateRooms(ctx context.Context, options *GenerateRoomsOptions) (int, error) {
	cinemas, err := utils.ReadCinemas(options.CinemasFile)
	if err != nil {
		return 0, fmt.Errorf("failed to read cinemas: %w", err)
	}
	options.Logger.Info("🏠 Cinemas loaded", "count", len(cinemas), "file", options.CinemasFile)

	return GenerateRooms(ctx, options, cinemas)
}

// GenerateRooms is RunGenerateRooms over an already loaded roster. Only the
// first entry of a cinema id is used.
func GenerateRooms(ctx context.Context, options *GenerateRoomsOptions, cinemas []entities.CinemaEntry) (int, error) {
	builder := rooms.NewBuilder(options.Rand, options.Now)
	seen := make(map[string]bool, len(cinemas))
	total := 0
	for _, cinema := range cinemas {
		// Room ids derive from the cinema id, so a repeated entry would reuse them.
		if seen[cinema.CinemaId] {
			options.Logger.Debug("skipping repeated cinema", "cinemaId", cinema.CinemaId)
			continue
		}
		seen[cinema.CinemaId] = true
		built := builder.Build(cinema)
		if len(built) == 0 {
			options.Logger.Debug("skipping cinema without rooms", "cinemaId", cinema.CinemaId, "roomCount", cinema.RoomCount)
			continue
		}
		for _, room := range built {
			if err := options.Sink.Write(ctx, constant.ROOMS_COLLECTION, room); err != nil {
				return total, fmt.Errorf("failed to write room %s: %w", room.RoomId, err)
			}
			if options.OnRoom != nil {
				options.OnRoom(room)
			}
			total++
		}
	}
	if err := options.Sink.Flush(ctx); err != nil {
		return total, fmt.Errorf("failed to flush rooms: %w", err)
	}
	options.Logger.Info("🏁 Rooms generated", "count", total)
	return total, nil
}
