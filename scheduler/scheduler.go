package scheduler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/paologalligit/cinema-seeder/constant"
	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/logger"
	"github.com/paologalligit/cinema-seeder/seatindex"
	"github.com/paologalligit/cinema-seeder/utils"
)

const showDateTimeLayout = "2006-01-02T15:04:05.000Z"

// IndexedRoom pairs a room with its cached seat index. The index is shared by
// every showtime of the room and must not be mutated.
type IndexedRoom struct {
	RoomId   string
	CinemaId string
	Index    entities.SeatIndex
}

type Sink interface {
	Write(ctx context.Context, collection string, record entities.Record) error
}

type Scheduler struct {
	rng    *rand.Rand
	policy Policy
	today  time.Time
	log    logger.Logger
}

func New(rng *rand.Rand, policy Policy, today time.Time, log logger.Logger) *Scheduler {
	return &Scheduler{
		rng:    rng,
		policy: policy,
		today:  today,
		log:    log,
	}
}

// Run schedules showtimes for every day of the policy and hands each one to
// the sink as soon as it is built. seq is the first sequence number to use;
// the next unused one is returned, so the difference between the two is the
// number of showtimes written.
func (s *Scheduler) Run(ctx context.Context, sink Sink, cinemas []entities.CinemaEntry, roomsByCinema map[string][]IndexedRoom, movies []entities.Movie, seq uint64) (uint64, error) {
	for day := 0; day < s.policy.Days; day++ {
		date := s.today.AddDate(0, 0, day)
		for _, cinema := range cinemas {
			next, err := s.scheduleCinema(ctx, sink, date, cinema, roomsByCinema[cinema.CinemaId], movies, seq)
			if err != nil {
				return next, err
			}
			seq = next
		}
	}
	return seq, nil
}

func (s *Scheduler) scheduleCinema(ctx context.Context, sink Sink, date time.Time, cinema entities.CinemaEntry, rooms []IndexedRoom, movies []entities.Movie, seq uint64) (uint64, error) {
	if s.rng.Float64() > s.policy.CinemaActiveProbability {
		return seq, nil
	}
	if len(rooms) == 0 {
		return seq, nil
	}

	moviesToday := utils.Sample(s.rng, movies, s.policy.MaxMoviesPerCinemaPerDay)
	if len(moviesToday) == 0 {
		return seq, nil
	}

	utilization := utils.FloatBetween(s.rng, s.policy.MinRoomUtilization, s.policy.MaxRoomUtilization)
	inUse := int(math.Ceil(float64(len(rooms)) * utilization))
	roomsToday := utils.Sample(s.rng, rooms, inUse)

	for r, room := range roomsToday {
		// Round-robin: every sampled movie gets a room before any gets a second one.
		movie := moviesToday[r%len(moviesToday)]
		if room.Index.TotalSeats == 0 {
			s.log.Warn("skipping room without sellable seats", "cinemaId", cinema.CinemaId, "roomId", room.RoomId)
			continue
		}

		shows := utils.IntBetween(s.rng, s.policy.MinShowsPerDay, s.policy.MaxShowsPerDay)
		for range shows {
			if err := ctx.Err(); err != nil {
				return seq, err
			}
			slot := s.policy.ShowTimes[s.rng.Intn(len(s.policy.ShowTimes))]
			showtime, next := s.newShowtime(seq, date, slot, cinema.CinemaId, room, movie.MovieId)
			if err := sink.Write(ctx, constant.SHOWTIMES_COLLECTION, showtime); err != nil {
				return seq, fmt.Errorf("failed to write showtime %s: %w", showtime.ShowtimeId, err)
			}
			seq = next
		}
	}
	return seq, nil
}

func (s *Scheduler) newShowtime(seq uint64, date time.Time, slot ShowTime, cinemaId string, room IndexedRoom, movieId string) (entities.Showtime, uint64) {
	startsAt := time.Date(date.Year(), date.Month(), date.Day(), slot.Hour, slot.Minute, 0, 0, time.UTC)
	screenType := "3D"
	if s.rng.Float64() < s.policy.TwoDProbability {
		screenType = "2D"
	}
	seats := seatindex.Clone(room.Index)

	return entities.Showtime{
		ShowtimeId:   ShowtimeId(cinemaId, room.RoomId, startsAt, seq),
		MovieId:      movieId,
		CinemaId:     cinemaId,
		RoomId:       room.RoomId,
		ShowDateTime: entities.ShowDateTime{Date: startsAt.Format(showDateTimeLayout)},
		ScreenType:   screenType,
		PricingTiers: entities.PricingTiers{
			Standard: constant.STANDARD_PRICE,
			Vip:      constant.VIP_PRICE,
			Couple:   constant.COUPLE_PRICE,
		},
		TotalSeats:      seats.TotalSeats,
		AvailableSeats:  seats.TotalSeats,
		Status:          constant.SHOWTIME_STATUS_ACTIVE,
		SeatStatus:      seats.SeatStatus,
		HasHoldingSeats: false,
	}, seq + 1
}

func ShowtimeId(cinemaId, roomId string, startsAt time.Time, seq uint64) string {
	return fmt.Sprintf("show_%s_%s_%d_%d", cinemaId, roomId, startsAt.UnixMilli(), seq)
}
