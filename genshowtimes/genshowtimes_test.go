package genshowtimes

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paologalligit/cinema-seeder/constant"
	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/genrooms"
	"github.com/paologalligit/cinema-seeder/logger"
	"github.com/paologalligit/cinema-seeder/persistence"
	"github.com/paologalligit/cinema-seeder/scheduler"
	"github.com/paologalligit/cinema-seeder/seatindex"
	"github.com/paologalligit/cinema-seeder/seatmap"
	"github.com/paologalligit/cinema-seeder/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cinemasJSON = `[{"_id":"C1","roomCount":3},{"_id":"C2","roomCount":2}]`
	moviesJSON  = `[{"_id":"M1","isActive":true},{"_id":"M2","isActive":true},{"_id":"M3","isActive":false}]`
)

type fixture struct {
	dir, cinemas, movies, rooms, showtimes string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:       dir,
		cinemas:   filepath.Join(dir, "cinemas.json"),
		movies:    filepath.Join(dir, "movies.json"),
		rooms:     filepath.Join(dir, "rooms.jsonl"),
		showtimes: filepath.Join(dir, "showtimes.jsonl"),
	}
	require.NoError(t, os.WriteFile(f.cinemas, []byte(cinemasJSON), 0644))
	require.NoError(t, os.WriteFile(f.movies, []byte(moviesJSON), 0644))
	return f
}

func (f fixture) backend() *persistence.FilePersistence {
	return persistence.NewFilePersistence(map[string]string{
		constant.ROOMS_COLLECTION:     f.rooms,
		constant.SHOWTIMES_COLLECTION: f.showtimes,
	})
}

func readShowtimes(t *testing.T, path string) []entities.Showtime {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var out []entities.Showtime
	dec := json.NewDecoder(file)
	for dec.More() {
		var show entities.Showtime
		require.NoError(t, dec.Decode(&show))
		out = append(out, show)
	}
	return out
}

func TestTwoPassRunKeepsReferencesConsistent(t *testing.T) {
	t.Parallel()
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(2024))

	roomsBackend := f.backend()
	_, err := genrooms.RunGenerateRooms(ctx, &genrooms.GenerateRoomsOptions{
		CinemasFile: f.cinemas,
		Rand:        rng,
		Sink:        persistence.NewBufferedSink(roomsBackend, 2),
		Logger:      logger.NewNop(),
	})
	require.NoError(t, err)
	require.NoError(t, roomsBackend.Close())

	policy := scheduler.DefaultPolicy()
	policy.CinemaActiveProbability = 1
	policy.MinShowsPerDay = 1
	showBackend := f.backend()

	// Act
	total, err := RunGenerateShowtimes(ctx, &GenerateShowtimesOptions{
		CinemasFile: f.cinemas,
		MoviesFile:  f.movies,
		RoomsFile:   f.rooms,
		Policy:      policy,
		Rand:        rng,
		Today:       time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		Sink:        persistence.NewBufferedSink(showBackend, 7),
		Logger:      logger.NewNop(),
	})
	require.NoError(t, showBackend.Close())

	// Assert
	require.NoError(t, err)
	rooms, err := utils.ReadRooms(f.rooms)
	require.NoError(t, err)
	roomsById := map[string]entities.Room{}
	for _, room := range rooms {
		roomsById[room.RoomId] = room
	}

	showtimes := readShowtimes(t, f.showtimes)
	require.Len(t, showtimes, total)
	require.NotEmpty(t, showtimes)
	ids := map[string]bool{}
	for _, show := range showtimes {
		assert.False(t, ids[show.ShowtimeId])
		ids[show.ShowtimeId] = true
		room, ok := roomsById[show.RoomId]
		require.True(t, ok, "dangling room %s", show.RoomId)
		assert.Equal(t, room.CinemaId, show.CinemaId)
		assert.Contains(t, []string{"M1", "M2"}, show.MovieId)
		assert.Equal(t, room.Capacity, show.TotalSeats)
		assert.Equal(t, show.TotalSeats, show.AvailableSeats)
		assert.Len(t, show.SeatStatus, show.TotalSeats)
	}
}

func TestRunGenerateShowtimesWithIndexedRooms(t *testing.T) {
	t.Parallel()
	// Arrange
	f := newFixture(t)
	backend := f.backend()
	room := entities.Room{RoomId: "C1_room_1", CinemaId: "C1", SeatMap: seatmap.Build(8, 14)}
	ghost := entities.Room{RoomId: "GHOST_room_1", CinemaId: "GHOST", SeatMap: seatmap.Build(8, 14)}
	indexed := []scheduler.IndexedRoom{
		IndexRoom(room, seatindex.Build(room.SeatMap)),
		IndexRoom(ghost, seatindex.Build(ghost.SeatMap)),
	}
	policy := scheduler.DefaultPolicy()
	policy.CinemaActiveProbability = 1
	policy.MinShowsPerDay = 1

	// Act
	total, err := RunGenerateShowtimes(context.Background(), &GenerateShowtimesOptions{
		CinemasFile:  f.cinemas,
		MoviesFile:   f.movies,
		RoomsFile:    filepath.Join(f.dir, "never-read.jsonl"),
		IndexedRooms: indexed,
		Policy:       policy,
		Rand:         rand.New(rand.NewSource(5)),
		Today:        time.Now(),
		Sink:         persistence.NewBufferedSink(backend, 100),
		Logger:       logger.NewNop(),
	})
	require.NoError(t, backend.Close())

	// Assert
	require.NoError(t, err)
	showtimes := readShowtimes(t, f.showtimes)
	require.NotEmpty(t, showtimes)
	assert.Len(t, showtimes, total)
	for _, show := range showtimes {
		assert.Equal(t, "C1_room_1", show.RoomId)
		assert.Equal(t, 96, show.TotalSeats)
	}
}

func TestRunGenerateShowtimesUsesPreloadedRosters(t *testing.T) {
	t.Parallel()
	// Arrange
	dir := t.TempDir()
	showtimesFile := filepath.Join(dir, "showtimes.jsonl")
	backend := persistence.NewFilePersistence(map[string]string{constant.SHOWTIMES_COLLECTION: showtimesFile})
	room := entities.Room{RoomId: "C9_room_1", CinemaId: "C9", SeatMap: seatmap.Build(9, 12)}
	policy := scheduler.DefaultPolicy()
	policy.CinemaActiveProbability = 1
	policy.MinShowsPerDay = 2

	// Act
	total, err := RunGenerateShowtimes(context.Background(), &GenerateShowtimesOptions{
		CinemasFile:  filepath.Join(dir, "missing-cinemas.json"),
		MoviesFile:   filepath.Join(dir, "missing-movies.json"),
		RoomsFile:    filepath.Join(dir, "missing-rooms.jsonl"),
		Cinemas:      []entities.CinemaEntry{{CinemaId: "C9", RoomCount: 1}},
		Movies:       []entities.Movie{{MovieId: "M9", IsActive: true}, {MovieId: "M0"}},
		IndexedRooms: []scheduler.IndexedRoom{IndexRoom(room, seatindex.Build(room.SeatMap))},
		Policy:       policy,
		Rand:         rand.New(rand.NewSource(9)),
		Today:        time.Now(),
		Sink:         persistence.NewBufferedSink(backend, 10),
		Logger:       logger.NewNop(),
	})
	require.NoError(t, backend.Close())

	// Assert
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 2*policy.Days)
	for _, show := range readShowtimes(t, showtimesFile) {
		assert.Equal(t, "M9", show.MovieId)
		assert.Equal(t, "C9", show.CinemaId)
	}
}

func TestRunGenerateShowtimesMissingRooms(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := RunGenerateShowtimes(context.Background(), &GenerateShowtimesOptions{
		CinemasFile: f.cinemas,
		MoviesFile:  f.movies,
		RoomsFile:   f.rooms,
		Policy:      scheduler.DefaultPolicy(),
		Rand:        rand.New(rand.NewSource(1)),
		Today:       time.Now(),
		Sink:        persistence.NewBufferedSink(f.backend(), 10),
		Logger:      logger.NewNop(),
	})

	assert.ErrorIs(t, err, utils.ErrInputMissing)
}

func TestRunGenerateShowtimesRejectsBadPolicy(t *testing.T) {
	t.Parallel()
	policy := scheduler.DefaultPolicy()
	policy.ShowTimes = nil

	_, err := RunGenerateShowtimes(context.Background(), &GenerateShowtimesOptions{Policy: policy, Logger: logger.NewNop()})

	assert.Error(t, err)
}

func TestIndexRoomsGroupsByCinema(t *testing.T) {
	t.Parallel()
	cinemas := []entities.CinemaEntry{{CinemaId: "C1"}, {CinemaId: "C2"}}
	rooms := []entities.Room{
		{RoomId: "C1_room_1", CinemaId: "C1", SeatMap: seatmap.Build(8, 14)},
		{RoomId: "C2_room_1", CinemaId: "C2", SeatMap: seatmap.Build(10, 18)},
		{RoomId: "C1_room_2", CinemaId: "C1", SeatMap: seatmap.Build(9, 12)},
		{RoomId: "X_room_1", CinemaId: "X", SeatMap: seatmap.Build(8, 14)},
	}

	grouped := IndexRooms(cinemas, rooms, logger.NewNop())

	require.Len(t, grouped, 2)
	require.Len(t, grouped["C1"], 2)
	assert.Equal(t, 96, grouped["C1"][0].Index.TotalSeats)
	assert.Equal(t, 108, grouped["C1"][1].Index.TotalSeats)
	assert.Equal(t, 160, grouped["C2"][0].Index.TotalSeats)
}

func TestGroupRoomsDropsUnknownCinemas(t *testing.T) {
	t.Parallel()
	cinemas := []entities.CinemaEntry{{CinemaId: "C1"}}
	rooms := []scheduler.IndexedRoom{
		{RoomId: "C1_room_1", CinemaId: "C1"},
		{RoomId: "X_room_1", CinemaId: "X"},
		{RoomId: "C1_room_2", CinemaId: "C1"},
	}

	grouped := GroupRooms(cinemas, rooms, logger.NewNop())

	require.Len(t, grouped, 1)
	assert.Equal(t, "C1_room_1", grouped["C1"][0].RoomId)
	assert.Equal(t, "C1_room_2", grouped["C1"][1].RoomId)
}
