package constant

import (
	"os"
	"path/filepath"
)

const (
	ROOMS_COLLECTION     = "rooms"
	SHOWTIMES_COLLECTION = "showtimes"

	CINEMAS_FILE   = "cinemas.json"
	MOVIES_FILE    = "movies.json"
	ROOMS_FILE     = "rooms.jsonl"
	SHOWTIMES_FILE = "showtimes_realistic.jsonl"

	ROW_LETTERS = "ABCDEFGHIJKL"

	MIN_ROWS = 8
	MAX_ROWS = 10
	MIN_COLS = 14
	MAX_COLS = 18

	// Aisles are only carved out of rooms wider than this.
	CORRIDOR_MIN_COLS = 12

	ROOM_STATUS_ACTIVE     = "active"
	SHOWTIME_STATUS_ACTIVE = "active"
	SEAT_STATUS_AVAILABLE  = "available"

	STANDARD_PRICE = 75000
	VIP_PRICE      = 120000
	COUPLE_PRICE   = 200000

	SCREEN_LABEL    = "Màn Chiếu"
	SCREEN_POSITION = "front"

	FEATURES_PER_ROOM = 3
)

var (
	FilesPath string

	RoomTypes = []string{"2D", "3D", "VIP", "IMAX"}

	RoomFeatures = []string{
		"Âm thanh Dolby Atmos",
		"Màn hình cong",
		"Công nghệ 3D",
		"Ghế ngồi rộng rãi",
		"Chiếu phim Laser",
	}

	DefaultShowTimes = []string{"09:30", "12:00", "14:30", "17:00", "19:30", "22:00"}
)

func init() {
	wd, err := os.Getwd()
	if err != nil {
		panic("cannot determine working directory: " + err.Error())
	}
	FilesPath = filepath.Join(wd, "files")
}
