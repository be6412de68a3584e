package utils

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paologalligit/cinema-seeder/entities"
)

var (
	ErrInputMissing   = errors.New("input missing")
	ErrInputMalformed = errors.New("input malformed")
)

const maxRoomLineSize = 4 * 1024 * 1024

func ReadCinemas(path string) ([]entities.CinemaEntry, error) {
	var cinemas []entities.CinemaEntry
	if err := readJSONFile(path, &cinemas); err != nil {
		return nil, err
	}
	return cinemas, nil
}

func ReadMovies(path string) ([]entities.Movie, error) {
	var movies []entities.Movie
	if err := readJSONFile(path, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// ReadRooms reads a JSONL file of previously generated rooms.
func ReadRooms(path string) ([]entities.Room, error) {
	file, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRoomLineSize)

	var rooms []entities.Room
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var room entities.Room
		if err := json.Unmarshal([]byte(line), &room); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrInputMalformed, path, lineNo, err)
		}
		rooms = append(rooms, room)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputMalformed, path, err)
	}
	return rooms, nil
}

func readJSONFile(path string, v any) error {
	file, err := openInput(path)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInputMalformed, path, err)
	}
	return nil
}

func openInput(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return file, nil
}
