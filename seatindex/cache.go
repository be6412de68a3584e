package seatindex

import (
	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/team"
)

// Cache memoizes one index per room id. Cached indexes are never mutated;
// callers that need a writable copy use Clone.
type Cache struct {
	indexes map[string]entities.SeatIndex
}

func NewCache() *Cache {
	return &Cache{indexes: map[string]entities.SeatIndex{}}
}

// Warm builds the indexes of all rooms not cached yet on a pool of workers.
// The cache itself is only written from the calling goroutine.
func (c *Cache) Warm(rooms []entities.Room, workers int) {
	var pending []entities.Room
	seen := map[string]bool{}
	for _, room := range rooms {
		if _, ok := c.indexes[room.RoomId]; ok || seen[room.RoomId] {
			continue
		}
		seen[room.RoomId] = true
		pending = append(pending, room)
	}
	if len(pending) == 0 {
		return
	}

	builders := &team.Team[entities.Room, entities.SeatIndex]{
		WorkerCount: workers,
		Worker: func(room entities.Room) (entities.SeatIndex, error) {
			return Build(room.SeatMap), nil
		},
	}
	// Build never fails, so there is no error to look at.
	indexes, _ := builders.Run(pending)
	for i, room := range pending {
		c.indexes[room.RoomId] = indexes[i]
	}
}

func (c *Cache) Get(room entities.Room) entities.SeatIndex {
	if index, ok := c.indexes[room.RoomId]; ok {
		return index
	}
	index := Build(room.SeatMap)
	c.indexes[room.RoomId] = index
	return index
}

func (c *Cache) Len() int {
	return len(c.indexes)
}
