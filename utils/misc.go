package utils

import (
	"github.com/paologalligit/cinema-seeder/entities"
)

func ActiveMovies(movies []entities.Movie) []entities.Movie {
	active := []entities.Movie{}
	for _, movie := range movies {
		if movie.IsActive {
			active = append(active, movie)
		}
	}
	return active
}

func CinemaIdSet(cinemas []entities.CinemaEntry) map[string]struct{} {
	ids := make(map[string]struct{}, len(cinemas))
	for _, cinema := range cinemas {
		ids[cinema.CinemaId] = struct{}{}
	}
	return ids
}
