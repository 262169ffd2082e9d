package adapter

import (
	"math"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-screenly/models"
)

const (
	imageBaseURL        = "https://image.tmdb.org/t/p/"
	posterPlaceholder   = "https://via.placeholder.com/500x750?text=No+Image"
	backdropPlaceholder = "https://via.placeholder.com/1280x720?text=No+Image"
	youTubeWatchURL     = "https://www.youtube.com/watch?v="

	defaultReleaseYear = 2000
	defaultRuntime     = 120
	maxGenreIDs        = 3
)

type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tmdbVideo struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
}

type tmdbMovie struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Overview     string      `json:"overview"`
	PosterPath   *string     `json:"poster_path"`
	BackdropPath *string     `json:"backdrop_path"`
	ReleaseDate  string      `json:"release_date"`
	VoteAverage  float64     `json:"vote_average"`
	GenreIDs     []int       `json:"genre_ids"`
	Runtime      int         `json:"runtime"`
	Genres       []tmdbGenre `json:"genres"`
	Videos       *struct {
		Results []tmdbVideo `json:"results"`
	} `json:"videos"`
}

type tmdbPage struct {
	Page         int         `json:"page"`
	Results      []tmdbMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

func (p tmdbPage) movies() []models.Movie {
	movies := make([]models.Movie, 0, len(p.Results))
	for _, m := range p.Results {
		movies = append(movies, m.toModel())
	}
	return movies
}

func (m tmdbMovie) toModel() models.Movie {
	movie := models.Movie{
		ID:          strconv.FormatInt(m.ID, 10),
		Title:       m.Title,
		Description: m.Overview,
		Poster:      imageURL(m.PosterPath, "w500", posterPlaceholder),
		Backdrop:    imageURL(m.BackdropPath, "w1280", backdropPlaceholder),
		Genre:       m.genre(),
		Year:        releaseYear(m.ReleaseDate),
		Rating:      math.Round(m.VoteAverage*10) / 10,
		Duration:    m.Runtime,
		Trailer:     m.trailer(),
	}
	if movie.Duration <= 0 {
		movie.Duration = defaultRuntime
	}
	return movie
}

func (m tmdbMovie) genre() string {
	if len(m.Genres) > 0 {
		names := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			names = append(names, g.Name)
		}
		return strings.Join(names, ", ")
	}

	if len(m.GenreIDs) > 0 {
		ids := m.GenreIDs[:min(len(m.GenreIDs), maxGenreIDs)]
		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			parts = append(parts, strconv.Itoa(id))
		}
		return strings.Join(parts, ", ")
	}

	return "Unknown"
}

// trailer returns the first YouTube video of type Trailer.
func (m tmdbMovie) trailer() *string {
	if m.Videos == nil {
		return nil
	}
	for _, v := range m.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" {
			url := youTubeWatchURL + v.Key
			return &url
		}
	}
	return nil
}

func imageURL(path *string, size, placeholder string) string {
	if path == nil || *path == "" {
		return placeholder
	}
	return imageBaseURL + size + *path
}

func releaseYear(date string) int {
	if len(date) < 4 {
		return defaultReleaseYear
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return defaultReleaseYear
	}
	return year
}
