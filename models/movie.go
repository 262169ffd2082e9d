// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Movie is the catalog representation shared by the local movies table and
// the TMDB adapter. It is treated as immutable reference data.
type Movie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Poster      string  `json:"poster"`
	Backdrop    string  `json:"backdrop"`
	Genre       string  `json:"genre"`
	Year        int     `json:"year"`
	Rating      float64 `json:"rating"`
	Duration    int     `json:"duration"`
	Trailer     *string `json:"trailer"`
	VideoURL    *string `json:"videoUrl,omitempty"`
	Featured    bool    `json:"featured,omitempty"`
}

// TableName returns the name of the database table
// associated with the Movie model.
func (m Movie) TableName() string {
	return "movies"
}

// TrendingWindow selects the TMDB trending time window.
type TrendingWindow string

const (
	TrendingDay  TrendingWindow = "day"
	TrendingWeek TrendingWindow = "week"
)

// Valid reports whether w is one of the windows TMDB accepts.
func (w TrendingWindow) Valid() bool {
	return w == TrendingDay || w == TrendingWeek
}
