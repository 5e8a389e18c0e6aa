// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

// Package models defines the strongly typed records shared across Meeplegraph.
//
// All loose BGG XML shapes are normalized into these types at a single parse
// boundary (internal/bgg). Everything downstream — the similarity engine, the
// graph builder, the API — works exclusively with these structs.
package models

import "fmt"

// BGGBoardGameURLFormat is the public page for a game, keyed by game ID.
const BGGBoardGameURLFormat = "https://boardgamegeek.com/boardgame/%s"

// Link is a named BGG taxonomy entry (mechanic, category, designer, ...).
// Only Name participates in similarity; ID is kept for front-end linking.
type Link struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Game is the normalized per-game record produced by the BGG parse boundary.
//
// Numeric fields default to zero when the upstream item omits them or carries
// an unparsable value. The similarity engine treats zero as "absent before
// normalization" per the zero-fill policy; no field is ever a pointer.
type Game struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	YearPublished int     `json:"yearpublished"`
	MinPlayers    int     `json:"minplayers"`
	MaxPlayers    int     `json:"maxplayers"`
	PlayingTime   int     `json:"playingtime"`
	MinAge        int     `json:"minage"`
	AverageRating float64 `json:"averagerating"`
	AverageWeight float64 `json:"averageweight"`

	Mechanics  []Link `json:"mechanics"`
	Categories []Link `json:"categories"`
	Families   []Link `json:"families,omitempty"`
	Designers  []Link `json:"designers"`
	Publishers []Link `json:"publishers"`
}

// URL returns the public BGG page for the game.
func (g *Game) URL() string {
	return fmt.Sprintf(BGGBoardGameURLFormat, g.ID)
}

// CollectionItem is one entry of a user's owned collection as returned by the
// BGG collection endpoint. It carries only the summary fields; full details
// come from the thing endpoint.
type CollectionItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Year      string `json:"year,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// SearchResult is one entry of a BGG search response.
type SearchResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Year string `json:"year,omitempty"`
}
