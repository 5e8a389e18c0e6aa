// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package models

import "time"

// Node is the front-end representation of a game in the similarity graph.
// Field names and JSON tags are the contract with the visualization UI.
type Node struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	Name          string   `json:"name"`
	Mechanics     []string `json:"mechanics"`
	Categories    []string `json:"categories"`
	AverageWeight float64  `json:"averageweight"`
	AverageRating float64  `json:"averagerating"`
	PlayingTime   int      `json:"playingtime"`
	MinPlayers    int      `json:"minplayers"`
	MaxPlayers    int      `json:"maxplayers"`
	BGGURL        string   `json:"bggUrl"`
}

// Edge is an undirected similarity edge between two graph nodes.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Recommendation is a single scored candidate for an owned game.
type Recommendation struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	BGGURL string  `json:"bggUrl"`
}

// Dataset is a complete computed graph for one collection: the nodes, the
// retained similarity edges, and when the computation happened. It is the
// unit the server snapshots in memory and the generator writes to disk.
type Dataset struct {
	Username    string    `json:"username"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	GeneratedAt time.Time `json:"generated_at"`
}
