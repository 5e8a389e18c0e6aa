// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package bgg

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/meeplegraph/internal/models"
)

// XML wire shapes for the three BGG XML API 2 endpoints. These types exist
// only at the parse boundary; everything downstream uses internal/models.

// thingItems is the /thing response envelope.
type thingItems struct {
	XMLName xml.Name    `xml:"items"`
	Items   []thingItem `xml:"item"`
}

type thingItem struct {
	ID          string       `xml:"id,attr"`
	Type        string       `xml:"type,attr"`
	Names       []thingName  `xml:"name"`
	Description string       `xml:"description"`
	Year        valueAttr    `xml:"yearpublished"`
	MinPlayers  valueAttr    `xml:"minplayers"`
	MaxPlayers  valueAttr    `xml:"maxplayers"`
	PlayingTime valueAttr    `xml:"playingtime"`
	MinAge      valueAttr    `xml:"minage"`
	Links       []thingLink  `xml:"link"`
	Statistics  *thingStats  `xml:"statistics"`
}

type thingName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type thingLink struct {
	Type  string `xml:"type,attr"`
	ID    string `xml:"id,attr"`
	Value string `xml:"value,attr"`
}

type thingStats struct {
	Ratings thingRatings `xml:"ratings"`
}

type thingRatings struct {
	Average       valueAttr `xml:"average"`
	AverageWeight valueAttr `xml:"averageweight"`
}

// valueAttr is the BGG convention of carrying scalars in a value attribute:
// <minplayers value="2"/>.
type valueAttr struct {
	Value string `xml:"value,attr"`
}

// collectionItems is the /collection response envelope.
type collectionItems struct {
	XMLName    xml.Name         `xml:"items"`
	TotalItems string           `xml:"totalitems,attr"`
	Items      []collectionItem `xml:"item"`
}

type collectionItem struct {
	ObjectID  string `xml:"objectid,attr"`
	Name      string `xml:"name"`
	Year      string `xml:"yearpublished"`
	Thumbnail string `xml:"thumbnail"`
}

// searchItems is the /search response envelope.
type searchItems struct {
	XMLName xml.Name     `xml:"items"`
	Total   string       `xml:"total,attr"`
	Items   []searchItem `xml:"item"`
}

type searchItem struct {
	ID   string    `xml:"id,attr"`
	Name thingName `xml:"name"`
	Year valueAttr `xml:"yearpublished"`
}

// apiErrors is BGG's error envelope, returned with HTTP 200 for bad input
// such as an unknown username.
type apiErrors struct {
	XMLName xml.Name `xml:"errors"`
	Errors  []struct {
		Message string `xml:"message"`
	} `xml:"error"`
}

// safeInt converts BGG attribute text to int, falling back to 0. BGG omits
// attributes and occasionally carries junk; absence maps to the engine's
// zero-fill convention.
func safeInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// safeFloat converts BGG attribute text to float64, falling back to 0.
func safeFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseErrors checks a response body for BGG's error envelope. Returns nil
// when the body is not an error document.
func parseErrors(body []byte) error {
	var errs apiErrors
	if xml.Unmarshal(body, &errs) != nil {
		return nil
	}
	if len(errs.Errors) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs.Errors))
	for _, e := range errs.Errors {
		if m := strings.TrimSpace(e.Message); m != "" {
			msgs = append(msgs, m)
		}
	}
	if len(msgs) == 0 {
		return fmt.Errorf("bgg: request rejected")
	}
	return fmt.Errorf("bgg: %s", strings.Join(msgs, "; "))
}

// parseThings converts a /thing response body into normalized game records
// keyed by game ID. Items without an ID are skipped.
func parseThings(body []byte) (map[string]*models.Game, error) {
	if err := parseErrors(body); err != nil {
		return nil, err
	}
	var items thingItems
	if err := xml.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse thing response: %w", err)
	}

	games := make(map[string]*models.Game, len(items.Items))
	for i := range items.Items {
		item := &items.Items[i]
		if item.ID == "" {
			continue
		}
		games[item.ID] = gameFromThing(item)
	}
	return games, nil
}

// gameFromThing flattens one thing item into a Game. The primary name wins;
// otherwise the first listed name is used.
func gameFromThing(item *thingItem) *models.Game {
	g := &models.Game{
		ID:            item.ID,
		Description:   item.Description,
		YearPublished: safeInt(item.Year.Value),
		MinPlayers:    safeInt(item.MinPlayers.Value),
		MaxPlayers:    safeInt(item.MaxPlayers.Value),
		PlayingTime:   safeInt(item.PlayingTime.Value),
		MinAge:        safeInt(item.MinAge.Value),
	}

	for _, n := range item.Names {
		if n.Type == "primary" {
			g.Name = n.Value
			break
		}
	}
	if g.Name == "" && len(item.Names) > 0 {
		g.Name = item.Names[0].Value
	}

	if item.Statistics != nil {
		g.AverageRating = safeFloat(item.Statistics.Ratings.Average.Value)
		g.AverageWeight = safeFloat(item.Statistics.Ratings.AverageWeight.Value)
	}

	for _, link := range item.Links {
		l := models.Link{ID: link.ID, Name: link.Value}
		switch link.Type {
		case "boardgamemechanic":
			g.Mechanics = append(g.Mechanics, l)
		case "boardgamecategory":
			g.Categories = append(g.Categories, l)
		case "boardgamefamily":
			g.Families = append(g.Families, l)
		case "boardgamedesigner":
			g.Designers = append(g.Designers, l)
		case "boardgamepublisher":
			g.Publishers = append(g.Publishers, l)
		}
	}

	return g
}

// parseCollection converts a /collection response body into collection items.
// Items without an object ID are skipped.
func parseCollection(body []byte) ([]models.CollectionItem, error) {
	if err := parseErrors(body); err != nil {
		return nil, err
	}
	var items collectionItems
	if err := xml.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse collection response: %w", err)
	}

	collection := make([]models.CollectionItem, 0, len(items.Items))
	for _, item := range items.Items {
		if item.ObjectID == "" {
			continue
		}
		collection = append(collection, models.CollectionItem{
			ID:        item.ObjectID,
			Name:      strings.TrimSpace(item.Name),
			Year:      strings.TrimSpace(item.Year),
			Thumbnail: strings.TrimSpace(item.Thumbnail),
		})
	}
	return collection, nil
}

// parseSearch converts a /search response body into search results, capped at
// limit. Items without an ID or name are skipped.
func parseSearch(body []byte, limit int) ([]models.SearchResult, error) {
	if err := parseErrors(body); err != nil {
		return nil, err
	}
	var items searchItems
	if err := xml.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]models.SearchResult, 0, min(limit, len(items.Items)))
	for _, item := range items.Items {
		if len(results) >= limit {
			break
		}
		if item.ID == "" || item.Name.Value == "" {
			continue
		}
		results = append(results, models.SearchResult{
			ID:   item.ID,
			Name: item.Name.Value,
			Year: item.Year.Value,
		})
	}
	return results, nil
}
