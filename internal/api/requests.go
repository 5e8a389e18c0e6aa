// Meeplegraph - Board Game Collection Similarity and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplegraph

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RecommendationsRequest holds the validated query parameters for the
// recommendations endpoint.
type RecommendationsRequest struct {
	// Query is the BGG search term used to gather candidate games.
	Query string `validate:"required,min=1,max=200"`

	// TopK is the number of recommendations per owned game. Zero means the
	// configured default.
	TopK int `validate:"min=0,max=50"`
}

// parseRecommendationsRequest extracts and validates query parameters.
// Validation failures are returned as field -> problem maps suitable for the
// error details payload.
func parseRecommendationsRequest(r *http.Request) (RecommendationsRequest, map[string]string) {
	req := RecommendationsRequest{
		Query: r.URL.Query().Get("query"),
	}

	if raw := r.URL.Query().Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			return req, map[string]string{"k": "must be an integer"}
		}
		req.TopK = k
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fieldName(fe.Field())] = validationMessage(fe)
			}
		} else {
			details["request"] = err.Error()
		}
		return req, details
	}
	return req, nil
}

// fieldName maps struct field names to their query parameter names.
func fieldName(field string) string {
	switch field {
	case "Query":
		return "query"
	case "TopK":
		return "k"
	default:
		return field
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
