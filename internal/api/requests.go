// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// validate is the shared validator instance. validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// MoodRequest asks for movies fitting a mood and viewing context.
type MoodRequest struct {
	Mood      string `json:"mood" validate:"required"`
	TimeOfDay string `json:"time_of_day"`
	Weather   string `json:"weather"`
}

// GroupRequest asks for a consensus ranking over a small group.
type GroupRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=3,dive,required"`
}

// SentimentRequest asks for a review-text classification.
type SentimentRequest struct {
	Text string `json:"text" validate:"required"`
}

// PriceRequest asks for a one-off dynamic price quote.
type PriceRequest struct {
	BasePrice      float64 `json:"base_price" validate:"required,gt=0"`
	Popularity     float64 `json:"popularity" validate:"gte=0"`
	HoursUntilShow float64 `json:"hours_until_show" validate:"gte=0"`
}

// decodeAndValidate parses a JSON request body into dst and runs struct
// validation. The returned error message is safe to surface to clients.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return validate.Struct(dst)
}

// validationDetails flattens validator errors into field/constraint pairs
// for the error response.
func validationDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, map[string]string{
			"field":      fe.Field(),
			"constraint": fe.Tag(),
		})
	}
	return details
}
