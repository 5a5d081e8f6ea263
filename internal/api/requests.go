// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/gadvi/internal/validation"
)

// RecommendationRequest is a parsed recommendation query.
type RecommendationRequest struct {
	PlayerID string `json:"playerid" validate:"required,max=256"`
	K        int    `json:"k" validate:"min=1"`
}

// requestError is a request that failed parsing or validation. missing is
// set when the player id was absent.
type requestError struct {
	missing string
	message string
	details interface{}
}

func (e *requestError) Error() string {
	if e.missing != "" {
		return fmt.Sprintf("missing parameter %s", e.missing)
	}
	return e.message
}

func (e *requestError) write(rw *ResponseWriter) {
	if e.missing != "" {
		rw.MissingParameter(e.missing)
		return
	}
	rw.ValidationError(e.message, e.details)
}

// parseK reads k from the query string. An absent k means defaultK.
func parseK(r *http.Request, defaultK, maxK int) (int, *requestError) {
	raw := strings.TrimSpace(r.URL.Query().Get("k"))
	if raw == "" {
		return defaultK, nil
	}
	k, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &requestError{
			message: "k must be an integer",
			details: map[string]interface{}{"field": "k", "value": raw},
		}
	}
	if k > maxK {
		return 0, &requestError{
			message: fmt.Sprintf("k must be at most %d", maxK),
			details: map[string]interface{}{"field": "k", "value": k, "max": maxK},
		}
	}
	return k, nil
}

// newRecommendationRequest validates a player id and the k query parameter.
// paramName is the name reported when the player id is missing.
func newRecommendationRequest(r *http.Request, playerID, paramName string, defaultK, maxK int) (*RecommendationRequest, *requestError) {
	if playerID == "" {
		return nil, &requestError{missing: paramName}
	}

	k, rerr := parseK(r, defaultK, maxK)
	if rerr != nil {
		return nil, rerr
	}

	req := &RecommendationRequest{PlayerID: playerID, K: k}
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		return nil, &requestError{message: apiErr.Message, details: apiErr.Details}
	}
	return req, nil
}
