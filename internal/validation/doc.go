// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the whole process. It reports
// fields by their json, csv or koanf tag so messages match the names users
// see in query strings, TSV headers and config files.
//
// # Custom Validators
//
// Packages that own a domain literal set register their own tag with
// RegisterStringValidation, so the set is defined once. The extract package
// registers contentclass this way.
//
// # Quick Start
//
//	type recommendationQuery struct {
//	    PlayerID string `json:"playerid" validate:"required"`
//	    K        int    `json:"k" validate:"min=1,max=50"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
