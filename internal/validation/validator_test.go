// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package validation

import (
	"strings"
	"testing"
)

type recommendQuery struct {
	K   int    `validate:"omitempty,min=1,max=50"`
	Key string `validate:"omitempty,camelot"`
}

type transitionBody struct {
	FromTrackID int64  `validate:"required,gt=0"`
	ToTrackID   int64  `validate:"required,gt=0"`
	Rating      int    `validate:"omitempty,min=1,max=5"`
	Note        string `validate:"omitempty,max=1000"`
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&recommendQuery{K: 20, Key: "8A"}); err != nil {
		t.Fatalf("valid struct should pass, got: %v", err)
	}
	if err := ValidateStruct(&recommendQuery{}); err != nil {
		t.Fatalf("omitempty fields should pass when zero, got: %v", err)
	}
}

func TestValidateStructCamelotTag(t *testing.T) {
	valid := []string{"8A", "12B", "1a", "F# minor", "Am", "Db major"}
	for _, key := range valid {
		if err := ValidateStruct(&recommendQuery{Key: key}); err != nil {
			t.Errorf("key %q should validate, got: %v", key, err)
		}
	}

	invalid := []string{"13A", "0B", "8C", "H minor", "notakey"}
	for _, key := range invalid {
		err := ValidateStruct(&recommendQuery{Key: key})
		if err == nil {
			t.Errorf("key %q should fail validation", key)
			continue
		}
		if !strings.Contains(err.Error(), "Camelot") {
			t.Errorf("camelot failure message should mention Camelot, got: %v", err)
		}
	}
}

func TestValidateStructRangeFailure(t *testing.T) {
	err := ValidateStruct(&recommendQuery{K: 500})
	if err == nil {
		t.Fatalf("oversized K should fail")
	}
	if len(err.Errors()) != 1 {
		t.Fatalf("expected one failure, got %d", len(err.Errors()))
	}
	fieldErr := err.Errors()[0]
	if fieldErr.Field() != "K" || fieldErr.Tag() != "max" {
		t.Errorf("unexpected failure %s/%s", fieldErr.Field(), fieldErr.Tag())
	}
	if !strings.Contains(fieldErr.Error(), "at most 50") {
		t.Errorf("expected translated max message, got %q", fieldErr.Error())
	}
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(&transitionBody{})
	if err == nil {
		t.Fatalf("missing required fields should fail")
	}
	if len(err.Errors()) != 2 {
		t.Errorf("expected two failures, got %d: %v", len(err.Errors()), err)
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	err := ValidateStruct(&recommendQuery{Key: "13A"})
	if err == nil {
		t.Fatalf("expected failure")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR code, got %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "Key" {
		t.Errorf("expected field detail Key, got %v", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	err := ValidateStruct(&transitionBody{Rating: 9})
	if err == nil {
		t.Fatalf("expected failure")
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("expected fields detail list, got %T", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("expected three field failures, got %d", len(fields))
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("combined message should join failures, got %q", apiErr.Message)
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Errorf("GetValidator should return the same instance")
	}
}
