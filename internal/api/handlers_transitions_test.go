// Cratedigger - Music Collection Manager and DJ Mixing Recommendations
// Copyright 2026 F. Morozzo (fmorozzo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fmorozzo/cratedigger

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/fmorozzo/cratedigger/internal/models"
)

func TestCreateTransition(t *testing.T) {
	handler, db := newTestServer(t)
	seedCollection(t, db, 1)

	body := []byte(`{"from_track_id":1,"to_track_id":2,"rating":5,"note":"smooth blend"}`)
	rec, env := doRequest(t, handler, http.MethodPost, "/api/v1/transitions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var transition models.Transition
	if err := json.Unmarshal(env.Data, &transition); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if transition.ID == 0 {
		t.Error("transition has no ID")
	}
	if !transition.Worked {
		t.Error("worked should default to true")
	}
	if transition.Note != "smooth blend" {
		t.Errorf("note = %q", transition.Note)
	}
}

func TestCreateTransitionValidation(t *testing.T) {
	handler, db := newTestServer(t)
	seedCollection(t, db, 1)

	tests := []struct {
		name string
		body string
	}{
		{"missing to_track_id", `{"from_track_id":1}`},
		{"same endpoints", `{"from_track_id":1,"to_track_id":1}`},
		{"rating out of range", `{"from_track_id":1,"to_track_id":2,"rating":9}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, handler, http.MethodPost, "/api/v1/transitions", []byte(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v", env.Error)
			}
		})
	}
}

func TestCreateTransitionRequiresOwnership(t *testing.T) {
	handler, db := newTestServer(t)
	seedCollection(t, db, 1)

	body := []byte(`{"from_track_id":1,"to_track_id":999}`)
	rec, env := doRequest(t, handler, http.MethodPost, "/api/v1/transitions", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "TRACK_NOT_OWNED" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestListAndDeleteTransitions(t *testing.T) {
	handler, db := newTestServer(t)
	seedCollection(t, db, 1)

	body := []byte(`{"from_track_id":1,"to_track_id":2,"worked":false}`)
	rec, _ := doRequest(t, handler, http.MethodPost, "/api/v1/transitions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec, env := doRequest(t, handler, http.MethodGet, "/api/v1/tracks/2/transitions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listing struct {
		Transitions []models.Transition `json:"transitions"`
		Count       int                 `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &listing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listing.Count != 1 {
		t.Fatalf("count = %d, want 1 (either direction matches)", listing.Count)
	}
	if listing.Transitions[0].Worked {
		t.Error("worked = true, want false")
	}

	rec, _ = doRequest(t, handler, http.MethodDelete, "/api/v1/transitions/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec, _ = doRequest(t, handler, http.MethodDelete, "/api/v1/transitions/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}

	// Deleting as another user never finds the row.
	rec, _ = doRequest(t, handler, http.MethodPost, "/api/v1/transitions", []byte(`{"from_track_id":1,"to_track_id":3}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("recreate status = %d", rec.Code)
	}
	rec, _ = doRequest(t, handler, http.MethodDelete, "/api/v1/transitions/2?user_id=9", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user delete status = %d, want 404", rec.Code)
	}
}
