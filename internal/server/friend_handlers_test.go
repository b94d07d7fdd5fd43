package server

import (
	"net/http"
	"testing"

	"campfire/internal/models"
)

func TestFriendRequestLifecycle(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	asAlice := newTestApp(s, alice.ID)
	asBob := newTestApp(s, bob.ID)

	// Alice sends Bob a friend request.
	resp := doJSON(t, asAlice, http.MethodPost, "/api/friends/requests/2", nil)
	wantStatus(t, resp, http.StatusCreated)
	var created models.Friendship
	decodeBody(t, resp, &created)
	if created.Status != models.FriendshipStatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.RequesterID != alice.ID {
		t.Fatalf("expected requester %d, got %d", alice.ID, created.RequesterID)
	}

	// Sending again conflicts.
	resp = doJSON(t, asAlice, http.MethodPost, "/api/friends/requests/2", nil)
	wantStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	// The requester cannot accept their own request.
	resp = doJSON(t, asAlice, http.MethodPost, "/api/friends/requests/2/accept", nil)
	wantStatus(t, resp, http.StatusBadRequest)
	var errBody models.ErrorResponse
	decodeBody(t, resp, &errBody)
	if errBody.Code != models.CodeValidation {
		t.Fatalf("expected %s, got %s", models.CodeValidation, errBody.Code)
	}

	// Bob accepts.
	resp = doJSON(t, asBob, http.MethodPost, "/api/friends/requests/1/accept", nil)
	wantStatus(t, resp, http.StatusOK)
	var accepted models.Friendship
	decodeBody(t, resp, &accepted)
	if accepted.Status != models.FriendshipStatusAccepted {
		t.Fatalf("expected accepted status, got %s", accepted.Status)
	}

	// Accepting again finds no pending request.
	resp = doJSON(t, asBob, http.MethodPost, "/api/friends/requests/1/accept", nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	// Both sides now report friends.
	resp = doJSON(t, asAlice, http.MethodGet, "/api/friends/status/2", nil)
	wantStatus(t, resp, http.StatusOK)
	var status map[string]any
	decodeBody(t, resp, &status)
	if status["status"] != "friends" {
		t.Fatalf("expected friends status, got %v", status["status"])
	}

	// Bob unfriends Alice.
	resp = doJSON(t, asBob, http.MethodDelete, "/api/friends/1", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Removing again is a NotFound, not a silent success.
	resp = doJSON(t, asBob, http.MethodDelete, "/api/friends/1", nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	var count int64
	if err := db.Model(&models.Friendship{}).Count(&count).Error; err != nil {
		t.Fatalf("count friendships: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no friendships left, got %d", count)
	}
}

func TestFriendRequestRejection(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	alice := createTestUser(t, db, "carol")
	bob := createTestUser(t, db, "dave")

	asAlice := newTestApp(s, alice.ID)
	asBob := newTestApp(s, bob.ID)

	resp := doJSON(t, asAlice, http.MethodPost, "/api/friends/requests/2", nil)
	wantStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	// Declining uses the same removal path as unfriending.
	resp = doJSON(t, asBob, http.MethodDelete, "/api/friends/1", nil)
	wantStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	// Alice can now send a fresh request.
	resp = doJSON(t, asAlice, http.MethodPost, "/api/friends/requests/2", nil)
	wantStatus(t, resp, http.StatusCreated)
	resp.Body.Close()
}

func TestSendFriendRequestValidation(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)

	alice := createTestUser(t, db, "erin")
	asAlice := newTestApp(s, alice.ID)

	// Befriending yourself is rejected.
	resp := doJSON(t, asAlice, http.MethodPost, "/api/friends/requests/1", nil)
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	// Unknown target.
	resp = doJSON(t, asAlice, http.MethodPost, "/api/friends/requests/42", nil)
	wantStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	// Garbage ID in the route.
	resp = doJSON(t, asAlice, http.MethodPost, "/api/friends/requests/banana", nil)
	wantStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}
