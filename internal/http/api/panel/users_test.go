package panel

import (
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var uuidFormat = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

func createUser(t *testing.T, r *gin.Engine, username string) map[string]any {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/users", map[string]any{
		"username":                 username,
		"traffic_limit":            1000,
		"usage_duration":           60,
		"simultaneous_connections": 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	return decodeObject(t, rec)
}

func TestUserLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	created := createUser(t, r, "alice")
	if created["is_active"] != true {
		t.Fatalf("expected is_active=true, got %v", created["is_active"])
	}
	userUUID, _ := created["uuid"].(string)
	if !uuidFormat.MatchString(userUUID) {
		t.Fatalf("uuid %q is not canonical", userUUID)
	}
	id := int(created["id"].(float64))

	// Partial update touches only the supplied field.
	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/users/%d", id), map[string]any{
		"traffic_limit": 2000,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	updated := decodeObject(t, rec)
	if updated["traffic_limit"].(float64) != 2000 {
		t.Fatalf("expected traffic_limit=2000, got %v", updated["traffic_limit"])
	}
	if updated["username"] != "alice" || updated["uuid"] != userUUID {
		t.Fatalf("unrelated fields changed: %v", updated)
	}
	if updated["usage_duration"].(float64) != 60 || updated["simultaneous_connections"].(float64) != 2 {
		t.Fatalf("unrelated fields changed: %v", updated)
	}

	// Delete, then the record is gone.
	rec = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/users/%d", id), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	body := decodeObject(t, rec)
	if body["message"] != "User not found." {
		t.Fatalf("unexpected envelope: %v", body)
	}
}

func TestCreateUser_DuplicateUsernameConflict(t *testing.T) {
	r, _ := newTestRouter(t)

	createUser(t, r, "alice")
	rec := doJSON(t, r, http.MethodPost, "/users", map[string]any{
		"username":                 "alice",
		"traffic_limit":            10,
		"usage_duration":           10,
		"simultaneous_connections": 1,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/users", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if rows := decodeArray(t, rec); len(rows) != 1 {
		t.Fatalf("expected one user after conflict, got %d", len(rows))
	}
}

func TestCreateUser_ConnectionsOutOfRange(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, value := range []int{0, 11} {
		rec := doJSON(t, r, http.MethodPost, "/users", map[string]any{
			"username":                 "bob",
			"traffic_limit":            10,
			"usage_duration":           10,
			"simultaneous_connections": value,
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 for connections=%d, got %d", value, rec.Code)
		}
		body := decodeObject(t, rec)
		if body["message"] != "Validation error occurred." {
			t.Fatalf("unexpected envelope: %v", body)
		}
		details, _ := body["details"].([]any)
		if len(details) != 1 {
			t.Fatalf("expected one detail, got %v", body["details"])
		}
	}

	// Nothing reached storage.
	rec := doJSON(t, r, http.MethodGet, "/users", nil)
	if rows := decodeArray(t, rec); len(rows) != 0 {
		t.Fatalf("expected no users, got %d", len(rows))
	}
}

func TestUpdateUser_EmptyPayloadBumpsOnlyUpdatedAt(t *testing.T) {
	r, _ := newTestRouter(t)

	created := createUser(t, r, "alice")
	id := int(created["id"].(float64))
	time.Sleep(20 * time.Millisecond)

	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/users/%d", id), map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	updated := decodeObject(t, rec)

	for _, field := range []string{"username", "uuid", "traffic_limit", "usage_duration", "simultaneous_connections", "is_active", "created_at"} {
		if fmt.Sprint(updated[field]) != fmt.Sprint(created[field]) {
			t.Fatalf("field %q changed: %v -> %v", field, created[field], updated[field])
		}
	}
	if updated["updated_at"] == created["updated_at"] {
		t.Fatalf("expected updated_at to change")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodPut, "/users/9999", map[string]any{"traffic_limit": 1})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateUser_UUIDsAreUnique(t *testing.T) {
	r, _ := newTestRouter(t)
	first := createUser(t, r, "alice")
	second := createUser(t, r, "bob")
	if first["uuid"] == second["uuid"] {
		t.Fatalf("expected distinct uuids")
	}
}
