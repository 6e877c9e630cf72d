package adminlink

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/novaray/panel/internal/db"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "panel-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestIssue_Once(t *testing.T) {
	conn := openTestDB(t)

	link, err := Issue(conn, "203.0.113.7")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !strings.HasPrefix(link, "http://203.0.113.7/admin-") {
		t.Fatalf("unexpected link: %q", link)
	}

	if _, errAgain := Issue(conn, "203.0.113.7"); !errors.Is(errAgain, ErrAlreadyIssued) {
		t.Fatalf("expected ErrAlreadyIssued, got %v", errAgain)
	}
}

func TestGate_Unissued(t *testing.T) {
	conn := openTestDB(t)

	gate, err := NewGate(conn)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if gate.Issued() {
		t.Fatalf("expected unissued gate")
	}
	if _, errAuth := gate.Authorize("/admin-whatever"); !errors.Is(errAuth, ErrNotIssued) {
		t.Fatalf("expected ErrNotIssued, got %v", errAuth)
	}
}

func TestGate_ExactPathMatch(t *testing.T) {
	conn := openTestDB(t)

	link, err := Issue(conn, "203.0.113.7")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	token := strings.TrimPrefix(link, "http://203.0.113.7")

	gate, errGate := NewGate(conn)
	if errGate != nil {
		t.Fatalf("new gate: %v", errGate)
	}

	ok, errAuth := gate.Authorize(token)
	if errAuth != nil || !ok {
		t.Fatalf("expected exact path to authorize, got ok=%v err=%v", ok, errAuth)
	}

	for _, p := range []string{"/admin-nope", token + "x", token[:len(token)-1], "/" + token} {
		ok, errAuth = gate.Authorize(p)
		if errAuth != nil {
			t.Fatalf("authorize %q: %v", p, errAuth)
		}
		if ok {
			t.Fatalf("expected %q to be rejected", p)
		}
	}
}

func TestGate_RotateInvalidatesOldLink(t *testing.T) {
	conn := openTestDB(t)

	oldLink, err := Issue(conn, "203.0.113.7")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	oldPath := strings.TrimPrefix(oldLink, "http://203.0.113.7")

	gate, errGate := NewGate(conn)
	if errGate != nil {
		t.Fatalf("new gate: %v", errGate)
	}

	newLink, errRotate := gate.Rotate(context.Background(), "203.0.113.7")
	if errRotate != nil {
		t.Fatalf("rotate: %v", errRotate)
	}
	if newLink == oldLink {
		t.Fatalf("expected rotation to change the link")
	}

	if ok, _ := gate.Authorize(oldPath); ok {
		t.Fatalf("expected old path to stop authorizing")
	}
	newPath := strings.TrimPrefix(newLink, "http://203.0.113.7")
	if ok, _ := gate.Authorize(newPath); !ok {
		t.Fatalf("expected new path to authorize")
	}

	// A fresh gate sees the rotated value from the database.
	gate2, errGate2 := NewGate(conn)
	if errGate2 != nil {
		t.Fatalf("new gate: %v", errGate2)
	}
	stored, errLink := gate2.Link()
	if errLink != nil {
		t.Fatalf("link: %v", errLink)
	}
	if stored != newLink {
		t.Fatalf("expected stored link %q, got %q", newLink, stored)
	}
}
