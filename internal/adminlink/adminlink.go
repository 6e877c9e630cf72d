// Package adminlink manages the single shared-secret admin URL. The token is
// issued once at install time, persisted as a secret row, loaded into memory
// at startup, and only replaced by an explicit rotation.
package adminlink

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/novaray/panel/internal/models"
	"gorm.io/gorm"
)

// SecretKey is the secrets-table key holding the admin link.
const SecretKey = "ADMIN_LINK"

// tokenBytes is the entropy of the URL token (16 random bytes, URL-safe).
const tokenBytes = 16

// ErrAlreadyIssued indicates the admin link exists and Issue was called again.
var ErrAlreadyIssued = errors.New("adminlink: already issued")

// ErrNotIssued indicates no admin link has been provisioned yet.
var ErrNotIssued = errors.New("adminlink: not issued")

// Gate checks incoming admin paths against the issued link.
type Gate struct {
	db   *gorm.DB
	link atomic.Pointer[string]
}

// NewGate loads the issued link once and returns a ready gate. A missing
// secret row is not an error: the gate reports unissued until rotation or a
// reinstall provisions one.
func NewGate(conn *gorm.DB) (*Gate, error) {
	if conn == nil {
		return nil, fmt.Errorf("adminlink: nil connection")
	}
	g := &Gate{db: conn}
	link, err := loadLink(conn)
	if err != nil {
		if !errors.Is(err, ErrNotIssued) {
			return nil, err
		}
		return g, nil
	}
	g.link.Store(&link)
	return g, nil
}

// Issued reports whether an admin link has been provisioned.
func (g *Gate) Issued() bool {
	return g.link.Load() != nil
}

// Link returns the issued admin link, or ErrNotIssued.
func (g *Gate) Link() (string, error) {
	stored := g.link.Load()
	if stored == nil {
		return "", ErrNotIssued
	}
	return *stored, nil
}

// Authorize reports whether the request path matches the issued link's path
// exactly. A substring or prefix match is deliberately not accepted.
func (g *Gate) Authorize(requestPath string) (bool, error) {
	stored := g.link.Load()
	if stored == nil {
		return false, ErrNotIssued
	}
	linkPath, errPath := linkPath(*stored)
	if errPath != nil {
		return false, errPath
	}
	return requestPath == linkPath, nil
}

// Rotate replaces the issued token with a fresh one and returns the new link.
// The previous link stops authorizing as soon as the swap lands.
func (g *Gate) Rotate(ctx context.Context, serverIP string) (string, error) {
	stored := g.link.Load()
	if stored == nil {
		return "", ErrNotIssued
	}
	link, errBuild := buildLink(serverIP)
	if errBuild != nil {
		return "", errBuild
	}
	res := g.db.WithContext(ctx).Model(&models.Secret{}).
		Where("key = ?", SecretKey).
		Updates(map[string]any{"value": link, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return "", fmt.Errorf("adminlink: rotate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrNotIssued
	}
	g.link.Store(&link)
	return link, nil
}

// Issue provisions the admin link exactly once. Install tooling calls this;
// a second call fails with ErrAlreadyIssued.
func Issue(conn *gorm.DB, serverIP string) (string, error) {
	if conn == nil {
		return "", fmt.Errorf("adminlink: nil connection")
	}
	if _, err := loadLink(conn); err == nil {
		return "", ErrAlreadyIssued
	} else if !errors.Is(err, ErrNotIssued) {
		return "", err
	}
	link, errBuild := buildLink(serverIP)
	if errBuild != nil {
		return "", errBuild
	}
	secret := models.Secret{Key: SecretKey, Value: link}
	if errCreate := conn.Create(&secret).Error; errCreate != nil {
		return "", fmt.Errorf("adminlink: issue: %w", errCreate)
	}
	return link, nil
}

// loadLink reads the stored admin link from the secrets table.
func loadLink(conn *gorm.DB) (string, error) {
	var secret models.Secret
	if errFind := conn.Where("key = ?", SecretKey).First(&secret).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", ErrNotIssued
		}
		return "", fmt.Errorf("adminlink: load: %w", errFind)
	}
	link := strings.TrimSpace(secret.Value)
	if link == "" {
		return "", ErrNotIssued
	}
	return link, nil
}

// buildLink generates a fresh token and embeds it in the admin URL.
func buildLink(serverIP string) (string, error) {
	host := strings.TrimSpace(serverIP)
	if host == "" {
		host = "127.0.0.1"
	}
	buf := make([]byte, tokenBytes)
	if _, errRead := rand.Read(buf); errRead != nil {
		return "", fmt.Errorf("adminlink: token: %w", errRead)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return "http://" + host + "/admin-" + token, nil
}

// linkPath extracts the path component of the issued link.
func linkPath(link string) (string, error) {
	parsed, errParse := url.Parse(link)
	if errParse != nil {
		return "", fmt.Errorf("adminlink: parse stored link: %w", errParse)
	}
	if parsed.Path == "" {
		return "", fmt.Errorf("adminlink: stored link has no path")
	}
	return parsed.Path, nil
}
