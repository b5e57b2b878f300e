// Package keyring stores the device token in the operating system keychain
// so it never touches the task database on disk.
package keyring

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/taskdeck-app/taskdeck/internal/repository"
)

const (
	// serviceName is the identifier used in the system keyring.
	serviceName = "taskdeck"

	deviceTokenKey = "device-token"
)

type CredentialStore struct {
	service string
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{service: serviceName}
}

func (s *CredentialStore) SetDeviceToken(token string) error {
	logTokenExpiry(token)
	return gokeyring.Set(s.service, deviceTokenKey, token)
}

func (s *CredentialStore) GetDeviceToken() (string, error) {
	token, err := gokeyring.Get(s.service, deviceTokenKey)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return token, nil
}

// ClearDeviceToken removes the stored token. A missing token is not an
// error; the channel contract allows clearing an already-clean device.
func (s *CredentialStore) ClearDeviceToken() error {
	err := gokeyring.Delete(s.service, deviceTokenKey)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return nil
	}
	return err
}

// logTokenExpiry peeks at the token claims without verifying the signature.
// The host does not validate tokens (the backend does); an already-expired
// token on store is worth a log line because the presentation layer will
// start failing requests with no visible cause.
func logTokenExpiry(token string) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Not a JWT; the token is opaque to us, store it anyway.
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		log.Printf("Warning: [Keyring] Stored device token expired at %s", exp.Format(time.RFC3339))
	}
}
