package repository

import (
	"errors"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("repository: not found")

// CredentialStore holds the device token in host-only storage. The token is
// opaque to callers; retrieval failures for a missing token return
// ErrNotFound rather than an empty value.
type CredentialStore interface {
	SetDeviceToken(token string) error
	GetDeviceToken() (string, error)
	// ClearDeviceToken removes the stored token and any device-scoped state.
	ClearDeviceToken() error
}

type ProfileRepository interface {
	SaveProfile(profile domain.UserProfile) error
	GetProfile() (domain.UserProfile, error)
}

type TaskListRepository interface {
	// ReplaceAll upserts the entire task list in one transaction.
	ReplaceAll(list domain.TaskList) error
	// UpsertGroupContent updates the content of a single task group,
	// creating the group if it does not exist.
	UpsertGroupContent(groupID, content string) error
	GetAll() (domain.TaskList, error)
}
