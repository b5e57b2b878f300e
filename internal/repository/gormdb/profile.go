package gormdb

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"github.com/taskdeck-app/taskdeck/internal/domain"
	"github.com/taskdeck-app/taskdeck/internal/repository"
)

// profileRowID pins the profile to a single row; the host stores exactly one
// user profile per installation.
const profileRowID = 1

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) SaveProfile(profile domain.UserProfile) error {
	data, err := sonic.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	row := UserProfileRow{ID: profileRowID, Data: LongText(data)}
	return r.db.gorm.Save(&row).Error
}

func (r *ProfileRepository) GetProfile() (domain.UserProfile, error) {
	var row UserProfileRow
	if err := r.db.gorm.First(&row, profileRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var profile domain.UserProfile
	if err := sonic.Unmarshal([]byte(row.Data), &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}
