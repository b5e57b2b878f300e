package gormdb

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// LongText 是一个跨数据库兼容的长文本类型
// - MySQL: LONGTEXT
// - PostgreSQL: TEXT
// - SQLite: TEXT
type LongText string

// GormDBDataType 根据不同的数据库返回合适的类型
func (LongText) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "LONGTEXT"
	default:
		return "TEXT"
	}
}

func (lt LongText) Value() (driver.Value, error) {
	return string(lt), nil
}

func (lt *LongText) Scan(value interface{}) error {
	if value == nil {
		*lt = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*lt = LongText(v)
		return nil
	case []byte:
		*lt = LongText(v)
		return nil
	default:
		return fmt.Errorf("unsupported LongText scan type %T", value)
	}
}

func (lt LongText) String() string {
	return string(lt)
}

// UserProfileRow 用户资料（单行）
type UserProfileRow struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Data is the opaque profile blob exactly as the presentation layer
	// sent it.
	Data LongText
}

func (UserProfileRow) TableName() string { return "user_profiles" }

// TaskGroupRow 任务组
type TaskGroupRow struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GroupID string `gorm:"uniqueIndex"`
	Content LongText
}

func (TaskGroupRow) TableName() string { return "task_groups" }

// AllModels returns every model for auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&UserProfileRow{},
		&TaskGroupRow{},
	}
}
