package gormdb

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskdeck-app/taskdeck/internal/domain"
)

type TaskListRepository struct {
	db *DB
}

func NewTaskListRepository(db *DB) *TaskListRepository {
	return &TaskListRepository{db: db}
}

// ReplaceAll upserts the entire task list in one transaction. Groups missing
// from the new list are removed so storage mirrors the presentation state.
func (r *TaskListRepository) ReplaceAll(list domain.TaskList) error {
	return r.db.gorm.Transaction(func(tx *gorm.DB) error {
		keep := make([]string, 0, len(list.Groups))
		for _, g := range list.Groups {
			row := TaskGroupRow{GroupID: g.GroupID, Content: LongText(g.Content)}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "group_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
			keep = append(keep, g.GroupID)
		}
		if len(keep) == 0 {
			return tx.Where("1 = 1").Delete(&TaskGroupRow{}).Error
		}
		return tx.Where("group_id NOT IN ?", keep).Delete(&TaskGroupRow{}).Error
	})
}

func (r *TaskListRepository) UpsertGroupContent(groupID, content string) error {
	row := TaskGroupRow{GroupID: groupID, Content: LongText(content)}
	return r.db.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&row).Error
}

func (r *TaskListRepository) GetAll() (domain.TaskList, error) {
	var rows []TaskGroupRow
	if err := r.db.gorm.Order("id").Find(&rows).Error; err != nil {
		return domain.TaskList{}, err
	}

	list := domain.TaskList{Groups: make([]domain.TaskGroup, 0, len(rows))}
	for _, row := range rows {
		list.Groups = append(list.Groups, domain.TaskGroup{
			GroupID: row.GroupID,
			Content: row.Content.String(),
		})
	}
	return list, nil
}
