package repository

import (
	"context"
	"errors"
	"fmt"

	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const masteryInsertRetries = 3

// MasteryRepository 是基于数据库的 MasteryStore，更新在 SELECT ... FOR UPDATE 事务中完成
type MasteryRepository struct {
	DB *gorm.DB
}

var _ store.MasteryStore = (*MasteryRepository)(nil)

func NewMasteryRepository(db *gorm.DB) *MasteryRepository {
	return &MasteryRepository{DB: db}
}

func (r *MasteryRepository) Get(ctx context.Context, userID, skillID string) (*engine.MasteryState, error) {
	var m model.SkillMastery
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st := m.ToState()
	return &st, nil
}

func (r *MasteryRepository) List(ctx context.Context, userID string, skillIDs []string) (map[string]engine.MasteryState, error) {
	out := make(map[string]engine.MasteryState)
	if skillIDs != nil && len(skillIDs) == 0 {
		return out, nil
	}
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if skillIDs != nil {
		query = query.Where("skill_id IN ?", skillIDs)
	}
	var rows []model.SkillMastery
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.SkillID] = m.ToState()
	}
	return out, nil
}

var errLostInsert = errors.New("concurrent insert of mastery row")

func (r *MasteryRepository) Update(ctx context.Context, userID, skillID string, fn store.UpdateFunc) (engine.MasteryState, error) {
	var result engine.MasteryState
	for i := 0; i < masteryInsertRetries; i++ {
		err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var row model.SkillMastery
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ? AND skill_id = ?", userID, skillID).
				First(&row).Error

			var current *engine.MasteryState
			switch {
			case err == nil:
				st := row.ToState()
				current = &st
			case errors.Is(err, gorm.ErrRecordNotFound):
			default:
				return err
			}

			next, err := fn(current)
			if err != nil {
				return err
			}

			if current != nil {
				row.Apply(next)
				if err := tx.Save(&row).Error; err != nil {
					return err
				}
				result = next
				return nil
			}

			row = model.SkillMastery{}
			row.Apply(next)
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errLostInsert
			}
			result = next
			return nil
		})
		if errors.Is(err, errLostInsert) {
			continue
		}
		if err != nil {
			return engine.MasteryState{}, err
		}
		return result, nil
	}
	return engine.MasteryState{}, fmt.Errorf("%w: %s/%s", store.ErrConflict, userID, skillID)
}
