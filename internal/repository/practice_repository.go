package repository

import (
	"context"

	"adaptive_edu_backend/internal/model"

	"gorm.io/gorm"
)

type PracticeRepository struct {
	DB *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) *PracticeRepository {
	return &PracticeRepository{DB: db}
}

func (r *PracticeRepository) Create(ctx context.Context, a *model.PracticeAnswer) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// AnsweredQuestionIDs 学习者在该科目练习中做过的题
func (r *PracticeRepository) AnsweredQuestionIDs(ctx context.Context, userID, subjectID string) (map[string]struct{}, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.PracticeAnswer{}).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Distinct().
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
