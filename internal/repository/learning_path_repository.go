package repository

import (
	"context"
	"errors"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

// SaveOnce 每个测评只保存一份学习路径，已存在时返回已保存的记录
func (r *LearningPathRepository) SaveOnce(ctx context.Context, rec *model.LearningPathRecord) (*model.LearningPathRecord, error) {
	db := r.DB.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error; err != nil {
		return nil, err
	}
	return r.FindByAssessment(ctx, rec.AssessmentID)
}

func (r *LearningPathRepository) FindByAssessment(ctx context.Context, assessmentID string) (*model.LearningPathRecord, error) {
	var rec model.LearningPathRecord
	err := r.DB.WithContext(ctx).Where("assessment_id = ?", assessmentID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLearningPathNotFound
	}
	return &rec, err
}

// Latest 返回学习者在该科目下最近生成的路径
func (r *LearningPathRepository) Latest(ctx context.Context, userID, subjectID string) (*model.LearningPathRecord, error) {
	var rec model.LearningPathRecord
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Order("created_at desc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLearningPathNotFound
	}
	return &rec, err
}

func (r *LearningPathRepository) ListByUser(ctx context.Context, userID string) ([]model.LearningPathRecord, error) {
	var recs []model.LearningPathRecord
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&recs).Error
	return recs, err
}

func (r *LearningPathRepository) FindProgress(ctx context.Context, userID, moduleID string) (*model.ModuleProgress, error) {
	var p model.ModuleProgress
	err := r.DB.WithContext(ctx).Where("user_id = ? AND module_id = ?", userID, moduleID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *LearningPathRepository) SaveProgress(ctx context.Context, p *model.ModuleProgress) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *LearningPathRepository) ListProgress(ctx context.Context, userID string) ([]model.ModuleProgress, error) {
	var ps []model.ModuleProgress
	q := r.DB.WithContext(ctx)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Order("module_id asc").Find(&ps).Error
	return ps, err
}
