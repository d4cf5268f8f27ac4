package repository

import (
	"context"
	"errors"
	"time"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/util"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) Create(ctx context.Context, s *model.AssessmentSession) error {
	return r.DB.WithContext(ctx).Omit("Answers").Create(s).Error
}

func orderedAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("sequence asc")
}

func (r *AssessmentRepository) FindByID(ctx context.Context, id string) (*model.AssessmentSession, error) {
	var s model.AssessmentSession
	err := r.DB.WithContext(ctx).
		Preload("Answers", orderedAnswers).
		Where("id = ?", id).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssessmentNotFound
	}
	return &s, err
}

// RecordAnswer 追加作答记录并保存会话状态，两者在同一事务中
func (r *AssessmentRepository) RecordAnswer(ctx context.Context, s *model.AssessmentSession, a *model.AssessmentAnswer) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a.SessionID = s.ID
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return tx.Model(s).Select(
			"status", "answered_count", "correct_count", "pending_question_id",
			"final_masteries", "completed_at", "updated_at",
		).Updates(s).Error
	})
}

func (r *AssessmentRepository) SetReportURL(ctx context.Context, id, url string) error {
	return r.DB.WithContext(ctx).Model(&model.AssessmentSession{}).
		Where("id = ?", id).
		Update("report_url", url).Error
}

// AssessmentFilter 为空字段表示不过滤
type AssessmentFilter struct {
	UserID    string
	SubjectID string
	Status    string
}

func (f AssessmentFilter) apply(db *gorm.DB) *gorm.DB {
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.SubjectID != "" {
		db = db.Where("subject_id = ?", f.SubjectID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

// List 返回符合条件的测评（含作答记录），按创建时间倒序
func (r *AssessmentRepository) List(ctx context.Context, f AssessmentFilter) ([]model.AssessmentSession, error) {
	var out []model.AssessmentSession
	err := f.apply(r.DB.WithContext(ctx)).
		Preload("Answers", orderedAnswers).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

func (r *AssessmentRepository) Count(ctx context.Context, f AssessmentFilter) (int64, error) {
	var n int64
	err := f.apply(r.DB.WithContext(ctx).Model(&model.AssessmentSession{})).Count(&n).Error
	return n, err
}

func (r *AssessmentRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.AssessmentSession{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

// CountBySubject 按科目统计测评数量
func (r *AssessmentRepository) CountBySubject(ctx context.Context) (map[string]int64, error) {
	type row struct {
		SubjectID string
		Count     int64
	}
	var rows []row
	err := r.DB.WithContext(ctx).Model(&model.AssessmentSession{}).
		Select("subject_id, COUNT(*) AS count").
		Group("subject_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.SubjectID] = r.Count
	}
	return out, nil
}
