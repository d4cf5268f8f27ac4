package repository

import (
	"context"
	"errors"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionRepository 题库：科目、技能、题目
type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func upsert(columns ...string) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}
}

// ImportBank 在一个事务中写入科目、技能和题目（存在则覆盖）
func (r *QuestionRepository) ImportBank(ctx context.Context, subjects []model.Subject, skills []model.Skill, questions []model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range subjects {
			if err := tx.Clauses(upsert("name", "description", "updated_at")).Omit("Skills").Create(&subjects[i]).Error; err != nil {
				return err
			}
		}
		for i := range skills {
			if err := tx.Clauses(upsert("subject_id", "name", "description", "updated_at")).Create(&skills[i]).Error; err != nil {
				return err
			}
		}
		for i := range questions {
			if err := tx.Clauses(upsert("subject_id", "skill_id", "difficulty", "text", "options", "correct_answer", "explanation", "updated_at")).
				Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuestionRepository) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.WithContext(ctx).
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Order("id asc").
		Find(&subjects).Error
	return subjects, err
}

func (r *QuestionRepository) FindSubject(ctx context.Context, id string) (*model.Subject, error) {
	var s model.Subject
	err := r.DB.WithContext(ctx).
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("id = ?", id).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubjectNotFound
	}
	return &s, err
}

func (r *QuestionRepository) FindSkill(ctx context.Context, id string) (*model.Skill, error) {
	var s model.Skill
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSkillNotFound
	}
	return &s, err
}

// ListQuestions 按 id 排序返回科目下所有题目
func (r *QuestionRepository) ListQuestions(ctx context.Context, subjectID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("id asc").
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) FindQuestion(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return &q, err
}

type difficultyCount struct {
	Difficulty string
	Count      int
}

// DifficultyDistribution 统计科目下各难度题目数量
func (r *QuestionRepository) DifficultyDistribution(ctx context.Context, subjectID string) (map[string]int, error) {
	var rows []difficultyCount
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Select("difficulty, COUNT(*) AS count").
		Where("subject_id = ?", subjectID).
		Group("difficulty").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[string]int{"very_easy": 0, "easy": 0, "medium": 0, "hard": 0}
	for _, row := range rows {
		out[row.Difficulty] = row.Count
	}
	return out, nil
}
