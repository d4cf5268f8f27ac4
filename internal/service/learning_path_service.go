package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/util"
	"adaptive_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

const practiceQuestionsPerModule = 3

// ProgressUpdateRequest 模块学习进度上报
// swagger:model ProgressUpdateRequest
type ProgressUpdateRequest struct {
	UserID             string  `json:"user_id" binding:"required"`
	ModuleID           string  `json:"module_id" binding:"required"`
	ProgressPercentage float64 `json:"progress_percentage"`
	Completed          bool    `json:"completed"`
	TimeSpentMinutes   int     `json:"time_spent_minutes"`
}

// LearningPathService 学习路径、模块进度和模块内容
type LearningPathService struct {
	Paths *repository.LearningPathRepository
	Users *repository.UserRepository
	Bank  *QuestionBankService
}

func NewLearningPathService(paths *repository.LearningPathRepository, users *repository.UserRepository, bank *QuestionBankService) *LearningPathService {
	return &LearningPathService{Paths: paths, Users: users, Bank: bank}
}

// GetLearningPath 返回学习者在该科目最新的学习路径及进度
func (s *LearningPathService) GetLearningPath(ctx context.Context, userID, subjectID string) (*model.LearningPathView, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	rec, err := s.Paths.Latest(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}
	progress, err := s.Paths.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	byModule := make(map[string]model.ModuleProgress)
	for _, p := range progress {
		if _, ok := rec.HasModule(p.ModuleID); ok {
			byModule[p.ModuleID] = p
		}
	}

	view := &model.LearningPathView{
		PathID:         rec.ID,
		AssessmentID:   rec.AssessmentID,
		Subject:        rec.SubjectID,
		CreatedAt:      rec.CreatedAt,
		LearningPath:   rec.Path,
		ModuleProgress: byModule,
	}
	modules := rec.Path.Modules
	if len(modules) == 0 {
		return view, nil
	}

	var total float64
	completed := 0
	for _, m := range modules {
		p, ok := byModule[m.ID]
		if !ok {
			continue
		}
		total += p.ProgressPercentage
		if p.Completed {
			completed++
		}
	}
	view.OverallProgress = util.Round(total/float64(len(modules)), 2)
	view.Completed = completed == len(modules)
	return view, nil
}

// ownerPath 找到包含该模块的学习路径（最新的优先）
func (s *LearningPathService) ownerPath(ctx context.Context, userID, moduleID string) (*model.LearningPathRecord, engine.Module, error) {
	recs, err := s.Paths.ListByUser(ctx, userID)
	if err != nil {
		return nil, engine.Module{}, err
	}
	for i := range recs {
		if m, ok := recs[i].HasModule(moduleID); ok {
			return &recs[i], m, nil
		}
	}
	return nil, engine.Module{}, fmt.Errorf("%w: %s", util.ErrModuleNotFound, moduleID)
}

// UpdateProgress 更新模块进度，学习时长累加
func (s *LearningPathService) UpdateProgress(ctx context.Context, req ProgressUpdateRequest) (*model.ModuleProgress, error) {
	if req.ProgressPercentage < 0 || req.ProgressPercentage > 100 {
		return nil, fmt.Errorf("%w: progress_percentage must be within [0, 100]", util.ErrInvalidInput)
	}
	if req.TimeSpentMinutes < 0 {
		return nil, fmt.Errorf("%w: time_spent_minutes must not be negative", util.ErrInvalidInput)
	}
	if _, err := s.Users.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	progress, err := s.Paths.FindProgress(ctx, req.UserID, req.ModuleID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		rec, _, err := s.ownerPath(ctx, req.UserID, req.ModuleID)
		if err != nil {
			return nil, err
		}
		progress = &model.ModuleProgress{
			UserID:    req.UserID,
			ModuleID:  req.ModuleID,
			PathID:    rec.ID,
			SubjectID: rec.SubjectID,
		}
	}

	progress.ProgressPercentage = req.ProgressPercentage
	progress.Completed = req.Completed
	progress.TimeSpentMinutes += req.TimeSpentMinutes
	progress.LastUpdated = time.Now().UTC()
	if err := s.Paths.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}

	logger.Log.Debug("Module progress updated",
		zap.String("userId", req.UserID),
		zap.String("moduleId", req.ModuleID),
		zap.Float64("progress", req.ProgressPercentage))
	return progress, nil
}

// bandsFor 模块类型对应的练习难度，按优先顺序
func bandsFor(t engine.ModuleType) []engine.Band {
	switch t {
	case engine.ModuleRemedial:
		return []engine.Band{engine.BandVeryEasy, engine.BandEasy, engine.BandMedium, engine.BandHard}
	case engine.ModulePractice:
		return []engine.Band{engine.BandMedium, engine.BandEasy, engine.BandHard, engine.BandVeryEasy}
	default:
		return []engine.Band{engine.BandHard, engine.BandMedium, engine.BandEasy, engine.BandVeryEasy}
	}
}

// practiceQuestions 从题库中选出与模块难度匹配的练习题
func practiceQuestions(bank []model.Question, m engine.Module) []model.QuestionView {
	rank := make(map[string]int)
	for i, b := range bandsFor(m.Type) {
		rank[string(b)] = i
	}
	var qs []model.Question
	for _, q := range bank {
		if q.SkillID == m.Skill {
			qs = append(qs, q)
		}
	}
	sort.SliceStable(qs, func(i, j int) bool {
		ri, rj := rank[qs[i].Difficulty], rank[qs[j].Difficulty]
		if ri != rj {
			return ri < rj
		}
		return qs[i].ID < qs[j].ID
	})
	if len(qs) > practiceQuestionsPerModule {
		qs = qs[:practiceQuestionsPerModule]
	}
	out := make([]model.QuestionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, *q.View())
	}
	return out
}

// GetModuleContent 为学习者路径中的模块生成学习内容
func (s *LearningPathService) GetModuleContent(ctx context.Context, userID, moduleID string) (*model.ModuleContent, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	rec, m, err := s.ownerPath(ctx, userID, moduleID)
	if err != nil {
		return nil, err
	}

	skill := strings.ReplaceAll(m.Skill, "_", " ")
	if sk, err := s.Bank.Repo.FindSkill(ctx, m.Skill); err == nil {
		skill = sk.Name
		if sk.Description != "" {
			skill = fmt.Sprintf("%s (%s)", sk.Name, sk.Description)
		}
	}

	var concepts string
	switch m.Type {
	case engine.ModuleRemedial:
		concepts = fmt.Sprintf("Review the core ideas of %s step by step, starting from the simplest examples.", skill)
	case engine.ModulePractice:
		concepts = fmt.Sprintf("Work through common patterns and pitfalls in %s to consolidate what you know.", skill)
	default:
		concepts = fmt.Sprintf("Explore edge cases and advanced applications of %s.", skill)
	}

	bank, err := s.Bank.Bank(ctx, rec.SubjectID)
	if err != nil {
		return nil, err
	}

	return &model.ModuleContent{
		ModuleID: m.ID,
		Title:    m.Title,
		Type:     string(m.Type),
		Skill:    m.Skill,
		Sections: []model.ContentSection{
			{
				SectionID:   m.ID + "_section_1",
				Title:       "Introduction",
				ContentType: "text",
				Content:     m.Description + ".",
			},
			{
				SectionID:   m.ID + "_section_2",
				Title:       "Key Concepts",
				ContentType: "text",
				Content:     concepts,
			},
			{
				SectionID:   m.ID + "_section_3",
				Title:       "Practice",
				ContentType: "quiz",
				Questions:   practiceQuestions(bank, m),
			},
		},
		EstimatedCompletionTime: m.RecommendedLength,
	}, nil
}

// GetProgressSummary 学习者各科目的学习进度汇总
func (s *LearningPathService) GetProgressSummary(ctx context.Context, userID string) (*model.UserProgressSummary, error) {
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	recs, err := s.Paths.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.Paths.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	subjects := make(map[string]*model.SubjectProgress)
	pathSubject := make(map[string]string, len(recs))
	for _, rec := range recs {
		sp, ok := subjects[rec.SubjectID]
		if !ok {
			sp = &model.SubjectProgress{Subject: rec.SubjectID}
			subjects[rec.SubjectID] = sp
		}
		sp.Paths++
		sp.ModulesTotal += len(rec.Path.Modules)
		pathSubject[rec.ID] = rec.SubjectID
	}
	for _, p := range progress {
		subject, ok := pathSubject[p.PathID]
		if !ok {
			continue
		}
		sp := subjects[subject]
		if p.Completed {
			sp.ModulesCompleted++
		}
		sp.TimeSpentMinutes += p.TimeSpentMinutes
	}

	out := &model.UserProgressSummary{
		UserID:      userID,
		GeneratedAt: time.Now().UTC(),
		Subjects:    make([]model.SubjectProgress, 0, len(subjects)),
	}
	for _, sp := range subjects {
		if sp.ModulesTotal > 0 {
			sp.OverallProgress = util.Round(float64(sp.ModulesCompleted)/float64(sp.ModulesTotal)*100, 2)
		}
		out.Subjects = append(out.Subjects, *sp)
	}
	sort.Slice(out.Subjects, func(i, j int) bool { return out.Subjects[i].Subject < out.Subjects[j].Subject })
	return out, nil
}
