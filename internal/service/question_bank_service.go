package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/util"
	"adaptive_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BankDocument 题库导入文件格式（YAML，JSON 同样可解析）
type BankDocument struct {
	Subjects []BankSubject `yaml:"subjects" json:"subjects"`
	Learners []BankLearner `yaml:"learners" json:"learners"`
}

type BankSubject struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Skills      []BankSkill `yaml:"skills" json:"skills"`
}

type BankSkill struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Questions   []BankQuestion `yaml:"questions" json:"questions"`
}

type BankQuestion struct {
	ID            string   `yaml:"id" json:"id"`
	Difficulty    string   `yaml:"difficulty" json:"difficulty"`
	Text          string   `yaml:"text" json:"text"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer string   `yaml:"correct_answer" json:"correct_answer"`
	Explanation   string   `yaml:"explanation" json:"explanation"`
}

type BankLearner struct {
	ID       string `yaml:"id" json:"id"`
	Username string `yaml:"username" json:"username"`
	Name     string `yaml:"name" json:"name"`
	Email    string `yaml:"email" json:"email"`
}

// ImportSummary 导入结果统计
type ImportSummary struct {
	Subjects  int `json:"subjects"`
	Skills    int `json:"skills"`
	Questions int `json:"questions"`
	Learners  int `json:"learners"`
}

// ParseBank decodes a bank document and checks it for internal consistency.
func ParseBank(r io.Reader) (*BankDocument, error) {
	var doc BankDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty question bank document", util.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate 校验 id 唯一、难度合法、答案存在于选项中
func (d *BankDocument) Validate() error {
	seen := map[string]string{}
	claim := func(kind, id string) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: %s without id", util.ErrInvalidInput, kind)
		}
		key := kind + ":" + id
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate %s id %q", util.ErrInvalidInput, kind, id)
		}
		seen[key] = id
		return nil
	}

	for _, s := range d.Subjects {
		if err := claim("subject", s.ID); err != nil {
			return err
		}
		for _, sk := range s.Skills {
			if err := claim("skill", sk.ID); err != nil {
				return err
			}
			for _, q := range sk.Questions {
				if err := claim("question", q.ID); err != nil {
					return err
				}
				if _, err := engine.ParseBand(q.Difficulty); err != nil {
					return fmt.Errorf("question %q: %w", q.ID, err)
				}
				if strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.CorrectAnswer) == "" {
					return fmt.Errorf("%w: question %q needs text and correct_answer", util.ErrInvalidInput, q.ID)
				}
				if len(q.Options) > 0 && !containsAnswer(q.Options, q.CorrectAnswer) {
					return fmt.Errorf("%w: question %q correct_answer is not one of its options", util.ErrInvalidInput, q.ID)
				}
			}
		}
	}
	for _, l := range d.Learners {
		if err := claim("learner", l.ID); err != nil {
			return err
		}
		if strings.TrimSpace(l.Username) == "" {
			return fmt.Errorf("%w: learner %q needs a username", util.ErrInvalidInput, l.ID)
		}
	}
	return nil
}

func containsAnswer(options []string, answer string) bool {
	for _, o := range options {
		if util.AnswersMatch(o, answer) {
			return true
		}
	}
	return false
}

// QuestionBankService 题库查询与导入；按科目缓存题目
type QuestionBankService struct {
	Repo  *repository.QuestionRepository
	Users *repository.UserRepository

	mu    sync.RWMutex
	cache map[string][]model.Question
}

func NewQuestionBankService(repo *repository.QuestionRepository, users *repository.UserRepository) *QuestionBankService {
	return &QuestionBankService{Repo: repo, Users: users, cache: make(map[string][]model.Question)}
}

// Import 写入题库并使相关科目的缓存失效
func (s *QuestionBankService) Import(ctx context.Context, doc *BankDocument) (*ImportSummary, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var (
		subjects  []model.Subject
		skills    []model.Skill
		questions []model.Question
	)
	for _, bs := range doc.Subjects {
		subjects = append(subjects, model.Subject{ID: bs.ID, Name: bs.Name, Description: bs.Description})
		for _, sk := range bs.Skills {
			name := sk.Name
			if name == "" {
				name = strings.ReplaceAll(sk.ID, "_", " ")
			}
			skills = append(skills, model.Skill{ID: sk.ID, SubjectID: bs.ID, Name: name, Description: sk.Description})
			for _, q := range sk.Questions {
				band, _ := engine.ParseBand(q.Difficulty)
				questions = append(questions, model.Question{
					ID:            q.ID,
					SubjectID:     bs.ID,
					SkillID:       sk.ID,
					Difficulty:    string(band),
					Text:          q.Text,
					Options:       q.Options,
					CorrectAnswer: q.CorrectAnswer,
					Explanation:   q.Explanation,
				})
			}
		}
	}

	if err := s.Repo.ImportBank(ctx, subjects, skills, questions); err != nil {
		return nil, err
	}
	for _, l := range doc.Learners {
		u := &model.User{ID: l.ID, Username: l.Username, Name: l.Name, Email: l.Email}
		if err := s.Users.Upsert(ctx, u); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	for _, sub := range subjects {
		delete(s.cache, sub.ID)
	}
	s.mu.Unlock()

	summary := &ImportSummary{
		Subjects:  len(subjects),
		Skills:    len(skills),
		Questions: len(questions),
		Learners:  len(doc.Learners),
	}
	logger.Log.Info("Question bank imported",
		zap.Int("subjects", summary.Subjects),
		zap.Int("skills", summary.Skills),
		zap.Int("questions", summary.Questions),
		zap.Int("learners", summary.Learners))
	return summary, nil
}

func (s *QuestionBankService) ImportYAML(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	doc, err := ParseBank(r)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, doc)
}

// Bank 返回科目下全部题目（含答案，仅供服务内部使用）
func (s *QuestionBankService) Bank(ctx context.Context, subjectID string) ([]model.Question, error) {
	s.mu.RLock()
	qs, ok := s.cache[subjectID]
	s.mu.RUnlock()
	if ok {
		return qs, nil
	}

	if _, err := s.Repo.FindSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	qs, err := s.Repo.ListQuestions(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[subjectID] = qs
	s.mu.Unlock()
	return qs, nil
}

// Question 在科目题库中查找题目
func (s *QuestionBankService) Question(ctx context.Context, subjectID, questionID string) (*model.Question, error) {
	qs, err := s.Bank(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	for i := range qs {
		if qs[i].ID == questionID {
			q := qs[i]
			return &q, nil
		}
	}
	return nil, util.ErrQuestionNotFound
}

// FindQuestion looks a question up by id alone.
func (s *QuestionBankService) FindQuestion(ctx context.Context, questionID string) (*model.Question, error) {
	q, err := s.Repo.FindQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return s.Question(ctx, q.SubjectID, questionID)
}

// ToEngine converts a bank to the engine's question type.
func ToEngine(qs []model.Question) []engine.Question {
	out := make([]engine.Question, len(qs))
	for i, q := range qs {
		out[i] = q.ToEngine()
	}
	return out
}

// SkillIDs 返回题库中出现过的技能（升序）
func SkillIDs(qs []model.Question) []string {
	set := map[string]struct{}{}
	for _, q := range qs {
		set[q.SkillID] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *QuestionBankService) summary(ctx context.Context, sub model.Subject) (*model.SubjectSummary, error) {
	qs, err := s.Bank(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	dist := map[string]int{}
	for _, b := range engine.Bands {
		dist[string(b)] = 0
	}
	for _, q := range qs {
		dist[q.Difficulty]++
	}
	skills := sub.Skills
	if skills == nil {
		skills = []model.Skill{}
	}
	return &model.SubjectSummary{
		ID:                  sub.ID,
		Name:                sub.Name,
		Description:         sub.Description,
		QuestionCount:       len(qs),
		Skills:              skills,
		DifficultyBreakdown: dist,
	}, nil
}

func (s *QuestionBankService) ListSubjects(ctx context.Context) ([]model.SubjectSummary, error) {
	subs, err := s.Repo.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.SubjectSummary, 0, len(subs))
	for _, sub := range subs {
		sum, err := s.summary(ctx, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, *sum)
	}
	return out, nil
}

func (s *QuestionBankService) GetSubject(ctx context.Context, subjectID string) (*model.SubjectSummary, error) {
	sub, err := s.Repo.FindSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return s.summary(ctx, *sub)
}

// ListQuestions 返回科目题目，不含答案
func (s *QuestionBankService) ListQuestions(ctx context.Context, subjectID string) ([]model.QuestionView, error) {
	qs, err := s.Bank(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	out := make([]model.QuestionView, 0, len(qs))
	for _, q := range qs {
		out = append(out, *q.View())
	}
	return out, nil
}
