package service

import (
	"context"
	"fmt"
	"strings"

	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/util"
)

// LearnerRequest 管理端创建或更新学习者
// swagger:model LearnerRequest
type LearnerRequest struct {
	ID       string `json:"id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// UserService 学习者资料
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// SaveLearner 新建或更新学习者，返回保存后的记录
func (s *UserService) SaveLearner(ctx context.Context, req LearnerRequest) (*model.User, error) {
	id := strings.TrimSpace(req.ID)
	username := strings.TrimSpace(req.Username)
	if id == "" || username == "" {
		return nil, fmt.Errorf("%w: id and username are required", util.ErrInvalidInput)
	}
	user := &model.User{ID: id, Username: username, Name: req.Name, Email: req.Email}
	if err := s.UserRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return s.UserRepo.FindByID(ctx, id)
}

func (s *UserService) GetLearner(ctx context.Context, id string) (*model.User, error) {
	return s.UserRepo.FindByID(ctx, id)
}
