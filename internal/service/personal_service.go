package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"schedule-maker/config"
	"schedule-maker/internal/dto"
	"schedule-maker/internal/model"
	"schedule-maker/internal/repository"
)

// ── 个人安排模块业务错误 ──

var (
	ErrPersonalEntryNotFound = errors.New("个人安排不存在")
)

// PersonalService 个人安排
type PersonalService interface {
	List(ctx context.Context, sessionID string, week int) ([]dto.PersonalEntryResponse, error)
	Add(ctx context.Context, sessionID string, req *dto.CreatePersonalEntryRequest) (*dto.PersonalEntryResponse, error)
	Delete(ctx context.Context, sessionID, entryID string) error
}

type personalService struct {
	repo   *repository.Repository
	view   config.ViewConfig
	logger *zap.Logger
}

// NewPersonalService 创建 PersonalService 实例
func NewPersonalService(repo *repository.Repository, view config.ViewConfig, logger *zap.Logger) PersonalService {
	return &personalService{repo: repo, view: view, logger: logger}
}

func (s *personalService) List(ctx context.Context, sessionID string, week int) ([]dto.PersonalEntryResponse, error) {
	if err := checkWeek(week, s.view.MaxWeek); err != nil {
		return nil, err
	}
	sess, err := s.repo.Session.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toPersonalEntryResponses(model.EntriesForWeek(sess.Personal, week)), nil
}

func (s *personalService) Add(ctx context.Context, sessionID string, req *dto.CreatePersonalEntryRequest) (*dto.PersonalEntryResponse, error) {
	if err := checkWeek(req.Week, s.view.MaxWeek); err != nil {
		return nil, err
	}
	entry, err := ParsePersonalEntry(req.Text, req.Week)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.Session.Update(ctx, sessionID, func(sess *model.Session) error {
		sess.Personal = append(sess.Personal, *entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toPersonalEntryResponses([]model.PersonalEntry{*entry})
	return &out[0], nil
}

func (s *personalService) Delete(ctx context.Context, sessionID, entryID string) error {
	_, err := s.repo.Session.Update(ctx, sessionID, func(sess *model.Session) error {
		for i := range sess.Personal {
			if sess.Personal[i].ID == entryID {
				sess.Personal = append(sess.Personal[:i], sess.Personal[i+1:]...)
				return nil
			}
		}
		return ErrPersonalEntryNotFound
	})
	return err
}
