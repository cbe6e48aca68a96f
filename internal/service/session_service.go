package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-maker/internal/dto"
	"schedule-maker/internal/model"
	"schedule-maker/internal/repository"
	"schedule-maker/pkg/jwt"
)

// ── 会话模块业务错误 ──

var (
	ErrWeekOutOfRange = errors.New("周次超出范围")
)

// SessionService 会话生命周期
type SessionService interface {
	Create(ctx context.Context) (*dto.SessionTokenResponse, error)
	Summary(ctx context.Context, sessionID string) (*dto.SessionSummaryResponse, error)
	End(ctx context.Context, sessionID string) error
}

type sessionService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, jwtMgr *jwt.Manager, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, jwtMgr: jwtMgr, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *sessionService) Create(ctx context.Context) (*dto.SessionTokenResponse, error) {
	id := uuid.NewString()

	token, expiresAt, err := s.jwtMgr.GenerateSessionToken(id)
	if err != nil {
		s.logger.Error("生成会话令牌失败", zap.Error(err))
		return nil, err
	}

	sess := model.NewSession(id, s.now(), s.jwtMgr.TTL())
	sess.ExpiresAt = expiresAt
	if err := s.repo.Session.Create(ctx, sess); err != nil {
		s.logger.Error("保存会话失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("会话已创建", zap.String("session_id", id))
	return &dto.SessionTokenResponse{
		SessionID:   id,
		AccessToken: token,
		ExpiresIn:   int(s.jwtMgr.TTL().Seconds()),
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── Summary ──────────────────────

func (s *sessionService) Summary(ctx context.Context, sessionID string) (*dto.SessionSummaryResponse, error) {
	sess, err := s.repo.Session.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	done := 0
	for _, v := range sess.Done {
		if v {
			done++
		}
	}

	return &dto.SessionSummaryResponse{
		SessionID:     sess.ID,
		CreatedAt:     sess.CreatedAt.Format(time.RFC3339),
		ExpiresAt:     sess.ExpiresAt.Format(time.RFC3339),
		HasTimetable:  sess.Timetable != nil,
		SectionCount:  len(sess.Timetable.Sections()),
		Selected:      sess.Selected,
		PersonalCount: len(sess.Personal),
		DoneCount:     done,
	}, nil
}

// ────────────────────── End ──────────────────────

func (s *sessionService) End(ctx context.Context, sessionID string) error {
	if err := s.repo.Session.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("会话已结束", zap.String("session_id", sessionID))
	return nil
}

// checkWeek 周次必须在 1..maxWeek 之间
func checkWeek(week, maxWeek int) error {
	if week < 1 || week > maxWeek {
		return fmt.Errorf("%w: 应在 1-%d 之间", ErrWeekOutOfRange, maxWeek)
	}
	return nil
}
