package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"schedule-maker/config"
	"schedule-maker/internal/dto"
	"schedule-maker/internal/model"
	"schedule-maker/internal/repository"
)

// ── 提醒邮件模块业务错误 ──

var (
	ErrInvalidRecipient = errors.New("收件人邮箱格式无效")
)

// defaultReminderSubject 未指定主题时使用
const defaultReminderSubject = "Nhắc nhở lịch tuần %d"

// ReminderSender 发送提醒邮件（*Mailer 实现）
type ReminderSender interface {
	Send(ctx context.Context, recipient, subject string, unfinished []model.WeeklyViewRow, personal []model.PersonalEntry) MailResult
}

// ReminderService 手动触发的提醒邮件
//
// 发送失败不是错误：结果（成功与否 + 提示信息）原样返回给调用方。
// 启用数据库时每次尝试都会写入 reminder_logs，写入失败只记日志。
type ReminderService interface {
	Send(ctx context.Context, sessionID string, req *dto.SendReminderRequest) (*dto.SendReminderResponse, error)
	History(ctx context.Context, sessionID string, page *dto.PaginationRequest) (*dto.PaginatedResponse, error)
}

type reminderService struct {
	repo     *repository.Repository
	sender   ReminderSender
	validate *validator.Validate
	view     config.ViewConfig
	logger   *zap.Logger
}

// NewReminderService 创建 ReminderService 实例
func NewReminderService(repo *repository.Repository, sender ReminderSender, view config.ViewConfig, logger *zap.Logger) ReminderService {
	return &reminderService{
		repo:     repo,
		sender:   sender,
		validate: validator.New(),
		view:     view,
		logger:   logger,
	}
}

// ────────────────────── Send ──────────────────────

func (s *reminderService) Send(ctx context.Context, sessionID string, req *dto.SendReminderRequest) (*dto.SendReminderResponse, error) {
	if err := checkWeek(req.Week, s.view.MaxWeek); err != nil {
		return nil, err
	}
	recipient := strings.TrimSpace(req.Recipient)
	if err := s.validate.Var(recipient, "required,email"); err != nil {
		return nil, ErrInvalidRecipient
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = fmt.Sprintf(defaultReminderSubject, req.Week)
	}

	sess, err := s.repo.Session.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	unfinished := Unfinished(weekRows(sess, req.Week, s.view.DayOrder))
	personal := model.EntriesForWeek(sess.Personal, req.Week)

	res := s.sender.Send(ctx, recipient, subject, unfinished, personal)

	s.record(ctx, &model.ReminderLog{
		SessionID: sessionID,
		Recipient: recipient,
		Subject:   subject,
		Week:      req.Week,
		State:     res.State,
		Success:   res.Success,
		Message:   res.Message,
		CreatedAt: time.Now(),
	})

	return &dto.SendReminderResponse{
		Success: res.Success,
		Message: res.Message,
		State:   res.State,
	}, nil
}

// ────────────────────── History ──────────────────────

func (s *reminderService) History(ctx context.Context, sessionID string, page *dto.PaginationRequest) (*dto.PaginatedResponse, error) {
	logs, total, err := s.repo.ReminderLog.ListBySession(ctx, sessionID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询发送记录失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.ReminderLogResponse, 0, len(logs))
	for _, l := range logs {
		list = append(list, dto.ReminderLogResponse{
			ID:        l.ReminderLogID,
			Recipient: l.Recipient,
			Subject:   l.Subject,
			Week:      l.Week,
			State:     l.State,
			Success:   l.Success,
			Message:   l.Message,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.PaginatedResponse{
		List:       list,
		Pagination: dto.NewPagination(page.GetPage(), page.GetPageSize(), total),
	}, nil
}

func (s *reminderService) record(ctx context.Context, log *model.ReminderLog) {
	if err := s.repo.ReminderLog.Create(ctx, log); err != nil {
		s.logger.Warn("写入发送记录失败",
			zap.String("session_id", log.SessionID),
			zap.String("state", log.State),
			zap.Error(err),
		)
	}
}
