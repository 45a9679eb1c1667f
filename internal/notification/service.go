package notification

import (
	"log/slog"
	"time"
)

// Repository defines the data access methods for notifications.
type Repository interface {
	Create(n *Notification) error
	GetByID(id int64) (*Notification, error)
	GetByUserID(userID int64, limit, offset int) ([]*Notification, error)
	CountUnread(userID int64) (int64, error)
	MarkRead(id int64, readAt time.Time) error
	MarkAllRead(userID int64, readAt time.Time) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Notify writes a single inbox entry. Failures surface to the caller,
// which for event-driven delivery means a log line and nothing else.
func (s *Service) Notify(userID int64, notifType, title, message string, data map[string]interface{}) (*Notification, error) {
	n := &Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to store notification",
			"error", err,
			"user_id", userID,
			"type", notifType)
		return nil, err
	}

	return n, nil
}

func (s *Service) ListForUser(userID int64, limit, offset int) ([]*Notification, error) {
	notifications, err := s.repo.GetByUserID(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", userID)
		return nil, err
	}
	return notifications, nil
}

func (s *Service) UnreadCount(userID int64) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead flags one notification as read. Only the recipient can do it.
func (s *Service) MarkRead(id, userID int64) error {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrNotificationNotFound
	}
	if n.IsRead() {
		return nil
	}
	return s.repo.MarkRead(id, time.Now())
}

func (s *Service) MarkAllRead(userID int64) error {
	return s.repo.MarkAllRead(userID, time.Now())
}
