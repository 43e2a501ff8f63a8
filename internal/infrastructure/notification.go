package infrastructure

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/app-fetch-go/internal/domain"
	"go.uber.org/zap"
)

// NotificationService handles sending desktop notifications
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	var cmd *exec.Cmd
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		cmd = exec.Command("osascript", "-e", script)
	case "notify-send":
		cmd = exec.Command("notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err := cmd.Run(); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))

	return nil
}

// NotifyBatchStarted sends notification when a batch starts
func (n *NotificationService) NotifyBatchStarted(count int) {
	n.Send("Downloads Started", fmt.Sprintf("Fetching %d application(s)", count))
}

// NotifyAppCompleted sends notification when an installer was saved
func (n *NotificationService) NotifyAppCompleted(label string) {
	n.Send("Download Completed", truncateString(label, 60))
}

// NotifyAppFailed sends notification when an application could not be fetched
func (n *NotificationService) NotifyAppFailed(name string, err error) {
	n.Send("Download Failed", truncateString(fmt.Sprintf("%s: %v", name, err), 60))
}

// NotifyBatchFinished sends notification when the batch ends
func (n *NotificationService) NotifyBatchFinished(status domain.BatchStatus, completed, failed int) {
	switch status {
	case domain.BatchCancelled:
		n.Send("Downloads Cancelled", fmt.Sprintf("%d completed before cancellation", completed))
	default:
		n.Send("Downloads Finished", fmt.Sprintf("%d completed, %d failed", completed, failed))
	}
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
