package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/now-man/a4s-dshbrd-250831/internal/errors"
	"github.com/patrickmn/go-cache"
)

// Destructive operations run in two steps: the client first requests a
// confirmation token, then replays the request with the token attached.
// Tokens are single use and expire quickly.

const confirmationTTL = 2 * time.Minute

// ConfirmationBroker issues and redeems confirmation tokens for destructive
// actions.
type ConfirmationBroker struct {
	tokens *cache.Cache
}

func NewConfirmationBroker() *ConfirmationBroker {
	return &ConfirmationBroker{
		tokens: cache.New(confirmationTTL, confirmationTTL),
	}
}

// Request issues a token bound to the named action.
func (b *ConfirmationBroker) Request(action string) string {
	token := uuid.NewString()
	b.tokens.Set(token, action, cache.DefaultExpiration)
	return token
}

// Consume redeems a token for the named action. A token is valid exactly
// once; a mismatch or an expired token fails.
func (b *ConfirmationBroker) Consume(token, action string) error {
	stored, found := b.tokens.Get(token)
	if !found {
		return errors.Newf("confirmation token is invalid or expired").
			Component("dashboard").
			Category(errors.CategoryValidation).
			Context("action", action).
			Build()
	}
	b.tokens.Delete(token)
	if stored != action {
		return errors.Newf("confirmation token was issued for a different action").
			Component("dashboard").
			Category(errors.CategoryValidation).
			Context("action", action).
			Build()
	}
	return nil
}

const actionClearLogs = "clear-mission-logs"

// RequestClearLogs starts the two-step flow for wiping all mission feedback.
// It returns the confirmation token and the number of logs that would be
// removed.
func (s *Service) RequestClearLogs() (token string, count int64, err error) {
	count, err = s.ds.CountMissionLogs()
	if err != nil {
		return "", 0, err
	}
	return s.confirmations.Request(actionClearLogs), count, nil
}

// ExecuteClearLogs completes the flow, deleting every mission log. The
// token must come from a prior RequestClearLogs call.
func (s *Service) ExecuteClearLogs(token string) (int64, error) {
	if err := s.confirmations.Consume(token, actionClearLogs); err != nil {
		return 0, err
	}
	start := time.Now()
	deleted, err := s.ds.DeleteAllMissionLogs()
	s.recordStoreOp("delete_all_mission_logs", start, err)
	if err != nil {
		return 0, err
	}
	s.logger.Warn("All mission feedback cleared", "deleted", deleted)
	return deleted, nil
}
