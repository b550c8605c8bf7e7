package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"cinetix/auth/internal/repository"
)

// Scheduler runs the refresh-token purge. ROTATED and REVOKED rows are
// kept until their natural expiry so reuse detection keeps working; past
// that point they are dead weight.
type Scheduler struct {
	cron     *cron.Cron
	tokens   *repository.RefreshTokenRepository
	schedule string
	log      zerolog.Logger
}

func NewScheduler(tokens *repository.RefreshTokenRepository, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		tokens:   tokens,
		schedule: schedule,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running purge to finish, up to five seconds.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("refresh token purge failed")
		return
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("expired refresh tokens purged")
	}
}
