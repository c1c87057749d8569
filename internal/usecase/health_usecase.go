package usecase

import (
	"context"

	"portfolio-backend/pkg/email"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// PingFunc checks an optional dependency; nil means it is not in use.
type PingFunc func(ctx context.Context) error

type healthUsecase struct {
	mail      email.Config
	redisPing PingFunc
}

func NewHealthUsecase(mail email.Config, redisPing PingFunc) HealthUsecase {
	return &healthUsecase{mail: mail, redisPing: redisPing}
}

// Check never dials the mail relay; it only reports whether credentials are set.
func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
		"email":  "configured",
		"redis":  "disabled",
	}
	if !u.mail.Configured() {
		status["email"] = "not_configured"
		status["status"] = "degraded"
	}
	if u.redisPing != nil {
		if err := u.redisPing(ctx); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	return status
}
