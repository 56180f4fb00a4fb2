package mail

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xavierca1/lead-outreach/internal/infra/integration/ethereal"
)

type AccountProvisioner interface {
	CreateAccount(ctx context.Context) (*ethereal.Account, error)
}

// Resolver picks the outbound transport once per process: configured SMTP,
// else a disposable test account, else the stub.
type Resolver struct {
	smtp             SMTPSettings
	provisioner      AccountProvisioner
	log              *zap.Logger
	provisionTimeout time.Duration

	group  singleflight.Group
	mu     sync.RWMutex
	cached Transport
}

// NewResolver accepts a nil provisioner, which skips the test account step.
func NewResolver(smtp SMTPSettings, provisioner AccountProvisioner, log *zap.Logger) *Resolver {
	return &Resolver{
		smtp:             smtp,
		provisioner:      provisioner,
		log:              log,
		provisionTimeout: 15 * time.Second,
	}
}

func (r *Resolver) Transport(ctx context.Context) Transport {
	if t := r.current(); t != nil {
		return t
	}

	v, _, _ := r.group.Do("transport", func() (interface{}, error) {
		if t := r.current(); t != nil {
			return t, nil
		}

		t := r.resolve(context.WithoutCancel(ctx))

		r.mu.Lock()
		r.cached = t
		r.mu.Unlock()
		return t, nil
	})

	return v.(Transport)
}

func (r *Resolver) current() Transport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cached
}

func (r *Resolver) resolve(ctx context.Context) Transport {
	if r.smtp.Configured() {
		r.log.Info("mail transport: using configured SMTP",
			zap.String("host", r.smtp.Host),
			zap.Int("port", r.smtp.Port),
		)
		return NewSMTPTransport(r.smtp)
	}

	if r.provisioner != nil {
		ctx, cancel := context.WithTimeout(ctx, r.provisionTimeout)
		defer cancel()

		account, err := r.provisioner.CreateAccount(ctx)
		if err == nil {
			r.log.Info("mail transport: using disposable test account",
				zap.String("user", account.User),
				zap.String("web", account.Web),
			)
			return NewTestAccountTransport(account)
		}
		r.log.Warn("mail transport: test account provisioning failed", zap.Error(err))
	}

	r.log.Warn("mail transport: falling back to stub, emails will only be logged")
	return NewStubTransport(r.log)
}
