package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/dao-governance/pkg/dao"
)

const serviceName = "DaoService"

// logService wraps Service with logging of every call.
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the DAO Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) done(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", fields...)
}

func (ls *logService) CreateDao(ctx context.Context, founder dao.AccountID, payload *dao.Payload) (d *dao.Dao, err error) {
	start := time.Now()
	ls.logger.Info("CreateDao started",
		zap.String("service", serviceName),
		zap.String("method", "CreateDao"),
		zap.Stringer("founder", founder),
	)

	defer func() {
		if err != nil {
			ls.done("CreateDao", start, err, zap.Stringer("founder", founder))
			return
		}
		ls.done("CreateDao", start, nil,
			zap.Uint32("dao_id", uint32(d.ID)),
			zap.Stringer("account_id", d.AccountID),
			zap.Uint32("token_id", uint32(d.TokenID)),
		)
	}()

	return ls.svc.CreateDao(ctx, founder, payload)
}

func (ls *logService) GetDao(ctx context.Context, id dao.ID) (d *dao.Dao, err error) {
	defer func(start time.Time) {
		ls.done("GetDao", start, err, zap.Uint32("dao_id", uint32(id)))
	}(time.Now())
	return ls.svc.GetDao(ctx, id)
}

func (ls *logService) GetPolicy(ctx context.Context, id dao.ID) (p *dao.Policy, err error) {
	defer func(start time.Time) {
		ls.done("GetPolicy", start, err, zap.Uint32("dao_id", uint32(id)))
	}(time.Now())
	return ls.svc.GetPolicy(ctx, id)
}

func (ls *logService) GetToken(ctx context.Context, id dao.TokenID) (t *dao.GovernanceToken, err error) {
	defer func(start time.Time) {
		ls.done("GetToken", start, err, zap.Uint32("token_id", uint32(id)))
	}(time.Now())
	return ls.svc.GetToken(ctx, id)
}

func (ls *logService) Count(ctx context.Context) (n uint32, err error) {
	defer func(start time.Time) {
		ls.done("Count", start, err, zap.Uint32("count", n))
	}(time.Now())
	return ls.svc.Count(ctx)
}
