// Package service implements DAO creation and lookup on top of the dao store and
// the council module.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/dao-governance/internal/metrics"
	apperrors "github.com/chainsafe/dao-governance/pkg/app/errors"
	"github.com/chainsafe/dao-governance/pkg/dao"
	"github.com/chainsafe/dao-governance/pkg/daostore"
	"github.com/chainsafe/dao-governance/pkg/scalar"
)

// createAttempts bounds id allocation retries when a concurrent creation takes the id.
const createAttempts = 3

// Service defines the interface for DAO creation and lookup.
type Service interface {
	// CreateDao validates payload, resolves its governance token and stores the DAO
	// with founder as prime account and sole initial council member.
	CreateDao(ctx context.Context, founder dao.AccountID, payload *dao.Payload) (*dao.Dao, error)
	GetDao(ctx context.Context, id dao.ID) (*dao.Dao, error)
	GetPolicy(ctx context.Context, id dao.ID) (*dao.Policy, error)
	GetToken(ctx context.Context, id dao.TokenID) (*dao.GovernanceToken, error)
	Count(ctx context.Context) (uint32, error)
}

// Options carries the runtime parameters of DAO creation.
type Options struct {
	Pallet   dao.PalletID
	Limits   dao.Limits
	Defaults dao.PolicyDefaults
}

// DefaultOptions returns the default pallet id, limits and origins.
func DefaultOptions() Options {
	return Options{
		Pallet:   dao.DefaultPalletID,
		Limits:   dao.DefaultLimits(),
		Defaults: dao.DefaultPolicyDefaults(),
	}
}

type daoService struct {
	store   daostore.Store
	council dao.CouncilProvider
	opts    Options
	logger  *zap.Logger
}

// NewService creates a new DAO service.
func NewService(store daostore.Store, council dao.CouncilProvider, opts Options, logger *zap.Logger) Service {
	return &daoService{
		store:   store,
		council: council,
		opts:    opts,
		logger:  logger,
	}
}

// CreateDao runs the creation flow:
//  1. Bounds the payload into a Config and Policy
//  2. Mints the new token or checks the reused one exists
//  3. Allocates the next DAO id and derives the DAO account
//  4. Stores the DAO and its policy
//  5. Initialises the council with the founder
//
// A failure after the token was minted or the DAO stored undoes those writes.
func (s *daoService) CreateDao(ctx context.Context, founder dao.AccountID, payload *dao.Payload) (*dao.Dao, error) {
	start := time.Now()
	defer func() { metrics.CreateDuration.Observe(time.Since(start).Seconds()) }()

	cfg, policy, err := dao.ValidatePayload(payload, founder, s.opts.Limits, s.opts.Defaults)
	if err != nil {
		return nil, RequestError(err)
	}

	minted, err := s.resolveToken(ctx, payload.Token)
	if err != nil {
		return nil, err
	}

	d, err := s.storeDao(ctx, founder, payload.Token.TokenID(), cfg, policy)
	if err != nil {
		s.abandonToken(ctx, minted)
		return nil, err
	}

	if err := s.council.InitializeMembers(ctx, d.ID, []dao.AccountID{founder}); err != nil {
		if delErr := s.store.DeleteDao(ctx, d.ID); delErr != nil {
			s.logger.Error("failed to remove dao after council failure",
				zap.Uint32("dao_id", uint32(d.ID)), zap.Error(delErr))
		}
		s.abandonToken(ctx, minted)
		return nil, apperrors.DependencyError(err, "council initialisation failed")
	}

	source := "existing"
	if minted != nil {
		source = "new"
	}
	metrics.PayloadsTotal.WithLabelValues("accepted").Inc()
	metrics.DaosCreated.WithLabelValues(source).Inc()
	metrics.DaoCount.Inc()
	return d, nil
}

// resolveToken returns the token it minted, or nil when an existing token is reused.
func (s *daoService) resolveToken(ctx context.Context, src dao.TokenSource) (*dao.GovernanceToken, error) {
	switch t := src.(type) {
	case dao.NewToken:
		token := t.Token
		if err := s.store.CreateToken(ctx, &token); err != nil {
			if errors.Is(err, daostore.ErrTokenExists) {
				return nil, apperrors.ConflictError(err, fmt.Sprintf("token %d already exists", token.TokenID))
			}
			return nil, fmt.Errorf("failed to mint token: %w", err)
		}
		return &token, nil
	case dao.ExistingToken:
		exists, err := s.store.TokenExists(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token existence: %w", err)
		}
		if !exists {
			return nil, apperrors.ResourceNotFoundError(daostore.ErrTokenNotFound, fmt.Sprintf("token %d not found", t.ID))
		}
		return nil, nil
	default:
		return nil, apperrors.BadRequestError(dao.ErrMissingToken, "token or token_id required")
	}
}

func (s *daoService) storeDao(
	ctx context.Context,
	founder dao.AccountID,
	tokenID dao.TokenID,
	cfg dao.Config,
	policy *dao.Policy,
) (*dao.Dao, error) {
	var lastErr error
	for range createAttempts {
		id, err := s.store.NextDaoID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate dao id: %w", err)
		}

		d := dao.New(s.opts.Pallet, id, founder, tokenID, cfg)
		err = s.store.CreateDao(ctx, d, policy)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, daostore.ErrDaoExists) {
			return nil, fmt.Errorf("failed to save dao: %w", err)
		}
		lastErr = err
		s.logger.Warn("dao id taken, retrying", zap.Uint32("dao_id", uint32(id)))
	}
	return nil, apperrors.ConflictError(lastErr, "dao id allocation conflicted, retry the request")
}

func (s *daoService) abandonToken(ctx context.Context, minted *dao.GovernanceToken) {
	if minted == nil {
		return
	}
	if err := s.store.DeleteToken(ctx, minted.TokenID); err != nil {
		s.logger.Error("failed to remove abandoned token",
			zap.Uint32("token_id", uint32(minted.TokenID)), zap.Error(err))
	}
}

func (s *daoService) GetDao(ctx context.Context, id dao.ID) (*dao.Dao, error) {
	d, err := s.store.GetDao(ctx, id)
	if err != nil {
		if errors.Is(err, daostore.ErrDaoNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, fmt.Sprintf("dao %d not found", id))
		}
		return nil, err
	}
	return d, nil
}

func (s *daoService) GetPolicy(ctx context.Context, id dao.ID) (*dao.Policy, error) {
	p, err := s.store.GetPolicy(ctx, id)
	if err != nil {
		if errors.Is(err, daostore.ErrPolicyNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, fmt.Sprintf("policy of dao %d not found", id))
		}
		return nil, err
	}
	return p, nil
}

func (s *daoService) GetToken(ctx context.Context, id dao.TokenID) (*dao.GovernanceToken, error) {
	t, err := s.store.GetToken(ctx, id)
	if err != nil {
		if errors.Is(err, daostore.ErrTokenNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, fmt.Sprintf("token %d not found", id))
		}
		return nil, err
	}
	return t, nil
}

func (s *daoService) Count(ctx context.Context) (uint32, error) {
	n, err := s.store.CountDaos(ctx)
	if err != nil {
		return 0, err
	}
	metrics.DaoCount.Set(float64(n))
	return n, nil
}

// RequestError classifies a payload decoding or validation failure as a bad request
// and records it. Errors it does not recognise are returned unchanged.
func RequestError(err error) error {
	var (
		verr *dao.ValidationError
		perr *scalar.ParseError
	)
	switch {
	case errors.As(err, &verr):
		metrics.PayloadsTotal.WithLabelValues("rejected").Inc()
		metrics.ValidationRejections.WithLabelValues(verr.Kind.String(), verr.Field).Inc()
		return apperrors.BadRequestError(err, err.Error())
	case errors.As(err, &perr):
		metrics.PayloadsTotal.WithLabelValues("parse_error").Inc()
		return apperrors.BadRequestError(err, err.Error())
	case errors.Is(err, dao.ErrMalformedPayload):
		metrics.PayloadsTotal.WithLabelValues("malformed").Inc()
		return apperrors.BadRequestError(err, err.Error())
	default:
		return err
	}
}
