package council

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/chainsafe/dao-governance/internal/metrics"
	"github.com/chainsafe/dao-governance/pkg/dao"
)

var (
	// ErrUnavailable wraps every failure of the underlying membership store.
	ErrUnavailable = errors.New("council membership unavailable")
	// ErrEmptyCouncil is returned when initialising a council with no members.
	ErrEmptyCouncil = errors.New("council must have at least one member")
)

// Provider implements dao.CouncilProvider over a Store.
type Provider struct {
	store  Store
	logger *zap.Logger
}

var _ dao.CouncilProvider = (*Provider)(nil)

// NewProvider creates a council provider.
func NewProvider(store Store, logger *zap.Logger) *Provider {
	return &Provider{store: store, logger: logger}
}

// InitializeMembers sets the council of daoID. The set is sorted and de-duplicated
// first, so repeating a call with the same accounts in any order is a no-op.
func (p *Provider) InitializeMembers(ctx context.Context, daoID dao.ID, members []dao.AccountID) error {
	normalized := Normalize(members)
	if len(normalized) == 0 {
		metrics.CouncilInitializations.WithLabelValues("failed").Inc()
		return ErrEmptyCouncil
	}

	current, err := p.store.Members(ctx, daoID)
	if err != nil {
		metrics.CouncilInitializations.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if slices.Equal(current, normalized) {
		metrics.CouncilInitializations.WithLabelValues("unchanged").Inc()
		p.logger.Debug("council membership unchanged",
			zap.Uint32("dao_id", uint32(daoID)),
			zap.Int("members", len(normalized)),
		)
		return nil
	}

	if err := p.store.ReplaceMembers(ctx, daoID, normalized); err != nil {
		metrics.CouncilInitializations.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	metrics.CouncilInitializations.WithLabelValues("replaced").Inc()
	p.logger.Info("council membership initialised",
		zap.Uint32("dao_id", uint32(daoID)),
		zap.Int("members", len(normalized)),
	)
	return nil
}

// Members returns the council of daoID in canonical order.
func (p *Provider) Members(ctx context.Context, daoID dao.ID) ([]dao.AccountID, error) {
	members, err := p.store.Members(ctx, daoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return members, nil
}

// Normalize returns members sorted by account bytes with duplicates removed.
func Normalize(members []dao.AccountID) []dao.AccountID {
	out := slices.Clone(members)
	slices.SortFunc(out, func(a, b dao.AccountID) int {
		return bytes.Compare(a[:], b[:])
	})
	return slices.Compact(out)
}
