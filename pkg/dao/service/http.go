package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/dao-governance/pkg/app/errors"
	apphttp "github.com/chainsafe/dao-governance/pkg/app/http"
	"github.com/chainsafe/dao-governance/pkg/auth"
	"github.com/chainsafe/dao-governance/pkg/dao"
	"github.com/chainsafe/dao-governance/pkg/daostore"
	"github.com/chainsafe/dao-governance/pkg/scalar"
)

const maxPayloadBytes = 1 << 20

// HTTP wraps the Service to provide HTTP endpoints. Reads that other modules
// would make go through daos.
type HTTP struct {
	service Service
	daos    dao.DaoProvider
	logger  *zap.Logger
}

// RegisterRoutes registers the DAO endpoints on r. authn guards the creation
// endpoint and must place the caller's account in the request context.
func RegisterRoutes(
	r chi.Router,
	service Service,
	daos dao.DaoProvider,
	authn func(http.Handler) http.Handler,
	logger *zap.Logger,
) {
	h := &HTTP{
		service: service,
		daos:    daos,
		logger:  logger,
	}

	r.Route("/daos", func(r chi.Router) {
		r.With(authn).Post("/", apphttp.HandleError(h.createDao))
		r.Get("/count", apphttp.HandleError(h.count))
		r.Get("/{id}", apphttp.HandleError(h.getDao))
		r.Get("/{id}/policy", apphttp.HandleError(h.getPolicy))
		r.Get("/{id}/account", apphttp.HandleError(h.getAccount))
	})
	r.Get("/tokens/{id}", apphttp.HandleError(h.getToken))
}

type daoResponse struct {
	ID        uint32        `json:"id"`
	Founder   dao.AccountID `json:"founder"`
	AccountID dao.AccountID `json:"account_id"`
	TokenID   uint32        `json:"token_id"`
	Name      string        `json:"name"`
	Purpose   string        `json:"purpose"`
	Metadata  string        `json:"metadata"`
}

func toDaoResponse(d *dao.Dao) *daoResponse {
	return &daoResponse{
		ID:        uint32(d.ID),
		Founder:   d.Founder,
		AccountID: d.AccountID,
		TokenID:   uint32(d.TokenID),
		Name:      d.Config.Name.String(),
		Purpose:   d.Config.Purpose.String(),
		Metadata:  d.Config.Metadata.String(),
	}
}

type policyResponse struct {
	ProposalBond    uint32        `json:"proposal_bond"`
	ProposalBondPct string        `json:"proposal_bond_percent"`
	ProposalBondMin scalar.U128   `json:"proposal_bond_min"`
	ProposalBondMax *scalar.U128  `json:"proposal_bond_max,omitempty"`
	ProposalPeriod  uint32        `json:"proposal_period"`
	PrimeAccount    dao.AccountID `json:"prime_account"`
	ApproveOrigin   dao.Ratio     `json:"approve_origin"`
	RejectOrigin    dao.Ratio     `json:"reject_origin"`
}

func toPolicyResponse(p *dao.Policy) *policyResponse {
	return &policyResponse{
		ProposalBond:    uint32(p.ProposalBond),
		ProposalBondPct: decimal.New(int64(p.ProposalBond), -4).String(),
		ProposalBondMin: p.ProposalBondMin,
		ProposalBondMax: p.ProposalBondMax,
		ProposalPeriod:  p.ProposalPeriod,
		PrimeAccount:    p.PrimeAccount,
		ApproveOrigin:   p.ApproveOrigin,
		RejectOrigin:    p.RejectOrigin,
	}
}

type tokenResponse struct {
	TokenID    uint32      `json:"token_id"`
	Name       string      `json:"name"`
	Symbol     string      `json:"symbol"`
	Decimals   uint8       `json:"decimals"`
	MinBalance scalar.U128 `json:"min_balance"`
	// MinBalanceUnits is MinBalance scaled down by Decimals.
	MinBalanceUnits string `json:"min_balance_units"`
}

func toTokenResponse(t *dao.GovernanceToken) *tokenResponse {
	return &tokenResponse{
		TokenID:         uint32(t.TokenID),
		Name:            string(t.Metadata.Name),
		Symbol:          string(t.Metadata.Symbol),
		Decimals:        t.Metadata.Decimals,
		MinBalance:      t.MinBalance,
		MinBalanceUnits: decimal.NewFromBigInt(t.MinBalance.Big(), -int32(t.Metadata.Decimals)).String(),
	}
}

type accountResponse struct {
	ID        uint32        `json:"id"`
	AccountID dao.AccountID `json:"account_id"`
}

type countResponse struct {
	Count uint32 `json:"count"`
}

func (h *HTTP) createDao(w http.ResponseWriter, r *http.Request) error {
	founder, ok := auth.AccountFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(auth.ErrMissingToken, "authentication required")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("Rejected oversized request body",
				zap.String("founder", founder.String()),
				zap.Int64("limit", tooLarge.Limit),
			)
			return apperrors.BadRequestError(err, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return apperrors.BadRequestError(err, "failed to read request")
	}

	payload, err := dao.DecodePayload(body)
	if err != nil {
		h.logger.Debug("Rejected DAO payload", zap.String("founder", founder.String()), zap.Error(err))
		return RequestError(err)
	}

	d, err := h.service.CreateDao(r.Context(), founder, payload)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, toDaoResponse(d))
	return nil
}

func (h *HTTP) count(w http.ResponseWriter, r *http.Request) error {
	n, err := h.daos.Count(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, &countResponse{Count: n})
	return nil
}

func (h *HTTP) getDao(w http.ResponseWriter, r *http.Request) error {
	id, err := daoIDParam(r)
	if err != nil {
		return err
	}
	d, err := h.service.GetDao(r.Context(), id)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, toDaoResponse(d))
	return nil
}

func (h *HTTP) getPolicy(w http.ResponseWriter, r *http.Request) error {
	id, err := daoIDParam(r)
	if err != nil {
		return err
	}
	exists, err := h.daos.Exists(r.Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ResourceNotFoundError(daostore.ErrDaoNotFound, fmt.Sprintf("dao %d not found", id))
	}
	p, err := h.daos.Policy(r.Context(), id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperrors.ResourceNotFoundError(daostore.ErrPolicyNotFound, fmt.Sprintf("policy of dao %d not found", id))
	}
	apphttp.WriteJSON(w, http.StatusOK, toPolicyResponse(p))
	return nil
}

// getAccount answers for any id; the account of a DAO is known before it exists.
func (h *HTTP) getAccount(w http.ResponseWriter, r *http.Request) error {
	id, err := daoIDParam(r)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, &accountResponse{
		ID:        uint32(id),
		AccountID: h.daos.AccountID(id),
	})
	return nil
}

func (h *HTTP) getToken(w http.ResponseWriter, r *http.Request) error {
	id, err := uint32Param(r, "id")
	if err != nil {
		return err
	}
	t, err := h.service.GetToken(r.Context(), dao.TokenID(id))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, toTokenResponse(t))
	return nil
}

func daoIDParam(r *http.Request) (dao.ID, error) {
	id, err := uint32Param(r, "id")
	return dao.ID(id), err
}

func uint32Param(r *http.Request, name string) (uint32, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, apperrors.BadRequestError(err, "invalid "+name)
	}
	return uint32(v), nil
}
