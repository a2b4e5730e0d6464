package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dropletvault/core/types"
	"dropletvault/native/bucket"
	"dropletvault/native/collection"
	"dropletvault/native/fees"
	"dropletvault/native/loan"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bucket.ErrBucketNotFound),
		errors.Is(err, bucket.ErrDepositNotFound),
		errors.Is(err, bucket.ErrLockerNotFound):
		return http.StatusNotFound
	case errors.Is(err, bucket.ErrAdminAccessUnauthorized),
		errors.Is(err, bucket.ErrLockerAccessUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, bucket.ErrBucketExists),
		errors.Is(err, bucket.ErrDepositExists),
		errors.Is(err, bucket.ErrLockerExists),
		errors.Is(err, bucket.ErrLockerExpired),
		errors.Is(err, bucket.ErrLockerActive),
		errors.Is(err, bucket.ErrDepositNotAllowed),
		errors.Is(err, bucket.ErrSwapNotAllowed):
		return http.StatusConflict
	case errors.Is(err, bucket.ErrLockersDisabled),
		errors.Is(err, bucket.ErrStakingDisabled),
		errors.Is(err, bucket.ErrBucketEmpty),
		errors.Is(err, bucket.ErrDropletsInsufficient):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bucket.ErrLockerDurationInvalid),
		errors.Is(err, bucket.ErrInterestScalerInvalid),
		errors.Is(err, bucket.ErrStakingParamsInvalid),
		errors.Is(err, bucket.ErrRevenueDistributionInvalid),
		errors.Is(err, collection.ErrDescriptorInvalid),
		errors.Is(err, collection.ErrVerificationFailed),
		errors.Is(err, fees.ErrPartnersInvalid),
		errors.Is(err, loan.ErrDurationInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, requestLimit))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parse32(value string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(value)
	if err != nil {
		return out, fmt.Errorf("invalid identifier encoding: %w", err)
	}
	if len(raw) != len(out) {
		return out, fmt.Errorf("invalid identifier length: %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func mintParam(r *http.Request) (types.TokenID, error) {
	raw, err := parse32(chi.URLParam(r, "mint"))
	return types.TokenID(raw), err
}

func parseProof(entries []string) ([][32]byte, error) {
	if entries == nil {
		return nil, nil
	}
	proof := make([][32]byte, 0, len(entries))
	for _, entry := range entries {
		node, err := parse32(entry)
		if err != nil {
			return nil, err
		}
		proof = append(proof, node)
	}
	return proof, nil
}

type descriptorPayload struct {
	Kind             string   `json:"kind"`
	Symbol           string   `json:"symbol,omitempty"`
	VerifiedCreators []string `json:"verifiedCreators,omitempty"`
	AllowlistRoot    string   `json:"allowlistRoot,omitempty"`
	CollectionMint   string   `json:"collectionMint,omitempty"`
}

func (p descriptorPayload) descriptor() (collection.Descriptor, error) {
	var descriptor collection.Descriptor
	switch p.Kind {
	case "legacy":
		descriptor.Kind = collection.KindLegacy
		descriptor.Symbol = p.Symbol
		for _, creator := range p.VerifiedCreators {
			addr, err := types.ParseAddress(creator)
			if err != nil {
				return collection.Descriptor{}, err
			}
			descriptor.VerifiedCreators = append(descriptor.VerifiedCreators, addr)
		}
		if p.AllowlistRoot != "" {
			root, err := parse32(p.AllowlistRoot)
			if err != nil {
				return collection.Descriptor{}, err
			}
			descriptor.AllowlistRoot = root
			descriptor.HasAllowlist = true
		}
	case "certified":
		descriptor.Kind = collection.KindCertified
		mint, err := parse32(p.CollectionMint)
		if err != nil {
			return collection.Descriptor{}, err
		}
		descriptor.CollectionMint = types.TokenID(mint)
	default:
		return collection.Descriptor{}, fmt.Errorf("%w: unknown kind %q", collection.ErrDescriptorInvalid, p.Kind)
	}
	return descriptor, nil
}

type createBucketRequest struct {
	Signer     string            `json:"signer"`
	Mint       string            `json:"mint"`
	Collection descriptorPayload `json:"collection"`
}

func (s *Server) createBucket(w http.ResponseWriter, r *http.Request) {
	var req createBucketRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, err := types.ParseAddress(req.Signer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	mintRaw, err := parse32(req.Mint)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	descriptor, err := req.Collection.descriptor()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = s.engine.CreateBucket(signer, types.TokenID(mintRaw), descriptor)
	s.metrics.ObserveOperation("create_bucket", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"mint": req.Mint})
}

type depositRequest struct {
	Signer  string   `json:"signer"`
	Item    string   `json:"item"`
	Proof   []string `json:"proof,omitempty"`
	ForSwap bool     `json:"forSwap,omitempty"`
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req depositRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, item, proof, err := subjectFields(req.Signer, req.Item, req.Proof)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = s.engine.Deposit(signer, mint, item, proof, req.ForSwap)
	s.metrics.ObserveOperation("deposit", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"item": req.Item})
}

func subjectFields(signerHex, itemHex string, proofHex []string) (types.Address, types.ItemID, [][32]byte, error) {
	signer, err := types.ParseAddress(signerHex)
	if err != nil {
		return types.Address{}, types.ItemID{}, nil, err
	}
	itemRaw, err := parse32(itemHex)
	if err != nil {
		return types.Address{}, types.ItemID{}, nil, err
	}
	proof, err := parseProof(proofHex)
	if err != nil {
		return types.Address{}, types.ItemID{}, nil, err
	}
	return signer, types.ItemID(itemRaw), proof, nil
}

type redeemRequest struct {
	Signer      string `json:"signer"`
	Item        string `json:"item"`
	Destination string `json:"destination"`
	AsSwap      bool   `json:"asSwap,omitempty"`
}

func (s *Server) redeem(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req redeemRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, item, _, err := subjectFields(req.Signer, req.Item, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	destination, err := types.ParseAddress(req.Destination)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = s.engine.Redeem(signer, mint, item, destination, req.AsSwap)
	s.metrics.ObserveOperation("redeem", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"item": req.Item})
}

type swapRequest struct {
	Signer      string   `json:"signer"`
	ItemOut     string   `json:"itemOut"`
	ItemIn      string   `json:"itemIn"`
	Proof       []string `json:"proof,omitempty"`
	Destination string   `json:"destination"`
}

func (s *Server) swap(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req swapRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, itemIn, proof, err := subjectFields(req.Signer, req.ItemIn, req.Proof)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	itemOutRaw, err := parse32(req.ItemOut)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	destination, err := types.ParseAddress(req.Destination)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = s.engine.Swap(signer, mint, types.ItemID(itemOutRaw), itemIn, proof, destination)
	s.metrics.ObserveOperation("swap", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"itemIn": req.ItemIn, "itemOut": req.ItemOut})
}

type lockRequest struct {
	Signer   string   `json:"signer"`
	Item     string   `json:"item"`
	Proof    []string `json:"proof,omitempty"`
	Duration uint64   `json:"duration"`
}

type quoteResponse struct {
	Principal   uint64 `json:"principal"`
	MaxInterest uint64 `json:"maxInterest"`
}

func (s *Server) lock(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req lockRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, item, proof, err := subjectFields(req.Signer, req.Item, req.Proof)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	quote, err := s.engine.Lock(signer, mint, item, proof, req.Duration)
	s.metrics.ObserveOperation("lock", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{Principal: quote.Principal, MaxInterest: quote.MaxInterest})
}

type unlockRequest struct {
	Signer      string `json:"signer"`
	Item        string `json:"item"`
	Destination string `json:"destination"`
}

func (s *Server) unlock(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req unlockRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, item, _, err := subjectFields(req.Signer, req.Item, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	destination, err := types.ParseAddress(req.Destination)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = s.engine.Unlock(signer, mint, item, destination)
	s.metrics.ObserveOperation("unlock", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"item": req.Item})
}

type liquidateRequest struct {
	Signer string `json:"signer"`
	Item   string `json:"item"`
}

func (s *Server) liquidate(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req liquidateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, item, _, err := subjectFields(req.Signer, req.Item, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = s.engine.Liquidate(signer, mint, item)
	s.metrics.ObserveOperation("liquidate", err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.ObserveLiquidation()
	writeJSON(w, http.StatusOK, map[string]string{"item": req.Item})
}

type toggleRequest struct {
	Signer  string `json:"signer"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) setLockingEnabled(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, "set_locking_enabled", s.engine.SetLockingEnabled)
}

func (s *Server) setStakingEnabled(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, "set_staking_enabled", s.engine.SetStakingEnabled)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request, op string, apply func(types.Address, types.TokenID, bool) error) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req toggleRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, err := types.ParseAddress(req.Signer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = apply(signer, mint, req.Enabled)
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

type lockingParamsRequest struct {
	Signer         string `json:"signer"`
	MaxDuration    uint64 `json:"maxDuration"`
	InterestScaler uint8  `json:"interestScaler"`
}

func (s *Server) updateLockingParams(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req lockingParamsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, err := types.ParseAddress(req.Signer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = s.engine.UpdateLockingParams(signer, mint, req.MaxDuration, req.InterestScaler)
	s.metrics.ObserveOperation("update_locking_params", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateCollectionRequest struct {
	Signer     string            `json:"signer"`
	Collection descriptorPayload `json:"collection"`
}

func (s *Server) updateCollection(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req updateCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, err := types.ParseAddress(req.Signer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	descriptor, err := req.Collection.descriptor()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = s.engine.UpdateCollectionInfo(signer, mint, descriptor)
	s.metrics.ObserveOperation("update_collection", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type stakingParamsRequest struct {
	Signer      string `json:"signer"`
	FarmProgram string `json:"farmProgram"`
	BankProgram string `json:"bankProgram"`
	Farm        string `json:"farm"`
	FeeAccount  string `json:"feeAccount"`
}

func (s *Server) updateStakingParams(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req stakingParamsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, err := types.ParseAddress(req.Signer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var params bucket.StakingParams
	for _, field := range []struct {
		value string
		dst   *types.Address
	}{
		{req.FarmProgram, &params.FarmProgram},
		{req.BankProgram, &params.BankProgram},
		{req.Farm, &params.Farm},
		{req.FeeAccount, &params.FeeAccount},
	} {
		addr, err := types.ParseAddress(field.value)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		*field.dst = addr
	}
	err = s.engine.UpdateStakingParams(signer, mint, params)
	s.metrics.ObserveOperation("update_staking_params", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type stakeRequest struct {
	Signer string `json:"signer"`
	Item   string `json:"item"`
}

func (s *Server) stakeItem(w http.ResponseWriter, r *http.Request) {
	s.stakeOp(w, r, "stake_item", s.engine.StakeItem)
}

func (s *Server) unstakeItem(w http.ResponseWriter, r *http.Request) {
	s.stakeOp(w, r, "unstake_item", s.engine.UnstakeItem)
}

func (s *Server) stakeOp(w http.ResponseWriter, r *http.Request, op string, apply func(types.Address, types.TokenID, types.ItemID) error) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req stakeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, item, _, err := subjectFields(req.Signer, req.Item, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = apply(signer, mint, item)
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"item": req.Item})
}

type partnerPayload struct {
	Recipient string `json:"recipient"`
	ShareBps  uint16 `json:"shareBps"`
}

type revenuePartnersRequest struct {
	Signer   string           `json:"signer"`
	Partners []partnerPayload `json:"partners"`
}

func (s *Server) updateRevenuePartners(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req revenuePartnersRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, err := types.ParseAddress(req.Signer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	partners := make([]fees.RevenuePartner, 0, len(req.Partners))
	for _, partner := range req.Partners {
		recipient, err := types.ParseAddress(partner.Recipient)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		partners = append(partners, fees.RevenuePartner{Recipient: recipient, ShareBps: partner.ShareBps})
	}
	err = s.engine.UpdateRevenuePartners(signer, mint, partners)
	s.metrics.ObserveOperation("update_revenue_partners", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type signerRequest struct {
	Signer string `json:"signer"`
}

func (s *Server) distributeRevenue(w http.ResponseWriter, r *http.Request) {
	s.signerOp(w, r, "distribute_revenue", s.engine.DistributeRevenue)
}

func (s *Server) claimBalance(w http.ResponseWriter, r *http.Request) {
	s.signerOp(w, r, "claim_balance", s.engine.ClaimBalance)
}

func (s *Server) signerOp(w http.ResponseWriter, r *http.Request, op string, apply func(types.Address, types.TokenID) error) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var req signerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	signer, err := types.ParseAddress(req.Signer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err = apply(signer, mint)
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bucketResponse struct {
	DropletMint       string `json:"dropletMint"`
	LockingEnabled    bool   `json:"lockingEnabled"`
	MaxLockerDuration uint64 `json:"maxLockerDuration"`
	InterestScaler    uint8  `json:"interestScaler"`
	ItemsHeld         uint64 `json:"itemsHeld"`
	ItemsInLockers    uint64 `json:"itemsInLockers"`
	StakingEnabled    bool   `json:"stakingEnabled"`
}

func (s *Server) getBucket(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	b, err := s.engine.Bucket(mint)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bucketResponse{
		DropletMint:       b.DropletMint.String(),
		LockingEnabled:    b.LockingEnabled,
		MaxLockerDuration: b.MaxLockerDuration,
		InterestScaler:    b.InterestScaler,
		ItemsHeld:         b.ItemsHeld,
		ItemsInLockers:    b.ItemsInLockers,
		StakingEnabled:    b.StakingEnabled,
	})
}

type lockerResponse struct {
	Item              string `json:"item"`
	Depositor         string `json:"depositor"`
	CreationTimestamp uint64 `json:"creationTimestamp"`
	Duration          uint64 `json:"duration"`
	Expiry            uint64 `json:"expiry"`
	Principal         uint64 `json:"principal"`
	MaxInterest       uint64 `json:"maxInterest"`
	AccruedInterest   uint64 `json:"accruedInterest,omitempty"`
}

func (s *Server) getLocker(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	itemRaw, err := parse32(chi.URLParam(r, "item"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	item := types.ItemID(itemRaw)
	locker, err := s.engine.Locker(mint, item)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := lockerResponse{
		Item:              locker.Item.String(),
		Depositor:         locker.Depositor.String(),
		CreationTimestamp: locker.CreationTimestamp,
		Duration:          locker.Duration,
		Expiry:            locker.Expiry(),
		Principal:         locker.Principal,
		MaxInterest:       locker.MaxInterest,
	}
	if accrued, err := s.engine.AccruedInterest(mint, item); err == nil {
		resp.AccruedInterest = accrued
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) quoteLock(w http.ResponseWriter, r *http.Request) {
	mint, err := mintParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	duration, err := strconv.ParseUint(r.URL.Query().Get("duration"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid duration"})
		return
	}
	quote, err := s.engine.QuoteLock(mint, duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{Principal: quote.Principal, MaxInterest: quote.MaxInterest})
}
