// Package bucket implements the stateful core of the droplet vault: per
// collection buckets whose held items back a fungible claim token, plus the
// time-bounded loans collateralized by single items. Every operation is a
// single atomic transition; validation and authorization run first, balance
// moving calls are issued last, and counters are adjusted transaction by
// transaction rather than recomputed globally.
package bucket

import (
	"fmt"
	"time"

	"dropletvault/core/events"
	"dropletvault/native/collection"
	"dropletvault/native/droplet"
	"dropletvault/native/farm"
	"dropletvault/native/fees"
	"dropletvault/native/loan"

	"dropletvault/core/types"
)

type engineState interface {
	BucketGet(mint types.TokenID) (*Bucket, bool, error)
	BucketPut(*Bucket) error
	DepositGet(mint types.TokenID, item types.ItemID) (*DepositRecord, bool, error)
	DepositPut(*DepositRecord) error
	DepositDelete(mint types.TokenID, item types.ItemID) error
	LockerGet(mint types.TokenID, item types.ItemID) (*LockerRecord, bool, error)
	LockerPut(*LockerRecord) error
	LockerDelete(mint types.TokenID, item types.ItemID) error
	SwapFlagGet(mint types.TokenID, caller types.Address) (bool, error)
	SwapFlagPut(mint types.TokenID, caller types.Address, flag bool) error
	RevenuePartnersGet(mint types.TokenID) ([]fees.RevenuePartner, error)
	RevenuePartnersPut(mint types.TokenID, partners []fees.RevenuePartner) error
}

// Engine orchestrates the bucket state transitions. It owns no balances
// itself; all value moves through the external ledger collaborator.
type Engine struct {
	state    engineState
	ledger   Ledger
	metadata collection.MetadataSource
	farm     farm.Farm
	emitter  events.Emitter
	cfg      Config
	nowFn    func() uint64
}

// NewEngine constructs an engine wired to the fixed treasury identities.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		emitter: events.NoopEmitter{},
		nowFn:   func() uint64 { return uint64(time.Now().Unix()) },
	}, nil
}

// SetState wires the engine to the record store.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetLedger wires the engine to the balance-moving collaborator.
func (e *Engine) SetLedger(ledger Ledger) { e.ledger = ledger }

// SetMetadataSource wires the engine to the item metadata source used for
// collection verification.
func (e *Engine) SetMetadataSource(src collection.MetadataSource) { e.metadata = src }

// SetFarm wires the engine to the external staking integration.
func (e *Engine) SetFarm(f farm.Farm) { e.farm = f }

// SetEmitter configures the event emitter. Passing nil resets it to a
// no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the engine clock. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() uint64) {
	if now == nil {
		e.nowFn = func() uint64 { return uint64(time.Now().Unix()) }
		return
	}
	e.nowFn = now
}

// Config returns the injected identity configuration.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.ledger == nil {
		return errNilLedger
	}
	return nil
}

func (e *Engine) now() uint64 {
	if e == nil || e.nowFn == nil {
		return uint64(time.Now().Unix())
	}
	return e.nowFn()
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) loadBucket(mint types.TokenID) (*Bucket, error) {
	b, ok, err := e.state.BucketGet(mint)
	if err != nil {
		return nil, err
	}
	if !ok || b == nil {
		return nil, ErrBucketNotFound
	}
	return b, nil
}

// verifyMembership gates item admission: the metadata must prove the item
// belongs to the bucket's configured collection. Nothing is minted or
// burned before this check passes.
func (e *Engine) verifyMembership(b *Bucket, item types.ItemID, proof [][32]byte) error {
	if e.metadata == nil {
		return errNilMetadata
	}
	meta, err := e.metadata.ItemMetadata(item)
	if err != nil {
		return fmt.Errorf("%w: %v", collection.ErrVerificationFailed, err)
	}
	return collection.Verify(meta, b.Collection, proof)
}

// CreateBucket registers the bucket for a droplet mint. Locking and staking
// start disabled; counters start at zero.
func (e *Engine) CreateBucket(caller types.Address, mint types.TokenID, descriptor collection.Descriptor) error {
	if err := e.ready(); err != nil {
		return err
	}
	if caller != e.cfg.Admin {
		return ErrAdminAccessUnauthorized
	}
	if _, ok, err := e.state.BucketGet(mint); err != nil {
		return err
	} else if ok {
		return ErrBucketExists
	}
	b, err := SanitizeBucket(&Bucket{DropletMint: mint, Collection: descriptor})
	if err != nil {
		return err
	}
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	e.emit(&BucketCreated{DropletMint: mint, Signer: caller})
	return nil
}

// Deposit admits an item into the bucket and mints droplets against it.
// With forSwap the mint is discounted by the swap fee and the caller gains
// a one-shot eligibility to redeem another item for just the swap fee.
func (e *Engine) Deposit(caller types.Address, mint types.TokenID, item types.ItemID, proof [][32]byte, forSwap bool) error {
	if err := e.ready(); err != nil {
		return err
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	if _, ok, err := e.state.DepositGet(mint, item); err != nil {
		return err
	} else if ok {
		return ErrDepositExists
	}
	if _, ok, err := e.state.LockerGet(mint, item); err != nil {
		return err
	} else if ok {
		return ErrLockerExists
	}
	if err := e.verifyMembership(b, item, proof); err != nil {
		return err
	}

	mintToCaller := droplet.FullItemValue
	var distributorCut, treasuryCut uint64
	if forSwap {
		flag, err := e.state.SwapFlagGet(mint, caller)
		if err != nil {
			return err
		}
		if flag {
			return ErrDepositNotAllowed
		}
		fee, err := fees.FlatFee(droplet.FullItemValue, droplet.SwapFeeBps)
		if err != nil {
			return err
		}
		distributorCut, treasuryCut, err = fees.DistributorShare(fee, droplet.DistributorFeeBps)
		if err != nil {
			return err
		}
		mintToCaller, err = droplet.CheckedSub(droplet.FullItemValue, fee)
		if err != nil {
			return err
		}
	}

	itemsHeld, err := droplet.CheckedAdd(b.ItemsHeld, 1)
	if err != nil {
		return err
	}

	if err := e.ledger.MoveItem(item, caller, e.cfg.CustodyAuthority); err != nil {
		return err
	}
	if err := e.ledger.MintFungible(mint, caller, mintToCaller); err != nil {
		return err
	}
	if forSwap {
		if err := e.ledger.MintFungible(mint, e.cfg.Distributor, distributorCut); err != nil {
			return err
		}
		if err := e.ledger.MintFungible(mint, e.cfg.Treasury, treasuryCut); err != nil {
			return err
		}
	}

	b.ItemsHeld = itemsHeld
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	if err := e.state.DepositPut(&DepositRecord{DropletMint: mint, Item: item}); err != nil {
		return err
	}
	if forSwap {
		if err := e.state.SwapFlagPut(mint, caller, true); err != nil {
			return err
		}
	}
	e.emit(&ItemDeposited{DropletMint: mint, Item: item, Signer: caller, Minted: mintToCaller, ForSwap: forSwap})
	return nil
}

// Redeem releases a held item. A plain redemption burns the full item value
// and charges the redemption fee on top; a swap redemption consumes the
// caller's eligibility and charges only the swap fee, with no burn.
func (e *Engine) Redeem(caller types.Address, mint types.TokenID, item types.ItemID, destination types.Address, asSwap bool) error {
	if err := e.ready(); err != nil {
		return err
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	if _, ok, err := e.state.DepositGet(mint, item); err != nil {
		return err
	} else if !ok {
		return ErrDepositNotFound
	}

	feeBps := droplet.RedeemFeeBps
	if asSwap {
		flag, err := e.state.SwapFlagGet(mint, caller)
		if err != nil {
			return err
		}
		if !flag {
			return ErrSwapNotAllowed
		}
		feeBps = droplet.SwapFeeBps
	}
	fee, err := fees.FlatFee(droplet.FullItemValue, feeBps)
	if err != nil {
		return err
	}
	distributorCut, treasuryCut, err := fees.DistributorShare(fee, droplet.DistributorFeeBps)
	if err != nil {
		return err
	}

	required := fee
	if !asSwap {
		required, err = droplet.CheckedAdd(droplet.FullItemValue, fee)
		if err != nil {
			return err
		}
	}
	balance, err := e.ledger.BalanceFungible(mint, caller)
	if err != nil {
		return err
	}
	if balance < required {
		return ErrDropletsInsufficient
	}
	itemsHeld, err := droplet.CheckedSub(b.ItemsHeld, 1)
	if err != nil {
		return err
	}

	if !asSwap {
		if err := e.ledger.BurnFungible(mint, caller, droplet.FullItemValue); err != nil {
			return err
		}
	}
	if err := e.ledger.MoveFungible(mint, caller, e.cfg.Distributor, distributorCut); err != nil {
		return err
	}
	if err := e.ledger.MoveFungible(mint, caller, e.cfg.Treasury, treasuryCut); err != nil {
		return err
	}
	if err := e.ledger.MoveItem(item, e.cfg.CustodyAuthority, destination); err != nil {
		return err
	}
	if err := e.ledger.CloseEmptyAccount(e.cfg.CustodyAuthority, item); err != nil {
		return err
	}

	b.ItemsHeld = itemsHeld
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	if err := e.state.DepositDelete(mint, item); err != nil {
		return err
	}
	if asSwap {
		if err := e.state.SwapFlagPut(mint, caller, false); err != nil {
			return err
		}
	}
	e.emit(&ItemRedeemed{DropletMint: mint, Item: item, Signer: caller, Fee: fee, AsSwap: asSwap})
	return nil
}

// Swap exchanges one held item for another in a single transition: itemIn
// is admitted fee-free, itemOut is released for just the swap fee, and the
// held count is unchanged.
func (e *Engine) Swap(caller types.Address, mint types.TokenID, itemOut, itemIn types.ItemID, proof [][32]byte, destination types.Address) error {
	if err := e.ready(); err != nil {
		return err
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	if _, ok, err := e.state.DepositGet(mint, itemOut); err != nil {
		return err
	} else if !ok {
		return ErrDepositNotFound
	}
	if _, ok, err := e.state.DepositGet(mint, itemIn); err != nil {
		return err
	} else if ok {
		return ErrDepositExists
	}
	if err := e.verifyMembership(b, itemIn, proof); err != nil {
		return err
	}

	fee, err := fees.FlatFee(droplet.FullItemValue, droplet.SwapFeeBps)
	if err != nil {
		return err
	}
	distributorCut, treasuryCut, err := fees.DistributorShare(fee, droplet.DistributorFeeBps)
	if err != nil {
		return err
	}
	balance, err := e.ledger.BalanceFungible(mint, caller)
	if err != nil {
		return err
	}
	if balance < fee {
		return ErrDropletsInsufficient
	}

	if err := e.ledger.MoveItem(itemIn, caller, e.cfg.CustodyAuthority); err != nil {
		return err
	}
	if err := e.ledger.MoveFungible(mint, caller, e.cfg.Distributor, distributorCut); err != nil {
		return err
	}
	if err := e.ledger.MoveFungible(mint, caller, e.cfg.Treasury, treasuryCut); err != nil {
		return err
	}
	if err := e.ledger.MoveItem(itemOut, e.cfg.CustodyAuthority, destination); err != nil {
		return err
	}
	if err := e.ledger.CloseEmptyAccount(e.cfg.CustodyAuthority, itemOut); err != nil {
		return err
	}

	if err := e.state.DepositPut(&DepositRecord{DropletMint: mint, Item: itemIn}); err != nil {
		return err
	}
	if err := e.state.DepositDelete(mint, itemOut); err != nil {
		return err
	}
	e.emit(&ItemsSwapped{DropletMint: mint, ItemIn: itemIn, ItemOut: itemOut, Signer: caller, Fee: fee})
	return nil
}

// Lock pledges an item as loan collateral and mints the quoted principal to
// the depositor. The quote is computed against the post-increment counters
// so the new locker's own weight is priced in.
func (e *Engine) Lock(caller types.Address, mint types.TokenID, item types.ItemID, proof [][32]byte, duration uint64) (loan.QuoteResult, error) {
	if err := e.ready(); err != nil {
		return loan.QuoteResult{}, err
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return loan.QuoteResult{}, err
	}
	if !b.LockingEnabled {
		return loan.QuoteResult{}, ErrLockersDisabled
	}
	if b.ItemsHeld == 0 {
		return loan.QuoteResult{}, ErrBucketEmpty
	}
	if duration == 0 || duration > b.MaxLockerDuration {
		return loan.QuoteResult{}, ErrLockerDurationInvalid
	}
	if _, ok, err := e.state.LockerGet(mint, item); err != nil {
		return loan.QuoteResult{}, err
	} else if ok {
		return loan.QuoteResult{}, ErrLockerExists
	}
	if _, ok, err := e.state.DepositGet(mint, item); err != nil {
		return loan.QuoteResult{}, err
	} else if ok {
		return loan.QuoteResult{}, ErrDepositExists
	}
	if err := e.verifyMembership(b, item, proof); err != nil {
		return loan.QuoteResult{}, err
	}

	itemsInLockers, err := droplet.CheckedAdd(b.ItemsInLockers, 1)
	if err != nil {
		return loan.QuoteResult{}, err
	}
	quote, err := loan.Quote(loan.QuoteArgs{
		MaxDuration:    b.MaxLockerDuration,
		ItemsHeld:      b.ItemsHeld,
		ItemsInLockers: itemsInLockers,
		InterestScaler: b.InterestScaler,
		Duration:       duration,
	})
	if err != nil {
		return loan.QuoteResult{}, err
	}

	if err := e.ledger.MoveItem(item, caller, e.cfg.CustodyAuthority); err != nil {
		return loan.QuoteResult{}, err
	}
	if err := e.ledger.MintFungible(mint, caller, quote.Principal); err != nil {
		return loan.QuoteResult{}, err
	}

	now := e.now()
	b.ItemsInLockers = itemsInLockers
	if err := e.state.BucketPut(b); err != nil {
		return loan.QuoteResult{}, err
	}
	locker := &LockerRecord{
		DropletMint:       mint,
		Item:              item,
		Depositor:         caller,
		CreationTimestamp: now,
		Duration:          duration,
		Principal:         quote.Principal,
		MaxInterest:       quote.MaxInterest,
	}
	if err := e.state.LockerPut(locker); err != nil {
		return loan.QuoteResult{}, err
	}
	e.emit(&ItemLocked{
		DropletMint:       mint,
		Item:              item,
		Signer:            caller,
		CreationTimestamp: now,
		Duration:          duration,
		Principal:         quote.Principal,
		MaxInterest:       quote.MaxInterest,
	})
	return quote, nil
}

// Unlock repays an active loan and returns the collateral. The caller burns
// the principal and pays the linearly accrued interest to the lockers
// treasury.
func (e *Engine) Unlock(caller types.Address, mint types.TokenID, item types.ItemID, destination types.Address) error {
	if err := e.ready(); err != nil {
		return err
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	locker, ok, err := e.state.LockerGet(mint, item)
	if err != nil {
		return err
	}
	if !ok || locker == nil {
		return ErrLockerNotFound
	}
	now := e.now()
	if now > locker.Expiry() {
		return ErrLockerExpired
	}
	if locker.Depositor != caller {
		return ErrLockerAccessUnauthorized
	}
	owed, err := loan.Accrue(now, locker.CreationTimestamp, locker.Duration, locker.MaxInterest)
	if err != nil {
		return err
	}
	required, err := droplet.CheckedAdd(locker.Principal, owed)
	if err != nil {
		return err
	}
	balance, err := e.ledger.BalanceFungible(mint, caller)
	if err != nil {
		return err
	}
	if balance < required {
		return ErrDropletsInsufficient
	}
	itemsInLockers, err := droplet.CheckedSub(b.ItemsInLockers, 1)
	if err != nil {
		return err
	}

	if err := e.ledger.BurnFungible(mint, caller, locker.Principal); err != nil {
		return err
	}
	if err := e.ledger.MoveFungible(mint, caller, e.cfg.LockersTreasury, owed); err != nil {
		return err
	}
	if err := e.ledger.MoveItem(item, e.cfg.CustodyAuthority, destination); err != nil {
		return err
	}
	if err := e.ledger.CloseEmptyAccount(e.cfg.CustodyAuthority, item); err != nil {
		return err
	}

	b.ItemsInLockers = itemsInLockers
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	if err := e.state.LockerDelete(mint, item); err != nil {
		return err
	}
	e.emit(&ItemUnlocked{DropletMint: mint, Item: item, Signer: caller, Interest: owed, Principal: locker.Principal})
	return nil
}

// Liquidate settles a defaulted loan. The difference between the full item
// value and the principal is minted fresh: the liquidator takes the reward
// cut, the lockers treasury takes the rest, and the collateral re-enters
// the bucket as a plain held item.
func (e *Engine) Liquidate(caller types.Address, mint types.TokenID, item types.ItemID) error {
	if err := e.ready(); err != nil {
		return err
	}
	b, err := e.loadBucket(mint)
	if err != nil {
		return err
	}
	if !b.LockingEnabled {
		return ErrLockersDisabled
	}
	locker, ok, err := e.state.LockerGet(mint, item)
	if err != nil {
		return err
	}
	if !ok || locker == nil {
		return ErrLockerNotFound
	}
	if e.now() <= locker.Expiry() {
		return ErrLockerActive
	}
	deficit, err := droplet.CheckedSub(droplet.FullItemValue, locker.Principal)
	if err != nil {
		return err
	}
	reward, vault, err := fees.LiquidationSplit(deficit)
	if err != nil {
		return err
	}
	itemsInLockers, err := droplet.CheckedSub(b.ItemsInLockers, 1)
	if err != nil {
		return err
	}
	itemsHeld, err := droplet.CheckedAdd(b.ItemsHeld, 1)
	if err != nil {
		return err
	}

	if err := e.ledger.MintFungible(mint, e.cfg.LockersTreasury, vault); err != nil {
		return err
	}
	if err := e.ledger.MintFungible(mint, caller, reward); err != nil {
		return err
	}

	b.ItemsInLockers = itemsInLockers
	b.ItemsHeld = itemsHeld
	if err := e.state.BucketPut(b); err != nil {
		return err
	}
	if err := e.state.LockerDelete(mint, item); err != nil {
		return err
	}
	if err := e.state.DepositPut(&DepositRecord{DropletMint: mint, Item: item}); err != nil {
		return err
	}
	e.emit(&LockerLiquidated{DropletMint: mint, Item: item, Signer: caller, Reward: reward, Vault: vault})
	return nil
}
