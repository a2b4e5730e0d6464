package bucket

import (
	"errors"
	"testing"

	"dropletvault/core/events"
	"dropletvault/core/types"
	"dropletvault/native/collection"
	"dropletvault/native/droplet"
	"dropletvault/native/farm"
	"dropletvault/native/fees"
)

type memState struct {
	buckets  map[types.TokenID]*Bucket
	deposits map[string]*DepositRecord
	lockers  map[string]*LockerRecord
	flags    map[string]bool
	partners map[types.TokenID][]fees.RevenuePartner
}

func newMemState() *memState {
	return &memState{
		buckets:  make(map[types.TokenID]*Bucket),
		deposits: make(map[string]*DepositRecord),
		lockers:  make(map[string]*LockerRecord),
		flags:    make(map[string]bool),
		partners: make(map[types.TokenID][]fees.RevenuePartner),
	}
}

func pairKey(mint types.TokenID, suffix [32]byte) string {
	return string(mint[:]) + string(suffix[:])
}

func (s *memState) BucketGet(mint types.TokenID) (*Bucket, bool, error) {
	b, ok := s.buckets[mint]
	if !ok {
		return nil, false, nil
	}
	return b.Clone(), true, nil
}

func (s *memState) BucketPut(b *Bucket) error {
	s.buckets[b.DropletMint] = b.Clone()
	return nil
}

func (s *memState) DepositGet(mint types.TokenID, item types.ItemID) (*DepositRecord, bool, error) {
	record, ok := s.deposits[pairKey(mint, item)]
	if !ok {
		return nil, false, nil
	}
	clone := *record
	return &clone, true, nil
}

func (s *memState) DepositPut(record *DepositRecord) error {
	clone := *record
	s.deposits[pairKey(record.DropletMint, record.Item)] = &clone
	return nil
}

func (s *memState) DepositDelete(mint types.TokenID, item types.ItemID) error {
	delete(s.deposits, pairKey(mint, item))
	return nil
}

func (s *memState) LockerGet(mint types.TokenID, item types.ItemID) (*LockerRecord, bool, error) {
	locker, ok := s.lockers[pairKey(mint, item)]
	if !ok {
		return nil, false, nil
	}
	return locker.Clone(), true, nil
}

func (s *memState) LockerPut(locker *LockerRecord) error {
	s.lockers[pairKey(locker.DropletMint, locker.Item)] = locker.Clone()
	return nil
}

func (s *memState) LockerDelete(mint types.TokenID, item types.ItemID) error {
	delete(s.lockers, pairKey(mint, item))
	return nil
}

func (s *memState) SwapFlagGet(mint types.TokenID, caller types.Address) (bool, error) {
	return s.flags[pairKey(mint, caller)], nil
}

func (s *memState) SwapFlagPut(mint types.TokenID, caller types.Address, flag bool) error {
	if flag {
		s.flags[pairKey(mint, caller)] = true
	} else {
		delete(s.flags, pairKey(mint, caller))
	}
	return nil
}

func (s *memState) RevenuePartnersGet(mint types.TokenID) ([]fees.RevenuePartner, error) {
	return fees.ClonePartners(s.partners[mint]), nil
}

func (s *memState) RevenuePartnersPut(mint types.TokenID, partners []fees.RevenuePartner) error {
	s.partners[mint] = fees.ClonePartners(partners)
	return nil
}

type memLedger struct {
	balances map[string]uint64
	items    map[types.ItemID]types.Address
	minted   uint64
	burned   uint64
	calls    int
}

func newMemLedger() *memLedger {
	return &memLedger{
		balances: make(map[string]uint64),
		items:    make(map[types.ItemID]types.Address),
	}
}

func balanceKey(token types.TokenID, account types.Address) string {
	return string(token[:]) + string(account[:])
}

func (l *memLedger) MoveFungible(token types.TokenID, from, to types.Address, amount uint64) error {
	l.calls++
	key := balanceKey(token, from)
	if l.balances[key] < amount {
		return errors.New("ledger: insufficient balance")
	}
	l.balances[key] -= amount
	l.balances[balanceKey(token, to)] += amount
	return nil
}

func (l *memLedger) MintFungible(token types.TokenID, to types.Address, amount uint64) error {
	l.calls++
	l.balances[balanceKey(token, to)] += amount
	l.minted += amount
	return nil
}

func (l *memLedger) BurnFungible(token types.TokenID, from types.Address, amount uint64) error {
	l.calls++
	key := balanceKey(token, from)
	if l.balances[key] < amount {
		return errors.New("ledger: insufficient balance")
	}
	l.balances[key] -= amount
	l.burned += amount
	return nil
}

func (l *memLedger) BalanceFungible(token types.TokenID, account types.Address) (uint64, error) {
	return l.balances[balanceKey(token, account)], nil
}

func (l *memLedger) MoveItem(item types.ItemID, from, to types.Address) error {
	l.calls++
	if owner, ok := l.items[item]; ok && owner != from {
		return errors.New("ledger: item not held by source")
	}
	l.items[item] = to
	return nil
}

func (l *memLedger) CloseEmptyAccount(holder types.Address, item types.ItemID) error {
	l.calls++
	return nil
}

type memMetadata struct {
	records map[types.ItemID]*collection.ItemMetadata
}

func (m *memMetadata) ItemMetadata(item types.ItemID) (*collection.ItemMetadata, error) {
	meta, ok := m.records[item]
	if !ok {
		return nil, errors.New("metadata: unknown item")
	}
	return meta, nil
}

type memFarm struct {
	cfg      farm.Config
	cfgErr   error
	staked   map[types.ItemID]bool
	unstake  error
	stakes   int
	unstakes int
}

func (f *memFarm) Config() (farm.Config, error) { return f.cfg, f.cfgErr }

func (f *memFarm) Stake(item types.ItemID) error {
	f.stakes++
	if f.staked == nil {
		f.staked = make(map[types.ItemID]bool)
	}
	f.staked[item] = true
	return nil
}

func (f *memFarm) Unstake(item types.ItemID) error {
	f.unstakes++
	if f.unstake != nil {
		return f.unstake
	}
	delete(f.staked, item)
	return nil
}

func addr(b byte) types.Address {
	var out types.Address
	out[0] = b
	return out
}

func tokenID(b byte) types.TokenID {
	var out types.TokenID
	out[0] = b
	return out
}

func itemID(b byte) types.ItemID {
	var out types.ItemID
	out[0] = b
	return out
}

var (
	adminAddr       = addr(0xA1)
	custodyAddr     = addr(0xA2)
	treasuryAddr    = addr(0xA3)
	lockersAddr     = addr(0xA4)
	distributorAddr = addr(0xA5)
	creatorAddr     = addr(0xC1)
	callerAddr      = addr(0x01)
	otherAddr       = addr(0x02)

	testMint = tokenID(0x10)
)

func testDescriptor() collection.Descriptor {
	return collection.Descriptor{
		Kind:             collection.KindLegacy,
		Symbol:           "DRPLT",
		VerifiedCreators: []types.Address{creatorAddr},
	}
}

func testEngine(t *testing.T) (*Engine, *memState, *memLedger, *memMetadata, *events.CaptureEmitter) {
	t.Helper()
	engine, err := NewEngine(Config{
		Admin:            adminAddr,
		CustodyAuthority: custodyAddr,
		Treasury:         treasuryAddr,
		LockersTreasury:  lockersAddr,
		Distributor:      distributorAddr,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	state := newMemState()
	ledger := newMemLedger()
	metadata := &memMetadata{records: make(map[types.ItemID]*collection.ItemMetadata)}
	capture := &events.CaptureEmitter{}
	engine.SetState(state)
	engine.SetLedger(ledger)
	engine.SetMetadataSource(metadata)
	engine.SetEmitter(capture)
	engine.SetNowFunc(func() uint64 { return 1_000 })
	return engine, state, ledger, metadata, capture
}

func addItem(metadata *memMetadata, item types.ItemID) {
	metadata.records[item] = &collection.ItemMetadata{
		Item:     item,
		Symbol:   "DRPLT\x00\x00",
		Creators: []collection.Creator{{Address: creatorAddr, Verified: true}},
	}
}

func mustCreateBucket(t *testing.T, engine *Engine) {
	t.Helper()
	if err := engine.CreateBucket(adminAddr, testMint, testDescriptor()); err != nil {
		t.Fatalf("create bucket: %v", err)
	}
}

func mustDeposit(t *testing.T, engine *Engine, metadata *memMetadata, ledger *memLedger, item types.ItemID) {
	t.Helper()
	addItem(metadata, item)
	ledger.items[item] = callerAddr
	if err := engine.Deposit(callerAddr, testMint, item, nil, false); err != nil {
		t.Fatalf("deposit %x: %v", item[:1], err)
	}
}

func TestCreateBucket(t *testing.T) {
	engine, state, _, _, capture := testEngine(t)

	if err := engine.CreateBucket(otherAddr, testMint, testDescriptor()); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("non-admin create: got %v", err)
	}
	mustCreateBucket(t, engine)
	if err := engine.CreateBucket(adminAddr, testMint, testDescriptor()); !errors.Is(err, ErrBucketExists) {
		t.Fatalf("duplicate create: got %v", err)
	}

	b := state.buckets[testMint]
	if b == nil {
		t.Fatal("bucket not stored")
	}
	if b.LockingEnabled || b.StakingEnabled {
		t.Fatal("features must start disabled")
	}
	if b.ItemsHeld != 0 || b.ItemsInLockers != 0 {
		t.Fatal("counters must start at zero")
	}
	if len(capture.Events) != 1 || capture.Events[0].EventType() != TypeBucketCreated {
		t.Fatalf("events: %+v", capture.Events)
	}
}

func TestDepositMintsFullValue(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	item := itemID(0x01)
	mustDeposit(t, engine, metadata, ledger, item)

	if got, _ := ledger.BalanceFungible(testMint, callerAddr); got != droplet.FullItemValue {
		t.Fatalf("minted = %d, want %d", got, droplet.FullItemValue)
	}
	if ledger.items[item] != custodyAddr {
		t.Fatal("item not moved to custody")
	}
	if state.buckets[testMint].ItemsHeld != 1 {
		t.Fatalf("items held = %d", state.buckets[testMint].ItemsHeld)
	}
	if _, ok := state.deposits[pairKey(testMint, item)]; !ok {
		t.Fatal("deposit record missing")
	}

	if err := engine.Deposit(callerAddr, testMint, item, nil, false); !errors.Is(err, ErrDepositExists) {
		t.Fatalf("double deposit: got %v", err)
	}
}

func TestDepositRejectsUnverifiedItem(t *testing.T) {
	engine, _, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	item := itemID(0x01)
	metadata.records[item] = &collection.ItemMetadata{
		Item:     item,
		Symbol:   "OTHER",
		Creators: []collection.Creator{{Address: creatorAddr, Verified: true}},
	}
	calls := ledger.calls
	if err := engine.Deposit(callerAddr, testMint, item, nil, false); !errors.Is(err, collection.ErrVerificationFailed) {
		t.Fatalf("wrong-symbol deposit: got %v", err)
	}
	if ledger.calls != calls {
		t.Fatal("ledger touched on failed verification")
	}
}

func TestDepositForSwapDiscountsAndFlags(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr
	if err := engine.Deposit(callerAddr, testMint, item, nil, true); err != nil {
		t.Fatalf("deposit for swap: %v", err)
	}

	const swapFee = droplet.FullItemValue * droplet.SwapFeeBps / droplet.BpsDenominator
	const distributorCut = swapFee * droplet.DistributorFeeBps / droplet.BpsDenominator
	if got, _ := ledger.BalanceFungible(testMint, callerAddr); got != droplet.FullItemValue-swapFee {
		t.Fatalf("caller minted = %d, want %d", got, droplet.FullItemValue-swapFee)
	}
	if got, _ := ledger.BalanceFungible(testMint, distributorAddr); got != distributorCut {
		t.Fatalf("distributor cut = %d, want %d", got, distributorCut)
	}
	if got, _ := ledger.BalanceFungible(testMint, treasuryAddr); got != swapFee-distributorCut {
		t.Fatalf("treasury cut = %d, want %d", got, swapFee-distributorCut)
	}
	if !state.flags[pairKey(testMint, callerAddr)] {
		t.Fatal("swap eligibility not set")
	}

	// Plain deposits stay open while the swap eligibility is pending; only
	// a second swap deposit has to wait for the first to be closed out.
	second := itemID(0x02)
	addItem(metadata, second)
	ledger.items[second] = callerAddr
	if err := engine.Deposit(callerAddr, testMint, second, nil, false); err != nil {
		t.Fatalf("plain deposit with open swap: %v", err)
	}
	wantBalance := 2*droplet.FullItemValue - swapFee
	if got, _ := ledger.BalanceFungible(testMint, callerAddr); got != wantBalance {
		t.Fatalf("caller balance after plain deposit = %d, want %d", got, wantBalance)
	}

	third := itemID(0x03)
	addItem(metadata, third)
	ledger.items[third] = callerAddr
	if err := engine.Deposit(callerAddr, testMint, third, nil, true); !errors.Is(err, ErrDepositNotAllowed) {
		t.Fatalf("second swap deposit with open swap: got %v", err)
	}
}

func TestRedeemBurnsAndCharges(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	item := itemID(0x01)
	mustDeposit(t, engine, metadata, ledger, item)

	const redeemFee = droplet.FullItemValue * droplet.RedeemFeeBps / droplet.BpsDenominator
	const distributorCut = redeemFee * droplet.DistributorFeeBps / droplet.BpsDenominator

	// The deposit minted only the full value; the fee is charged on top.
	if err := engine.Redeem(callerAddr, testMint, item, callerAddr, false); !errors.Is(err, ErrDropletsInsufficient) {
		t.Fatalf("redeem without fee balance: got %v", err)
	}
	ledger.balances[balanceKey(testMint, callerAddr)] += redeemFee

	if err := engine.Redeem(callerAddr, testMint, item, callerAddr, false); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if got, _ := ledger.BalanceFungible(testMint, callerAddr); got != 0 {
		t.Fatalf("caller balance after redeem = %d", got)
	}
	if ledger.burned != droplet.FullItemValue {
		t.Fatalf("burned = %d, want %d", ledger.burned, droplet.FullItemValue)
	}
	if got, _ := ledger.BalanceFungible(testMint, distributorAddr); got != distributorCut {
		t.Fatalf("distributor = %d, want %d", got, distributorCut)
	}
	if got, _ := ledger.BalanceFungible(testMint, treasuryAddr); got != redeemFee-distributorCut {
		t.Fatalf("treasury = %d, want %d", got, redeemFee-distributorCut)
	}
	if ledger.items[item] != callerAddr {
		t.Fatal("item not returned")
	}
	if state.buckets[testMint].ItemsHeld != 0 {
		t.Fatalf("items held = %d", state.buckets[testMint].ItemsHeld)
	}
	if _, ok := state.deposits[pairKey(testMint, item)]; ok {
		t.Fatal("deposit record not deleted")
	}
	if err := engine.Redeem(callerAddr, testMint, item, callerAddr, false); !errors.Is(err, ErrDepositNotFound) {
		t.Fatalf("double redeem: got %v", err)
	}
}

func TestSwapRedemptionConsumesEligibility(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	held := itemID(0x01)
	mustDeposit(t, engine, metadata, ledger, held)

	// No eligibility yet.
	if err := engine.Redeem(callerAddr, testMint, held, callerAddr, true); !errors.Is(err, ErrSwapNotAllowed) {
		t.Fatalf("swap redeem without flag: got %v", err)
	}

	incoming := itemID(0x02)
	addItem(metadata, incoming)
	ledger.items[incoming] = callerAddr
	if err := engine.Deposit(callerAddr, testMint, incoming, nil, true); err != nil {
		t.Fatalf("deposit for swap: %v", err)
	}

	burnedBefore := ledger.burned
	if err := engine.Redeem(callerAddr, testMint, held, callerAddr, true); err != nil {
		t.Fatalf("swap redeem: %v", err)
	}
	if ledger.burned != burnedBefore {
		t.Fatal("swap redemption must not burn")
	}
	if state.flags[pairKey(testMint, callerAddr)] {
		t.Fatal("eligibility not consumed")
	}
	// One item came in, one went out.
	if state.buckets[testMint].ItemsHeld != 1 {
		t.Fatalf("items held = %d, want 1", state.buckets[testMint].ItemsHeld)
	}
	// Sticky flag gone, so the second swap redemption is rejected.
	if err := engine.Redeem(callerAddr, testMint, incoming, callerAddr, true); !errors.Is(err, ErrSwapNotAllowed) {
		t.Fatalf("second swap redeem: got %v", err)
	}
}

func TestSwapKeepsCountersFlat(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	held := itemID(0x01)
	mustDeposit(t, engine, metadata, ledger, held)

	incoming := itemID(0x02)
	addItem(metadata, incoming)
	ledger.items[incoming] = callerAddr

	const swapFee = droplet.FullItemValue * droplet.SwapFeeBps / droplet.BpsDenominator
	if err := engine.Swap(callerAddr, testMint, held, incoming, nil, callerAddr); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if state.buckets[testMint].ItemsHeld != 1 {
		t.Fatalf("items held = %d, want 1", state.buckets[testMint].ItemsHeld)
	}
	if got, _ := ledger.BalanceFungible(testMint, callerAddr); got != droplet.FullItemValue-swapFee {
		t.Fatalf("caller balance = %d, want full value minus one swap fee", got)
	}
	if ledger.items[held] != callerAddr || ledger.items[incoming] != custodyAddr {
		t.Fatal("items not exchanged")
	}
	if _, ok := state.deposits[pairKey(testMint, incoming)]; !ok {
		t.Fatal("incoming deposit record missing")
	}
	if _, ok := state.deposits[pairKey(testMint, held)]; ok {
		t.Fatal("outgoing deposit record not deleted")
	}
}

func seedLockingBucket(t *testing.T, engine *Engine, state *memState) {
	t.Helper()
	mustCreateBucket(t, engine)
	if err := engine.SetLockingEnabled(adminAddr, testMint, true); err != nil {
		t.Fatalf("enable locking: %v", err)
	}
	if err := engine.UpdateLockingParams(adminAddr, testMint, 100, 100); err != nil {
		t.Fatalf("locking params: %v", err)
	}
	b := state.buckets[testMint]
	b.ItemsHeld = 10
	b.ItemsInLockers = 4
	state.buckets[testMint] = b
}

func TestLockQuotesAndMints(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	seedLockingBucket(t, engine, state)

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr

	quote, err := engine.Lock(callerAddr, testMint, item, nil, 10)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	// duration=10, max=100, held=10, lockers=5 after increment, scaler=100:
	// rawInterest = ceil(10*5*1e10 / (100*15)) = 333,333,334
	// principal   = 1e10 - 333,333,334 = 9,666,666,666
	if quote.Principal != 9_666_666_666 {
		t.Fatalf("principal = %d", quote.Principal)
	}
	if quote.MaxInterest != 333_333_334 {
		t.Fatalf("max interest = %d", quote.MaxInterest)
	}
	if got, _ := ledger.BalanceFungible(testMint, callerAddr); got != quote.Principal {
		t.Fatalf("minted principal = %d", got)
	}
	if ledger.items[item] != custodyAddr {
		t.Fatal("collateral not moved to custody")
	}
	if state.buckets[testMint].ItemsInLockers != 5 {
		t.Fatalf("items in lockers = %d", state.buckets[testMint].ItemsInLockers)
	}
	locker := state.lockers[pairKey(testMint, item)]
	if locker == nil {
		t.Fatal("locker record missing")
	}
	if locker.Depositor != callerAddr || locker.CreationTimestamp != 1_000 || locker.Duration != 10 {
		t.Fatalf("locker record: %+v", locker)
	}

	if _, err := engine.Lock(callerAddr, testMint, item, nil, 10); !errors.Is(err, ErrLockerExists) {
		t.Fatalf("double lock: got %v", err)
	}
}

func TestLockValidation(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	seedLockingBucket(t, engine, state)

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr

	if _, err := engine.Lock(callerAddr, testMint, item, nil, 0); !errors.Is(err, ErrLockerDurationInvalid) {
		t.Fatalf("zero duration: got %v", err)
	}
	if _, err := engine.Lock(callerAddr, testMint, item, nil, 101); !errors.Is(err, ErrLockerDurationInvalid) {
		t.Fatalf("over-long duration: got %v", err)
	}

	if err := engine.SetLockingEnabled(adminAddr, testMint, false); err != nil {
		t.Fatalf("disable locking: %v", err)
	}
	if _, err := engine.Lock(callerAddr, testMint, item, nil, 10); !errors.Is(err, ErrLockersDisabled) {
		t.Fatalf("lock while disabled: got %v", err)
	}
	if err := engine.SetLockingEnabled(adminAddr, testMint, true); err != nil {
		t.Fatalf("re-enable locking: %v", err)
	}

	b := state.buckets[testMint]
	b.ItemsHeld = 0
	state.buckets[testMint] = b
	if _, err := engine.Lock(callerAddr, testMint, item, nil, 10); !errors.Is(err, ErrBucketEmpty) {
		t.Fatalf("lock against empty bucket: got %v", err)
	}
}

func TestUnlockRepaysPrincipalAndInterest(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	seedLockingBucket(t, engine, state)

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr

	quote, err := engine.Lock(callerAddr, testMint, item, nil, 10)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	// Halfway through the term: owed = floor(5 * maxInterest / 10).
	engine.SetNowFunc(func() uint64 { return 1_005 })
	owed := 5 * quote.MaxInterest / 10

	if err := engine.Unlock(otherAddr, testMint, item, otherAddr); !errors.Is(err, ErrLockerAccessUnauthorized) {
		t.Fatalf("foreign unlock: got %v", err)
	}
	if err := engine.Unlock(callerAddr, testMint, item, callerAddr); !errors.Is(err, ErrDropletsInsufficient) {
		t.Fatalf("unlock without interest balance: got %v", err)
	}
	ledger.balances[balanceKey(testMint, callerAddr)] += owed

	if err := engine.Unlock(callerAddr, testMint, item, callerAddr); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if ledger.burned != quote.Principal {
		t.Fatalf("burned = %d, want principal %d", ledger.burned, quote.Principal)
	}
	if got, _ := ledger.BalanceFungible(testMint, lockersAddr); got != owed {
		t.Fatalf("lockers treasury = %d, want %d", got, owed)
	}
	if ledger.items[item] != callerAddr {
		t.Fatal("collateral not returned")
	}
	if state.buckets[testMint].ItemsInLockers != 4 {
		t.Fatalf("items in lockers = %d", state.buckets[testMint].ItemsInLockers)
	}
	if _, ok := state.lockers[pairKey(testMint, item)]; ok {
		t.Fatal("locker record not deleted")
	}
}

func TestUnlockAtExpiryBoundary(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	seedLockingBucket(t, engine, state)

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr
	quote, err := engine.Lock(callerAddr, testMint, item, nil, 10)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	ledger.balances[balanceKey(testMint, callerAddr)] += quote.MaxInterest

	// now == expiry is still repayable, with the full interest owed.
	engine.SetNowFunc(func() uint64 { return 1_010 })
	if err := engine.Unlock(callerAddr, testMint, item, callerAddr); err != nil {
		t.Fatalf("unlock at expiry: %v", err)
	}
	if got, _ := ledger.BalanceFungible(testMint, lockersAddr); got != quote.MaxInterest {
		t.Fatalf("interest at expiry = %d, want %d", got, quote.MaxInterest)
	}
}

func TestUnlockAfterExpiryFails(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	seedLockingBucket(t, engine, state)

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr
	if _, err := engine.Lock(callerAddr, testMint, item, nil, 10); err != nil {
		t.Fatalf("lock: %v", err)
	}
	engine.SetNowFunc(func() uint64 { return 1_011 })
	if err := engine.Unlock(callerAddr, testMint, item, callerAddr); !errors.Is(err, ErrLockerExpired) {
		t.Fatalf("unlock past expiry: got %v", err)
	}
}

func TestLiquidateDefaultedLocker(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	seedLockingBucket(t, engine, state)

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr
	quote, err := engine.Lock(callerAddr, testMint, item, nil, 10)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	if err := engine.Liquidate(otherAddr, testMint, item); !errors.Is(err, ErrLockerActive) {
		t.Fatalf("early liquidation: got %v", err)
	}

	engine.SetNowFunc(func() uint64 { return 1_011 })
	if err := engine.Liquidate(otherAddr, testMint, item); err != nil {
		t.Fatalf("liquidate: %v", err)
	}

	deficit := droplet.FullItemValue - quote.Principal
	reward := deficit * droplet.LiquidationRewardPercent / droplet.DropletsPerItem
	if got, _ := ledger.BalanceFungible(testMint, otherAddr); got != reward {
		t.Fatalf("liquidator reward = %d, want %d", got, reward)
	}
	if got, _ := ledger.BalanceFungible(testMint, lockersAddr); got != deficit-reward {
		t.Fatalf("vault share = %d, want %d", got, deficit-reward)
	}
	// Supply is restored to one full item value for the collateral.
	if ledger.minted != quote.Principal+deficit {
		t.Fatalf("total minted = %d, want %d", ledger.minted, quote.Principal+deficit)
	}

	b := state.buckets[testMint]
	if b.ItemsInLockers != 4 || b.ItemsHeld != 11 {
		t.Fatalf("counters after liquidation: held=%d lockers=%d", b.ItemsHeld, b.ItemsInLockers)
	}
	if _, ok := state.lockers[pairKey(testMint, item)]; ok {
		t.Fatal("locker record not deleted")
	}
	if _, ok := state.deposits[pairKey(testMint, item)]; !ok {
		t.Fatal("item not converted to plain deposit")
	}
	// Custody never released the collateral.
	if ledger.items[item] != custodyAddr {
		t.Fatal("collateral left custody")
	}
}

func TestLiquidateRequiresLockingEnabled(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	seedLockingBucket(t, engine, state)

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr
	if _, err := engine.Lock(callerAddr, testMint, item, nil, 10); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if err := engine.SetLockingEnabled(adminAddr, testMint, false); err != nil {
		t.Fatalf("disable locking: %v", err)
	}
	engine.SetNowFunc(func() uint64 { return 1_011 })
	if err := engine.Liquidate(otherAddr, testMint, item); !errors.Is(err, ErrLockersDisabled) {
		t.Fatalf("liquidate while disabled: got %v", err)
	}
}

func TestAdminSurfaceAuthorization(t *testing.T) {
	engine, _, _, _, _ := testEngine(t)
	mustCreateBucket(t, engine)

	if err := engine.SetLockingEnabled(otherAddr, testMint, true); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("SetLockingEnabled: got %v", err)
	}
	if err := engine.UpdateLockingParams(otherAddr, testMint, 10, 10); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("UpdateLockingParams: got %v", err)
	}
	if err := engine.UpdateCollectionInfo(otherAddr, testMint, testDescriptor()); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("UpdateCollectionInfo: got %v", err)
	}
	if err := engine.UpdateRevenuePartners(otherAddr, testMint, nil); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("UpdateRevenuePartners: got %v", err)
	}
	if err := engine.DistributeRevenue(otherAddr, testMint); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("DistributeRevenue: got %v", err)
	}
	if err := engine.ClaimBalance(otherAddr, testMint); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("ClaimBalance: got %v", err)
	}
	if err := engine.SetStakingEnabled(otherAddr, testMint, true); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("SetStakingEnabled: got %v", err)
	}
}

func TestUpdateLockingParamsValidation(t *testing.T) {
	engine, _, _, _, _ := testEngine(t)
	mustCreateBucket(t, engine)

	if err := engine.UpdateLockingParams(adminAddr, testMint, 0, 50); !errors.Is(err, ErrLockerDurationInvalid) {
		t.Fatalf("zero max duration: got %v", err)
	}
	if err := engine.UpdateLockingParams(adminAddr, testMint, 10, 101); !errors.Is(err, ErrInterestScalerInvalid) {
		t.Fatalf("oversized scaler: got %v", err)
	}
	if err := engine.UpdateLockingParams(adminAddr, testMint, 10, 100); err != nil {
		t.Fatalf("valid params: %v", err)
	}
}

func TestRevenueDistribution(t *testing.T) {
	engine, _, ledger, _, _ := testEngine(t)
	mustCreateBucket(t, engine)

	partnerA := addr(0xD1)
	partnerB := addr(0xD2)
	table := []fees.RevenuePartner{
		{Recipient: partnerA, ShareBps: 7_000},
		{Recipient: partnerB, ShareBps: 3_000},
	}
	if err := engine.UpdateRevenuePartners(adminAddr, testMint, []fees.RevenuePartner{{Recipient: partnerA, ShareBps: 9_999}}); !errors.Is(err, fees.ErrPartnersInvalid) {
		t.Fatalf("short shares: got %v", err)
	}
	if err := engine.UpdateRevenuePartners(adminAddr, testMint, table); err != nil {
		t.Fatalf("update partners: %v", err)
	}

	ledger.balances[balanceKey(testMint, distributorAddr)] = 1_000_003
	if err := engine.DistributeRevenue(callerAddr, testMint); !errors.Is(err, ErrAdminAccessUnauthorized) {
		t.Fatalf("non-admin distribute: got %v", err)
	}
	if err := engine.DistributeRevenue(adminAddr, testMint); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if got, _ := ledger.BalanceFungible(testMint, partnerA); got != 700_002 {
		t.Fatalf("partner A = %d", got)
	}
	if got, _ := ledger.BalanceFungible(testMint, partnerB); got != 300_000 {
		t.Fatalf("partner B = %d", got)
	}
	// Floor-division dust stays with the distributor.
	if got, _ := ledger.BalanceFungible(testMint, distributorAddr); got != 1 {
		t.Fatalf("dust = %d", got)
	}
}

func TestDistributeRequiresPartners(t *testing.T) {
	engine, _, _, _, _ := testEngine(t)
	mustCreateBucket(t, engine)
	if err := engine.DistributeRevenue(adminAddr, testMint); !errors.Is(err, ErrRevenueDistributionInvalid) {
		t.Fatalf("distribute without partners: got %v", err)
	}
}

func TestClaimBalanceSweep(t *testing.T) {
	engine, _, ledger, _, _ := testEngine(t)
	mustCreateBucket(t, engine)

	ledger.balances[balanceKey(testMint, custodyAddr)] = 12_345
	if err := engine.ClaimBalance(adminAddr, testMint); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got, _ := ledger.BalanceFungible(testMint, treasuryAddr); got != 12_345 {
		t.Fatalf("treasury = %d", got)
	}
	// Nothing to sweep is a no-op, not an error.
	if err := engine.ClaimBalance(adminAddr, testMint); err != nil {
		t.Fatalf("empty claim: %v", err)
	}
}

func TestStakingLifecycle(t *testing.T) {
	engine, _, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	item := itemID(0x01)
	mustDeposit(t, engine, metadata, ledger, item)

	f := &memFarm{}
	engine.SetFarm(f)

	if err := engine.StakeItem(adminAddr, testMint, item); !errors.Is(err, ErrStakingDisabled) {
		t.Fatalf("stake while disabled: got %v", err)
	}
	if err := engine.SetStakingEnabled(adminAddr, testMint, true); !errors.Is(err, ErrStakingParamsInvalid) {
		t.Fatalf("enable without params: got %v", err)
	}

	params := StakingParams{
		FarmProgram: addr(0xF1),
		BankProgram: addr(0xF2),
		Farm:        addr(0xF3),
		FeeAccount:  addr(0xF4),
	}
	if err := engine.UpdateStakingParams(adminAddr, testMint, StakingParams{FarmProgram: addr(0xF1)}); !errors.Is(err, ErrStakingParamsInvalid) {
		t.Fatalf("partial params: got %v", err)
	}
	if err := engine.UpdateStakingParams(adminAddr, testMint, params); err != nil {
		t.Fatalf("staking params: %v", err)
	}
	if err := engine.SetStakingEnabled(adminAddr, testMint, true); err != nil {
		t.Fatalf("enable staking: %v", err)
	}

	if err := engine.StakeItem(adminAddr, testMint, itemID(0x99)); !errors.Is(err, ErrDepositNotFound) {
		t.Fatalf("stake unknown item: got %v", err)
	}
	if err := engine.StakeItem(adminAddr, testMint, item); err != nil {
		t.Fatalf("stake: %v", err)
	}
	if !f.staked[item] {
		t.Fatal("farm did not receive stake")
	}

	f.unstake = farm.ErrCooldownPending
	if err := engine.UnstakeItem(adminAddr, testMint, item); !errors.Is(err, farm.ErrCooldownPending) {
		t.Fatalf("cooldown passthrough: got %v", err)
	}
	f.unstake = nil
	if err := engine.UnstakeItem(adminAddr, testMint, item); err != nil {
		t.Fatalf("unstake: %v", err)
	}
	if f.staked[item] {
		t.Fatal("farm still holds item")
	}
}

func TestStakingRejectsUnsafeFarm(t *testing.T) {
	engine, _, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	item := itemID(0x01)
	mustDeposit(t, engine, metadata, ledger, item)

	params := StakingParams{
		FarmProgram: addr(0xF1),
		BankProgram: addr(0xF2),
		Farm:        addr(0xF3),
		FeeAccount:  addr(0xF4),
	}
	if err := engine.UpdateStakingParams(adminAddr, testMint, params); err != nil {
		t.Fatalf("staking params: %v", err)
	}
	if err := engine.SetStakingEnabled(adminAddr, testMint, true); err != nil {
		t.Fatalf("enable staking: %v", err)
	}

	engine.SetFarm(&memFarm{cfg: farm.Config{CooldownPeriodSec: 60}})
	if err := engine.StakeItem(adminAddr, testMint, item); !errors.Is(err, farm.ErrConfigInvalid) {
		t.Fatalf("unsafe farm: got %v", err)
	}
}

func TestQuoteLockMatchesLock(t *testing.T) {
	engine, state, ledger, metadata, _ := testEngine(t)
	seedLockingBucket(t, engine, state)

	quoted, err := engine.QuoteLock(testMint, 10)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	item := itemID(0x01)
	addItem(metadata, item)
	ledger.items[item] = callerAddr
	locked, err := engine.Lock(callerAddr, testMint, item, nil, 10)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if quoted != locked {
		t.Fatalf("quote %+v != lock %+v", quoted, locked)
	}
}

func TestUpdateCollectionGatesFutureAdmissions(t *testing.T) {
	engine, _, ledger, metadata, _ := testEngine(t)
	mustCreateBucket(t, engine)

	held := itemID(0x01)
	mustDeposit(t, engine, metadata, ledger, held)

	replacement := collection.Descriptor{
		Kind:             collection.KindLegacy,
		Symbol:           "NEWSYM",
		VerifiedCreators: []types.Address{creatorAddr},
	}
	if err := engine.UpdateCollectionInfo(adminAddr, testMint, replacement); err != nil {
		t.Fatalf("update collection: %v", err)
	}

	// The held item stays redeemable under the old descriptor...
	const redeemFee = droplet.FullItemValue * droplet.RedeemFeeBps / droplet.BpsDenominator
	ledger.balances[balanceKey(testMint, callerAddr)] += redeemFee
	if err := engine.Redeem(callerAddr, testMint, held, callerAddr, false); err != nil {
		t.Fatalf("redeem held item: %v", err)
	}
	// ...but new admissions verify against the replacement.
	incoming := itemID(0x02)
	addItem(metadata, incoming)
	ledger.items[incoming] = callerAddr
	if err := engine.Deposit(callerAddr, testMint, incoming, nil, false); !errors.Is(err, collection.ErrVerificationFailed) {
		t.Fatalf("deposit under new descriptor: got %v", err)
	}
}
