// Package state persists the engine's records on a key-value database. Each
// record family lives under its own key prefix and is RLP encoded through a
// stored mirror struct behind a leading version tag, so the in-memory types
// stay free of codec tags and layout changes stay detectable.
package state

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"dropletvault/core/types"
	"dropletvault/native/bucket"
	"dropletvault/native/collection"
	"dropletvault/native/fees"
	"dropletvault/storage"
)

// recordVersion is the leading tag byte on every stored payload. Layout
// changes bump the version; decode rejects tags it does not know.
const recordVersion byte = 0x01

var errRecordVersion = errors.New("state: unknown record version")

var (
	bucketPrefix   = []byte("vault/bucket/")
	depositPrefix  = []byte("vault/deposit/")
	lockerPrefix   = []byte("vault/locker/")
	swapFlagPrefix = []byte("vault/swapflag/")
	revenuePrefix  = []byte("vault/revenue/")
)

// Store implements the engine's record persistence on a storage.Database.
type Store struct {
	db storage.Database
}

// NewStore wraps a database in a record store.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

func bucketKey(mint types.TokenID) []byte {
	return append(append([]byte(nil), bucketPrefix...), mint[:]...)
}

func pairKey(prefix []byte, mint types.TokenID, suffix [32]byte) []byte {
	key := append(append([]byte(nil), prefix...), mint[:]...)
	return append(key, suffix[:]...)
}

type storedDescriptor struct {
	Kind             uint8
	Symbol           string
	VerifiedCreators []types.Address
	AllowlistRoot    [32]byte
	HasAllowlist     bool
	CollectionMint   types.TokenID
}

type storedStaking struct {
	FarmProgram types.Address
	BankProgram types.Address
	Farm        types.Address
	FeeAccount  types.Address
}

type storedBucket struct {
	DropletMint       types.TokenID
	Collection        storedDescriptor
	LockingEnabled    bool
	MaxLockerDuration uint64
	InterestScaler    uint8
	ItemsHeld         uint64
	ItemsInLockers    uint64
	StakingEnabled    bool
	Staking           *storedStaking `rlp:"nil"`
}

type storedDeposit struct {
	DropletMint types.TokenID
	Item        types.ItemID
}

type storedLocker struct {
	DropletMint       types.TokenID
	Item              types.ItemID
	Depositor         types.Address
	CreationTimestamp uint64
	Duration          uint64
	Principal         uint64
	MaxInterest       uint64
}

type storedPartner struct {
	Recipient types.Address
	ShareBps  uint16
}

func toStoredBucket(b *bucket.Bucket) *storedBucket {
	stored := &storedBucket{
		DropletMint: b.DropletMint,
		Collection: storedDescriptor{
			Kind:             uint8(b.Collection.Kind),
			Symbol:           b.Collection.Symbol,
			VerifiedCreators: append([]types.Address(nil), b.Collection.VerifiedCreators...),
			AllowlistRoot:    b.Collection.AllowlistRoot,
			HasAllowlist:     b.Collection.HasAllowlist,
			CollectionMint:   b.Collection.CollectionMint,
		},
		LockingEnabled:    b.LockingEnabled,
		MaxLockerDuration: b.MaxLockerDuration,
		InterestScaler:    b.InterestScaler,
		ItemsHeld:         b.ItemsHeld,
		ItemsInLockers:    b.ItemsInLockers,
		StakingEnabled:    b.StakingEnabled,
	}
	if b.Staking != nil {
		stored.Staking = &storedStaking{
			FarmProgram: b.Staking.FarmProgram,
			BankProgram: b.Staking.BankProgram,
			Farm:        b.Staking.Farm,
			FeeAccount:  b.Staking.FeeAccount,
		}
	}
	return stored
}

func fromStoredBucket(stored *storedBucket) *bucket.Bucket {
	b := &bucket.Bucket{
		DropletMint: stored.DropletMint,
		Collection: collection.Descriptor{
			Kind:             collection.DescriptorKind(stored.Collection.Kind),
			Symbol:           stored.Collection.Symbol,
			VerifiedCreators: append([]types.Address(nil), stored.Collection.VerifiedCreators...),
			AllowlistRoot:    stored.Collection.AllowlistRoot,
			HasAllowlist:     stored.Collection.HasAllowlist,
			CollectionMint:   stored.Collection.CollectionMint,
		},
		LockingEnabled:    stored.LockingEnabled,
		MaxLockerDuration: stored.MaxLockerDuration,
		InterestScaler:    stored.InterestScaler,
		ItemsHeld:         stored.ItemsHeld,
		ItemsInLockers:    stored.ItemsInLockers,
		StakingEnabled:    stored.StakingEnabled,
	}
	if stored.Staking != nil {
		b.Staking = &bucket.StakingParams{
			FarmProgram: stored.Staking.FarmProgram,
			BankProgram: stored.Staking.BankProgram,
			Farm:        stored.Staking.Farm,
			FeeAccount:  stored.Staking.FeeAccount,
		}
	}
	return b
}

func (s *Store) put(key []byte, record interface{}) error {
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return fmt.Errorf("state: encode record: %w", err)
	}
	payload := make([]byte, 1, 1+len(encoded))
	payload[0] = recordVersion
	return s.db.Put(key, append(payload, encoded...))
}

func (s *Store) get(key []byte, out interface{}) (bool, error) {
	payload, err := s.db.Get(key)
	if err != nil {
		if err == storage.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	if len(payload) == 0 || payload[0] != recordVersion {
		return false, errRecordVersion
	}
	if err := rlp.DecodeBytes(payload[1:], out); err != nil {
		return false, fmt.Errorf("state: decode record: %w", err)
	}
	return true, nil
}

// BucketGet loads the bucket for a droplet mint.
func (s *Store) BucketGet(mint types.TokenID) (*bucket.Bucket, bool, error) {
	var stored storedBucket
	ok, err := s.get(bucketKey(mint), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return fromStoredBucket(&stored), true, nil
}

// BucketPut persists a bucket.
func (s *Store) BucketPut(b *bucket.Bucket) error {
	if b == nil {
		return fmt.Errorf("state: nil bucket")
	}
	return s.put(bucketKey(b.DropletMint), toStoredBucket(b))
}

// DepositGet loads the deposit record for a (bucket, item) pair.
func (s *Store) DepositGet(mint types.TokenID, item types.ItemID) (*bucket.DepositRecord, bool, error) {
	var stored storedDeposit
	ok, err := s.get(pairKey(depositPrefix, mint, item), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &bucket.DepositRecord{DropletMint: stored.DropletMint, Item: stored.Item}, true, nil
}

// DepositPut persists a deposit record.
func (s *Store) DepositPut(record *bucket.DepositRecord) error {
	if record == nil {
		return fmt.Errorf("state: nil deposit record")
	}
	key := pairKey(depositPrefix, record.DropletMint, record.Item)
	return s.put(key, &storedDeposit{DropletMint: record.DropletMint, Item: record.Item})
}

// DepositDelete removes a deposit record.
func (s *Store) DepositDelete(mint types.TokenID, item types.ItemID) error {
	return s.db.Delete(pairKey(depositPrefix, mint, item))
}

// LockerGet loads the locker record for a (bucket, item) pair.
func (s *Store) LockerGet(mint types.TokenID, item types.ItemID) (*bucket.LockerRecord, bool, error) {
	var stored storedLocker
	ok, err := s.get(pairKey(lockerPrefix, mint, item), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return &bucket.LockerRecord{
		DropletMint:       stored.DropletMint,
		Item:              stored.Item,
		Depositor:         stored.Depositor,
		CreationTimestamp: stored.CreationTimestamp,
		Duration:          stored.Duration,
		Principal:         stored.Principal,
		MaxInterest:       stored.MaxInterest,
	}, true, nil
}

// LockerPut persists a locker record.
func (s *Store) LockerPut(locker *bucket.LockerRecord) error {
	if locker == nil {
		return fmt.Errorf("state: nil locker record")
	}
	key := pairKey(lockerPrefix, locker.DropletMint, locker.Item)
	return s.put(key, &storedLocker{
		DropletMint:       locker.DropletMint,
		Item:              locker.Item,
		Depositor:         locker.Depositor,
		CreationTimestamp: locker.CreationTimestamp,
		Duration:          locker.Duration,
		Principal:         locker.Principal,
		MaxInterest:       locker.MaxInterest,
	})
}

// LockerDelete removes a locker record.
func (s *Store) LockerDelete(mint types.TokenID, item types.ItemID) error {
	return s.db.Delete(pairKey(lockerPrefix, mint, item))
}

// SwapFlagGet reports whether the caller holds an open swap eligibility.
func (s *Store) SwapFlagGet(mint types.TokenID, caller types.Address) (bool, error) {
	return s.db.Has(pairKey(swapFlagPrefix, mint, caller))
}

// SwapFlagPut records or clears a swap eligibility.
func (s *Store) SwapFlagPut(mint types.TokenID, caller types.Address, flag bool) error {
	key := pairKey(swapFlagPrefix, mint, caller)
	if flag {
		return s.db.Put(key, []byte{1})
	}
	return s.db.Delete(key)
}

// RevenuePartnersGet loads the revenue split table for a bucket. A missing
// table is reported as empty, not as an error.
func (s *Store) RevenuePartnersGet(mint types.TokenID) ([]fees.RevenuePartner, error) {
	key := append(append([]byte(nil), revenuePrefix...), mint[:]...)
	var stored []storedPartner
	ok, err := s.get(key, &stored)
	if err != nil || !ok {
		return nil, err
	}
	partners := make([]fees.RevenuePartner, 0, len(stored))
	for _, partner := range stored {
		partners = append(partners, fees.RevenuePartner{Recipient: partner.Recipient, ShareBps: partner.ShareBps})
	}
	return partners, nil
}

// RevenuePartnersPut persists the revenue split table for a bucket.
func (s *Store) RevenuePartnersPut(mint types.TokenID, partners []fees.RevenuePartner) error {
	key := append(append([]byte(nil), revenuePrefix...), mint[:]...)
	stored := make([]storedPartner, 0, len(partners))
	for _, partner := range partners {
		stored = append(stored, storedPartner{Recipient: partner.Recipient, ShareBps: partner.ShareBps})
	}
	return s.put(key, stored)
}
