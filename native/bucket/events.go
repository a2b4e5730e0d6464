package bucket

import (
	"strconv"

	"dropletvault/core/types"
)

const (
	TypeBucketCreated          = "bucket.created"
	TypeItemDeposited          = "bucket.deposit"
	TypeItemRedeemed           = "bucket.redeem"
	TypeItemsSwapped           = "bucket.swap"
	TypeItemLocked             = "locker.created"
	TypeItemUnlocked           = "locker.unlocked"
	TypeLockerLiquidated       = "locker.liquidated"
	TypeLockingToggled         = "bucket.locking_toggled"
	TypeLockingParamsUpdated   = "bucket.locking_params"
	TypeCollectionUpdated      = "bucket.collection_updated"
	TypeStakingToggled         = "bucket.staking_toggled"
	TypeStakingParamsUpdated   = "bucket.staking_params"
	TypeRevenuePartnersUpdated = "bucket.revenue_partners"
	TypeRevenueDistributed     = "bucket.revenue_distributed"
	TypeBalanceClaimed         = "bucket.balance_claimed"
	TypeItemStaked             = "bucket.item_staked"
	TypeItemUnstaked           = "bucket.item_unstaked"
)

func uintToString(v uint64) string { return strconv.FormatUint(v, 10) }

func boolToString(v bool) string { return strconv.FormatBool(v) }

type BucketCreated struct {
	DropletMint types.TokenID
	Signer      types.Address
}

func (BucketCreated) EventType() string { return TypeBucketCreated }

func (e BucketCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeBucketCreated,
		Attributes: map[string]string{
			"mint":   e.DropletMint.String(),
			"signer": e.Signer.String(),
		},
	}
}

type ItemDeposited struct {
	DropletMint types.TokenID
	Item        types.ItemID
	Signer      types.Address
	Minted      uint64
	ForSwap     bool
}

func (ItemDeposited) EventType() string { return TypeItemDeposited }

func (e ItemDeposited) Event() *types.Event {
	return &types.Event{
		Type: TypeItemDeposited,
		Attributes: map[string]string{
			"mint":    e.DropletMint.String(),
			"item":    e.Item.String(),
			"signer":  e.Signer.String(),
			"minted":  uintToString(e.Minted),
			"forSwap": boolToString(e.ForSwap),
		},
	}
}

type ItemRedeemed struct {
	DropletMint types.TokenID
	Item        types.ItemID
	Signer      types.Address
	Fee         uint64
	AsSwap      bool
}

func (ItemRedeemed) EventType() string { return TypeItemRedeemed }

func (e ItemRedeemed) Event() *types.Event {
	return &types.Event{
		Type: TypeItemRedeemed,
		Attributes: map[string]string{
			"mint":   e.DropletMint.String(),
			"item":   e.Item.String(),
			"signer": e.Signer.String(),
			"fee":    uintToString(e.Fee),
			"asSwap": boolToString(e.AsSwap),
		},
	}
}

type ItemsSwapped struct {
	DropletMint types.TokenID
	ItemIn      types.ItemID
	ItemOut     types.ItemID
	Signer      types.Address
	Fee         uint64
}

func (ItemsSwapped) EventType() string { return TypeItemsSwapped }

func (e ItemsSwapped) Event() *types.Event {
	return &types.Event{
		Type: TypeItemsSwapped,
		Attributes: map[string]string{
			"mint":    e.DropletMint.String(),
			"itemIn":  e.ItemIn.String(),
			"itemOut": e.ItemOut.String(),
			"signer":  e.Signer.String(),
			"fee":     uintToString(e.Fee),
		},
	}
}

type ItemLocked struct {
	DropletMint       types.TokenID
	Item              types.ItemID
	Signer            types.Address
	CreationTimestamp uint64
	Duration          uint64
	Principal         uint64
	MaxInterest       uint64
}

func (ItemLocked) EventType() string { return TypeItemLocked }

func (e ItemLocked) Event() *types.Event {
	return &types.Event{
		Type: TypeItemLocked,
		Attributes: map[string]string{
			"mint":        e.DropletMint.String(),
			"item":        e.Item.String(),
			"signer":      e.Signer.String(),
			"createdAt":   uintToString(e.CreationTimestamp),
			"duration":    uintToString(e.Duration),
			"principal":   uintToString(e.Principal),
			"maxInterest": uintToString(e.MaxInterest),
		},
	}
}

type ItemUnlocked struct {
	DropletMint types.TokenID
	Item        types.ItemID
	Signer      types.Address
	Principal   uint64
	Interest    uint64
}

func (ItemUnlocked) EventType() string { return TypeItemUnlocked }

func (e ItemUnlocked) Event() *types.Event {
	return &types.Event{
		Type: TypeItemUnlocked,
		Attributes: map[string]string{
			"mint":      e.DropletMint.String(),
			"item":      e.Item.String(),
			"signer":    e.Signer.String(),
			"principal": uintToString(e.Principal),
			"interest":  uintToString(e.Interest),
		},
	}
}

type LockerLiquidated struct {
	DropletMint types.TokenID
	Item        types.ItemID
	Signer      types.Address
	Reward      uint64
	Vault       uint64
}

func (LockerLiquidated) EventType() string { return TypeLockerLiquidated }

func (e LockerLiquidated) Event() *types.Event {
	return &types.Event{
		Type: TypeLockerLiquidated,
		Attributes: map[string]string{
			"mint":   e.DropletMint.String(),
			"item":   e.Item.String(),
			"signer": e.Signer.String(),
			"reward": uintToString(e.Reward),
			"vault":  uintToString(e.Vault),
		},
	}
}

type LockingToggled struct {
	DropletMint types.TokenID
	Signer      types.Address
	Enabled     bool
}

func (LockingToggled) EventType() string { return TypeLockingToggled }

func (e LockingToggled) Event() *types.Event {
	return &types.Event{
		Type: TypeLockingToggled,
		Attributes: map[string]string{
			"mint":    e.DropletMint.String(),
			"signer":  e.Signer.String(),
			"enabled": boolToString(e.Enabled),
		},
	}
}

type LockingParamsUpdated struct {
	DropletMint    types.TokenID
	Signer         types.Address
	MaxDuration    uint64
	InterestScaler uint8
}

func (LockingParamsUpdated) EventType() string { return TypeLockingParamsUpdated }

func (e LockingParamsUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeLockingParamsUpdated,
		Attributes: map[string]string{
			"mint":           e.DropletMint.String(),
			"signer":         e.Signer.String(),
			"maxDuration":    uintToString(e.MaxDuration),
			"interestScaler": uintToString(uint64(e.InterestScaler)),
		},
	}
}

type CollectionUpdated struct {
	DropletMint types.TokenID
	Signer      types.Address
}

func (CollectionUpdated) EventType() string { return TypeCollectionUpdated }

func (e CollectionUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeCollectionUpdated,
		Attributes: map[string]string{
			"mint":   e.DropletMint.String(),
			"signer": e.Signer.String(),
		},
	}
}

type StakingToggled struct {
	DropletMint types.TokenID
	Signer      types.Address
	Enabled     bool
}

func (StakingToggled) EventType() string { return TypeStakingToggled }

func (e StakingToggled) Event() *types.Event {
	return &types.Event{
		Type: TypeStakingToggled,
		Attributes: map[string]string{
			"mint":    e.DropletMint.String(),
			"signer":  e.Signer.String(),
			"enabled": boolToString(e.Enabled),
		},
	}
}

type StakingParamsUpdated struct {
	DropletMint types.TokenID
	Signer      types.Address
}

func (StakingParamsUpdated) EventType() string { return TypeStakingParamsUpdated }

func (e StakingParamsUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeStakingParamsUpdated,
		Attributes: map[string]string{
			"mint":   e.DropletMint.String(),
			"signer": e.Signer.String(),
		},
	}
}

type RevenuePartnersUpdated struct {
	DropletMint types.TokenID
	Signer      types.Address
	Partners    int
}

func (RevenuePartnersUpdated) EventType() string { return TypeRevenuePartnersUpdated }

func (e RevenuePartnersUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeRevenuePartnersUpdated,
		Attributes: map[string]string{
			"mint":     e.DropletMint.String(),
			"signer":   e.Signer.String(),
			"partners": strconv.Itoa(e.Partners),
		},
	}
}

type RevenueDistributed struct {
	DropletMint types.TokenID
	Signer      types.Address
	Total       uint64
	Partners    int
}

func (RevenueDistributed) EventType() string { return TypeRevenueDistributed }

func (e RevenueDistributed) Event() *types.Event {
	return &types.Event{
		Type: TypeRevenueDistributed,
		Attributes: map[string]string{
			"mint":     e.DropletMint.String(),
			"signer":   e.Signer.String(),
			"total":    uintToString(e.Total),
			"partners": strconv.Itoa(e.Partners),
		},
	}
}

type BalanceClaimed struct {
	DropletMint types.TokenID
	Signer      types.Address
	Amount      uint64
}

func (BalanceClaimed) EventType() string { return TypeBalanceClaimed }

func (e BalanceClaimed) Event() *types.Event {
	return &types.Event{
		Type: TypeBalanceClaimed,
		Attributes: map[string]string{
			"mint":   e.DropletMint.String(),
			"signer": e.Signer.String(),
			"amount": uintToString(e.Amount),
		},
	}
}

type ItemStaked struct {
	DropletMint types.TokenID
	Item        types.ItemID
	Signer      types.Address
}

func (ItemStaked) EventType() string { return TypeItemStaked }

func (e ItemStaked) Event() *types.Event {
	return &types.Event{
		Type: TypeItemStaked,
		Attributes: map[string]string{
			"mint":   e.DropletMint.String(),
			"item":   e.Item.String(),
			"signer": e.Signer.String(),
		},
	}
}

type ItemUnstaked struct {
	DropletMint types.TokenID
	Item        types.ItemID
	Signer      types.Address
}

func (ItemUnstaked) EventType() string { return TypeItemUnstaked }

func (e ItemUnstaked) Event() *types.Event {
	return &types.Event{
		Type: TypeItemUnstaked,
		Attributes: map[string]string{
			"mint":   e.DropletMint.String(),
			"item":   e.Item.String(),
			"signer": e.Signer.String(),
		},
	}
}
