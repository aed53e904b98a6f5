package services

import "context"

// DeliveryGuard decides whether a success callback may trigger fulfillment.
// It is the place to plug in replay protection for /success.
type DeliveryGuard interface {
	Admit(ctx context.Context, email string) (bool, error)
}

// AllowAllGuard admits every call, so repeated callbacks deliver again.
type AllowAllGuard struct{}

func (AllowAllGuard) Admit(context.Context, string) (bool, error) {
	return true, nil
}
