package domain

import "fmt"

// Order is the slice of the relational order row the real-time layer needs:
// enough to resolve the owning user and the owning store.
type Order struct {
	ID      int64
	UserID  int64
	StoreID int64
}

// OwnerUserIdentity is the identity room of the student who placed the order.
func (o Order) OwnerUserIdentity() string {
	return fmt.Sprintf("user%d", o.UserID)
}

// OwnerStoreIdentity is the identity of the store allowed to update the order.
func (o Order) OwnerStoreIdentity() string {
	return fmt.Sprintf("store%d", o.StoreID)
}
