package utils

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStore Role = "store"
)

// Caller is the resolved identity a request acts as. StoreID is meaningful only
// when Role is RoleStore; scoping decisions switch on Role rather than inspecting
// raw claim strings.
type Caller struct {
	Role    Role
	StoreID uint
}

// OrderStoreID returns the store reference a new order should carry: the caller's
// own store, or none for admin-created orders.
func (c Caller) OrderStoreID() *uint {
	if c.Role == RoleStore {
		id := c.StoreID
		return &id
	}
	return nil
}
