package auth

// Permission is a backend permission code attached to the caller's role.
type Permission string

// Permission codes consumed by the dashboard. The backend defines more; only
// the ones the client gates behavior on are named here.
const (
	PermOrderBarView    Permission = "ORDER_BAR_VIEW"
	PermOrderDiningView Permission = "ORDER_DINING_VIEW"
	PermOrderCreate     Permission = "ORDER_CREATE"
	PermOrderEdit       Permission = "ORDER_EDIT"
	PermOrderDelete     Permission = "ORDER_DELETE"
	PermProductView     Permission = "PRODUCT_VIEW"
	PermTableView       Permission = "TABLE_VIEW"
	PermReservationView Permission = "RESERVATION_VIEW"
)

// Permissions is the caller's permission set.
type Permissions map[Permission]struct{}

// NewPermissions builds a permission set from the given codes.
func NewPermissions(perms ...Permission) Permissions {
	set := make(Permissions, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// ParsePermissions builds a permission set from raw backend permission codes.
func ParsePermissions(codes []string) Permissions {
	set := make(Permissions, len(codes))
	for _, c := range codes {
		set[Permission(c)] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the given permission.
func (p Permissions) Has(perm Permission) bool {
	_, ok := p[perm]
	return ok
}

// HasAny reports whether the set contains at least one of the given permissions.
func (p Permissions) HasAny(perms ...Permission) bool {
	for _, perm := range perms {
		if p.Has(perm) {
			return true
		}
	}
	return false
}
