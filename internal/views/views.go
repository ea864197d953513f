// Package views maps roles to screens and loads the data each screen shows.
package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/tenderdesk/internal/roles"
)

// Name identifies a top-level screen.
type Name int

const (
	Dashboard Name = iota
	Tenders
	Contracts
	Orders
	Delivery
	Payments
)

// ErrUnknownView is returned by Parse for unrecognised view names.
var ErrUnknownView = errors.New("unknown view")

var names = [...]string{"dashboard", "tenders", "contracts", "orders", "delivery", "payments"}
var titles = [...]string{"Dashboard", "Tenders", "Contracts", "Orders", "Delivery", "Payments"}

func (n Name) String() string {
	if n < 0 || int(n) >= len(names) {
		return fmt.Sprintf("view(%d)", int(n))
	}
	return names[n]
}

// Title is the menu label.
func (n Name) Title() string {
	if n < 0 || int(n) >= len(titles) {
		return n.String()
	}
	return titles[n]
}

// All returns every view in menu order.
func All() []Name {
	return []Name{Dashboard, Tenders, Contracts, Orders, Delivery, Payments}
}

// Parse decodes a view name such as "orders".
func Parse(name string) (Name, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Name(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

var access = map[Name][]roles.Role{
	Tenders:   {roles.Admin, roles.Technical, roles.Vendor, roles.Client},
	Contracts: {roles.Admin, roles.Vendor, roles.Client},
	Orders:    {roles.Admin, roles.Finance, roles.Vendor, roles.Client},
	Delivery:  {roles.Admin, roles.Technical, roles.Vendor, roles.Client},
	Payments:  {roles.Admin, roles.Finance, roles.Vendor, roles.Client},
}

// Allowed reports whether role may open view n. The dashboard is open to
// everyone.
func Allowed(n Name, role roles.Role) bool {
	if n == Dashboard {
		return true
	}
	return role.In(access[n]...)
}

// Visible returns the menu for role, in menu order.
func Visible(role roles.Role) []Name {
	var out []Name
	for _, n := range All() {
		if Allowed(n, role) {
			out = append(out, n)
		}
	}
	return out
}

// Resolve returns n when role may open it, otherwise the dashboard.
func Resolve(n Name, role roles.Role) Name {
	if Allowed(n, role) {
		return n
	}
	return Dashboard
}
