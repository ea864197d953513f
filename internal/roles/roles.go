// Package roles defines the procurement user roles and what each may do.
package roles

import (
	"errors"
	"fmt"
	"strings"
)

// Role is a user's role as reported by the login endpoint.
type Role string

const (
	Admin     Role = "admin"
	Technical Role = "technical"
	Finance   Role = "finance"
	Vendor    Role = "vendor"
	Client    Role = "client"
)

// ErrUnknownRole is returned by Parse for unrecognised role names.
var ErrUnknownRole = errors.New("unknown role")

// All returns every role.
func All() []Role {
	return []Role{Admin, Technical, Finance, Vendor, Client}
}

// Parse normalises a role name.
func Parse(name string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range All() {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// In reports whether r is one of the given roles.
func (r Role) In(set ...Role) bool {
	for _, candidate := range set {
		if r == candidate {
			return true
		}
	}
	return false
}

// Title returns the display form of the role.
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

// CanDraftContract reports whether r may create contracts.
func (r Role) CanDraftContract() bool {
	return r.In(Admin, Client)
}

// CanManageTenders reports whether r may publish tenders and move them
// through the review workflow.
func (r Role) CanManageTenders() bool {
	return r.In(Admin, Client, Technical)
}

// CanRaiseOrder reports whether r may issue purchase orders.
func (r Role) CanRaiseOrder() bool {
	return r.In(Admin, Client, Finance)
}

// CanAddItem reports whether r may extend the item catalogue that order
// lines pick from.
func (r Role) CanAddItem() bool {
	return r.CanRaiseOrder()
}

// CanSignContract reports whether r may sign a contract in the given status.
func (r Role) CanSignContract(status string) bool {
	return r.In(Client, Vendor) && !strings.EqualFold(status, "Signed")
}

// CanUploadProof reports whether r may upload delivery proof for a milestone.
func (r Role) CanUploadProof(milestoneStatus string) bool {
	return r == Vendor && !strings.EqualFold(milestoneStatus, "Completed")
}

// CanInspect reports whether r may record an inspection for a milestone.
func (r Role) CanInspect(milestoneStatus string) bool {
	return r.In(Technical, Admin) && strings.EqualFold(milestoneStatus, "In Progress")
}

// CanRecordPayment reports whether r may record settlements.
func (r Role) CanRecordPayment() bool {
	return r.In(Finance, Admin)
}
