package auth

import "github.com/frahmantamala/shift-scheduler/internal"

// Capability names a privileged action.
type Capability string

const (
	CapApproveShifts Capability = "shifts:approve"
	CapRejectShifts  Capability = "shifts:reject"
	CapViewAllShifts Capability = "shifts:view_all"
	CapDeleteShifts  Capability = "shifts:delete_any"
	CapAutoApprove   Capability = "shifts:auto_approve"
	CapManageUsers   Capability = "users:manage"
)

// Policy is the single place where role conditioned behaviour is decided.
type Policy interface {
	Can(p Principal, c Capability) bool
	CanApproveShifts(p Principal) bool
	CanRejectShifts(p Principal) bool
	CanViewAllShifts(p Principal) bool
	CanManageUsers(p Principal) bool
	CanDeleteShift(p Principal, owner string) bool
	AutoApproves(p Principal) bool
	AuthorizeUserDeletion(actor Principal, target Account) error
}

type DefaultPolicy struct {
	grants map[Role]map[Capability]bool
}

func NewPolicy() *DefaultPolicy {
	return &DefaultPolicy{
		grants: map[Role]map[Capability]bool{
			RoleManager: {
				CapApproveShifts: true,
				CapRejectShifts:  true,
				CapViewAllShifts: true,
				CapDeleteShifts:  true,
				CapAutoApprove:   true,
				CapManageUsers:   true,
			},
			RoleStaff: {},
		},
	}
}

func (p *DefaultPolicy) Can(principal Principal, c Capability) bool {
	return p.grants[principal.Role][c]
}

func (p *DefaultPolicy) CanApproveShifts(principal Principal) bool {
	return p.Can(principal, CapApproveShifts)
}

func (p *DefaultPolicy) CanRejectShifts(principal Principal) bool {
	return p.Can(principal, CapRejectShifts)
}

func (p *DefaultPolicy) CanViewAllShifts(principal Principal) bool {
	return p.Can(principal, CapViewAllShifts)
}

func (p *DefaultPolicy) CanManageUsers(principal Principal) bool {
	return p.Can(principal, CapManageUsers)
}

// CanDeleteShift allows the owner, or anyone holding the delete-any grant.
func (p *DefaultPolicy) CanDeleteShift(principal Principal, owner string) bool {
	return principal.Username == owner || p.Can(principal, CapDeleteShifts)
}

func (p *DefaultPolicy) AutoApproves(principal Principal) bool {
	return p.Can(principal, CapAutoApprove)
}

func (p *DefaultPolicy) AuthorizeUserDeletion(actor Principal, target Account) error {
	if !p.CanManageUsers(actor) {
		return internal.ErrForbidden
	}
	if target.Username == ProtectedUsername {
		return internal.ErrProtectedUser
	}
	if target.ID == actor.ID {
		return internal.ErrCannotDeleteSelf
	}
	return nil
}
