package shift

// Principal is the capability view of the caller handed to the scheduling
// engine. The engine branches on capabilities, never on a role enum.
type Principal struct {
	// EmployeeID is the employee the principal acts as by default.
	EmployeeID string
	// CanOverrideApproval marks principals whose writes bypass the
	// PENDING review loop (the admin impersonation/override mode).
	CanOverrideApproval bool
	// EmployeeScope restricts which employees the principal may act for.
	// Empty means unrestricted when CanOverrideApproval is held.
	EmployeeScope []string
}

// CanActFor reports whether the principal may mutate registrations owned
// by employeeID.
func (p Principal) CanActFor(employeeID string) bool {
	if employeeID == p.EmployeeID {
		return true
	}
	if !p.CanOverrideApproval {
		return false
	}
	if len(p.EmployeeScope) == 0 {
		return true
	}
	for _, id := range p.EmployeeScope {
		if id == employeeID {
			return true
		}
	}
	return false
}
