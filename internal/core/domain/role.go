package domain

// RoleRequirement is one group of roles that must all be held together.
// A slice of requirements is satisfied when any one group is.
type RoleRequirement struct {
	roles []string
}

func Single(role string) RoleRequirement {
	return RoleRequirement{roles: []string{role}}
}

func AllOf(roles ...string) RoleRequirement {
	return RoleRequirement{roles: roles}
}

func (r RoleRequirement) Roles() []string {
	return r.roles
}

func (r RoleRequirement) SatisfiedBy(held map[string]struct{}) bool {
	if len(r.roles) == 0 {
		return false
	}

	for _, role := range r.roles {
		if _, ok := held[role]; !ok {
			return false
		}
	}

	return true
}

// Satisfies reports whether the held roles fulfill at least one requirement.
// An empty requirement list is always satisfied.
func Satisfies(requirements []RoleRequirement, held []string) bool {
	if len(requirements) == 0 {
		return true
	}

	set := make(map[string]struct{}, len(held))
	for _, role := range held {
		set[role] = struct{}{}
	}

	for _, requirement := range requirements {
		if requirement.SatisfiedBy(set) {
			return true
		}
	}

	return false
}
