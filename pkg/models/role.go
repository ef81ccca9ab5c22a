package models

// Role is the capacity in which a person worked on a movie.
type Role string

const (
	RoleActor    Role = "Actor"
	RoleDirector Role = "Director"
	RoleProducer Role = "Producer"
)

func AllRoles() []Role {
	return []Role{RoleActor, RoleDirector, RoleProducer}
}

func (r Role) Valid() bool {
	switch r {
	case RoleActor, RoleDirector, RoleProducer:
		return true
	}
	return false
}
