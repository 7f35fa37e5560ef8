package app

// Privilege is the effective privilege an application needs.
type Privilege int

const (
	// User runs with whatever privilege the process has.
	User Privilege = iota
	// Root requires an effective UID of 0.
	Root
)

func (p Privilege) String() string {
	switch p {
	case User:
		return "user"
	case Root:
		return "root"
	default:
		return "unknown"
	}
}

// geteuid is swapped in tests.
var geteuid = effectiveUID

// CheckPrivilege returns ErrInsufficientPrivilege when required is Root and
// the process is not running as root.
func CheckPrivilege(required Privilege) error {
	if required != Root {
		return nil
	}
	if geteuid() != 0 {
		return ErrInsufficientPrivilege
	}
	return nil
}
