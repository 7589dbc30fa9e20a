package ammonia

import (
	"errors"
	"fmt"
)

const genericErrMsg = "ammonia: %w"

// ErrPolicyConflict is wrapped by every error [New] returns for an invalid
// policy.
var ErrPolicyConflict = errors.New("policy conflict")

// ConflictKind classifies a [PolicyConflictError].
type ConflictKind int

const (
	// ConflictCleanContent means a clean-content tag is allowed at the same
	// time.
	ConflictCleanContent ConflictKind = iota + 1

	// ConflictClassAuthority means the class attribute of a tag is controlled
	// by AllowedClasses and by an attribute allowlist.
	ConflictClassAuthority

	// ConflictRelAuthority means rel on <a> is injected by LinkRel and allowed
	// as an attribute too.
	ConflictRelAuthority

	// ConflictSyntax means a malformed name, scheme, class token or URL.
	ConflictSyntax
)

func (self ConflictKind) String() string {
	switch self {
	case ConflictCleanContent:
		return "clean content"
	case ConflictClassAuthority:
		return "class authority"
	case ConflictRelAuthority:
		return "rel authority"
	case ConflictSyntax:
		return "syntax"
	}
	return fmt.Sprintf("ConflictKind(%d)", int(self))
}

// PolicyConflictError describes one violation found in a policy.
type PolicyConflictError struct {
	Kind  ConflictKind
	Tag   string
	Attr  string
	Value string
	Msg   string
}

func (self *PolicyConflictError) Error() string {
	s := "ammonia: " + self.Kind.String()
	if self.Tag != "" {
		s += " <" + self.Tag + ">"
	}
	if self.Attr != "" {
		s += " " + self.Attr
	}
	if self.Value != "" {
		s += fmt.Sprintf(" %q", self.Value)
	}
	return s + ": " + self.Msg
}

func (self *PolicyConflictError) Unwrap() error { return ErrPolicyConflict }

// Conflicts returns all policy conflicts err carries.
func Conflicts(err error) []*PolicyConflictError {
	if err == nil {
		return nil
	}

	var conflicts []*PolicyConflictError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, err := range joined.Unwrap() {
			conflicts = append(conflicts, Conflicts(err)...)
		}
		return conflicts
	}

	var conflict *PolicyConflictError
	if errors.As(err, &conflict) {
		conflicts = append(conflicts, conflict)
	}
	return conflicts
}
