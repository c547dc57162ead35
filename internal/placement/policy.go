package placement

import "fmt"

// Policy selects an EDU positioning algorithm.
type Policy int

const (
	Unknown Policy = iota
	PolicyUnbalanced
	PolicyBalanced
	PolicyRestricted
	PolicyRestrictedPlus
	PolicyRandom
)

func (p Policy) String() string {
	switch p {
	case PolicyUnbalanced:
		return "unbalanced"
	case PolicyBalanced:
		return "balanced"
	case PolicyRestricted:
		return "restricted"
	case PolicyRestrictedPlus:
		return "restricted+"
	case PolicyRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name ("unbalanced", "balanced", ...) to a
// Policy. A job descriptor's edu_alg value is not a policy name and is
// translated by the CLI before it reaches ParsePolicy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "unbalanced":
		return PolicyUnbalanced, nil
	case "balanced":
		return PolicyBalanced, nil
	case "restricted":
		return PolicyRestricted, nil
	case "restricted+":
		return PolicyRestrictedPlus, nil
	case "random":
		return PolicyRandom, nil
	default:
		return Unknown, fmt.Errorf("placement: unknown edu_alg %q", s)
	}
}
