package relate

import "errors"

// ErrInvalidArgument is wrapped with a rule-identifying message by every
// validation failure in CreateRelationship.
var ErrInvalidArgument = errors.New("relate: invalid argument")
