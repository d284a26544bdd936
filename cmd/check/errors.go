package check

import "errors"

var errUnbalanced = errors.New("matched amounts do not balance")
