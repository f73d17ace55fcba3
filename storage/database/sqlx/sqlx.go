package sqlxrepos

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// isUniqueViolation reports whether err is a postgres unique constraint error.
func isUniqueViolation(err error) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
