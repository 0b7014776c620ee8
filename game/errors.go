package game

import (
	"fmt"

	"github.com/pkg/errors"
)

type moveError PlayerMove

func (err moveError) Error() string {
	return fmt.Sprintf("Unable to make %v", PlayerMove(err))
}

// IsMoveError returns true if the error was caused by an illegal action.
func IsMoveError(err error) bool {
	_, ok := errors.Cause(err).(moveError)
	return ok
}
