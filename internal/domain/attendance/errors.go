package attendance

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Punch capture errors
	ErrAlreadyPunchedIn     = errors.New("you have already punched in today")
	ErrAlreadyPunchedOut    = errors.New("you have already punched out today")
	ErrNotPunchedIn         = errors.New("you have not punched in yet")
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed office radius")

	// General errors
	ErrPunchRecordNotFound = errors.New("punch record not found")
)

// DataIntegrityError reports a malformed punch record, e.g. a punch-out
// earlier than its punch-in. Classification refuses such records instead of
// clamping them; clamping has historically hidden negative-duration data
// corruption. The error is fatal to the single record only and must never
// abort a batch run.
type DataIntegrityError struct {
	EmployeeID string
	Date       time.Time
	Reason     string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("punch record for employee %s on %s is inconsistent: %s",
		e.EmployeeID, e.Date.Format("2006-01-02"), e.Reason)
}
