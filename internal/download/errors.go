package download

import "fmt"

// Operations reported in TransferError.Op
const (
	OpPrepare = "prepare"
	OpFetch   = "fetch"
	OpRename  = "rename"
)

// TransferError is a failure while fetching one encoding
type TransferError struct {
	Op         string
	EncodingID string
	Err        error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s %s: %v", e.Op, e.EncodingID, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
