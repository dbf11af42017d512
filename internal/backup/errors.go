package backup

import "errors"

var (
	// ErrSourceNotFound indicates the source path does not exist or is not a regular file.
	ErrSourceNotFound = errors.New("source database not found")
	// ErrSourceInvalid indicates the source exists but cannot be read as a database.
	ErrSourceInvalid = errors.New("source database invalid")
	// ErrDestinationPathInvalid indicates the destination cannot be written.
	ErrDestinationPathInvalid = errors.New("destination path invalid")
	// ErrCopyFailed indicates the engine reported an error while copying.
	ErrCopyFailed = errors.New("copy failed")
	// ErrLogWriteFailed indicates the journal entry could not be appended.
	ErrLogWriteFailed = errors.New("log write failed")
)

// Kind names the class of err, for log lines and CLI output.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceNotFound):
		return "SourceNotFound"
	case errors.Is(err, ErrSourceInvalid):
		return "SourceInvalid"
	case errors.Is(err, ErrDestinationPathInvalid):
		return "DestinationPathInvalid"
	case errors.Is(err, ErrCopyFailed):
		return "CopyFailed"
	case errors.Is(err, ErrLogWriteFailed):
		return "LogWriteFailed"
	default:
		return "Error"
	}
}
