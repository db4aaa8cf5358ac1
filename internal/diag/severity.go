package diag

// Severity classifies how serious a diagnostic is. The declaration order
// matters: severities compare numerically, with errors above warnings.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	// SevError marks the session as failed once delivered.
	SevError
)

// String returns the uppercase render label.
func (s Severity) String() string {
	switch s {
	case SevError:
		return "ERROR"
	case SevWarning:
		return "WARNING"
	case SevInfo:
		return "INFO"
	}
	return "UNKNOWN"
}
