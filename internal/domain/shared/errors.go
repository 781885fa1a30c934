package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	// ErrNoTeamSelected is returned by workspace mutations that require an
	// active team before one has been selected.
	ErrNoTeamSelected = NewDomainError("NO_TEAM_SELECTED", "Select a team before performing this action")
	// ErrNoScope is returned when a project is created with neither a team
	// scope nor an explicit private flag.
	ErrNoScope = NewDomainError("NO_SCOPE", "Select a team or mark the project as private")
	// ErrMissingID indicates an update was requested without an identity.
	// This is a programmer error, not a user-facing condition.
	ErrMissingID = NewDomainError("MISSING_ID", "Update requires an id")
	// ErrProjectNotFound is returned when an issue is assigned to a project
	// that is not present in the current team's bucket.
	ErrProjectNotFound = NewDomainError("PROJECT_NOT_FOUND", "Project not found")

	ErrRemoteFetch    = NewDomainError("REMOTE_FETCH_FAILED", "Could not load data from the backend")
	ErrRemoteWrite    = NewDomainError("REMOTE_WRITE_FAILED", "Could not write data to the backend")
	ErrRemoteNotFound = NewDomainError("REMOTE_NOT_FOUND", "Document not found on the backend")

	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrForbidden    = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
