package notification

// EventType names an outbound notification.
type EventType string

const (
	TypeExceptionRequestCreated EventType = "exception_request.created"
	TypeRequestResolved         EventType = "exception_request.resolved"
	TypeCredentialsIssued       EventType = "employee.credentials_issued"
	TypeLeaveResolved           EventType = "leave_request.resolved"
)

type Event interface {
	Type() EventType
}

// ExceptionRequestCreated is sent to the admin when an employee asks for an override.
type ExceptionRequestCreated struct {
	RequestID    string  `json:"request_id"`
	AdminEmail   string  `json:"admin_email"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	RequestType  string  `json:"request_type"`
	Reason       string  `json:"reason"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

func (ExceptionRequestCreated) Type() EventType { return TypeExceptionRequestCreated }

// RequestResolved tells the employee how the admin disposed of their request.
type RequestResolved struct {
	RequestID        string `json:"request_id"`
	EmployeeOrgEmail string `json:"employee_email"`
	EmployeeName     string `json:"employee_name"`
	ResolverEmail    string `json:"resolver_email"`
	Status           string `json:"status"`
	RequestType      string `json:"request_type"`
	Date             string `json:"date"`
}

func (RequestResolved) Type() EventType { return TypeRequestResolved }

// CredentialsIssued carries the temporary password and is delivered
// to the personal address only. Sinks that persist or forward events must
// not include TemporaryPassword.
type CredentialsIssued struct {
	PersonalEmail     string `json:"personal_email"`
	EmployeeName      string `json:"employee_name"`
	EmployeeID        string `json:"employee_id"`
	LoginEmail        string `json:"login_email"`
	TemporaryPassword string `json:"-"`
}

func (CredentialsIssued) Type() EventType { return TypeCredentialsIssued }

type LeaveResolved struct {
	LeaveID          string `json:"leave_id"`
	EmployeeOrgEmail string `json:"employee_email"`
	EmployeeName     string `json:"employee_name"`
	ResolverEmail    string `json:"resolver_email"`
	Status           string `json:"status"`
	Category         string `json:"category"`
	FromDate         string `json:"from_date"`
	ToDate           string `json:"to_date"`
}

func (LeaveResolved) Type() EventType { return TypeLeaveResolved }
