package domain

// Student is a read-only projection from the student directory, which is an
// external collaborator of the fee subsystem.
type Student struct {
	StudentID     string               `json:"student_id"`
	Name          string               `json:"name"`
	FatherName    string               `json:"father_name"`
	GuardianEmail string               `json:"guardian_email"`
	ClassName     string               `json:"class_name"`
	Section       string               `json:"section"`
	SessionID     int32                `json:"session_id"`
	Status        string               `json:"status"` // "active" | "inactive"
	Transport     *TransportAssignment `json:"transport,omitempty"`
}

// TransportAssignment links a student to a transport route. Only active
// assignments with a route carry a transport charge onto bills.
type TransportAssignment struct {
	RouteID         int32  `json:"route_id"`
	RouteName       string `json:"route_name"`
	MonthlyFeePaise int64  `json:"monthly_fee_paise"`
	Status          string `json:"status"` // "active" | "inactive"
}

// AcademicSession is a school year (e.g. "2024-25").
type AcademicSession struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
