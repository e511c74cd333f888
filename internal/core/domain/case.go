package domain

// CaseStatus indicates the state of a legal case.
type CaseStatus string

const (
	CaseOpen   CaseStatus = "OPEN"
	CaseClosed CaseStatus = "CLOSED"
)

// Case represents a legal matter handled for a client.
type Case struct {
	CaseID   string     `json:"caseID"` // Primary Key (e.g., UUID)
	ClientID string     `json:"clientID"`
	Number   string     `json:"number"` // Docket / file number, unique per client
	Title    string     `json:"title"`
	Status   CaseStatus `json:"status"` // Default: Open
	AuditFields
}
