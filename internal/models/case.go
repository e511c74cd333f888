package models

// CaseStatus indicates the state of a legal case.
type CaseStatus string

const (
	CaseOpen   CaseStatus = "OPEN"
	CaseClosed CaseStatus = "CLOSED"
)

// Case represents a legal matter row.
type Case struct {
	CaseID   string     `db:"case_id"`
	ClientID string     `db:"client_id"`
	Number   string     `db:"number"`
	Title    string     `db:"title"`
	Status   CaseStatus `db:"status"`
	AuditFields
}
