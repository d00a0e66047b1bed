package deal

// Status is the lifecycle status of a deal
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusInvoiceRequested Status = "INVOICE_REQUESTED"
	StatusInvoiceUploaded  Status = "INVOICE_UPLOADED"
	StatusCompleted        Status = "COMPLETED"
	StatusCancelled        Status = "CANCELLED"
)

// IsTerminal returns true for statuses that forbid every further mutation
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}
