package holding

type AssignCertificationRequest struct {
	UserID          string `json:"user_id" binding:"required,uuid"`
	CertificationID string `json:"certification_id" binding:"required,uuid"`
	IssueDate       string `json:"issue_date" binding:"required,datetime=2006-01-02"`
	ExpiryDate      string `json:"expiry_date" binding:"required,datetime=2006-01-02"`
}

type InitiateRenewalRequest struct {
	RenewalDate string `json:"renewal_date" binding:"required,datetime=2006-01-02"`
}

type ConfirmRenewalRequest struct {
	IssueDate  string `json:"issue_date" binding:"required,datetime=2006-01-02"`
	ExpiryDate string `json:"expiry_date" binding:"required,datetime=2006-01-02"`
}

type HoldingResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	UserName          string  `json:"user_name,omitempty"`
	UserEmail         string  `json:"user_email,omitempty"`
	CertificationID   string  `json:"certification_id"`
	CertificationName string  `json:"certification_name,omitempty"`
	IssueDate         string  `json:"issue_date"`
	ExpiryDate        string  `json:"expiry_date"`
	Status            string  `json:"status"`
	RenewalDate       *string `json:"renewal_date,omitempty"`
}

type StatsResponse struct {
	Users             int64 `json:"users"`
	Certifications    int64 `json:"certifications"`
	ExpiringSoon      int64 `json:"expiring_soon"`
	Expired           int64 `json:"expired"`
	RenewalsRequested int64 `json:"renewals_requested"`
	RenewalsInitiated int64 `json:"renewals_initiated"`
}
