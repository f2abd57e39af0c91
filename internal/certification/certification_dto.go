package certification

type CreateCertificationRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	PortalMasterIDs []string `json:"portal_master_ids" binding:"omitempty,dive,uuid"`
}

type UpdateCertificationRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	PortalMasterIDs []string `json:"portal_master_ids" binding:"omitempty,dive,uuid"`
}

type PortalMasterResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CertificationResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	PortalMasters []PortalMasterResponse `json:"portal_masters,omitempty"`
}
