package dto

import (
	"time"

	"github.com/mtc-jordan/tazweed-wps/internal/core/domain"
)

// CreateBatchRequest creates a new draft WPS batch.
type CreateBatchRequest struct {
	EmployerID      string    `json:"employerID" binding:"required"`
	EmployerRouting string    `json:"employerRouting" binding:"required"`
	EmployerAccount string    `json:"employerAccount" binding:"required"`
	Month           int       `json:"month" binding:"required,min=1,max=12"`
	Year            int       `json:"year" binding:"required,min=2000,max=2100"`
	SalaryDate      time.Time `json:"salaryDate" binding:"required"`
	FileType        string    `json:"fileType,omitempty"` // defaults to SIF
	Notes           string    `json:"notes,omitempty"`
}

// AssembleLinesRequest scopes which employees enter the batch.
type AssembleLinesRequest struct {
	Scope domain.EmployerScope `json:"scope" binding:"required"`
}

// ListBatchesParams paginates batch listings.
type ListBatchesParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// BatchSummaryResponse is a batch with derived totals but without lines.
type BatchSummaryResponse struct {
	Batch  domain.WpsBatch    `json:"batch"`
	Totals domain.BatchTotals `json:"totals"`
}
