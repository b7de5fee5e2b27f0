package dto

// TimeReportParams defines query parameters for GET /reports/time.
type TimeReportParams struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate" binding:"required"`
	UserID    string `form:"userId"`
	Status    string `form:"status" binding:"omitempty,oneof=unsubmitted submitted approved rejected"`
}
