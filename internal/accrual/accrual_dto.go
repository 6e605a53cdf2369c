package accrual

type AccrualEntryResponse struct {
	ID          string `json:"id"`
	LeaveTypeID string `json:"leave_type_id"`
	DaysAccrued string `json:"days_accrued"`
	AccrualDate string `json:"accrual_date"`
	ExpiryDate  string `json:"expiry_date"`
	Status      string `json:"status"`
}

func mapToResponse(e AccrualEntry) AccrualEntryResponse {
	return AccrualEntryResponse{
		ID:          e.ID.String(),
		LeaveTypeID: e.LeaveTypeID.String(),
		DaysAccrued: e.DaysAccrued.StringFixed(2),
		AccrualDate: e.AccrualDate.Format("2006-01-02"),
		ExpiryDate:  e.ExpiryDate.Format("2006-01-02"),
		Status:      e.Status,
	}
}

func mapToListResponse(entries []AccrualEntry) []AccrualEntryResponse {
	resp := make([]AccrualEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, mapToResponse(e))
	}
	return resp
}
