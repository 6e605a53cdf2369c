package balance

type BalanceResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	LeaveTypeID     string  `json:"leave_type_id"`
	TotalDays       string  `json:"total_days"`
	UsedDays        string  `json:"used_days"`
	RemainingDays   string  `json:"remaining_days"`
	CarriedOverDays string  `json:"carried_over_days"`
	LastAccrualDate *string `json:"last_accrual_date,omitempty"`
	ExpiryDate      *string `json:"expiry_date,omitempty"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID.String(),
		LeaveTypeID:     b.LeaveTypeID.String(),
		TotalDays:       b.TotalDays.StringFixed(2),
		UsedDays:        b.UsedDays.StringFixed(2),
		RemainingDays:   b.RemainingDays.StringFixed(2),
		CarriedOverDays: b.CarriedOverDays.StringFixed(2),
	}
	if b.LastAccrualDate != nil {
		v := b.LastAccrualDate.Format("2006-01-02")
		resp.LastAccrualDate = &v
	}
	if b.ExpiryDate != nil {
		v := b.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &v
	}
	return resp
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
