package leavetype

type LeaveTypeResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Code             string `json:"code"`
	Description      string `json:"description,omitempty"`
	DefaultBalance   string `json:"default_balance"`
	MonthlyAccrual   string `json:"monthly_accrual"`
	MaxCarryForward  string `json:"max_carry_forward"`
	RequiresDocument bool   `json:"requires_document"`
	RequiresApproval bool   `json:"requires_approval"`
}

func mapToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:               t.ID.String(),
		Name:             t.Name,
		Code:             t.Code,
		Description:      t.Description,
		DefaultBalance:   t.DefaultBalance.StringFixed(2),
		MonthlyAccrual:   t.MonthlyAccrual.StringFixed(2),
		MaxCarryForward:  t.MaxCarryForward.StringFixed(2),
		RequiresDocument: t.RequiresDocument,
		RequiresApproval: t.RequiresApproval,
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		resp[i] = mapToResponse(t)
	}
	return resp
}
