package entity

import "time"

// DbAgent represents a sales agent attached to a branch. AgentNumber is the
// agency-wide identifier printed on bookings.
type DbAgent struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email       string    `gorm:"column:email;type:varchar(255)" json:"email"`
	AgentNumber string    `gorm:"column:agent_number;type:varchar(50);uniqueIndex;not null" json:"agent_number"`
	BranchID    uint      `gorm:"column:branch_id;index;not null" json:"branch_id"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName overrides default pluralised name.
func (DbAgent) TableName() string {
	return "agents"
}

type AgentQuery struct {
	BaseParams
	BranchID        uint   `json:"branch_id" form:"branch_id" query:"branch_id"`
	Keyword         string `json:"keyword" form:"keyword" query:"keyword"`
	IncludeInactive bool   `json:"include_inactive" form:"include_inactive" query:"include_inactive"`
}

type AgentCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	AgentNumber string `json:"agent_number" binding:"required"`
	BranchID    uint   `json:"branch_id" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

type AgentUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	BranchID *uint   `json:"branch_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type AgentListResponse struct {
	Agents []DbAgent `json:"agents"`
	Meta   *Meta     `json:"meta"`
}
