package models

import "time"

// ===== USER REQUESTS =====

type UserCreateRequest struct {
	FullName string   `json:"fullName" validate:"required,min=1,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Phone    string   `json:"phone" validate:"omitempty,max=20"`
	Address  string   `json:"address" validate:"omitempty,max=255"`
	Role     UserRole `json:"role" validate:"required,oneof=student admin"`
}

type UserUpdateRequest struct {
	FullName *string   `json:"fullName,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address  *string   `json:"address,omitempty" validate:"omitempty,max=255"`
	Role     *UserRole `json:"role,omitempty" validate:"omitempty,oneof=student admin"`
}

type UserStatusRequest struct {
	IsActive bool `json:"isActive"`
}

type UserRoleRequest struct {
	Role UserRole `json:"role" validate:"required,oneof=student admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== PAGINATION =====

// Pagination is the metadata block every list endpoint of the backend returns
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// TotalPages returns ceil(total/limit). Pages is used only when no limit came back.
func (p Pagination) TotalPages() int {
	if p.Limit <= 0 {
		return p.Pages
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// Page is a generic list response as the console hands it out
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ===== DASHBOARD =====

type DashboardOverview struct {
	TotalUsers         int              `json:"totalUsers"`
	TotalConversations int              `json:"totalConversations"`
	TotalTests         int              `json:"totalTests"`
	TotalMajors        int              `json:"totalMajors"`
	RecentActivities   []*AdminActivity `json:"recentActivities"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}
