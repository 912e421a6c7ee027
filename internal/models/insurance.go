package models

import "time"

type PolicyType string
type PolicyStatus string
type ClaimStatus string

const PolicyStatusActive PolicyStatus = "ACTIVE"

const ClaimStatusPending ClaimStatus = "PENDING"
const ClaimStatusApproved ClaimStatus = "APPROVED"
const ClaimStatusRejected ClaimStatus = "REJECTED"

// ClaimStatuses lists the statuses an admin can pick when reviewing a claim.
var ClaimStatuses = []ClaimStatus{ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected}

func (c ClaimStatus) Valid() bool {
	for _, status := range ClaimStatuses {
		if c == status {
			return true
		}
	}
	return false
}

// Page is a single page of a paginated listing, as returned by the backend.
type Page[T any] struct {
	Content       []T   `json:"content"`
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

type Customer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Username string `json:"username,omitempty"`
	UserID   int64  `json:"userId,omitempty"`
}

type CustomerCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type CustomerUpdateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type Policy struct {
	ID             int64        `json:"id"`
	PolicyNumber   string       `json:"policyNumber"`
	PolicyType     PolicyType   `json:"policyType"`
	PremiumAmount  float64      `json:"premiumAmount"`
	CoverageAmount float64      `json:"coverageAmount,omitempty"`
	StartDate      string       `json:"startDate,omitempty"`
	EndDate        string       `json:"endDate,omitempty"`
	Status         PolicyStatus `json:"status"`
}

type PolicyRequest struct {
	PolicyNumber   string       `json:"policyNumber"`
	PolicyType     PolicyType   `json:"policyType"`
	PremiumAmount  float64      `json:"premiumAmount"`
	CoverageAmount float64      `json:"coverageAmount,omitempty"`
	StartDate      string       `json:"startDate,omitempty"`
	EndDate        string       `json:"endDate,omitempty"`
	Status         PolicyStatus `json:"status,omitempty"`
}

type AssignPolicyRequest struct {
	PolicyID int64 `json:"policyId"`
}

type Claim struct {
	ID           int64       `json:"id"`
	ClaimNumber  string      `json:"claimNumber,omitempty"`
	PolicyID     int64       `json:"policyId"`
	PolicyNumber string      `json:"policyNumber,omitempty"`
	CustomerName string      `json:"customerName,omitempty"`
	ClaimAmount  float64     `json:"claimAmount"`
	ClaimDate    string      `json:"claimDate,omitempty"`
	Description  string      `json:"description,omitempty"`
	EvidenceURL  string      `json:"evidenceUrl,omitempty"`
	Status       ClaimStatus `json:"status"`
	Remarks      string      `json:"remarks,omitempty"`
	CreatedAt    time.Time   `json:"createdAt,omitempty"`
}

type ClaimCreateRequest struct {
	PolicyID    int64   `json:"policyId"`
	ClaimAmount float64 `json:"claimAmount"`
	ClaimDate   string  `json:"claimDate"`
	Description string  `json:"description"`
	EvidenceURL string  `json:"evidenceUrl,omitempty"`
}

type ClaimStatusUpdateRequest struct {
	Status  ClaimStatus `json:"status"`
	Remarks string      `json:"remarks,omitempty"`
}

// ClaimFilter narrows the admin claim listing, zero values are not sent.
type ClaimFilter struct {
	Page   int
	Status ClaimStatus
	From   string
	To     string
}

type ActivityLog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Username   string    `json:"username,omitempty"`
	ActionType string    `json:"actionType"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MonthlyClaimData struct {
	Month  string  `json:"month"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type PolicyTypeDistribution struct {
	PolicyType PolicyType `json:"policyType"`
	Count      int64      `json:"count"`
}

type DashboardStats struct {
	TotalCustomers         int64                    `json:"totalCustomers"`
	TotalPolicies          int64                    `json:"totalPolicies"`
	TotalClaims            int64                    `json:"totalClaims"`
	PendingClaims          int64                    `json:"pendingClaims"`
	ApprovedClaims         int64                    `json:"approvedClaims"`
	RejectedClaims         int64                    `json:"rejectedClaims"`
	TotalCoverageAmount    float64                  `json:"totalCoverageAmount"`
	TotalClaimAmount       float64                  `json:"totalClaimAmount"`
	TotalApprovedAmount    float64                  `json:"totalApprovedAmount"`
	MonthlyClaimsData      []MonthlyClaimData       `json:"monthlyClaimsData"`
	PolicyTypeDistribution []PolicyTypeDistribution `json:"policyTypeDistribution"`
}
