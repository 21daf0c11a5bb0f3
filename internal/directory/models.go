// Package directory holds the organizational records the back office
// manages: departments, municipalities and the employees assigned to them.
package directory

import "time"

type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Municipality struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EmployeeStatus tracks an employee record through the issue workflow:
// records enter as PENDING requests and are activated or retired by an
// administrator.
type EmployeeStatus string

const (
	StatusPending  EmployeeStatus = "PENDING"
	StatusActive   EmployeeStatus = "ACTIVE"
	StatusInactive EmployeeStatus = "INACTIVE"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive:
		return true
	}
	return false
}

type Employee struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	DepartmentID   int64          `json:"departmentId"`
	MunicipalityID int64          `json:"municipalityId"`
	Status         EmployeeStatus `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type EmployeeInput struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	DepartmentID   int64           `json:"departmentId"`
	MunicipalityID int64           `json:"municipalityId"`
	Status         *EmployeeStatus `json:"status"`
}
