package entity

import "time"

// Mold statuses as reported by the backend (compared case-insensitively).
const (
	MoldStatusOngoing   = "ongoing"
	MoldStatusCompleted = "completed"
	MoldStatusPending   = "pending"
	MoldStatusInactive  = "inactive"
)

// Mold categories.
const (
	CategoryNew      = "New"
	CategoryRenovate = "Renovate"
	CategoryModify   = "Modify"
	CategoryShapeup  = "Shapeup"
)

// User roles.
const (
	RoleManager          = "MANAGER"
	RoleMachineOperator1 = "MACHINE_OPERATOR_01"
	RoleMachineOperator2 = "MACHINE_OPERATOR_02"
)

// Mold is a mold record as served by GET /api/mold/shared.
type Mold struct {
	ID                 string     `json:"id"`
	MoldNo             string     `json:"moldNo"`
	Customer           string     `json:"customer"`
	Status             string     `json:"status"`
	Category           string     `json:"category"`
	CreatedDate        *time.Time `json:"createdDate"`
	TargetDeliveryDate *time.Time `json:"targetDeliveryDate"`
	CompletedDate      *time.Time `json:"completedDate"`
	Machine            string     `json:"machine"`
	PlateSize          string     `json:"plateSize"`
	PlateWeight        float64    `json:"plateWeight"`
	ShrinkageFactor    float64    `json:"shrinkageFactor"`
}

// Process is a production process record as served by GET /api/process/shared.
type Process struct {
	ID          string     `json:"id"`
	ProcessType string     `json:"processType"`
	MoldNo      string     `json:"moldNo"`
	Status      string     `json:"status"`
	Machine     string     `json:"machine"`
	Operator    string     `json:"operator"`
	StartedAt   *time.Time `json:"startedAt"`
	FinishedAt  *time.Time `json:"finishedAt"`
}

// User is an internal user record as served by GET /api/manager/users.
type User struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	EPFNo           string `json:"epfNo"`
	Status          string `json:"status"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// Customer is an external customer record as served by GET /api/customers.
type Customer struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Company       string `json:"company"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

// Tool is a cutting tool request record as served by GET /api/tool/shared.
type Tool struct {
	ID          string     `json:"id"`
	ToolNo      string     `json:"toolNo"`
	Amount      int        `json:"amount"`
	Status      string     `json:"status"`
	CrafterName string     `json:"crafterName"`
	CreatedAt   *time.Time `json:"createdAt"`
}

// DeliveryCounts is an on-time/delayed pair inside the analytics snapshot.
type DeliveryCounts struct {
	OnTime  int `json:"onTime"`
	Delayed int `json:"delayed"`
}

// DeliveryPerformance is the delivery section of the analytics snapshot.
// Breakdown maps may be absent when the backend has no data for the year.
type DeliveryPerformance struct {
	OnTime     int                       `json:"onTime"`
	Delayed    int                       `json:"delayed"`
	ByCategory map[string]DeliveryCounts `json:"byCategory"`
	ByMachine  map[string]DeliveryCounts `json:"byMachine"`
}

// AnalyticsSnapshot is the year-scoped payload of GET /api/mold/analytics/{year}.
type AnalyticsSnapshot struct {
	Year                int                  `json:"year"`
	TotalMolds          int                  `json:"totalMolds"`
	CategoryBreakdown   map[string]int       `json:"categoryBreakdown"`
	DeliveryPerformance *DeliveryPerformance `json:"deliveryPerformance"`
}
