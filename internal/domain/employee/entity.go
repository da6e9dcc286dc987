package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractType string

const (
	ContractOfficial ContractType = "OFFICIAL"
	ContractTrainee  ContractType = "TRAINEE"
)

type Employee struct {
	ID            string
	FullName      string
	ContractType  ContractType
	GrossSalary   decimal.Decimal
	TraineeSalary decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PayBase returns the monthly base pay applicable to the contract:
// the trainee salary for trainees, the gross salary otherwise.
func (e Employee) PayBase() decimal.Decimal {
	if e.ContractType == ContractTrainee {
		return e.TraineeSalary
	}
	return e.GrossSalary
}
