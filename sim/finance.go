package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// TransactionKind classifies a financial state change.
type TransactionKind string

const (
	TxDebtInterest TransactionKind = "debt_interest"
	TxCashInterest TransactionKind = "cash_interest"
	TxLoan         TransactionKind = "loan"
	TxSalaryLoan   TransactionKind = "salary_loan"
	TxDebtPayment  TransactionKind = "debt_payment"
	TxPayment      TransactionKind = "payment"
	TxRevenue      TransactionKind = "revenue"
)

// Transaction records one financial operation against the state.
type Transaction struct {
	Day         int
	Kind        TransactionKind
	Amount      float64 // gross amount of the operation
	Commission  float64 // loan commission, if any
	Description string
	Succeeded   bool
}

// record appends the transaction to the state ledger and returns it.
func (s *SimulationState) record(tx Transaction) Transaction {
	s.Transactions = append(s.Transactions, tx)
	return tx
}

// ApplyDebtInterest accrues daily interest on outstanding debt. The interest
// amount is added to debt and simultaneously drawn from cash. No-op when
// there is no debt.
func (s *SimulationState) ApplyDebtInterest() Transaction {
	if s.Debt <= 0 {
		return Transaction{Day: s.CurrentDay, Kind: TxDebtInterest}
	}
	interest := s.Debt * DailyDebtRate
	s.Debt += interest
	s.Cash -= interest
	return s.record(Transaction{
		Day:         s.CurrentDay,
		Kind:        TxDebtInterest,
		Amount:      interest,
		Description: "daily debt interest",
		Succeeded:   true,
	})
}

// ApplyCashInterest accrues daily interest on a positive cash balance.
func (s *SimulationState) ApplyCashInterest() Transaction {
	if s.Cash <= 0 {
		return Transaction{Day: s.CurrentDay, Kind: TxCashInterest}
	}
	interest := s.Cash * DailyCashRate
	s.Cash += interest
	return s.record(Transaction{
		Day:         s.CurrentDay,
		Kind:        TxCashInterest,
		Amount:      interest,
		Description: "daily cash interest",
		Succeeded:   true,
	})
}

// TakeLoan adds a loan to the books. The full amount becomes debt; the cash
// proceeds are the amount minus commission (2% regular, 5% salary loan).
func (s *SimulationState) TakeLoan(amount float64, salaryLoan bool) Transaction {
	kind := TxLoan
	rate := LoanCommissionRate
	if salaryLoan {
		kind = TxSalaryLoan
		rate = SalaryLoanCommissionRate
	}
	if amount <= 0 {
		return Transaction{Day: s.CurrentDay, Kind: kind}
	}
	commission := amount * rate
	s.Cash += amount - commission
	s.Debt += amount
	logrus.Debugf("[day %03d] loan taken: amount=%.2f commission=%.2f salary=%v", s.CurrentDay, amount, commission, salaryLoan)
	return s.record(Transaction{
		Day:         s.CurrentDay,
		Kind:        kind,
		Amount:      amount,
		Commission:  commission,
		Description: "loan",
		Succeeded:   true,
	})
}

// PayDebt repays up to the requested amount, limited by both the outstanding
// debt and the available cash. Returns an unsuccessful transaction with no
// state change when nothing can be paid.
func (s *SimulationState) PayDebt(amount float64) Transaction {
	actual := math.Min(amount, math.Min(s.Debt, s.Cash))
	if actual <= 0 {
		return Transaction{Day: s.CurrentDay, Kind: TxDebtPayment, Description: "debt payment"}
	}
	s.Cash -= actual
	s.Debt -= actual
	return s.record(Transaction{
		Day:         s.CurrentDay,
		Kind:        TxDebtPayment,
		Amount:      actual,
		Description: "debt payment",
		Succeeded:   true,
	})
}

// ProcessPayment pays an obligation that cannot be refused (salaries, a
// committed purchase). If cash falls short, a salary loan is issued
// automatically, grossed up so its net proceeds cover the shortfall exactly.
// The payment therefore always succeeds; the cost of a shortfall is the
// recorded debt and commission, not a failure.
func (s *SimulationState) ProcessPayment(amount float64, description string) Transaction {
	if amount <= 0 {
		return Transaction{Day: s.CurrentDay, Kind: TxPayment, Description: description}
	}
	if s.Cash < amount {
		shortfall := amount - s.Cash
		s.TakeLoan(shortfall/(1-SalaryLoanCommissionRate), true)
	}
	s.Cash -= amount
	return s.record(Transaction{
		Day:         s.CurrentDay,
		Kind:        TxPayment,
		Amount:      amount,
		Description: description,
		Succeeded:   true,
	})
}

// receiveRevenue credits product revenue to cash.
func (s *SimulationState) receiveRevenue(amount float64, description string) {
	if amount <= 0 {
		return
	}
	s.Cash += amount
	s.record(Transaction{
		Day:         s.CurrentDay,
		Kind:        TxRevenue,
		Amount:      amount,
		Description: description,
		Succeeded:   true,
	})
}

// FinancialHealth is a derived snapshot of the balance sheet.
type FinancialHealth struct {
	NetWorth    float64
	DebtToAsset float64 // +Inf when cash is non-positive
	Solvent     bool
}

// GetFinancialHealth derives the current financial health snapshot.
func (s *SimulationState) GetFinancialHealth() FinancialHealth {
	ratio := math.Inf(1)
	if s.Cash > 0 {
		ratio = s.Debt / s.Cash
	}
	nw := s.NetWorth()
	return FinancialHealth{
		NetWorth:    nw,
		DebtToAsset: ratio,
		Solvent:     nw > 0,
	}
}
