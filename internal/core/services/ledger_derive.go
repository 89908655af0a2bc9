package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Legacy free-text patterns for equity issuances whose only source of truth is
// the verification description, e.g. "Nyemission 500 aktier till Anna Svensson".
var (
	shareCountPattern = regexp.MustCompile(`(\d+)\s*aktier`)
	recipientPattern  = regexp.MustCompile(`till\s+(.+?)\s*$`)
)

// FilterRowsByAccount returns all rows on the given account code, preserving
// ledger order and the context of the parent entry. The ledger is never
// mutated; results are copies.
func FilterRowsByAccount(entries []domain.Verification, accountCode string) []domain.AccountRowView {
	var views []domain.AccountRowView
	for _, entry := range entries {
		for _, row := range entry.Rows {
			if row.AccountCode != accountCode {
				continue
			}
			views = append(views, domain.AccountRowView{
				VerificationID:   entry.VerificationID,
				Date:             entry.Date,
				EntryDescription: entry.Description,
				AccountCode:      row.AccountCode,
				RowDescription:   row.Description,
				Debit:            row.Debit,
				Credit:           row.Credit,
			})
		}
	}
	return views
}

// DeriveEmployeeBalances accumulates, per employee, credit-debit on the
// employee debt account (money the company owes for reimbursable expenses)
// and debits on the mileage account.
//
// Rows carrying an explicit EmployeeID are matched authoritatively. Rows
// without one fall back to substring matching of the employee name against
// the entry and row descriptions; this legacy mode is non-authoritative and
// collides when one name contains another.
func DeriveEmployeeBalances(entries []domain.Verification, employees []domain.Employee) []domain.EmployeeBalance {
	balances := make([]domain.EmployeeBalance, len(employees))
	for i, emp := range employees {
		balances[i] = domain.EmployeeBalance{
			EmployeeID:   emp.EmployeeID,
			Name:         emp.Name,
			Balance:      decimal.Zero,
			MileageTotal: decimal.Zero,
		}
	}

	for _, entry := range entries {
		entryDesc := strings.ToLower(entry.Description)
		for _, row := range entry.Rows {
			if row.AccountCode != AccountEmployeeDebt && row.AccountCode != AccountMileage {
				continue
			}
			rowDesc := strings.ToLower(row.Description)
			for i, emp := range employees {
				if !rowMatchesEmployee(row, emp, entryDesc, rowDesc) {
					continue
				}
				switch row.AccountCode {
				case AccountEmployeeDebt:
					balances[i].Balance = balances[i].Balance.Add(row.Credit.Sub(row.Debit))
				case AccountMileage:
					balances[i].MileageTotal = balances[i].MileageTotal.Add(row.Debit)
				}
			}
		}
	}
	return balances
}

func rowMatchesEmployee(row domain.VerificationRow, emp domain.Employee, entryDesc, rowDesc string) bool {
	if row.EmployeeID != "" {
		return row.EmployeeID == emp.EmployeeID
	}
	name := strings.ToLower(emp.Name)
	if name == "" {
		return false
	}
	return strings.Contains(entryDesc, name) || strings.Contains(rowDesc, name)
}

// DeriveShareTransactions reconstructs equity issuances from the ledger.
// Entries carrying typed EquityIssueMetadata are used as-is; entries tagged as
// equity issues or mentioning "nyemission" are otherwise parsed from the
// description text, defaulting to 0/"Okänd" when the patterns don't match.
func DeriveShareTransactions(entries []domain.Verification) []domain.ShareTransaction {
	var transactions []domain.ShareTransaction
	for _, entry := range entries {
		isEquity := entry.SourceType == domain.SourceEquityIssue ||
			strings.Contains(strings.ToLower(entry.Description), "nyemission")
		if !isEquity {
			continue
		}

		txn := domain.ShareTransaction{
			VerificationID: entry.VerificationID,
			Date:           entry.Date,
			RecipientName:  "Okänd",
		}

		if entry.EquityIssue != nil {
			txn.ShareCount = entry.EquityIssue.ShareCount
			txn.TotalAmount = entry.EquityIssue.TotalAmount
			if entry.EquityIssue.RecipientName != "" {
				txn.RecipientName = entry.EquityIssue.RecipientName
			}
		} else {
			if m := shareCountPattern.FindStringSubmatch(entry.Description); m != nil {
				if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
					txn.ShareCount = n
				}
			}
			if m := recipientPattern.FindStringSubmatch(entry.Description); m != nil {
				txn.RecipientName = m[1]
			}
			// The paid-in amount is the bank-side debit.
			for _, row := range entry.Rows {
				if row.AccountCode == AccountBank && row.Debit.IsPositive() {
					txn.TotalAmount = txn.TotalAmount.Add(row.Debit)
				}
			}
		}

		if txn.ShareCount > 0 {
			txn.PricePerShare = txn.TotalAmount.Div(decimal.NewFromInt(txn.ShareCount))
		} else {
			txn.PricePerShare = decimal.Zero
		}
		transactions = append(transactions, txn)
	}
	return transactions
}
