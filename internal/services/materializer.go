// Package services provides business logic and orchestration services.
//
// This file holds the pure due-pass that turns recurring rules into
// transactions. It reads nothing and writes nothing; RecurringProcessor
// persists its result.
package services

import (
	"github.com/google/uuid"

	"paytrack/internal/core"
	"paytrack/internal/recurrence"
)

// materializedNamespace seeds the deterministic ids of generated transactions.
var materializedNamespace = uuid.MustParse("6f1c0c52-3c0e-4c1e-9a55-2f2b8d0e7a41")

// PassResult is the outcome of one due pass for one user.
type PassResult struct {
	Skipped             bool
	Emitted             []core.Transaction
	UpdatedRules        []core.RecurringRule
	Failed              []RuleFailure
	NewLastAutoGenerate core.Date
}

// RuleFailure records a rule the pass could not advance.
type RuleFailure struct {
	RuleID string
	Err    error
}

// RunDuePass emits one transaction for every rule due on or before today and
// advances those rules by one cadence step. A rule that is several steps
// behind still emits only once; later passes catch it up.
//
// The pass is skipped when settings.LastAutoGenerate is already today.
// A rule that cannot be advanced is reported in Failed and does not stop
// the others.
func RunDuePass(userID string, today core.Date, rules []core.RecurringRule, settings core.Settings) (PassResult, error) {
	if !today.IsValid() {
		return PassResult{}, &core.CalendarError{Op: "due pass", Input: today.Date.String(), Err: core.ErrInvalidDate}
	}
	if settings.LastAutoGenerate == today {
		return PassResult{Skipped: true, NewLastAutoGenerate: today}, nil
	}

	res := PassResult{NewLastAutoGenerate: today}
	for _, rule := range rules {
		if !rule.IsDue(today) {
			continue
		}
		next, err := recurrence.Advance(rule.NextRun, rule.Cadence)
		if err != nil {
			res.Failed = append(res.Failed, RuleFailure{RuleID: rule.ID, Err: err})
			continue
		}

		res.Emitted = append(res.Emitted, core.Transaction{
			ID:       MaterializedID(userID, rule.ID, rule.NextRun),
			Date:     rule.NextRun,
			Amount:   rule.Amount,
			Category: rule.Category,
			Note:     rule.Name,
		})

		advanced := rule
		advanced.LastRun = rule.NextRun
		advanced.NextRun = next
		res.UpdatedRules = append(res.UpdatedRules, advanced)
	}
	return res, nil
}

// MaterializedID is the id of the transaction a rule emits for runDate.
// Re-running a pass for the same run date upserts the same document.
func MaterializedID(userID, ruleID string, runDate core.Date) string {
	return uuid.NewSHA1(materializedNamespace, []byte(userID+"/"+ruleID+"/"+runDate.String())).String()
}
