package program

import (
	"fmt"

	"github.com/trezcool/equilibrar/core"
)

// Aggregate folds a client's answers into the four subscale totals.
// It iterates every questionnaire item: unanswered items contribute 0,
// answers to unknown item IDs are ignored. It never fails.
func Aggregate(answers map[int]int, items []QuestionnaireItem, table SubscaleTable) Scores {
	var s Scores
	for _, item := range items {
		val := answers[item.ID]
		switch table.SubscaleFor(item.Category) {
		case SubscaleSelfJudgment:
			s.SelfJudgment += val
		case SubscaleMaladaptiveGuilt:
			s.MaladaptiveGuilt += val
		case SubscaleConsciousResponsibility:
			s.ConsciousResponsibility += val
		case SubscaleErrorHumanization:
			s.ErrorHumanization += val
		}
	}
	return s
}

// Validate checks each subscale total against its fixed clinical range.
// A total outside its range means the wrong questionnaire was scored against
// this program's scale; it must be rejected before persistence.
func (s Scores) Validate() error {
	vals := []int{s.SelfJudgment, s.MaladaptiveGuilt, s.ConsciousResponsibility, s.ErrorHumanization}

	var flds []core.FieldError
	for i, b := range scoreBounds {
		if vals[i] < b.min || vals[i] > b.max {
			flds = append(flds, core.FieldError{
				Field: b.name,
				Error: fmt.Sprintf("must be between %d and %d (got %d)", b.min, b.max, vals[i]),
			})
		}
	}
	if flds != nil {
		return core.NewValidationError(ErrScaleMismatch, flds...)
	}
	return nil
}
