package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pable/go-cricket-puzzles/internal/model"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// puzzleValidator returns the shared validator. Registration happens once;
// afterwards validator.Validate is safe for concurrent use.
func puzzleValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterStructValidation(targetPerformed, model.Puzzle{})
	})
	return validate
}

// targetPerformed requires the target player to have a performance entry.
func targetPerformed(sl validator.StructLevel) {
	p := sl.Current().Interface().(model.Puzzle)
	if p.TargetPlayer == "" {
		return // reported by the required tag
	}
	if _, ok := p.MatchData.PlayerPerformances[p.TargetPlayer]; !ok {
		sl.ReportError(p.TargetPlayer, "TargetPlayer", "targetPlayer", "performer", "")
	}
}

// Check returns nil when p satisfies every puzzle rule. Otherwise the error
// wraps model.ErrValidationFailed and names each failing rule.
func Check(p *model.Puzzle) error {
	if p == nil {
		return fmt.Errorf("%w: nil puzzle", model.ErrValidationFailed)
	}
	err := puzzleValidator().Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", model.ErrValidationFailed, err)
	}
	rules := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		rules = append(rules, fmt.Sprintf("%s failed %s", fe.Namespace(), rule))
	}
	return fmt.Errorf("%w: %s", model.ErrValidationFailed, strings.Join(rules, "; "))
}

// Validate reports whether p is fit to publish. It never panics.
func Validate(p *model.Puzzle) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return Check(p) == nil
}
