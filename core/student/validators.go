package student

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/finance"
	"github.com/ccschool/schooladmin/core/grading"
)

var (
	schoolClassTag  = "schoolclass"
	schoolClassText = "unknown class"

	discountTypeTag  = "discounttype"
	discountTypeText = fmt.Sprintf("discount type must be one of %v", finance.DiscountTypes)

	scoreFieldTag  = "scorefield"
	scoreFieldText = "score field must be one of classAssignments, project, midterm or endOfTerm"

	scoreMaxTag  = "scoremax"
	scoreMaxText = "score exceeds the maximum for this field"
)

// InitValidators registers the student validators; core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(schoolClassTag, schoolClassValidation)
	core.RegisterCustomTranslation(validate, translator, schoolClassTag, schoolClassText)

	_ = validate.RegisterValidation(discountTypeTag, discountTypeValidation)
	core.RegisterCustomTranslation(validate, translator, discountTypeTag, discountTypeText)

	_ = validate.RegisterValidation(scoreFieldTag, scoreFieldValidation)
	core.RegisterCustomTranslation(validate, translator, scoreFieldTag, scoreFieldText)

	validate.RegisterStructValidation(scoreUpdateStructValidation, ScoreUpdate{})
	core.RegisterCustomTranslation(validate, translator, scoreMaxTag, scoreMaxText)
}

// Custom Validators

func schoolClassValidation(fl validator.FieldLevel) bool {
	return ClassRank(fl.Field().String()) >= 0
}

func discountTypeValidation(fl validator.FieldLevel) bool {
	return finance.DiscountType(fl.Field().String()).IsValid()
}

func scoreFieldValidation(fl validator.FieldLevel) bool {
	_, ok := grading.FieldMax(fl.Field().String())
	return ok
}

// scoreUpdateStructValidation checks the value against the maximum of its field.
func scoreUpdateStructValidation(sl validator.StructLevel) {
	su := sl.Current().Interface().(ScoreUpdate)
	if max, ok := grading.FieldMax(su.Field); ok && su.Value > max {
		sl.ReportError(su.Value, "value", "Value", scoreMaxTag, fmt.Sprint(max))
	}
}
