package staff

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/ident"
)

var (
	staffCategoryTag  = "staffcategory"
	staffCategoryText = "category must be one of Teaching, Administration, ProfessionalSupport or MaintenanceOperations"
)

// InitValidators registers the staff validators; core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(staffCategoryTag, staffCategoryValidation)
	core.RegisterCustomTranslation(validate, translator, staffCategoryTag, staffCategoryText)
}

func staffCategoryValidation(fl validator.FieldLevel) bool {
	return ident.StaffCategory(fl.Field().String()).IsValid()
}
