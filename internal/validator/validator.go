package validator

// Validator bundles struct-tag validation with business rule validation
// so services only need a single dependency.
type Validator struct {
	business *BusinessValidator
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	return &Validator{
		business: NewBusinessValidator(),
	}
}

// Validate runs struct-tag validation on any request struct.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}

// GetBusinessValidator exposes the business rule validator.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
