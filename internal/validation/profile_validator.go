package validation

import (
	"taskflow/internal/config"
	"taskflow/internal/domain"
)

// ProfileValidator validates account and profile input
type ProfileValidator struct {
	validator *Validator
}

// NewProfileValidator creates a new profile validator
func NewProfileValidator() *ProfileValidator {
	return &ProfileValidator{validator: NewValidator()}
}

// NewProfileValidatorWithConfig creates a profile validator using configured limits
func NewProfileValidatorWithConfig(cfg *config.Config) *ProfileValidator {
	return &ProfileValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateRegistration requires a name, a well-formed email and a long enough password
func (pv *ProfileValidator) ValidateRegistration(input domain.Registration) error {
	validationError := NewValidationError()

	if !pv.validator.IsNonEmptyString(input.Name) {
		validationError.Required("name")
	} else {
		pv.checkName(validationError, input.Name)
	}

	if !pv.validator.IsNonEmptyString(input.Email) {
		validationError.Required("email")
	} else {
		pv.checkEmail(validationError, input.Email)
	}

	if input.Password == "" {
		validationError.Required("password")
	} else {
		pv.checkPassword(validationError, input.Password)
	}

	return validationError.result()
}

// ValidateCredentials only requires both fields; a wrong password is an authentication failure
func (pv *ProfileValidator) ValidateCredentials(input domain.Credentials) error {
	validationError := NewValidationError()

	if !pv.validator.IsNonEmptyString(input.Email) {
		validationError.Required("email")
	}
	if input.Password == "" {
		validationError.Required("password")
	}

	return validationError.result()
}

// ValidateProfilePatch checks the fields the merge will actually apply
func (pv *ProfileValidator) ValidateProfilePatch(patch domain.ProfilePatch) error {
	validationError := NewValidationError()

	if pv.validator.IsNonEmptyString(patch.Name) {
		pv.checkName(validationError, patch.Name)
	}
	if pv.validator.IsNonEmptyString(patch.Email) {
		pv.checkEmail(validationError, patch.Email)
	}
	if pv.validator.IsNonEmptyString(patch.Bio) {
		maxLen := pv.validator.getBioMaxLength()
		if !pv.validator.IsValidStringLength(patch.Bio, 1, maxLen) {
			validationError.TooLong("bio", maxLen)
		}
	}
	if pv.validator.IsNonEmptyString(patch.Avatar) {
		avatar := pv.validator.TrimAndValidateString(patch.Avatar)
		if !pv.validator.IsValidURL(avatar) {
			validationError.BadFormat("avatar", "an http or https URL")
		}
	}

	return validationError.result()
}

func (pv *ProfileValidator) checkName(ve *ValidationError, name string) {
	trimmed := pv.validator.TrimAndValidateString(name)
	maxLen := pv.validator.getNameMaxLength()

	if !pv.validator.IsValidStringLength(trimmed, 1, maxLen) {
		ve.TooLong("name", maxLen)
	}
	if pv.validator.HasControlCharacters(trimmed) {
		ve.BadCharacters("name")
	}
}

func (pv *ProfileValidator) checkEmail(ve *ValidationError, email string) {
	normalized := domain.NormalizeEmail(email)
	if !pv.validator.IsValidEmail(normalized) {
		ve.BadFormat("email", "name@example.com")
	}
}

func (pv *ProfileValidator) checkPassword(ve *ValidationError, password string) {
	minLen := pv.validator.getPasswordMinLength()
	if len(password) < minLen || len(password) > maxPasswordBytes {
		ve.LengthBetween("password", minLen, maxPasswordBytes)
	}
}
