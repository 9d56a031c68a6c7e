package wizard

import (
	"strings"
	"unicode"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"

	"github.com/go-playground/validator/v10"
)

var emailCheck = validator.New()

const minPasswordLength = 6

// ContactForm collects contact details plus the optional account-creation
// block. When the draft belongs to an authenticated user the block is
// dropped entirely and the contact fields arrive prefilled from the profile.
type ContactForm struct {
	authenticated bool

	Name        string
	Email       string
	Phone       string
	CountryCode string
	City        string
	Comments    string

	CreateAccount   bool
	Password        string
	PasswordConfirm string
}

func newContactForm(saved entity.Contact, user *entity.User) *ContactForm {
	f := &ContactForm{
		Name:        saved.Name,
		Email:       saved.Email,
		Phone:       saved.Phone,
		CountryCode: saved.CountryCode,
		City:        saved.City,
		Comments:    saved.Comments,
	}
	if user != nil {
		f.authenticated = true
		f.Name = user.Name
		f.Email = user.Email
		if user.Phone != "" {
			f.Phone = user.Phone
		}
		if user.CountryCode != "" {
			f.CountryCode = user.CountryCode
		}
		if user.City != "" {
			f.City = user.City
		}
	}
	return f
}

func (f *ContactForm) Authenticated() bool {
	return f.authenticated
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func validDialCode(code string) bool {
	if !strings.HasPrefix(code, "+") {
		return false
	}
	digits := code[1:]
	return len(digits) >= 1 && len(digits) <= 4 && allDigits(digits)
}

func (f *ContactForm) validate() Issues {
	issues := validateContactRecord(&entity.Contact{
		Name:        f.Name,
		Email:       f.Email,
		Phone:       f.Phone,
		CountryCode: f.CountryCode,
	}, f.CreateAccount && !f.authenticated)

	if f.CreateAccount && !f.authenticated {
		issues = append(issues, validateNewPassword(f.Password, f.PasswordConfirm)...)
	}
	return issues
}

// validateContactRecord applies the contact rule-set. requireEmail reflects
// the account-creation branch: without it the email stays optional
// free-form, with it the address must be syntactically valid.
func validateContactRecord(c *entity.Contact, requireEmail bool) Issues {
	var issues Issues

	if c == nil {
		issues.add("contactInfo", "contact info is required")
		return issues
	}

	if strings.TrimSpace(c.Name) == "" {
		issues.add("name", "name is required")
	}
	if digitCount(c.Phone) < entity.MinPhoneDigits {
		issues.add("phone", "phone must contain at least 10 digits")
	}
	if !validDialCode(c.CountryCode) {
		issues.add("countryCode", "country dial code is required")
	}

	if requireEmail && c.Email == "" {
		issues.add("email", "email is required to create an account")
	}
	if c.Email != "" {
		if err := emailCheck.Var(c.Email, "email"); err != nil {
			issues.add("email", "email address is not valid")
		}
	}
	return issues
}

func validateNewPassword(password, confirm string) Issues {
	var issues Issues
	if len(password) < minPasswordLength {
		issues.add("password", "password must be at least 6 characters")
	}
	if confirm != password {
		issues.add("passwordConfirm", "passwords do not match")
	}
	return issues
}

func (f *ContactForm) result() entity.Contact {
	return entity.Contact{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		Phone:       f.Phone,
		CountryCode: f.CountryCode,
		City:        f.City,
		Comments:    f.Comments,
	}
}
