// Package validator provides custom validation functions for Gin's binding
// engine and for the investment form pipeline.
package validator

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"nivesh/internal/models"
)

var (
	panRegex     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarRegex = regexp.MustCompile(`^[0-9]{12}$`)
	mobileRegex  = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonName)
		registerOn(v)
	}
}

// New returns a standalone validator with the custom tags registered and
// field errors reported under their JSON names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	registerOn(v)
	return v
}

func registerOn(v *validator.Validate) {
	_ = v.RegisterValidation("investment_type", validateInvestmentType)
	_ = v.RegisterValidation("isodate", validateISODate)
	_ = v.RegisterValidation("pan", validatePAN)
	_ = v.RegisterValidation("aadhaar", validateAadhaar)
	_ = v.RegisterValidation("mobile", validateMobile)
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	}
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func validateInvestmentType(fl validator.FieldLevel) bool {
	return models.InvestmentType(fl.Field().String()).Valid()
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(models.DateLayout, strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func validatePAN(fl validator.FieldLevel) bool {
	return panRegex.MatchString(strings.ToUpper(fl.Field().String()))
}

func validateAadhaar(fl validator.FieldLevel) bool {
	return aadhaarRegex.MatchString(fl.Field().String())
}

func validateMobile(fl validator.FieldLevel) bool {
	return mobileRegex.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
}

// Messages converts validator errors into a field → message map keyed by
// the field's JSON name. Other errors yield nil.
func Messages(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be " + fe.Param() + " or more"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "isodate":
		return "must be a date formatted YYYY-MM-DD"
	case "investment_type":
		return "is not a supported investment type"
	case "pan":
		return "must be a PAN like ABCDE1234F"
	case "aadhaar":
		return "must be 12 digits"
	case "mobile":
		return "must be a 10 digit mobile number"
	case "email":
		return "must be a valid email address"
	}
	return "is invalid"
}
