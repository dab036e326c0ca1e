package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// bindAndValidate decodes the JSON body into req and runs the struct tags.
// The returned slice is nil when the request is valid.
func bindAndValidate(c echo.Context, req interface{}) (string, []ValidationError) {
	if err := c.Bind(req); err != nil {
		return "Invalid request body", nil
	}
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return "Invalid request body", nil
		}
		result := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			result = append(result, ValidationError{
				Field:   lowerFirst(fe.Field()),
				Message: validationMessage(fe),
			})
		}
		return "Validation failed", result
	}
	return "", nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "dive":
		return "contains an invalid entry"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// pathMonthKey reads /:year/:month route params
func pathMonthKey(c echo.Context) (domain.MonthKey, []ValidationError) {
	return monthKeyFrom(c.Param("year"), c.Param("month"))
}

// queryMonthKey reads ?year=&month=, falling back to def when both are absent
func queryMonthKey(c echo.Context, def domain.MonthKey) (domain.MonthKey, []ValidationError) {
	year, month := c.QueryParam("year"), c.QueryParam("month")
	if year == "" && month == "" {
		return def, nil
	}
	return monthKeyFrom(year, month)
}

func monthKeyFrom(yearStr, monthStr string) (domain.MonthKey, []ValidationError) {
	var errs []ValidationError
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < domain.MinYear || year > domain.MaxYear {
		errs = append(errs, ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("Year must be between %d and %d", domain.MinYear, domain.MaxYear),
		})
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		errs = append(errs, ValidationError{Field: "month", Message: "Month must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return domain.MonthKey{}, errs
	}
	return domain.MonthKey{Year: year, Month: month}, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
