package portfolio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wonny/aegis-wheel/internal/contracts"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// 에러에 json 필드명 사용 (ccPositions[0].strike)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Format is the encoding of a position record
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Decode parses, defaults and validates a position record.
// ⭐ SSOT: 포트폴리오 경계 검증은 여기서만
func Decode(data []byte, format Format) (*contracts.Portfolio, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", contracts.ErrNoPortfolio)
	}

	var pf contracts.Portfolio
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("%w: parse yaml: %v", contracts.ErrInvalidPortfolio, err)
		}
	default:
		if err := json.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("%w: parse json: %v", contracts.ErrInvalidPortfolio, err)
		}
	}

	if err := applyDefaults(&pf); err != nil {
		return nil, err
	}
	if err := Validate(&pf); err != nil {
		return nil, err
	}
	return &pf, nil
}

func applyDefaults(pf *contracts.Portfolio) error {
	for _, list := range [][]contracts.Position{pf.CCPositions, pf.CSPPositions} {
		for i := range list {
			if err := defaults.Set(&list[i]); err != nil {
				return fmt.Errorf("set position defaults: %w", err)
			}
		}
	}
	return nil
}

// Validate checks field rules and returns contracts.ValidationErrors on failure
func Validate(pf *contracts.Portfolio) error {
	err := validate.Struct(pf)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", contracts.ErrInvalidPortfolio, err)
	}

	out := make(contracts.ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, contracts.ValidationError{
			Field:   fieldPath(fe),
			Message: errorMessage(fe),
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
