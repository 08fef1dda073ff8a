package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/quickcart-next/internal/models"

	"github.com/go-playground/validator/v10"
)

var addressValidator = newAddressValidator()

func newAddressValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 问题字段按 json 名返回
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// AddressProblem 地址校验未通过的字段
type AddressProblem struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidateAddress 校验必填字段与邮编格式，返回全部问题
func ValidateAddress(address *models.Address) []AddressProblem {
	if address == nil {
		return []AddressProblem{{Field: "address", Rule: "required"}}
	}
	normalized := normalizeAddress(*address)
	err := addressValidator.Struct(&normalized)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []AddressProblem{{Field: "address", Rule: "invalid"}}
	}
	problems := make([]AddressProblem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, AddressProblem{Field: fe.Field(), Rule: fe.Tag()})
	}
	return problems
}

// ValidatePincode 邮编必须为 6 位数字
func ValidatePincode(pincode string) bool {
	return addressValidator.Var(strings.TrimSpace(pincode), "required,len=6,numeric") == nil
}

// FormatAddress 拼接地址文本
func FormatAddress(address *models.Address) string {
	return address.Format()
}

func normalizeAddress(address models.Address) models.Address {
	address.AddressLine1 = strings.TrimSpace(address.AddressLine1)
	address.AddressLine2 = strings.TrimSpace(address.AddressLine2)
	address.City = strings.TrimSpace(address.City)
	address.State = strings.TrimSpace(address.State)
	address.Pincode = strings.TrimSpace(address.Pincode)
	address.Phone = strings.TrimSpace(address.Phone)
	return address
}
