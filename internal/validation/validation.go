// Package validation содержит клиентские проверки вводимых данных.
// Проверки выполняются до сетевого вызова; неверный ввод на бэкенд
// не отправляется.
package validation

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
)

// Ошибки клиентской валидации.
var (
	ErrBlankField    = errors.New("required field is blank")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidAmount = errors.New("amount must be a positive integer")
)

// IsValidEmail проверяет правдоподобность адреса электронной почты.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// RequireEmail проверяет, что строка является адресом электронной почты.
func RequireEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrBlankField
	}
	if !IsValidEmail(email) {
		return ErrInvalidEmail
	}
	return nil
}

// Require проверяет, что строка не пуста и не состоит из пробелов.
func Require(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrBlankField
	}
	return nil
}

// ParseAmount разбирает строку как положительную целую сумму.
func ParseAmount(value string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidAmount
	}
	return n, nil
}
