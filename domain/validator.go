package domain

import "fmt"

// Границы допустимых оценок
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// ValidateScore проверяет, что оценка находится в диапазоне 0–100
func ValidateScore(score float64) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("оценка %.1f вне диапазона %.0f–%.0f: %w", score, MinScore, MaxScore, ErrValidation)
	}
	return nil
}

// ValidateAge проверяет, что возраст неотрицательный
func ValidateAge(age int) error {
	if age < 0 {
		return fmt.Errorf("возраст %d не может быть отрицательным: %w", age, ErrValidation)
	}
	return nil
}

// ValidateCredit проверяет, что количество зачетных единиц неотрицательное
func ValidateCredit(credit float64) error {
	if credit < 0 {
		return fmt.Errorf("количество зачетных единиц %.1f не может быть отрицательным: %w", credit, ErrValidation)
	}
	return nil
}
