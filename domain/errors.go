package domain

import "errors"

// Базовые виды ошибок хранилища. Конкретные ошибки оборачивают их через %w,
// вызывающий код проверяет вид через errors.Is.
var (
	// ErrNotFound возвращается при обращении по неизвестному идентификатору
	ErrNotFound = errors.New("запись не найдена")

	// ErrValidation возвращается при недопустимом значении поля
	// (оценка вне диапазона, отрицательный возраст или зачетные единицы)
	ErrValidation = errors.New("недопустимое значение")

	// ErrAlreadyEnrolled возвращается при повторной записи на курс
	ErrAlreadyEnrolled = errors.New("студент уже записан на курс")

	// ErrNotEnrolled возвращается для операций над отсутствующей записью на курс
	ErrNotEnrolled = errors.New("студент не записан на курс")

	// ErrCorruptData возвращается, когда файл данных не удалось разобрать
	ErrCorruptData = errors.New("файл данных поврежден")
)
