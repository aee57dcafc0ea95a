package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Vaflel/student-manager/domain"
)

// JSONRosterRepository хранит реестр в одном JSON-файле.
// Каждое сохранение целиком перезаписывает файл.
type JSONRosterRepository struct {
	filename string
	mutex    sync.Mutex
}

// NewJSONRosterRepository создает новый экземпляр репозитория
func NewJSONRosterRepository(filename string) *JSONRosterRepository {
	return &JSONRosterRepository{
		filename: filename,
	}
}

// Load читает реестр из файла. Отсутствие файла не считается ошибкой —
// возвращается пустой реестр. Нечитаемое содержимое возвращает ошибку
// вида domain.ErrCorruptData вместе с пустым реестром, файл при этом
// не трогается до первого успешного сохранения.
func (r *JSONRosterRepository) Load() (domain.Roster, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	data, err := os.ReadFile(r.filename)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Roster{}, nil
	}
	if err != nil {
		return domain.Roster{}, fmt.Errorf("не удалось прочитать файл %s: %w", r.filename, err)
	}

	var roster domain.Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		return domain.Roster{}, fmt.Errorf("не удалось разобрать файл %s (%v): %w", r.filename, err, domain.ErrCorruptData)
	}

	return roster, nil
}

// Save сериализует реестр и записывает его в файл
func (r *JSONRosterRepository) Save(roster domain.Roster) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if roster.Students == nil {
		roster.Students = []domain.Student{}
	}
	if roster.Courses == nil {
		roster.Courses = []domain.Course{}
	}

	data, err := json.MarshalIndent(roster, "", "  ")
	if err != nil {
		return fmt.Errorf("не удалось сериализовать данные: %w", err)
	}

	if err := os.WriteFile(r.filename, data, 0644); err != nil {
		return fmt.Errorf("не удалось записать файл %s: %w", r.filename, err)
	}

	return nil
}
