package usecases

import "github.com/Vaflel/student-manager/domain"

// RosterRepository определяет интерфейс для долговременного хранения реестра.
// Load возвращает пустой реестр без ошибки, если данных еще нет;
// поврежденные данные сопровождаются ошибкой вида domain.ErrCorruptData.
// Save целиком перезаписывает сохраненное состояние.
type RosterRepository interface {
	Load() (domain.Roster, error)
	Save(roster domain.Roster) error
}

// StudentImporter определяет интерфейс источника массового импорта студентов
type StudentImporter interface {
	Parse() ([]domain.StudentRecord, error)
}
