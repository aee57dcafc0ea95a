package infrastructure

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vaflel/student-manager/domain"
)

func TestRepositoryLoadMissingFile(t *testing.T) {
	repo := NewJSONRosterRepository(filepath.Join(t.TempDir(), "нет_такого.json"))

	roster, err := repo.Load()
	if err != nil {
		t.Fatalf("отсутствие файла не должно быть ошибкой: %v", err)
	}
	if len(roster.Students) != 0 || len(roster.Courses) != 0 {
		t.Fatalf("ожидался пустой реестр: %+v", roster)
	}
}

func TestRepositorySaveAndLoad(t *testing.T) {
	repo := NewJSONRosterRepository(filepath.Join(t.TempDir(), "students_data.json"))

	student := domain.NewStudent("S1", "Иванов", 16, "9", "А")
	student.Courses = append(student.Courses, "C1")
	student.Scores["C1"] = 92.5
	course := domain.NewCourse("C1", "Алгебра", "Сидорова", 3.0)
	course.Students = append(course.Students, "S1")

	saved := domain.Roster{
		Students: []domain.Student{student},
		Courses:  []domain.Course{course},
	}
	if err := repo.Save(saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Students) != 1 || len(loaded.Courses) != 1 {
		t.Fatalf("неверный состав реестра: %+v", loaded)
	}
	got := loaded.Students[0]
	if got.ID != "S1" || got.Name != "Иванов" || got.Scores["C1"] != 92.5 {
		t.Fatalf("данные студента не совпали: %+v", got)
	}
	if loaded.Courses[0].Students[0] != "S1" {
		t.Fatalf("список студентов курса не совпал: %+v", loaded.Courses[0])
	}
}

func TestRepositorySaveOverwritesWholeFile(t *testing.T) {
	repo := NewJSONRosterRepository(filepath.Join(t.TempDir(), "students_data.json"))

	full := domain.Roster{Students: []domain.Student{domain.NewStudent("S1", "Иванов", 16, "9", "А")}}
	if err := repo.Save(full); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(domain.Roster{}); err != nil {
		t.Fatalf("повторное Save: %v", err)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Students) != 0 {
		t.Fatalf("файл должен перезаписываться целиком: %+v", loaded)
	}
}

func TestRepositoryLoadCorruptFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "students_data.json")
	if err := os.WriteFile(filename, []byte("{это не json"), 0644); err != nil {
		t.Fatalf("подготовка файла: %v", err)
	}

	repo := NewJSONRosterRepository(filename)
	roster, err := repo.Load()
	if !errors.Is(err, domain.ErrCorruptData) {
		t.Fatalf("ожидалась ErrCorruptData, получено %v", err)
	}
	if len(roster.Students) != 0 || len(roster.Courses) != 0 {
		t.Fatalf("при поврежденном файле реестр должен быть пустым: %+v", roster)
	}
}
