// Package cli предоставляет консольный интерфейс реестра: текстовое меню
// с теми же операциями, что и веб-интерфейс
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Vaflel/student-manager/domain"
	"github.com/Vaflel/student-manager/infrastructure"
	"github.com/Vaflel/student-manager/usecases"
)

// Menu реализует текстовое меню поверх сервиса реестра
type Menu struct {
	service  *usecases.RosterService
	exporter *infrastructure.XLSXExporter
	scanner  *bufio.Scanner
	out      io.Writer
}

// NewMenu создает новое консольное меню
func NewMenu(service *usecases.RosterService, exporter *infrastructure.XLSXExporter, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		service:  service,
		exporter: exporter,
		scanner:  bufio.NewScanner(in),
		out:      out,
	}
}

// Run запускает цикл меню и возвращает управление после выбора выхода
func (m *Menu) Run() {
	fmt.Fprintln(m.out, strings.Repeat("=", 50))
	fmt.Fprintln(m.out, "    Реестр студентов")
	fmt.Fprintln(m.out, strings.Repeat("=", 50))

	for {
		fmt.Fprintln(m.out, "\nВыберите раздел:")
		fmt.Fprintln(m.out, "1. Студенты")
		fmt.Fprintln(m.out, "2. Курсы")
		fmt.Fprintln(m.out, "3. Запись на курсы")
		fmt.Fprintln(m.out, "4. Оценки")
		fmt.Fprintln(m.out, "5. Запросы и сводки")
		fmt.Fprintln(m.out, "6. Импорт и выгрузка")
		fmt.Fprintln(m.out, "0. Выход")

		switch m.prompt("Ваш выбор: ") {
		case "0":
			fmt.Fprintln(m.out, "Работа завершена")
			return
		case "1":
			m.studentsMenu()
		case "2":
			m.coursesMenu()
		case "3":
			m.enrollmentMenu()
		case "4":
			m.scoresMenu()
		case "5":
			m.queriesMenu()
		case "6":
			m.dataMenu()
		default:
			fmt.Fprintln(m.out, "Неизвестный пункт меню")
		}
	}
}

func (m *Menu) studentsMenu() {
	fmt.Fprintln(m.out, "\n--- Студенты ---")
	fmt.Fprintln(m.out, "1. Добавить")
	fmt.Fprintln(m.out, "2. Удалить")
	fmt.Fprintln(m.out, "3. Изменить")
	fmt.Fprintln(m.out, "4. Карточка студента")
	fmt.Fprintln(m.out, "5. Список всех")
	fmt.Fprintln(m.out, "6. Поиск")

	switch m.prompt("Ваш выбор: ") {
	case "1":
		name := m.prompt("Имя: ")
		age, err := strconv.Atoi(m.prompt("Возраст: "))
		if name == "" || err != nil {
			fmt.Fprintln(m.out, "Нужны имя и числовой возраст")
			return
		}
		grade := m.prompt("Год обучения: ")
		className := m.prompt("Класс: ")
		id, err := m.service.AddStudent(name, age, grade, className)
		if err != nil {
			fmt.Fprintf(m.out, "Не удалось добавить студента: %v\n", err)
			return
		}
		fmt.Fprintf(m.out, "Студент добавлен, номер: %s\n", id)
	case "2":
		id := m.prompt("Номер студента: ")
		if err := m.service.RemoveStudent(id); err != nil {
			fmt.Fprintf(m.out, "Не удалось удалить студента: %v\n", err)
			return
		}
		fmt.Fprintln(m.out, "Студент удален")
	case "3":
		m.editStudent()
	case "4":
		m.showStudent(m.prompt("Номер студента: "))
	case "5":
		students := m.service.Students()
		if len(students) == 0 {
			fmt.Fprintln(m.out, "Студентов пока нет")
			return
		}
		for _, student := range students {
			fmt.Fprintf(m.out, "%s — %s — %s %s\n", student.ID, student.Name, student.Grade, student.ClassName)
		}
	case "6":
		results := m.service.SearchStudents(m.prompt("Ключевое слово: "))
		if len(results) == 0 {
			fmt.Fprintln(m.out, "Ничего не найдено")
			return
		}
		for _, student := range results {
			fmt.Fprintf(m.out, "%s — %s — %s %s\n", student.ID, student.Name, student.Grade, student.ClassName)
		}
	}
}

// editStudent запрашивает поля по одному, пустой ввод оставляет поле без изменений
func (m *Menu) editStudent() {
	id := m.prompt("Номер студента: ")
	update := domain.StudentUpdate{}

	if value := m.prompt("Имя (пусто — не менять): "); value != "" {
		update.Name = &value
	}
	if value := m.prompt("Возраст (пусто — не менять): "); value != "" {
		age, err := strconv.Atoi(value)
		if err != nil {
			fmt.Fprintln(m.out, "Возраст должен быть числом")
			return
		}
		update.Age = &age
	}
	if value := m.prompt("Год обучения (пусто — не менять): "); value != "" {
		update.Grade = &value
	}
	if value := m.prompt("Класс (пусто — не менять): "); value != "" {
		update.ClassName = &value
	}

	if err := m.service.UpdateStudent(id, update); err != nil {
		fmt.Fprintf(m.out, "Не удалось обновить студента: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Данные студента обновлены")
}

func (m *Menu) showStudent(id string) {
	details, err := m.service.StudentInfo(id)
	if err != nil {
		fmt.Fprintf(m.out, "Студент не найден: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "\nНомер: %s\nИмя: %s\nВозраст: %d\nГод обучения: %s\nКласс: %s\n",
		details.ID, details.Name, details.Age, details.Grade, details.ClassName)
	fmt.Fprintln(m.out, "Курсы:")
	if len(details.CourseDetails) == 0 {
		fmt.Fprintln(m.out, "  нет записей на курсы")
		return
	}
	for _, course := range details.CourseDetails {
		score := "не оценено"
		if course.Score != nil {
			score = fmt.Sprintf("%.1f", *course.Score)
		}
		fmt.Fprintf(m.out, "  %s — %s — %.1f з.е. — %s\n", course.Name, course.Teacher, course.Credit, score)
	}
}

func (m *Menu) coursesMenu() {
	fmt.Fprintln(m.out, "\n--- Курсы ---")
	fmt.Fprintln(m.out, "1. Добавить")
	fmt.Fprintln(m.out, "2. Удалить")
	fmt.Fprintln(m.out, "3. Изменить")
	fmt.Fprintln(m.out, "4. Карточка курса")
	fmt.Fprintln(m.out, "5. Список всех")
	fmt.Fprintln(m.out, "6. Поиск")

	switch m.prompt("Ваш выбор: ") {
	case "1":
		name := m.prompt("Название: ")
		teacher := m.prompt("Преподаватель: ")
		credit, err := strconv.ParseFloat(m.prompt("Зачетные единицы: "), 64)
		if name == "" || err != nil {
			fmt.Fprintln(m.out, "Нужны название и числовое количество зачетных единиц")
			return
		}
		id, err := m.service.AddCourse(name, teacher, credit)
		if err != nil {
			fmt.Fprintf(m.out, "Не удалось добавить курс: %v\n", err)
			return
		}
		fmt.Fprintf(m.out, "Курс добавлен, номер: %s\n", id)
	case "2":
		id := m.prompt("Номер курса: ")
		if err := m.service.RemoveCourse(id); err != nil {
			fmt.Fprintf(m.out, "Не удалось удалить курс: %v\n", err)
			return
		}
		fmt.Fprintln(m.out, "Курс удален")
	case "3":
		m.editCourse()
	case "4":
		m.showCourse(m.prompt("Номер курса: "))
	case "5":
		courses := m.service.Courses()
		if len(courses) == 0 {
			fmt.Fprintln(m.out, "Курсов пока нет")
			return
		}
		for _, course := range courses {
			fmt.Fprintf(m.out, "%s — %s — %s — %.1f з.е.\n", course.ID, course.Name, course.Teacher, course.Credit)
		}
	case "6":
		results := m.service.SearchCourses(m.prompt("Ключевое слово: "))
		if len(results) == 0 {
			fmt.Fprintln(m.out, "Ничего не найдено")
			return
		}
		for _, course := range results {
			fmt.Fprintf(m.out, "%s — %s — %s\n", course.ID, course.Name, course.Teacher)
		}
	}
}

func (m *Menu) editCourse() {
	id := m.prompt("Номер курса: ")
	update := domain.CourseUpdate{}

	if value := m.prompt("Название (пусто — не менять): "); value != "" {
		update.Name = &value
	}
	if value := m.prompt("Преподаватель (пусто — не менять): "); value != "" {
		update.Teacher = &value
	}
	if value := m.prompt("Зачетные единицы (пусто — не менять): "); value != "" {
		credit, err := strconv.ParseFloat(value, 64)
		if err != nil {
			fmt.Fprintln(m.out, "Зачетные единицы должны быть числом")
			return
		}
		update.Credit = &credit
	}

	if err := m.service.UpdateCourse(id, update); err != nil {
		fmt.Fprintf(m.out, "Не удалось обновить курс: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Данные курса обновлены")
}

func (m *Menu) showCourse(id string) {
	details, err := m.service.CourseInfo(id)
	if err != nil {
		fmt.Fprintf(m.out, "Курс не найден: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "\nНомер: %s\nНазвание: %s\nПреподаватель: %s\nЗачетные единицы: %.1f\n",
		details.ID, details.Name, details.Teacher, details.Credit)
	fmt.Fprintln(m.out, "Записанные студенты:")
	if len(details.Members) == 0 {
		fmt.Fprintln(m.out, "  на курс никто не записан")
		return
	}
	for _, member := range details.Members {
		score := "не оценено"
		if member.Score != nil {
			score = fmt.Sprintf("%.1f", *member.Score)
		}
		fmt.Fprintf(m.out, "  %s — %s %s — %s\n", member.Name, member.Grade, member.ClassName, score)
	}
}

func (m *Menu) enrollmentMenu() {
	fmt.Fprintln(m.out, "\n--- Запись на курсы ---")
	fmt.Fprintln(m.out, "1. Записать студента")
	fmt.Fprintln(m.out, "2. Снять с курса")

	choice := m.prompt("Ваш выбор: ")
	if choice != "1" && choice != "2" {
		return
	}

	studentID := m.prompt("Номер студента: ")
	courseID := m.prompt("Номер курса: ")

	var err error
	if choice == "1" {
		err = m.service.Enroll(studentID, courseID)
	} else {
		err = m.service.DropCourse(studentID, courseID)
	}
	if err != nil {
		fmt.Fprintf(m.out, "Операция не выполнена: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Готово")
}

func (m *Menu) scoresMenu() {
	fmt.Fprintln(m.out, "\n--- Оценки ---")
	fmt.Fprintln(m.out, "1. Выставить или изменить оценку")

	if m.prompt("Ваш выбор: ") != "1" {
		return
	}

	studentID := m.prompt("Номер студента: ")
	courseID := m.prompt("Номер курса: ")
	score, err := strconv.ParseFloat(m.prompt("Оценка (0–100): "), 64)
	if err != nil {
		fmt.Fprintln(m.out, "Оценка должна быть числом")
		return
	}

	if err := m.service.AddScore(studentID, courseID, score); err != nil {
		fmt.Fprintf(m.out, "Не удалось выставить оценку: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "Оценка сохранена")
}

func (m *Menu) queriesMenu() {
	fmt.Fprintln(m.out, "\n--- Запросы и сводки ---")
	fmt.Fprintln(m.out, "1. Сводка по классу")
	fmt.Fprintln(m.out, "2. Оценки студента")

	switch m.prompt("Ваш выбор: ") {
	case "1":
		grade := m.prompt("Год обучения: ")
		className := m.prompt("Класс: ")
		stats, err := m.service.ClassStatistics(grade, className)
		if err != nil {
			fmt.Fprintf(m.out, "Сводка недоступна: %v\n", err)
			return
		}
		fmt.Fprintf(m.out, "\nКласс %s %s\nВсего студентов: %d\n", grade, className, stats.TotalStudents)
		fmt.Fprintln(m.out, "Распределение по возрастам:")
		for age, count := range stats.AgeDistribution {
			fmt.Fprintf(m.out, "  %d лет: %d\n", age, count)
		}
		fmt.Fprintln(m.out, "Запись на курсы:")
		for courseID, count := range stats.CourseEnrollment {
			name, ok := stats.CourseNames[courseID]
			if !ok {
				name = courseID
			}
			fmt.Fprintf(m.out, "  %s: %d\n", name, count)
		}
	case "2":
		m.showStudent(m.prompt("Номер студента: "))
	}
}

func (m *Menu) dataMenu() {
	fmt.Fprintln(m.out, "\n--- Импорт и выгрузка ---")
	fmt.Fprintln(m.out, "1. Импорт студентов из XLS")
	fmt.Fprintln(m.out, "2. Импорт студентов из HTML-выгрузки")
	fmt.Fprintln(m.out, "3. Выгрузить ведомость курса в xlsx")
	fmt.Fprintln(m.out, "4. Выгрузить сводку по классу в xlsx")
	fmt.Fprintln(m.out, "5. Сохранить данные")

	switch m.prompt("Ваш выбор: ") {
	case "1":
		m.importStudents(infrastructure.NewXLSStudentImporter(m.prompt("Путь к файлу: ")))
	case "2":
		m.importStudents(infrastructure.NewHTMLStudentImporter(m.prompt("Путь к файлу: ")))
	case "3":
		details, err := m.service.CourseInfo(m.prompt("Номер курса: "))
		if err != nil {
			fmt.Fprintf(m.out, "Курс не найден: %v\n", err)
			return
		}
		path, err := m.exporter.ExportCourseScores(details)
		if err != nil {
			fmt.Fprintf(m.out, "Не удалось выгрузить ведомость: %v\n", err)
			return
		}
		fmt.Fprintf(m.out, "Ведомость сохранена: %s\n", path)
	case "4":
		grade := m.prompt("Год обучения: ")
		className := m.prompt("Класс: ")
		stats, err := m.service.ClassStatistics(grade, className)
		if err != nil {
			fmt.Fprintf(m.out, "Сводка недоступна: %v\n", err)
			return
		}
		path, err := m.exporter.ExportClassStatistics(grade, className, stats)
		if err != nil {
			fmt.Fprintf(m.out, "Не удалось выгрузить сводку: %v\n", err)
			return
		}
		fmt.Fprintf(m.out, "Сводка сохранена: %s\n", path)
	case "5":
		if err := m.service.Save(); err != nil {
			fmt.Fprintf(m.out, "Не удалось сохранить данные: %v\n", err)
			return
		}
		fmt.Fprintln(m.out, "Данные сохранены")
	}
}

func (m *Menu) importStudents(importer usecases.StudentImporter) {
	records, err := importer.Parse()
	if err != nil {
		fmt.Fprintf(m.out, "Импорт не выполнен: %v\n", err)
		return
	}

	ids, err := m.service.ImportStudents(records)
	if err != nil {
		fmt.Fprintf(m.out, "Импорт не выполнен: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Импортировано студентов: %d\n", len(ids))
}

// prompt выводит приглашение и возвращает введенную строку без пробелов по краям
func (m *Menu) prompt(message string) string {
	fmt.Fprint(m.out, message)
	if !m.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(m.scanner.Text())
}
