package usecases

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Vaflel/student-manager/domain"
	"github.com/google/uuid"
)

// RosterService управляет реестром студентов и курсов: хранит записи в памяти
// и после каждой изменяющей операции целиком сохраняет состояние через
// репозиторий. Зеркальность связи (идентификатор студента в списке курса и
// идентификатор курса в списке студента) поддерживается при каждой операции.
type RosterService struct {
	mu       sync.RWMutex
	repo     RosterRepository
	students map[string]*domain.Student
	courses  map[string]*domain.Course
}

// NewRosterService создает сервис и загружает данные из репозитория.
// Если загрузка не удалась, сервис остается пустым, но пригодным к работе,
// а ошибка возвращается вызывающему — решение о продолжении за ним.
func NewRosterService(repo RosterRepository) (*RosterService, error) {
	s := &RosterService{
		repo:     repo,
		students: make(map[string]*domain.Student),
		courses:  make(map[string]*domain.Course),
	}

	roster, err := repo.Load()
	if err != nil {
		return s, fmt.Errorf("не удалось загрузить данные: %w", err)
	}

	for _, student := range roster.Students {
		copied := student.Clone()
		if copied.Courses == nil {
			copied.Courses = []string{}
		}
		if copied.Scores == nil {
			copied.Scores = map[string]float64{}
		}
		s.students[copied.ID] = &copied
	}
	for _, course := range roster.Courses {
		copied := course.Clone()
		if copied.Students == nil {
			copied.Students = []string{}
		}
		s.courses[copied.ID] = &copied
	}

	return s, nil
}

// AddStudent добавляет студента и возвращает присвоенный идентификатор.
// Строковые поля не проверяются, возраст должен быть неотрицательным.
func (s *RosterService) AddStudent(name string, age int, grade, className string) (string, error) {
	if err := domain.ValidateAge(age); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	student := domain.NewStudent(generateStudentID(), name, age, grade, className)
	s.students[student.ID] = &student
	return student.ID, s.persist()
}

// RemoveStudent удаляет студента и вычищает его идентификатор
// из списков всех курсов
func (s *RosterService) RemoveStudent(studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[studentID]; !ok {
		return fmt.Errorf("студент %s: %w", studentID, domain.ErrNotFound)
	}

	for _, course := range s.courses {
		course.Students = removeID(course.Students, studentID)
	}
	delete(s.students, studentID)
	return s.persist()
}

// UpdateStudent применяет частичное обновление к студенту,
// поля со значением nil остаются без изменений
func (s *RosterService) UpdateStudent(studentID string, update domain.StudentUpdate) error {
	if update.Age != nil {
		if err := domain.ValidateAge(*update.Age); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.students[studentID]
	if !ok {
		return fmt.Errorf("студент %s: %w", studentID, domain.ErrNotFound)
	}

	if update.Name != nil {
		student.Name = *update.Name
	}
	if update.Age != nil {
		student.Age = *update.Age
	}
	if update.Grade != nil {
		student.Grade = *update.Grade
	}
	if update.ClassName != nil {
		student.ClassName = *update.ClassName
	}
	return s.persist()
}

// AddCourse добавляет курс и возвращает присвоенный идентификатор
func (s *RosterService) AddCourse(name, teacher string, credit float64) (string, error) {
	if err := domain.ValidateCredit(credit); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	course := domain.NewCourse(generateCourseID(), name, teacher, credit)
	s.courses[course.ID] = &course
	return course.ID, s.persist()
}

// RemoveCourse удаляет курс, вычищает его идентификатор из списков всех
// студентов и удаляет выставленные по нему оценки
func (s *RosterService) RemoveCourse(courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[courseID]; !ok {
		return fmt.Errorf("курс %s: %w", courseID, domain.ErrNotFound)
	}

	for _, student := range s.students {
		student.Courses = removeID(student.Courses, courseID)
		delete(student.Scores, courseID)
	}
	delete(s.courses, courseID)
	return s.persist()
}

// UpdateCourse применяет частичное обновление к курсу,
// поля со значением nil остаются без изменений
func (s *RosterService) UpdateCourse(courseID string, update domain.CourseUpdate) error {
	if update.Credit != nil {
		if err := domain.ValidateCredit(*update.Credit); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[courseID]
	if !ok {
		return fmt.Errorf("курс %s: %w", courseID, domain.ErrNotFound)
	}

	if update.Name != nil {
		course.Name = *update.Name
	}
	if update.Teacher != nil {
		course.Teacher = *update.Teacher
	}
	if update.Credit != nil {
		course.Credit = *update.Credit
	}
	return s.persist()
}

// Enroll записывает студента на курс. Связь добавляется с обеих сторон,
// повторная запись на тот же курс отклоняется.
func (s *RosterService) Enroll(studentID, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, course, err := s.pair(studentID, courseID)
	if err != nil {
		return err
	}
	if student.EnrolledIn(courseID) {
		return fmt.Errorf("студент %s, курс %s: %w", studentID, courseID, domain.ErrAlreadyEnrolled)
	}

	student.Courses = append(student.Courses, courseID)
	course.Students = append(course.Students, studentID)
	return s.persist()
}

// DropCourse снимает студента с курса. Связь удаляется с обеих сторон
// вместе с выставленной оценкой.
func (s *RosterService) DropCourse(studentID, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, course, err := s.pair(studentID, courseID)
	if err != nil {
		return err
	}
	if !student.EnrolledIn(courseID) {
		return fmt.Errorf("студент %s, курс %s: %w", studentID, courseID, domain.ErrNotEnrolled)
	}

	student.Courses = removeID(student.Courses, courseID)
	delete(student.Scores, courseID)
	course.Students = removeID(course.Students, studentID)
	return s.persist()
}

// AddScore выставляет или обновляет оценку студента по курсу.
// Студент должен быть записан на курс, оценка — в диапазоне 0–100.
func (s *RosterService) AddScore(studentID, courseID string, score float64) error {
	if err := domain.ValidateScore(score); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	student, _, err := s.pair(studentID, courseID)
	if err != nil {
		return err
	}
	if !student.EnrolledIn(courseID) {
		return fmt.Errorf("студент %s, курс %s: %w", studentID, courseID, domain.ErrNotEnrolled)
	}

	student.Scores[courseID] = score
	return s.persist()
}

// StudentInfo возвращает данные студента вместе с развернутым списком его
// курсов и оценок. Список собирается заново при каждом вызове.
func (s *RosterService) StudentInfo(studentID string) (domain.StudentDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.students[studentID]
	if !ok {
		return domain.StudentDetails{}, fmt.Errorf("студент %s: %w", studentID, domain.ErrNotFound)
	}

	details := domain.StudentDetails{Student: student.Clone()}
	for _, courseID := range student.Courses {
		course, ok := s.courses[courseID]
		if !ok {
			continue
		}
		enrolled := domain.EnrolledCourse{
			CourseID: courseID,
			Name:     course.Name,
			Teacher:  course.Teacher,
			Credit:   course.Credit,
		}
		if score, graded := student.Scores[courseID]; graded {
			enrolled.Score = &score
		}
		details.CourseDetails = append(details.CourseDetails, enrolled)
	}
	return details, nil
}

// CourseInfo возвращает данные курса вместе с развернутым списком
// записанных студентов и их оценок
func (s *RosterService) CourseInfo(courseID string) (domain.CourseDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[courseID]
	if !ok {
		return domain.CourseDetails{}, fmt.Errorf("курс %s: %w", courseID, domain.ErrNotFound)
	}

	details := domain.CourseDetails{Course: course.Clone()}
	for _, studentID := range course.Students {
		student, ok := s.students[studentID]
		if !ok {
			continue
		}
		member := domain.CourseMember{
			StudentID: studentID,
			Name:      student.Name,
			Grade:     student.Grade,
			ClassName: student.ClassName,
		}
		if score, graded := student.Scores[courseID]; graded {
			member.Score = &score
		}
		details.Members = append(details.Members, member)
	}
	return details, nil
}

// Students возвращает снимок всех студентов, порядок не гарантируется
func (s *RosterService) Students() []domain.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Student, 0, len(s.students))
	for _, student := range s.students {
		result = append(result, student.Clone())
	}
	return result
}

// Courses возвращает снимок всех курсов, порядок не гарантируется
func (s *RosterService) Courses() []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Course, 0, len(s.courses))
	for _, course := range s.courses {
		result = append(result, course.Clone())
	}
	return result
}

// SearchStudents ищет студентов по подстроке без учета регистра
// в имени, идентификаторе, годе обучения и названии класса
func (s *RosterService) SearchStudents(keyword string) []domain.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyword = strings.ToLower(keyword)
	var results []domain.Student
	for _, student := range s.students {
		if containsFold(student.Name, keyword) ||
			containsFold(student.ID, keyword) ||
			containsFold(student.Grade, keyword) ||
			containsFold(student.ClassName, keyword) {
			results = append(results, student.Clone())
		}
	}
	return results
}

// SearchCourses ищет курсы по подстроке без учета регистра
// в названии, идентификаторе и имени преподавателя
func (s *RosterService) SearchCourses(keyword string) []domain.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyword = strings.ToLower(keyword)
	var results []domain.Course
	for _, course := range s.courses {
		if containsFold(course.Name, keyword) ||
			containsFold(course.ID, keyword) ||
			containsFold(course.Teacher, keyword) {
			results = append(results, course.Clone())
		}
	}
	return results
}

// ClassStatistics собирает сводку по классу: фильтр по точному совпадению
// года обучения и названия класса. Если подходящих студентов нет,
// возвращается ошибка вида domain.ErrNotFound.
func (s *RosterService) ClassStatistics(grade, className string) (domain.ClassStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.ClassStatistics{
		AgeDistribution:  map[int]int{},
		CourseEnrollment: map[string]int{},
		CourseNames:      map[string]string{},
	}

	for _, student := range s.students {
		if student.Grade != grade || student.ClassName != className {
			continue
		}
		stats.TotalStudents++
		stats.AgeDistribution[student.Age]++
		for _, courseID := range student.Courses {
			stats.CourseEnrollment[courseID]++
		}
	}

	if stats.TotalStudents == 0 {
		return domain.ClassStatistics{}, fmt.Errorf("класс %s %s: %w", grade, className, domain.ErrNotFound)
	}

	for courseID := range stats.CourseEnrollment {
		if course, ok := s.courses[courseID]; ok {
			stats.CourseNames[courseID] = course.Name
		}
	}
	return stats, nil
}

// ImportStudents добавляет студентов из внешнего источника одной операцией
// и возвращает присвоенные идентификаторы. Сохранение выполняется один раз
// после добавления всех записей.
func (s *RosterService) ImportStudents(records []domain.StudentRecord) ([]string, error) {
	for _, record := range records {
		if err := domain.ValidateAge(record.Age); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(records))
	for _, record := range records {
		student := domain.NewStudent(generateStudentID(), record.Name, record.Age, record.Grade, record.ClassName)
		s.students[student.ID] = &student
		ids = append(ids, student.ID)
	}
	return ids, s.persist()
}

// Save сохраняет текущее состояние вручную. Изменяющие операции
// сохраняют данные сами, отдельный вызов нужен только по требованию.
func (s *RosterService) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist()
}

// pair возвращает внутренние записи пары (студент, курс)
// или ошибку вида domain.ErrNotFound
func (s *RosterService) pair(studentID, courseID string) (*domain.Student, *domain.Course, error) {
	student, ok := s.students[studentID]
	if !ok {
		return nil, nil, fmt.Errorf("студент %s: %w", studentID, domain.ErrNotFound)
	}
	course, ok := s.courses[courseID]
	if !ok {
		return nil, nil, fmt.Errorf("курс %s: %w", courseID, domain.ErrNotFound)
	}
	return student, course, nil
}

// persist сохраняет полный снимок реестра через репозиторий.
// Вызывается с уже захваченной блокировкой.
func (s *RosterService) persist() error {
	roster := domain.Roster{
		Students: make([]domain.Student, 0, len(s.students)),
		Courses:  make([]domain.Course, 0, len(s.courses)),
	}
	for _, student := range s.students {
		roster.Students = append(roster.Students, student.Clone())
	}
	for _, course := range s.courses {
		roster.Courses = append(roster.Courses, course.Clone())
	}

	if err := s.repo.Save(roster); err != nil {
		return fmt.Errorf("не удалось сохранить данные: %w", err)
	}
	return nil
}

// generateStudentID формирует идентификатор студента: префикс "S",
// отметка времени создания и короткий случайный суффикс.
// Идентификаторы не переиспользуются после удаления.
func generateStudentID() string {
	return "S" + time.Now().Format("20060102150405") + uuid.NewString()[:4]
}

// generateCourseID формирует идентификатор курса аналогично студенческому,
// но с префиксом "C"
func generateCourseID() string {
	return "C" + time.Now().Format("20060102150405") + uuid.NewString()[:4]
}

// removeID удаляет первое вхождение идентификатора из списка
func removeID(ids []string, target string) []string {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// containsFold сообщает, содержит ли значение подстроку;
// keyword должен быть уже приведен к нижнему регистру
func containsFold(value, keyword string) bool {
	return strings.Contains(strings.ToLower(value), keyword)
}
