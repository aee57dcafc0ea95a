package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Vaflel/student-manager/domain"
	"github.com/Vaflel/student-manager/usecases"
)

// ReportExporter определяет интерфейс выгрузки отчетов в файлы
type ReportExporter interface {
	ExportCourseScores(details domain.CourseDetails) (string, error)
	ExportClassStatistics(grade, className string, stats domain.ClassStatistics) (string, error)
}

// Server обслуживает веб-интерфейс реестра
type Server struct {
	service  *usecases.RosterService
	exporter ReportExporter
	server   *http.Server
}

// NewServer создает новый веб-сервер поверх сервиса реестра
func NewServer(service *usecases.RosterService, exporter ReportExporter) *Server {
	return &Server{
		service:  service,
		exporter: exporter,
	}
}

// Start запускает веб-сервер на указанном порту
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{Addr: addr, Handler: s.routes()}
	log.Printf("Сервер запущен на http://localhost%s", addr)
	return s.server.ListenAndServe()
}

// routes регистрирует обработчики страниц
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/students", s.handleStudents)
	mux.HandleFunc("/students/view/", s.handleStudentView)
	mux.HandleFunc("/students/edit/", s.handleStudentEdit)
	mux.HandleFunc("/students/delete/", s.handleStudentDelete)
	mux.HandleFunc("/courses", s.handleCourses)
	mux.HandleFunc("/courses/view/", s.handleCourseView)
	mux.HandleFunc("/courses/edit/", s.handleCourseEdit)
	mux.HandleFunc("/courses/delete/", s.handleCourseDelete)
	mux.HandleFunc("/courses/export/", s.handleCourseExport)
	mux.HandleFunc("/enrollment", s.handleEnrollment)
	mux.HandleFunc("/scores", s.handleScores)
	mux.HandleFunc("/statistics", s.handleStatistics)
	mux.HandleFunc("/statistics/export", s.handleStatisticsExport)
	mux.HandleFunc("/static/", s.handleStatic)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := struct {
		StudentCount int
		CourseCount  int
	}{
		StudentCount: len(s.service.Students()),
		CourseCount:  len(s.service.Courses()),
	}
	renderTemplate(w, "index.html", data)
}

func (s *Server) handleStudents(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Неверные данные формы", http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		age, err := strconv.Atoi(r.FormValue("age"))
		if name == "" || err != nil {
			http.Error(w, "Поле name и корректный age обязательны", http.StatusBadRequest)
			return
		}

		if _, err := s.service.AddStudent(name, age, strings.TrimSpace(r.FormValue("grade")), strings.TrimSpace(r.FormValue("class_name"))); err != nil {
			s.renderStoreError(w, err, "Ошибка добавления студента")
			return
		}

		http.Redirect(w, r, "/students", http.StatusSeeOther)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var students []domain.Student
	if query != "" {
		students = s.service.SearchStudents(query)
	} else {
		students = s.service.Students()
	}
	sortStudents(students)

	renderTemplate(w, "students.html", struct {
		Students []domain.Student
		Query    string
	}{students, query})
}

func (s *Server) handleStudentView(w http.ResponseWriter, r *http.Request) {
	details, err := s.service.StudentInfo(filepath.Base(r.URL.Path))
	if err != nil {
		log.Printf("Ошибка получения студента: %v", err)
		http.Error(w, "Студент не найден", http.StatusNotFound)
		return
	}
	renderTemplate(w, "student_view.html", prepareStudentView(details))
}

func (s *Server) handleStudentEdit(w http.ResponseWriter, r *http.Request) {
	studentID := filepath.Base(r.URL.Path)

	if r.Method == http.MethodGet {
		details, err := s.service.StudentInfo(studentID)
		if err != nil {
			log.Printf("Ошибка получения студента: %v", err)
			http.Error(w, "Студент не найден", http.StatusNotFound)
			return
		}
		renderTemplate(w, "student_edit.html", details.Student)
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Ошибка обработки формы", http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		age, err := strconv.Atoi(r.FormValue("age"))
		if name == "" || err != nil {
			http.Error(w, "Поле name и корректный age обязательны", http.StatusBadRequest)
			return
		}
		grade := strings.TrimSpace(r.FormValue("grade"))
		className := strings.TrimSpace(r.FormValue("class_name"))

		update := domain.StudentUpdate{
			Name:      &name,
			Age:       &age,
			Grade:     &grade,
			ClassName: &className,
		}
		if err := s.service.UpdateStudent(studentID, update); err != nil {
			s.renderStoreError(w, err, "Ошибка обновления студента")
			return
		}

		http.Redirect(w, r, "/students", http.StatusSeeOther)
		return
	}

	http.Error(w, "Метод не разрешен", http.StatusMethodNotAllowed)
}

func (s *Server) handleStudentDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Метод не разрешен", http.StatusMethodNotAllowed)
		return
	}

	if err := s.service.RemoveStudent(filepath.Base(r.URL.Path)); err != nil {
		s.renderStoreError(w, err, "Ошибка удаления студента")
		return
	}
	http.Redirect(w, r, "/students", http.StatusSeeOther)
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Неверные данные формы", http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		credit, err := strconv.ParseFloat(r.FormValue("credit"), 64)
		if name == "" || err != nil {
			http.Error(w, "Поле name и корректный credit обязательны", http.StatusBadRequest)
			return
		}

		if _, err := s.service.AddCourse(name, strings.TrimSpace(r.FormValue("teacher")), credit); err != nil {
			s.renderStoreError(w, err, "Ошибка добавления курса")
			return
		}

		http.Redirect(w, r, "/courses", http.StatusSeeOther)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var courses []domain.Course
	if query != "" {
		courses = s.service.SearchCourses(query)
	} else {
		courses = s.service.Courses()
	}
	sortCourses(courses)

	renderTemplate(w, "courses.html", struct {
		Courses []domain.Course
		Query   string
	}{courses, query})
}

func (s *Server) handleCourseView(w http.ResponseWriter, r *http.Request) {
	details, err := s.service.CourseInfo(filepath.Base(r.URL.Path))
	if err != nil {
		log.Printf("Ошибка получения курса: %v", err)
		http.Error(w, "Курс не найден", http.StatusNotFound)
		return
	}
	renderTemplate(w, "course_view.html", prepareCourseView(details))
}

func (s *Server) handleCourseEdit(w http.ResponseWriter, r *http.Request) {
	courseID := filepath.Base(r.URL.Path)

	if r.Method == http.MethodGet {
		details, err := s.service.CourseInfo(courseID)
		if err != nil {
			log.Printf("Ошибка получения курса: %v", err)
			http.Error(w, "Курс не найден", http.StatusNotFound)
			return
		}
		renderTemplate(w, "course_edit.html", details.Course)
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Ошибка обработки формы", http.StatusBadRequest)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		credit, err := strconv.ParseFloat(r.FormValue("credit"), 64)
		if name == "" || err != nil {
			http.Error(w, "Поле name и корректный credit обязательны", http.StatusBadRequest)
			return
		}
		teacher := strings.TrimSpace(r.FormValue("teacher"))

		update := domain.CourseUpdate{
			Name:    &name,
			Teacher: &teacher,
			Credit:  &credit,
		}
		if err := s.service.UpdateCourse(courseID, update); err != nil {
			s.renderStoreError(w, err, "Ошибка обновления курса")
			return
		}

		http.Redirect(w, r, "/courses", http.StatusSeeOther)
		return
	}

	http.Error(w, "Метод не разрешен", http.StatusMethodNotAllowed)
}

func (s *Server) handleCourseDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Метод не разрешен", http.StatusMethodNotAllowed)
		return
	}

	if err := s.service.RemoveCourse(filepath.Base(r.URL.Path)); err != nil {
		s.renderStoreError(w, err, "Ошибка удаления курса")
		return
	}
	http.Redirect(w, r, "/courses", http.StatusSeeOther)
}

func (s *Server) handleCourseExport(w http.ResponseWriter, r *http.Request) {
	details, err := s.service.CourseInfo(filepath.Base(r.URL.Path))
	if err != nil {
		http.Error(w, "Курс не найден", http.StatusNotFound)
		return
	}

	path, err := s.exporter.ExportCourseScores(details)
	if err != nil {
		log.Printf("Ошибка выгрузки ведомости: %v", err)
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleEnrollment(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Неверные данные формы", http.StatusBadRequest)
			return
		}

		studentID := r.FormValue("student_id")
		courseID := r.FormValue("course_id")
		if studentID == "" || courseID == "" {
			http.Error(w, "Нужно выбрать студента и курс", http.StatusBadRequest)
			return
		}

		var err error
		switch r.FormValue("action") {
		case "enroll":
			err = s.service.Enroll(studentID, courseID)
		case "drop":
			err = s.service.DropCourse(studentID, courseID)
		default:
			http.Error(w, "Неизвестное действие", http.StatusBadRequest)
			return
		}
		if err != nil {
			s.renderStoreError(w, err, "Ошибка изменения записи на курс")
			return
		}

		http.Redirect(w, r, "/enrollment", http.StatusSeeOther)
		return
	}

	students := s.service.Students()
	courses := s.service.Courses()
	sortStudents(students)
	sortCourses(courses)

	renderTemplate(w, "enrollment.html", struct {
		Students []domain.Student
		Courses  []domain.Course
	}{students, courses})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Неверные данные формы", http.StatusBadRequest)
			return
		}

		studentID := r.FormValue("student_id")
		courseID := r.FormValue("course_id")
		score, err := strconv.ParseFloat(r.FormValue("score"), 64)
		if studentID == "" || courseID == "" || err != nil {
			http.Error(w, "Нужно выбрать студента, курс и указать числовую оценку", http.StatusBadRequest)
			return
		}

		if err := s.service.AddScore(studentID, courseID, score); err != nil {
			s.renderStoreError(w, err, "Ошибка выставления оценки")
			return
		}

		http.Redirect(w, r, "/scores", http.StatusSeeOther)
		return
	}

	students := s.service.Students()
	courses := s.service.Courses()
	sortStudents(students)
	sortCourses(courses)

	// Таблица текущих оценок по всем записям на курсы
	var rows []struct {
		StudentName string
		CourseName  string
		Score       string
	}
	for _, student := range students {
		details, err := s.service.StudentInfo(student.ID)
		if err != nil {
			continue
		}
		for _, course := range details.CourseDetails {
			rows = append(rows, struct {
				StudentName string
				CourseName  string
				Score       string
			}{student.Name, course.Name, formatScore(course.Score)})
		}
	}

	renderTemplate(w, "scores.html", struct {
		Students []domain.Student
		Courses  []domain.Course
		Rows     []struct {
			StudentName string
			CourseName  string
			Score       string
		}
	}{students, courses, rows})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	grade := strings.TrimSpace(r.URL.Query().Get("grade"))
	className := strings.TrimSpace(r.URL.Query().Get("class_name"))

	data := StatisticsViewData{Grade: grade, ClassName: className}
	if grade != "" && className != "" {
		stats, err := s.service.ClassStatistics(grade, className)
		if err == nil {
			data = prepareStatisticsView(grade, className, stats)
		} else if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("Ошибка получения сводки: %v", err)
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}
	}
	renderTemplate(w, "statistics.html", data)
}

func (s *Server) handleStatisticsExport(w http.ResponseWriter, r *http.Request) {
	grade := strings.TrimSpace(r.URL.Query().Get("grade"))
	className := strings.TrimSpace(r.URL.Query().Get("class_name"))

	stats, err := s.service.ClassStatistics(grade, className)
	if err != nil {
		http.Error(w, "Класс не найден", http.StatusNotFound)
		return
	}

	path, err := s.exporter.ExportClassStatistics(grade, className, stats)
	if err != nil {
		log.Printf("Ошибка выгрузки сводки: %v", err)
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	filePath := "static/" + strings.TrimPrefix(r.URL.Path, "/static/")
	content, err := templates.ReadFile(filePath)
	if err != nil {
		http.Error(w, "Файл не найден", http.StatusNotFound)
		return
	}

	if strings.HasSuffix(r.URL.Path, ".css") {
		w.Header().Set("Content-Type", "text/css")
	} else if strings.HasSuffix(r.URL.Path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}
	w.Write(content)
}

// renderStoreError переводит ошибку хранилища в подходящий HTTP-статус
func (s *Server) renderStoreError(w http.ResponseWriter, err error, message string) {
	log.Printf("%s: %v", message, err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, message, http.StatusNotFound)
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAlreadyEnrolled),
		errors.Is(err, domain.ErrNotEnrolled):
		http.Error(w, message, http.StatusBadRequest)
	default:
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
	}
}
