package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Vaflel/student-manager/domain"
	"github.com/Vaflel/student-manager/usecases"
)

type memoryRepository struct {
	roster domain.Roster
}

func (r *memoryRepository) Load() (domain.Roster, error)    { return r.roster, nil }
func (r *memoryRepository) Save(roster domain.Roster) error { r.roster = roster; return nil }

type stubExporter struct{}

func (stubExporter) ExportCourseScores(domain.CourseDetails) (string, error) {
	return "scores.xlsx", nil
}

func (stubExporter) ExportClassStatistics(string, string, domain.ClassStatistics) (string, error) {
	return "class.xlsx", nil
}

func newTestServer(t *testing.T) (*Server, *usecases.RosterService) {
	t.Helper()
	service, err := usecases.NewRosterService(&memoryRepository{})
	if err != nil {
		t.Fatalf("NewRosterService: %v", err)
	}
	return NewServer(service, stubExporter{}), service
}

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestStudentsPageListsStudents(t *testing.T) {
	server, service := newTestServer(t)
	if _, err := service.AddStudent("Иванов Иван", 16, "9", "А"); err != nil {
		t.Fatalf("AddStudent: %v", err)
	}

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Иванов Иван") {
		t.Fatalf("студент не отображается на странице")
	}
}

func TestAddStudentForm(t *testing.T) {
	server, service := newTestServer(t)

	rec := postForm(t, server.routes(), "/students", url.Values{
		"name":       {"Петров"},
		"age":        {"17"},
		"grade":      {"10"},
		"class_name": {"Б"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("ожидался редирект 303, получен %d: %s", rec.Code, rec.Body.String())
	}
	if len(service.Students()) != 1 {
		t.Fatalf("студент не добавлен")
	}
}

func TestAddStudentFormRejectsBadAge(t *testing.T) {
	server, service := newTestServer(t)

	rec := postForm(t, server.routes(), "/students", url.Values{
		"name": {"Петров"},
		"age":  {"семнадцать"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ожидался 400, получен %d", rec.Code)
	}
	if len(service.Students()) != 0 {
		t.Fatalf("студент не должен был добавиться")
	}
}

func TestStudentViewUnknown(t *testing.T) {
	server, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students/view/S000", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("ожидался 404, получен %d", rec.Code)
	}
}

func TestEnrollmentForm(t *testing.T) {
	server, service := newTestServer(t)

	studentID, _ := service.AddStudent("Петров", 17, "10", "Б")
	courseID, _ := service.AddCourse("Алгебра", "Сидорова", 3.0)

	form := url.Values{
		"action":     {"enroll"},
		"student_id": {studentID},
		"course_id":  {courseID},
	}
	if rec := postForm(t, server.routes(), "/enrollment", form); rec.Code != http.StatusSeeOther {
		t.Fatalf("ожидался редирект 303, получен %d", rec.Code)
	}

	// Повторная запись отклоняется
	if rec := postForm(t, server.routes(), "/enrollment", form); rec.Code != http.StatusBadRequest {
		t.Fatalf("ожидался 400 для повторной записи, получен %d", rec.Code)
	}

	details, err := service.StudentInfo(studentID)
	if err != nil {
		t.Fatalf("StudentInfo: %v", err)
	}
	if len(details.Courses) != 1 {
		t.Fatalf("запись должна быть ровно одна: %v", details.Courses)
	}
}

func TestStatisticsPage(t *testing.T) {
	server, service := newTestServer(t)

	if _, err := service.AddStudent("张三", 18, "高三", "1班"); err != nil {
		t.Fatalf("AddStudent: %v", err)
	}

	rec := httptest.NewRecorder()
	target := "/statistics?grade=" + url.QueryEscape("高三") + "&class_name=" + url.QueryEscape("1班")
	server.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Всего студентов: 1") {
		t.Fatalf("сводка не отображается: %s", rec.Body.String())
	}
}
