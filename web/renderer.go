// Package web предоставляет веб-интерфейс реестра: списки студентов и курсов,
// формы добавления и редактирования, запись на курсы, выставление оценок
// и сводку по классам
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/Vaflel/student-manager/domain"
)

//go:embed templates/*.html static/*
var templates embed.FS

// CourseRow описывает курс студента для отображения в таблице
type CourseRow struct {
	CourseID string // Идентификатор курса
	Name     string // Название курса
	Teacher  string // Преподаватель
	Credit   float64
	Score    string // Оценка или отметка "не оценено"
}

// MemberRow описывает студента курса для отображения в ведомости
type MemberRow struct {
	StudentID string
	Name      string
	Grade     string
	ClassName string
	Score     string
}

// StudentViewData содержит данные для страницы студента
type StudentViewData struct {
	Student domain.Student
	Courses []CourseRow
}

// CourseViewData содержит данные для страницы курса
type CourseViewData struct {
	Course  domain.Course
	Members []MemberRow
}

// StatisticsViewData содержит данные для страницы сводки по классу
type StatisticsViewData struct {
	Grade      string
	ClassName  string
	Found      bool
	Total      int
	Ages       []AgeRow
	Enrollment []EnrollmentRow
}

// AgeRow описывает одну строку распределения по возрастам
type AgeRow struct {
	Age   int
	Count int
}

// EnrollmentRow описывает одну строку статистики записи на курсы
type EnrollmentRow struct {
	CourseName string
	Count      int
}

// formatScore возвращает текстовое представление оценки,
// nil означает "не оценено"
func formatScore(score *float64) string {
	if score == nil {
		return "не оценено"
	}
	return fmt.Sprintf("%.1f", *score)
}

// renderTemplate загружает шаблон из встроенных файлов и отображает его
func renderTemplate(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.ParseFS(templates, "templates/"+name)
	if err != nil {
		log.Printf("Ошибка загрузки шаблона %s: %v", name, err)
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("Ошибка рендеринга шаблона %s: %v", name, err)
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
	}
}

// sortStudents упорядочивает студентов для отображения:
// по году обучения, классу, затем по имени
func sortStudents(students []domain.Student) {
	sort.Slice(students, func(i, j int) bool {
		if students[i].Grade != students[j].Grade {
			return students[i].Grade < students[j].Grade
		}
		if students[i].ClassName != students[j].ClassName {
			return students[i].ClassName < students[j].ClassName
		}
		return strings.ToLower(students[i].Name) < strings.ToLower(students[j].Name)
	})
}

// sortCourses упорядочивает курсы для отображения по названию
func sortCourses(courses []domain.Course) {
	sort.Slice(courses, func(i, j int) bool {
		return strings.ToLower(courses[i].Name) < strings.ToLower(courses[j].Name)
	})
}

// prepareStudentView собирает данные страницы студента из развернутой записи
func prepareStudentView(details domain.StudentDetails) StudentViewData {
	data := StudentViewData{Student: details.Student}
	for _, course := range details.CourseDetails {
		data.Courses = append(data.Courses, CourseRow{
			CourseID: course.CourseID,
			Name:     course.Name,
			Teacher:  course.Teacher,
			Credit:   course.Credit,
			Score:    formatScore(course.Score),
		})
	}
	return data
}

// prepareCourseView собирает данные страницы курса из развернутой записи
func prepareCourseView(details domain.CourseDetails) CourseViewData {
	data := CourseViewData{Course: details.Course}
	for _, member := range details.Members {
		data.Members = append(data.Members, MemberRow{
			StudentID: member.StudentID,
			Name:      member.Name,
			Grade:     member.Grade,
			ClassName: member.ClassName,
			Score:     formatScore(member.Score),
		})
	}
	return data
}

// prepareStatisticsView собирает данные страницы сводки,
// гистограммы упорядочиваются для стабильного отображения
func prepareStatisticsView(grade, className string, stats domain.ClassStatistics) StatisticsViewData {
	data := StatisticsViewData{
		Grade:     grade,
		ClassName: className,
		Found:     true,
		Total:     stats.TotalStudents,
	}

	for age, count := range stats.AgeDistribution {
		data.Ages = append(data.Ages, AgeRow{Age: age, Count: count})
	}
	sort.Slice(data.Ages, func(i, j int) bool { return data.Ages[i].Age < data.Ages[j].Age })

	for courseID, count := range stats.CourseEnrollment {
		name, ok := stats.CourseNames[courseID]
		if !ok {
			name = courseID
		}
		data.Enrollment = append(data.Enrollment, EnrollmentRow{CourseName: name, Count: count})
	}
	sort.Slice(data.Enrollment, func(i, j int) bool {
		return data.Enrollment[i].CourseName < data.Enrollment[j].CourseName
	})

	return data
}
