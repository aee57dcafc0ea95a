package infrastructure

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"github.com/Vaflel/student-manager/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXExporter выгружает отчеты реестра в файлы формата xlsx
type XLSXExporter struct {
	dir string
}

// NewXLSXExporter создает экспортер, пишущий файлы в указанный каталог
func NewXLSXExporter(dir string) *XLSXExporter {
	return &XLSXExporter{
		dir: dir,
	}
}

// ExportCourseScores выгружает ведомость курса: список записанных студентов
// с оценками. Возвращает путь к созданному файлу.
func (e *XLSXExporter) ExportCourseScores(details domain.CourseDetails) (string, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Ошибка закрытия файла отчета: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Курс")
	f.SetCellValue(sheet, "B1", details.Name)
	f.SetCellValue(sheet, "A2", "Преподаватель")
	f.SetCellValue(sheet, "B2", details.Teacher)
	f.SetCellValue(sheet, "A3", "Зачетные единицы")
	f.SetCellValue(sheet, "B3", details.Credit)

	header := []string{"Студент", "Год обучения", "Класс", "Оценка"}
	for i, title := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheet, cell, title)
	}

	for i, member := range details.Members {
		row := 6 + i
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), member.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), member.Grade)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), member.ClassName)
		if member.Score != nil {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), *member.Score)
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "не оценено")
		}
	}

	path := filepath.Join(e.dir, fmt.Sprintf("scores_%s.xlsx", details.ID))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("не удалось сохранить ведомость: %w", err)
	}
	return path, nil
}

// ExportClassStatistics выгружает сводку по классу: общее количество
// студентов, распределение по возрастам и статистику записи на курсы.
// Возвращает путь к созданному файлу.
func (e *XLSXExporter) ExportClassStatistics(grade, className string, stats domain.ClassStatistics) (string, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Ошибка закрытия файла отчета: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Класс")
	f.SetCellValue(sheet, "B1", grade+" "+className)
	f.SetCellValue(sheet, "A2", "Всего студентов")
	f.SetCellValue(sheet, "B2", stats.TotalStudents)

	row := 4
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Возраст")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Студентов")
	ages := make([]int, 0, len(stats.AgeDistribution))
	for age := range stats.AgeDistribution {
		ages = append(ages, age)
	}
	sort.Ints(ages)
	for _, age := range ages {
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), age)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), stats.AgeDistribution[age])
	}

	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Курс")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Записано")
	courseIDs := make([]string, 0, len(stats.CourseEnrollment))
	for courseID := range stats.CourseEnrollment {
		courseIDs = append(courseIDs, courseID)
	}
	sort.Strings(courseIDs)
	for _, courseID := range courseIDs {
		row++
		name, ok := stats.CourseNames[courseID]
		if !ok {
			name = courseID
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), stats.CourseEnrollment[courseID])
	}

	path := filepath.Join(e.dir, fmt.Sprintf("class_%s_%s.xlsx", grade, className))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("не удалось сохранить сводку: %w", err)
	}
	return path, nil
}
