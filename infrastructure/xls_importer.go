package infrastructure

// Импорт студентов из XLS-файлов со списками классов, выгруженными из
// старого журнала. Ожидается таблица на первом листе: первая строка —
// заголовок, далее по строке на студента с колонками
// ФИО | возраст | год обучения | класс.
// Файлы читаются в кодировке windows-1251, строки с некорректными
// данными пропускаются.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Vaflel/student-manager/domain"
	"github.com/extrame/xls"
)

// Колонки таблицы со списком класса
const (
	xlsColName  = 0
	xlsColAge   = 1
	xlsColGrade = 2
	xlsColClass = 3
)

// XLSStudentImporter обрабатывает XLS-файл со списком студентов
type XLSStudentImporter struct {
	filePath string
}

// NewXLSStudentImporter создает новый экземпляр импортера
func NewXLSStudentImporter(filePath string) *XLSStudentImporter {
	return &XLSStudentImporter{
		filePath: filePath,
	}
}

// Parse читает файл и возвращает записи студентов для добавления в реестр.
// Возвращает ошибку, если файл не открывается или не содержит ни одной
// пригодной строки.
func (p *XLSStudentImporter) Parse() ([]domain.StudentRecord, error) {
	file, err := xls.Open(p.filePath, "windows-1251")
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл %s: %w", p.filePath, err)
	}

	sheet := file.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("в файле %s нет листов", p.filePath)
	}

	var records []domain.StudentRecord

	// Строка 0 — заголовок таблицы
	for rowIndex := 1; rowIndex <= int(sheet.MaxRow); rowIndex++ {
		row := sheet.Row(rowIndex)
		if row == nil {
			continue
		}

		name := strings.TrimSpace(row.Col(xlsColName))
		if name == "" {
			continue
		}

		age, err := strconv.Atoi(strings.TrimSpace(row.Col(xlsColAge)))
		if err != nil || age < 0 {
			continue
		}

		records = append(records, domain.StudentRecord{
			Name:      name,
			Age:       age,
			Grade:     strings.TrimSpace(row.Col(xlsColGrade)),
			ClassName: strings.TrimSpace(row.Col(xlsColClass)),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("в файле %s не найдено записей о студентах", p.filePath)
	}

	return records, nil
}
