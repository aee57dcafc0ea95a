package infrastructure

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Vaflel/student-manager/domain"
)

// HTMLStudentImporter обрабатывает HTML-выгрузку старого журнала:
// страницу с таблицей, где каждая строка содержит ячейки
// ФИО | возраст | год обучения | класс. Строки заголовков (th)
// и строки с некорректными данными пропускаются.
type HTMLStudentImporter struct {
	filePath string
}

// NewHTMLStudentImporter создает новый экземпляр импортера
func NewHTMLStudentImporter(filePath string) *HTMLStudentImporter {
	return &HTMLStudentImporter{
		filePath: filePath,
	}
}

// Parse читает файл и возвращает записи студентов для добавления в реестр
func (p *HTMLStudentImporter) Parse() ([]domain.StudentRecord, error) {
	file, err := os.Open(p.filePath)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл %s: %w", p.filePath, err)
	}
	defer file.Close()

	records, err := parseStudentTable(file)
	if err != nil {
		return nil, fmt.Errorf("не удалось обработать файл %s: %w", p.filePath, err)
	}
	return records, nil
}

// parseStudentTable извлекает записи студентов из первой таблицы документа
func parseStudentTable(r io.Reader) ([]domain.StudentRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать HTML: %w", err)
	}

	var records []domain.StudentRecord

	doc.Find("table").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		name := strings.TrimSpace(cells.Eq(0).Text())
		if name == "" {
			return
		}

		age, err := strconv.Atoi(strings.TrimSpace(cells.Eq(1).Text()))
		if err != nil || age < 0 {
			return
		}

		records = append(records, domain.StudentRecord{
			Name:      name,
			Age:       age,
			Grade:     strings.TrimSpace(cells.Eq(2).Text()),
			ClassName: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("в документе не найдено записей о студентах")
	}

	return records, nil
}
