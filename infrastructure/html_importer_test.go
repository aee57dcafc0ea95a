package infrastructure

import (
	"strings"
	"testing"
)

const studentsPage = `
<html><body>
<h1>Список студентов</h1>
<table>
  <tr><th>ФИО</th><th>Возраст</th><th>Год</th><th>Класс</th></tr>
  <tr><td>Иванов Иван</td><td>16</td><td>9</td><td>А</td></tr>
  <tr><td>Петров Петр</td><td>17</td><td>10</td><td>Б</td></tr>
  <tr><td></td><td>15</td><td>8</td><td>А</td></tr>
  <tr><td>Без возраста</td><td>нет</td><td>8</td><td>А</td></tr>
</table>
</body></html>`

func TestParseStudentTable(t *testing.T) {
	records, err := parseStudentTable(strings.NewReader(studentsPage))
	if err != nil {
		t.Fatalf("parseStudentTable: %v", err)
	}

	// Строка заголовка, пустое имя и нечисловой возраст пропускаются
	if len(records) != 2 {
		t.Fatalf("ожидалось 2 записи, получено %d: %+v", len(records), records)
	}
	if records[0].Name != "Иванов Иван" || records[0].Age != 16 || records[0].Grade != "9" || records[0].ClassName != "А" {
		t.Fatalf("первая запись не совпала: %+v", records[0])
	}
	if records[1].Name != "Петров Петр" || records[1].Age != 17 {
		t.Fatalf("вторая запись не совпала: %+v", records[1])
	}
}

func TestParseStudentTableEmpty(t *testing.T) {
	if _, err := parseStudentTable(strings.NewReader("<html><body><p>пусто</p></body></html>")); err == nil {
		t.Fatalf("ожидалась ошибка для документа без таблицы")
	}
}
