package domain

// Student содержит информацию о студенте и его связях с курсами.
// Courses хранит идентификаторы курсов, на которые записан студент,
// Scores — оценки по этим курсам (отсутствие ключа означает "не оценено").
type Student struct {
	ID        string             `json:"student_id"`
	Name      string             `json:"name"`
	Age       int                `json:"age"`
	Grade     string             `json:"grade"`
	ClassName string             `json:"class_name"`
	Courses   []string           `json:"courses"`
	Scores    map[string]float64 `json:"scores"`
}

// NewStudent создает нового студента без записей на курсы
func NewStudent(id, name string, age int, grade, className string) Student {
	return Student{
		ID:        id,
		Name:      name,
		Age:       age,
		Grade:     grade,
		ClassName: className,
		Courses:   []string{},
		Scores:    map[string]float64{},
	}
}

// EnrolledIn сообщает, записан ли студент на курс с указанным идентификатором
func (s Student) EnrolledIn(courseID string) bool {
	for _, id := range s.Courses {
		if id == courseID {
			return true
		}
	}
	return false
}

// Clone возвращает глубокую копию студента
func (s Student) Clone() Student {
	copied := s
	copied.Courses = make([]string, len(s.Courses))
	copy(copied.Courses, s.Courses)
	copied.Scores = make(map[string]float64, len(s.Scores))
	for courseID, score := range s.Scores {
		copied.Scores[courseID] = score
	}
	return copied
}

// Course содержит информацию о курсе.
// Students хранит идентификаторы записанных студентов.
type Course struct {
	ID       string   `json:"course_id"`
	Name     string   `json:"name"`
	Teacher  string   `json:"teacher"`
	Credit   float64  `json:"credit"`
	Students []string `json:"students"`
}

// NewCourse создает новый курс без записанных студентов
func NewCourse(id, name, teacher string, credit float64) Course {
	return Course{
		ID:       id,
		Name:     name,
		Teacher:  teacher,
		Credit:   credit,
		Students: []string{},
	}
}

// HasStudent сообщает, записан ли на курс студент с указанным идентификатором
func (c Course) HasStudent(studentID string) bool {
	for _, id := range c.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

// Clone возвращает глубокую копию курса
func (c Course) Clone() Course {
	copied := c
	copied.Students = make([]string, len(c.Students))
	copy(copied.Students, c.Students)
	return copied
}

// Roster представляет полное содержимое хранилища в сериализуемом виде.
// Этот же формат используется в файле данных.
type Roster struct {
	Students []Student `json:"students"`
	Courses  []Course  `json:"courses"`
}

// StudentUpdate описывает частичное обновление студента.
// Поле со значением nil остается без изменений.
type StudentUpdate struct {
	Name      *string
	Age       *int
	Grade     *string
	ClassName *string
}

// CourseUpdate описывает частичное обновление курса.
// Поле со значением nil остается без изменений.
type CourseUpdate struct {
	Name    *string
	Teacher *string
	Credit  *float64
}

// StudentRecord содержит данные студента для массового импорта,
// идентификатор присваивается хранилищем при добавлении
type StudentRecord struct {
	Name      string
	Age       int
	Grade     string
	ClassName string
}

// EnrolledCourse описывает курс студента вместе с его оценкой.
// Score равен nil, пока оценка не выставлена.
type EnrolledCourse struct {
	CourseID string
	Name     string
	Teacher  string
	Credit   float64
	Score    *float64
}

// StudentDetails содержит данные студента вместе с развернутым
// списком его курсов
type StudentDetails struct {
	Student
	CourseDetails []EnrolledCourse
}

// CourseMember описывает студента курса вместе с его оценкой по этому курсу
type CourseMember struct {
	StudentID string
	Name      string
	Grade     string
	ClassName string
	Score     *float64
}

// CourseDetails содержит данные курса вместе с развернутым
// списком записанных студентов
type CourseDetails struct {
	Course
	Members []CourseMember
}

// ClassStatistics содержит сводку по одному классу: количество студентов,
// распределение по возрастам и статистику записи на курсы.
// Гистограммы содержат только реально встретившиеся значения.
type ClassStatistics struct {
	TotalStudents    int
	AgeDistribution  map[int]int
	CourseEnrollment map[string]int
	CourseNames      map[string]string
}
