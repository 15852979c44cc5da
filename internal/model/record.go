package model

import "strings"

// DefaultCategory - зарезервированная категория для записей без категории.
const DefaultCategory = "默认"

// Record - запись хранилища (учётные данные) в том виде, в каком её видит приложение.
type Record struct {
	ID       int64
	Title    string
	Username string
	Secret   string
	Category string
	Note     string
}

// Password - строка таблицы passwords. Текстовые колонки допускают NULL:
// так таблица совместима с неполными строками (например, заглушками категорий).
type Password struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	Title    *string `gorm:"index"`
	Username *string
	Password *string
	Category *string `gorm:"index"`
	Note     *string
}

// TableName фиксирует имя таблицы.
func (Password) TableName() string { return "passwords" }

// NormalizeCategory возвращает категорию для записи в БД: пробелы по краям отбрасываются,
// пустое значение заменяется на DefaultCategory.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return category
}

// NewPassword собирает строку таблицы из записи. Категория нормализуется, ID не переносится.
func NewPassword(r Record) Password {
	category := NormalizeCategory(r.Category)
	return Password{
		Title:    &r.Title,
		Username: &r.Username,
		Password: &r.Secret,
		Category: &category,
		Note:     &r.Note,
	}
}

// Record преобразует строку в запись, подставляя безопасные значения вместо NULL.
func (p Password) Record() Record {
	return Record{
		ID:       p.ID,
		Title:    deref(p.Title),
		Username: deref(p.Username),
		Secret:   deref(p.Password),
		Category: NormalizeCategory(deref(p.Category)),
		Note:     deref(p.Note),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
