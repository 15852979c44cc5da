package model

import "fmt"

// DuplicatePolicy определяет, как импорт обходится с уже существующими записями.
type DuplicatePolicy string

const (
	// PolicySkip пропускает запись, если (title, username, secret) уже есть в хранилище.
	PolicySkip DuplicatePolicy = "skip"
	// PolicyOverwrite дополнительно обновляет запись с тем же (title, username), но другим секретом.
	PolicyOverwrite DuplicatePolicy = "overwrite"
)

// ParseDuplicatePolicy разбирает имя политики; пустая строка означает PolicySkip.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (expected: skip|overwrite)", s)
	}
}

// MergeResult - итог слияния импортированных записей с хранилищем.
type MergeResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Updated    int `json:"updated"`
	Failed     int `json:"failed"`
}
