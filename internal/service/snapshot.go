package service

import (
	"PassVault/internal/model"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// snapshotRecord - формат записи внутри экспортируемого снимка.
type snapshotRecord struct {
	ID       int64  `json:"id,omitempty"`
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	Category string `json:"category"`
	Note     string `json:"note"`
}

// skippedEntry - элемент снимка, который не удалось разобрать.
type skippedEntry struct {
	index int
	err   error
}

func encodeSnapshot(records []model.Record) ([]byte, error) {
	out := make([]snapshotRecord, 0, len(records))
	for _, r := range records {
		out = append(out, snapshotRecord{
			ID:       r.ID,
			Title:    r.Title,
			Username: r.Username,
			Password: r.Secret,
			Category: r.Category,
			Note:     r.Note,
		})
	}
	return json.Marshal(out)
}

// decodeSnapshot разбирает снимок. Если верхний уровень не JSON-массив, возвращается
// ErrMalformedPayload. Отдельные некорректные элементы (не объект, нестроковые поля,
// пустой title) пропускаются и возвращаются во втором значении.
func decodeSnapshot(payload []byte) ([]model.Record, []skippedEntry, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil, fmt.Errorf("%w: top level is not an array", ErrMalformedPayload)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	records := make([]model.Record, 0, len(raw))
	var skipped []skippedEntry
	for i, item := range raw {
		rec, err := decodeEntry(item)
		if err != nil {
			skipped = append(skipped, skippedEntry{index: i, err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func decodeEntry(item json.RawMessage) (model.Record, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.Record{}, errors.New("entry is not an object")
	}
	// id не читается: во входящем снимке ему не доверяем
	var sr struct {
		Title    string `json:"title"`
		Username string `json:"username"`
		Password string `json:"password"`
		Category string `json:"category"`
		Note     string `json:"note"`
	}
	if err := json.Unmarshal(trimmed, &sr); err != nil {
		return model.Record{}, err
	}
	if strings.TrimSpace(sr.Title) == "" {
		return model.Record{}, errors.New("entry has no title")
	}
	return model.Record{
		Title:    sr.Title,
		Username: sr.Username,
		Secret:   sr.Password,
		Category: sr.Category,
		Note:     sr.Note,
	}, nil
}
