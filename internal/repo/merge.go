package repo

import (
	"PassVault/internal/model"
	"context"
	"fmt"
	"strings"
)

type mergeOutcome int

const (
	outcomeImported mergeOutcome = iota
	outcomeDuplicate
	outcomeUpdated
)

// Merge добавляет импортированные записи с проверкой дубликатов.
// Блокировка держится на всё время пакета: проверка для записи N учитывает записи,
// уже вставленные этим же импортом. Ошибка отдельной записи не прерывает пакет.
func (s *RecordStore) Merge(ctx context.Context, records []model.Record, policy model.DuplicatePolicy) (model.MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res model.MergeResult
	if err := s.checkReady(); err != nil {
		return res, err
	}
	s.logger.Infow("Merge started", "records", len(records), "policy", policy)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			s.logger.Warnw("Merge interrupted", "error", err, "imported", res.Imported)
			return res, err
		}
		outcome, err := s.mergeOne(ctx, rec, policy)
		if err != nil {
			res.Failed++
			s.logger.Warnw("Merge: record skipped", "title", rec.Title, "error", err)
			continue
		}
		switch outcome {
		case outcomeImported:
			res.Imported++
		case outcomeDuplicate:
			res.Duplicates++
		case outcomeUpdated:
			res.Updated++
		}
	}
	s.logger.Infow("Merge completed",
		"imported", res.Imported,
		"duplicates", res.Duplicates,
		"updated", res.Updated,
		"failed", res.Failed,
	)
	return res, nil
}

func (s *RecordStore) mergeOne(ctx context.Context, rec model.Record, policy model.DuplicatePolicy) (mergeOutcome, error) {
	if strings.TrimSpace(rec.Title) == "" {
		return 0, fmt.Errorf("%w: empty title", ErrRecordInsertFailed)
	}
	db := s.db.WithContext(ctx)

	// дубликат - точное совпадение (title, username, secret); NULL сравнивается как ""
	var n int64
	err := db.Model(&model.Password{}).
		Where("COALESCE(title, '') = ? AND COALESCE(username, '') = ? AND COALESCE(password, '') = ?",
			rec.Title, rec.Username, rec.Secret).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRecordInsertFailed, err)
	}
	if n > 0 {
		return outcomeDuplicate, nil
	}

	if policy == model.PolicyOverwrite {
		var existing model.Password
		err := db.Where("COALESCE(title, '') = ? AND COALESCE(username, '') = ?", rec.Title, rec.Username).
			Order("id").Limit(1).Find(&existing).Error
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrRecordInsertFailed, err)
		}
		if existing.ID != 0 {
			err := db.Model(&model.Password{}).Where("id = ?", existing.ID).Updates(map[string]any{
				"password": rec.Secret,
				"category": model.NormalizeCategory(rec.Category),
				"note":     rec.Note,
			}).Error
			if err != nil {
				return 0, fmt.Errorf("%w: %w", ErrRecordInsertFailed, err)
			}
			return outcomeUpdated, nil
		}
	}

	if _, err := s.insert(ctx, rec); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRecordInsertFailed, err)
	}
	return outcomeImported, nil
}
