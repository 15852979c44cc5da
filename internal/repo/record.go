package repo

import (
	"PassVault/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound - записи с запрошенным id нет.
	ErrNotFound = errors.New("record not found")
	// ErrStorageUnavailable - хранилище не удалось открыть или подготовить.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrRecordInsertFailed - одну импортируемую запись не удалось записать.
	ErrRecordInsertFailed = errors.New("record insert failed")
)

// listedRows - условие видимости строки в списках: строки без title (или из одних пробелов)
// считаются неполными, как и при импорте.
const listedRows = "title IS NOT NULL AND TRIM(title) <> ''"

// RecordRepository - контракт хранилища записей для сервисов и обработчиков.
type RecordRepository interface {
	Create(ctx context.Context, rec model.Record) (int64, error)
	GetAll(ctx context.Context) ([]model.Record, error)
	GetByID(ctx context.Context, id int64) (model.Record, error)
	Update(ctx context.Context, rec model.Record) error
	Delete(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	GetByCategory(ctx context.Context, category string) ([]model.Record, error)
	Search(ctx context.Context, query string) ([]model.Record, error)
	Merge(ctx context.Context, records []model.Record, policy model.DuplicatePolicy) (model.MergeResult, error)
}

// RecordStore - реализация RecordRepository поверх gorm.
// Изменяющие операции выполняются под эксклюзивной блокировкой, чтения - под разделяемой.
type RecordStore struct {
	mu     sync.RWMutex
	db     *gorm.DB
	logger *zap.SugaredLogger
	ready  bool
}

var _ RecordRepository = (*RecordStore)(nil)

// NewRecordStore создаёт хранилище. Перед использованием нужно вызвать Init.
func NewRecordStore(db *gorm.DB, logger *zap.SugaredLogger) *RecordStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RecordStore{db: db, logger: logger}
}

// Init создаёт таблицу passwords, если её нет. Повторный вызов после успеха ничего не делает.
func (s *RecordStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		s.logger.Debugw("Record store already initialized")
		return nil
	}
	if s.db == nil {
		return fmt.Errorf("%w: no database handle", ErrStorageUnavailable)
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&model.Password{}); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrStorageUnavailable, err)
	}
	s.ready = true
	s.logger.Infow("Record store initialized")
	return nil
}

func (s *RecordStore) checkReady() error {
	if !s.ready {
		return fmt.Errorf("%w: store is not initialized", ErrStorageUnavailable)
	}
	return nil
}

// Create сохраняет новую запись и возвращает присвоенный id.
func (s *RecordStore) Create(ctx context.Context, rec model.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return 0, err
	}
	return s.insert(ctx, rec)
}

func (s *RecordStore) insert(ctx context.Context, rec model.Record) (int64, error) {
	row := model.NewPassword(rec)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// GetAll возвращает все записи с непустым title в порядке id.
func (s *RecordStore) GetAll(ctx context.Context) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	return s.listWhere(s.db.WithContext(ctx))
}

func (s *RecordStore) listWhere(q *gorm.DB) ([]model.Record, error) {
	var rows []model.Password
	if err := q.Where(listedRows).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	res := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.Record())
	}
	return res, nil
}

// GetByID возвращает запись по id или ErrNotFound.
func (s *RecordStore) GetByID(ctx context.Context, id int64) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkReady(); err != nil {
		return model.Record{}, err
	}
	var row model.Password
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Record{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return model.Record{}, err
	}
	return row.Record(), nil
}

// Update заменяет все поля записи, кроме id.
// Отсутствующий id - не ошибка: обновление просто ничего не меняет.
func (s *RecordStore) Update(ctx context.Context, rec model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}
	tx := s.db.WithContext(ctx).Model(&model.Password{}).Where("id = ?", rec.ID).Updates(map[string]any{
		"title":    rec.Title,
		"username": rec.Username,
		"password": rec.Secret,
		"category": model.NormalizeCategory(rec.Category),
		"note":     rec.Note,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		s.logger.Debugw("Update: record not found, nothing changed", "id", rec.ID)
	}
	return nil
}

// Delete удаляет запись; отсутствие записи не считается ошибкой.
func (s *RecordStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Password{}).Error
}

// ListCategories возвращает DefaultCategory, затем остальные категории без повторов.
func (s *RecordStore) ListCategories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	var cats []string
	err := s.db.WithContext(ctx).Model(&model.Password{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &cats).Error
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(cats)+1)
	res = append(res, model.DefaultCategory)
	for _, c := range cats {
		if c == model.DefaultCategory {
			continue
		}
		res = append(res, c)
	}
	return res, nil
}

// AddCategory делает категорию видимой в ListCategories до появления в ней записей:
// в таблицу добавляется строка без title, которую списки и экспорт не показывают.
func (s *RecordStore) AddCategory(ctx context.Context, name string) error {
	name = model.NormalizeCategory(name)
	if name == model.DefaultCategory {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReady(); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&model.Password{}).Where("category = ?", name).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.Create(&model.Password{Category: &name}).Error
}

// GetByCategory возвращает записи категории. Пустой аргумент означает DefaultCategory;
// строки с NULL или пустой категорией относятся к DefaultCategory.
func (s *RecordStore) GetByCategory(ctx context.Context, category string) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	category = model.NormalizeCategory(category)
	q := s.db.WithContext(ctx)
	if category == model.DefaultCategory {
		q = q.Where("(category = ? OR category IS NULL OR category = '')", category)
	} else {
		q = q.Where("category = ?", category)
	}
	return s.listWhere(q)
}

// Search ищет подстроку в title без учёта регистра. Пустой запрос возвращает все записи.
func (s *RecordStore) Search(ctx context.Context, query string) ([]model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	all, err := s.listWhere(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return all, nil
	}
	res := make([]model.Record, 0, len(all))
	for _, rec := range all {
		if strings.Contains(strings.ToLower(rec.Title), needle) {
			res = append(res, rec)
		}
	}
	return res, nil
}
