package service

import (
	"PassVault/internal/model"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrMalformedPayload - расшифрованный снимок не является JSON-массивом записей.
	ErrMalformedPayload = errors.New("malformed backup payload")
	// ErrPickCancelled - пользователь отказался выбирать файл резервной копии.
	ErrPickCancelled = errors.New("blob selection cancelled")
)

// RecordStore - то, что движку резервного копирования нужно от хранилища записей.
type RecordStore interface {
	GetAll(ctx context.Context) ([]model.Record, error)
	Merge(ctx context.Context, records []model.Record, policy model.DuplicatePolicy) (model.MergeResult, error)
}

// Encrypter превращает снимок в токен и обратно.
type Encrypter interface {
	Encrypt(plain []byte) (string, error)
	Decrypt(token string) ([]byte, error)
}

// BlobWriter сохраняет именованный блоб и возвращает его расположение.
type BlobWriter interface {
	WriteBlob(ctx context.Context, name string, data []byte) (string, error)
}

// BlobPicker возвращает содержимое выбранного пользователем блоба или ErrPickCancelled.
type BlobPicker interface {
	PickBlob(ctx context.Context) ([]byte, error)
}

// State - фаза текущей (или последней) операции движка.
type State int32

const (
	StateIdle State = iota
	StateExporting
	StateImporting
	StateMerging
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExporting:
		return "exporting"
	case StateImporting:
		return "importing"
	case StateMerging:
		return "merging"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ExportResult описывает записанную резервную копию.
type ExportResult struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Engine выполняет экспорт и импорт зашифрованных снимков хранилища.
// Операции движка выполняются строго по одной.
type Engine struct {
	store  RecordStore
	cipher Encrypter
	writer BlobWriter
	policy model.DuplicatePolicy
	now    func() time.Time
	logger *zap.SugaredLogger

	mu    sync.Mutex
	state atomic.Int32
}

// EngineOption настраивает Engine.
type EngineOption func(*Engine)

// WithClock подменяет источник времени (имя файла экспорта).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithPolicy задаёт политику обработки дубликатов при импорте.
func WithPolicy(p model.DuplicatePolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// WithLogger задаёт логгер движка.
func WithLogger(l *zap.SugaredLogger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine создаёт движок резервного копирования.
func NewEngine(store RecordStore, cipher Encrypter, writer BlobWriter, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		cipher: cipher,
		writer: writer,
		policy: model.PolicySkip,
		now:    time.Now,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State возвращает фазу текущей или последней операции.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
}

// finish фиксирует итоговое состояние операции по ошибке.
func (e *Engine) finish(err error) {
	if err != nil {
		e.setState(StateFailed)
		return
	}
	e.setState(StateDone)
}

// ExportName возвращает имя файла экспорта для момента t.
func ExportName(t time.Time) string {
	return fmt.Sprintf("passwords_%d.enc", t.UnixMilli())
}

// Export читает все записи, шифрует снимок и передаёт его BlobWriter.
// При ошибке на любом шаге ничего не записывается.
func (e *Engine) Export(ctx context.Context) (res ExportResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setState(StateExporting)
	defer func() { e.finish(err) }()

	records, err := e.store.GetAll(ctx)
	if err != nil {
		e.logger.Errorw("Export: read records failed", "error", err)
		return ExportResult{}, fmt.Errorf("read records: %w", err)
	}
	payload, err := encodeSnapshot(records)
	if err != nil {
		e.logger.Errorw("Export: serialize failed", "error", err)
		return ExportResult{}, fmt.Errorf("serialize: %w", err)
	}
	token, err := e.cipher.Encrypt(payload)
	if err != nil {
		e.logger.Errorw("Export: encrypt failed", "error", err)
		return ExportResult{}, fmt.Errorf("encrypt: %w", err)
	}
	name := ExportName(e.now())
	location, err := e.writer.WriteBlob(ctx, name, []byte(token))
	if err != nil {
		e.logger.Errorw("Export: write failed", "name", name, "error", err)
		return ExportResult{}, fmt.Errorf("write %s: %w", name, err)
	}
	e.logger.Infow("Export completed", "name", name, "location", location, "records", len(records))
	return ExportResult{Name: name, Location: location, Count: len(records)}, nil
}

// Import получает блоб через picker и импортирует его.
func (e *Engine) Import(ctx context.Context, picker BlobPicker) (model.MergeResult, error) {
	blob, err := picker.PickBlob(ctx)
	if err != nil {
		if errors.Is(err, ErrPickCancelled) {
			e.logger.Infow("Import cancelled by user")
		}
		return model.MergeResult{}, err
	}
	return e.ImportToken(ctx, blob)
}

// ImportToken расшифровывает токен, разбирает снимок и сливает записи с хранилищем
// по политике движка. Ошибки расшифровки и формата снимка не меняют хранилище.
func (e *Engine) ImportToken(ctx context.Context, token []byte) (model.MergeResult, error) {
	return e.ImportTokenWithPolicy(ctx, token, e.policy)
}

// ImportTokenWithPolicy - ImportToken с явной политикой дубликатов.
func (e *Engine) ImportTokenWithPolicy(ctx context.Context, token []byte, policy model.DuplicatePolicy) (res model.MergeResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setState(StateImporting)
	defer func() { e.finish(err) }()

	plain, err := e.cipher.Decrypt(string(token))
	if err != nil {
		e.logger.Warnw("Import: decrypt failed", "error", err)
		return model.MergeResult{}, err
	}
	records, failed, err := decodeSnapshot(plain)
	if err != nil {
		e.logger.Warnw("Import: malformed payload", "error", err)
		return model.MergeResult{}, err
	}
	for _, f := range failed {
		e.logger.Warnw("Import: entry skipped", "index", f.index, "error", f.err)
	}

	e.setState(StateMerging)
	res, err = e.store.Merge(ctx, records, policy)
	res.Failed += len(failed)
	if err != nil {
		e.logger.Errorw("Import: merge failed", "error", err)
		return res, fmt.Errorf("merge: %w", err)
	}
	e.logger.Infow("Import completed",
		"imported", res.Imported,
		"duplicates", res.Duplicates,
		"updated", res.Updated,
		"failed", res.Failed,
	)
	return res, nil
}
