package blobfs

import (
	"PassVault/internal/service"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirWriter сохраняет блобы резервных копий в каталог.
type DirWriter struct {
	Dir string
}

var _ service.BlobWriter = DirWriter{}

// WriteBlob атомарно записывает data в Dir/name (временный файл + rename)
// и возвращает путь к файлу. Частично записанный файл не остаётся.
func (w DirWriter) WriteBlob(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if w.Dir == "" {
		return "", errors.New("empty backup directory")
	}
	if err := os.MkdirAll(w.Dir, 0o700); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(w.Dir, ".tmp-"+name+"-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	// в случае любой ошибки временный файл удаляется
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return "", err
	}
	final := filepath.Join(w.Dir, name)
	if err := os.Rename(tmpName, final); err != nil {
		return "", err
	}
	ok = true
	return final, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid blob name %q", name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("invalid blob name %q: must not contain path separators", name)
	}
	return nil
}

// FilePicker отдаёт содержимое файла, выбранного пользователем.
// Пустой Path означает, что выбор отменён.
type FilePicker struct {
	Path string
}

var _ service.BlobPicker = FilePicker{}

// PickBlob читает выбранный файл. Имя файла значения не имеет.
func (p FilePicker) PickBlob(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Path) == "" {
		return nil, service.ErrPickCancelled
	}
	b, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}
	return b, nil
}
