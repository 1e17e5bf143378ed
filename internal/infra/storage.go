package infra

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrRutaInvalida = errors.New("ruta de archivo invalida")

// Almacen keeps uploaded files under a base directory. Keys are relative,
// slash-separated paths such as "valoraciones/<id>/<uuid>.jpg".
type Almacen struct {
	base string
}

func NewAlmacen(base string) (*Almacen, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create base dir: %w", err)
	}
	return &Almacen{base: base}, nil
}

func (a *Almacen) ruta(key string) (string, error) {
	limpia := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(limpia) || limpia == ".." || strings.HasPrefix(limpia, ".."+string(filepath.Separator)) {
		return "", ErrRutaInvalida
	}
	return filepath.Join(a.base, limpia), nil
}

// Guardar writes r under key and returns the number of bytes written.
func (a *Almacen) Guardar(key string, r io.Reader) (int64, error) {
	p, err := a.ruta(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return 0, fmt.Errorf("storage: mkdir: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return 0, fmt.Errorf("storage: create: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return 0, fmt.Errorf("storage: write: %w", err)
	}
	return n, nil
}

// Abrir returns the file for key; the caller closes it.
func (a *Almacen) Abrir(key string) (io.ReadSeekCloser, error) {
	p, err := a.ruta(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Borrar removes key. A missing file is not an error.
func (a *Almacen) Borrar(key string) error {
	p, err := a.ruta(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}

// Escribible checks that the base directory still accepts new files.
func (a *Almacen) Escribible() error {
	f, err := os.CreateTemp(a.base, ".health-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
