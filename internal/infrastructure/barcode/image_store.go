package barcode

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/grocery-inventory-api/internal/application/ports"
)

var _ ports.BarcodeImageStore = (*ImageStore)(nil)

// Dir subdirectorio de las imágenes dentro del sistema de archivos y de /static.
const Dir = "barcodes"

// ImageStore guarda las imágenes en un afero.Fs: /barcodes/barcode_<número>.png.
// En producción el Fs es un BasePathFs sobre BARCODE_DIR; en tests, MemMapFs.
type ImageStore struct {
	fs       afero.Fs
	baseURL  string
	renderer *PNGRenderer
}

// NewImageStore construye el almacén. baseURL se usa para armar las URL públicas.
func NewImageStore(fs afero.Fs, baseURL string, renderer *PNGRenderer) *ImageStore {
	if renderer == nil {
		renderer = NewPNGRenderer()
	}
	return &ImageStore{fs: fs, baseURL: strings.TrimRight(baseURL, "/"), renderer: renderer}
}

// Fs devuelve el sistema de archivos subyacente (lo sirve el router en /static).
func (s *ImageStore) Fs() afero.Fs { return s.fs }

// Path ruta de la imagen de number dentro del Fs. Es también la ruta bajo /static.
func (s *ImageStore) Path(number string) string {
	return path.Join("/", Dir, "barcode_"+number+".png")
}

// URL pública de la imagen.
func (s *ImageStore) URL(number string) string {
	return s.baseURL + "/static" + s.Path(number)
}

// Save dibuja la imagen de number y la escribe, reemplazando la anterior.
func (s *ImageStore) Save(_ context.Context, number string) (string, error) {
	img, err := s.renderer.Render(number)
	if err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(path.Join("/", Dir), 0o755); err != nil {
		return "", fmt.Errorf("create barcode dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.Path(number), img, 0o644); err != nil {
		return "", fmt.Errorf("write barcode image: %w", err)
	}
	return s.URL(number), nil
}

func (s *ImageStore) Exists(_ context.Context, number string) (bool, error) {
	ok, err := afero.Exists(s.fs, s.Path(number))
	if err != nil {
		return false, fmt.Errorf("stat barcode image: %w", err)
	}
	return ok, nil
}

// Remove borra la imagen; si no existe no hace nada.
func (s *ImageStore) Remove(_ context.Context, number string) error {
	if err := s.fs.Remove(s.Path(number)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove barcode image: %w", err)
	}
	return nil
}
