package modex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/modex/photo"
)

const previewWorkers = 4

func (m *ModeX) findPhotos(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), photoExt) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func previewPhoto(file string, factor int) (*photo.Photo, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := photo.Decode(f)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(strings.TrimSuffix(file, filepath.Ext(file)) + ".png")
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if err := WritePreview(out, p, factor); err != nil {
		return nil, err
	}

	return p, out.Close()
}

func (m *ModeX) previewWorker(ctx context.Context, in <-chan string, factor int) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			// Each photo.Decode uses its own buckets
			p, err := previewPhoto(file, factor)
			if err != nil {
				m.logger.Printf("Unable to convert \"%s\": %s\n", file, err)
				errc <- err
				return
			}
			m.logger.Printf("Converted \"%s\" (%dx%d)\n", file, p.Width, p.Height)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Preview walks path and writes a PNG preview next to every photo found,
// each pixel enlarged by factor.
func (m *ModeX) Preview(path string, factor int) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := m.findPhotos(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < previewWorkers; i++ {
		errc, err := m.previewWorker(ctx, files, factor)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
