package reader

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/sunlight/asset"
	"github.com/achilleasa/sunlight/log"
	"github.com/achilleasa/sunlight/scene"
)

const (
	dataFile = "scene.bin"
)

var ErrMissingSceneData = errors.New("reader: zip file does not contain scene data")

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene definition from zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	p.logger.Noticef(`parsing scene snapshot from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var sc *scene.Scene
	for _, f := range zr.File {
		switch f.Name {
		case dataFile:
		default:
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		sc = &scene.Scene{}
		err = gob.NewDecoder(rc).Decode(sc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reader: failed to load %s: %w", f.Name, err)
		}
	}

	if sc == nil {
		return nil, ErrMissingSceneData
	}

	if err = sc.Validate(); err != nil {
		return nil, err
	}
	if sc.Camera == nil {
		sc.SetCamera(scene.DefaultCamera(sc.Options.PlacementRadius))
	}

	p.logger.Noticef("loaded scene with %d spheres in %d ms", len(sc.Spheres), time.Since(start).Nanoseconds()/1000000)
	return sc, nil
}
