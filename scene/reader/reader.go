package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/sunlight/asset"
	"github.com/achilleasa/sunlight/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene snapshot from a local file or a URL.
func ReadScene(pathToScene string) (*scene.Scene, error) {
	var reader Reader
	if strings.HasSuffix(strings.ToLower(pathToScene), ".zip") {
		reader = newZipSceneReader()
	} else {
		return nil, fmt.Errorf("reader: unsupported scene file format %q", pathToScene)
	}

	res, err := asset.NewResource(pathToScene, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}
