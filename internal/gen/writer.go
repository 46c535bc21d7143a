package gen

import (
	"fmt"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/go-git/go-billy/v5/util"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteArtifacts writes all artifacts under dir on fs.
// It creates the directory if it doesn't exist. Artifact filenames must be
// plain file names; nothing is written if one is not.
func WriteArtifacts(fs billy.Filesystem, dir string, artifacts []Artifact) error {
	for _, a := range artifacts {
		if a.Filename == "" || a.Filename == "." || a.Filename == ".." || strings.ContainsAny(a.Filename, `/\`) {
			return fmt.Errorf("artifact %s: invalid filename %q", a.Name, a.Filename)
		}
	}

	err := fs.MkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	root := chroot.New(fs, dir)

	for _, a := range artifacts {
		err := util.WriteFile(root, a.Filename, a.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", a.Filename, err)
		}
	}

	return nil
}
