// Package appfs gives access to the files shipped inside the binaries.
package appfs

import (
	"embed"
	"io"
	"os"
	"path"
)

//go:embed assets
var FS embed.FS

const (
	SeedFile        = "seed.yaml"
	FeeScheduleFile = "fee_schedule.yaml"
	CurriculumFile  = "curriculum.yaml"
)

// Open opens `override` from disk when set, the embedded asset `name` otherwise.
func Open(name, override string) (io.ReadCloser, error) {
	if override != "" {
		return os.Open(override)
	}
	return FS.Open(path.Join("assets", name))
}
