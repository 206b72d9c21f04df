// Package filestore implements ports.ScheduleSource by reading the schedule
// document straight off the local filesystem, the reference deployment's
// default collaborator ahead of the markdown→JSON ingestion tooling.
package filestore

import (
	"context"
	"fmt"
	"os"

	"github.com/oiangu/trenbide/internal/core/ports"
)

// ScheduleFile reads a schedule (or fast-graph) document from a fixed path.
type ScheduleFile struct {
	path string
}

// NewScheduleFile wires a ScheduleFile source over a path on disk.
func NewScheduleFile(path string) *ScheduleFile {
	return &ScheduleFile{path: path}
}

var _ ports.ScheduleSource = (*ScheduleFile)(nil)

// Load reads the full file contents. Context cancellation is observed only
// at entry; the read itself is not interruptible — matching the reference
// deployment's static, startup-only load.
func (f *ScheduleFile) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read schedule file %s: %w", f.path, err)
	}
	return data, nil
}
