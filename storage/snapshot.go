package storage

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// snapshotVersion is bumped whenever the Task layout changes incompatibly.
// Snapshots with any other version are treated as unreadable.
const snapshotVersion = 1

type snapshot struct {
	Version int
	Tasks   []Task
}

// readSnapshot decodes the task list stored at filename.
// A missing file is reported through an error satisfying os.IsNotExist.
func readSnapshot(filename string) ([]Task, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("incompatible snapshot version %d (want %d)", snap.Version, snapshotVersion)
	}

	return snap.Tasks, nil
}

// writeSnapshot replaces the snapshot at filename with tasks. The data is
// written to a temporary file in the same directory and renamed into place,
// so readers never observe a partially written snapshot.
func writeSnapshot(filename string, tasks []Task) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	snap := snapshot{Version: snapshotVersion, Tasks: tasks}
	if err = gob.NewEncoder(tmp).Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
