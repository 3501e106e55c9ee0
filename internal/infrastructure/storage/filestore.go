package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/usecase"
)

// FileStore keeps image bytes on local disk, one directory per owning
// request or event: {requestsRoot}/{requestID}/{filename} and
// {eventsRoot}/{eventID}/{filename}.
type FileStore struct {
	eventsRoot   string
	requestsRoot string
}

func NewFileStore(eventsRoot, requestsRoot string) *FileStore {
	return &FileStore{
		eventsRoot:   eventsRoot,
		requestsRoot: requestsRoot,
	}
}

var _ usecase.MediaStore = (*FileStore)(nil)

func (s *FileStore) SaveRequestImage(requestID, filename string, src io.Reader) (string, error) {
	return save(filepath.Join(s.requestsRoot, requestID), filename, src)
}

func (s *FileStore) SaveEventImage(eventID, filename string, src io.Reader) (string, error) {
	return save(filepath.Join(s.eventsRoot, eventID), filename, src)
}

func (s *FileStore) RequestImagePath(requestID, filename string) (string, error) {
	return resolve(filepath.Join(s.requestsRoot, requestID, filepath.Base(filename)))
}

func (s *FileStore) EventImagePath(eventID, filename string) (string, error) {
	return resolve(filepath.Join(s.eventsRoot, eventID, filepath.Base(filename)))
}

// MoveRequestToEvent relocates bytes from request scope to event scope. The
// move is destructive at the source. When the source is gone but the
// destination already holds the file, the move counts as done, so a retried
// approval that partially completed earlier is safe to re-run.
func (s *FileStore) MoveRequestToEvent(requestID, eventID, filename string) error {
	filename = filepath.Base(filename)
	src := filepath.Join(s.requestsRoot, requestID, filename)
	dst := filepath.Join(s.eventsRoot, eventID, filename)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}
		return err
	}
	return nil
}

func (s *FileStore) DeleteRequestImage(requestID, filename string) error {
	return remove(filepath.Join(s.requestsRoot, requestID, filepath.Base(filename)))
}

func (s *FileStore) DeleteEventImage(eventID, filename string) error {
	return remove(filepath.Join(s.eventsRoot, eventID, filepath.Base(filename)))
}

func (s *FileStore) RemoveRequestDir(requestID string) error {
	return os.RemoveAll(filepath.Join(s.requestsRoot, requestID))
}

func (s *FileStore) RemoveEventDir(eventID string) error {
	return os.RemoveAll(filepath.Join(s.eventsRoot, eventID))
}

// save stores the stream under a uuid-prefixed name to keep uploads with the
// same original filename from clobbering each other.
func save(dir, filename string, src io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	stored := uuid.NewString() + "-" + filepath.Base(filename)
	out, err := os.Create(filepath.Join(dir, stored))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return stored, nil
}

func resolve(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrImageNotFound
		}
		return "", err
	}
	return path, nil
}

func remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
