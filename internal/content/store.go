package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var ErrNotFound = errors.New("questions file not found")
var ErrMalformed = errors.New("questions file is not valid JSON")
var ErrInvalidDocument = errors.New("document is not valid JSON")

// saveOptions matches a two-space indented dump and keeps the client's key order.
var saveOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

// Store is the quiz content document on disk. It is read and replaced
// wholesale on every call; nothing is cached between requests.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the raw document. Errors wrap ErrNotFound when the file is
// absent and ErrMalformed when it does not parse.
func (s *Store) Load() (json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if err := validate(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return json.RawMessage(data), nil
}

// Save replaces the document with doc, pretty-printed. The write is synced
// to a temp file and renamed over the target, so readers never see a partial
// file. A symlinked path is followed and the existing file mode is kept.
func (s *Store) Save(doc []byte) error {
	if err := validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	out := pretty.PrettyOptions(doc, saveOptions)

	target, err := filepath.EvalSymlinks(s.path)
	if errors.Is(err, os.ErrNotExist) {
		target = s.path
	} else if err != nil {
		return fmt.Errorf("resolve %s: %w", s.path, err)
	}

	if err := renameio.WriteFile(target, out, 0o644, renameio.WithExistingPermissions()); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}

// validate reports the parser's own error message for invalid input.
func validate(data []byte) error {
	var v json.RawMessage
	return json.Unmarshal(data, &v)
}

func field(doc []byte, path string) gjson.Result {
	return gjson.GetBytes(doc, path)
}
