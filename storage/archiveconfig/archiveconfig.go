package archiveconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"xdao.co/settle/storage"
	"xdao.co/settle/storage/localfs"
)

// Config describes how to open one or more receipt archive backends.
//
// Each backend is a local filesystem directory. With more than one backend the
// write policy decides how writes are spread:
//
// WritePolicy values:
// - "first" (default): write only to the first backend; reads fall back in order
// - "all": write to all backends and require CID equality (see storage.ReplicatingArchive)
//
// Example:
//
//	{
//	  "write_policy": "all",
//	  "backends": [
//	    {"id":"primary", "dir":"/var/lib/settle/receipts"},
//	    {"id":"mirror", "dir":"/mnt/backup/receipts"}
//	  ]
//	}
type Config struct {
	WritePolicy string          `json:"write_policy,omitempty"`
	Backends    []BackendConfig `json:"backends"`
}

type BackendConfig struct {
	// ID is an optional stable alias used for identification and per-backend CID maps.
	// If empty, Dir is used.
	ID string `json:"id,omitempty"`
	// Dir is the root directory of a localfs archive.
	Dir string `json:"dir"`
}

func (b BackendConfig) name() string {
	if b.ID != "" {
		return b.ID
	}
	return b.Dir
}

func LoadFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New("archiveconfig: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("archiveconfig: at least one backend is required")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b.Dir == "" {
			return errors.New("archiveconfig: backend dir is required")
		}
		id := b.name()
		if _, ok := seen[id]; ok {
			return fmt.Errorf("archiveconfig: duplicate backend id %q", id)
		}
		seen[id] = struct{}{}
	}
	switch c.WritePolicy {
	case "", "first", "all":
		return nil
	default:
		return fmt.Errorf("archiveconfig: invalid write_policy %q", c.WritePolicy)
	}
}

// Open opens an archive per config.
//
// If preferredBackend is non-empty, backends are reordered so preferredBackend
// is first (and thus used for writes when WritePolicy=="first").
func (c Config) Open(preferredBackend string) (storage.Archive, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ordered := append([]BackendConfig(nil), c.Backends...)
	if preferredBackend != "" {
		idx := -1
		for i := range ordered {
			if ordered[i].name() == preferredBackend || ordered[i].Dir == preferredBackend {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("archiveconfig: preferred backend %q not found in config", preferredBackend)
		}
		if idx != 0 {
			b := ordered[idx]
			copy(ordered[1:idx+1], ordered[0:idx])
			ordered[0] = b
		}
	}

	named := make([]storage.NamedArchive, 0, len(ordered))
	for _, b := range ordered {
		arc, err := localfs.New(b.Dir)
		if err != nil {
			return nil, fmt.Errorf("archiveconfig: open backend %q: %w", b.name(), err)
		}
		named = append(named, storage.NamedArchive{Name: b.name(), Archive: arc})
	}

	if len(named) == 1 {
		return named[0].Archive, nil
	}

	switch c.WritePolicy {
	case "", "first":
		backends := make([]storage.Archive, 0, len(named))
		for _, n := range named {
			backends = append(backends, n.Archive)
		}
		return storage.MultiArchive{Backends: backends}, nil
	case "all":
		return storage.ReplicatingArchive{Backends: named}, nil
	default:
		return nil, fmt.Errorf("archiveconfig: invalid write_policy %q", c.WritePolicy)
	}
}
