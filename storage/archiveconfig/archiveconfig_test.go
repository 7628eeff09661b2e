package archiveconfig

import (
	"os"
	"path/filepath"
	"testing"

	"xdao.co/settle/storage"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadFile_Valid(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	path := writeConfig(t, `{
		"write_policy": "all",
		"backends": [
			{"id":"primary", "dir":"`+dir1+`"},
			{"id":"mirror", "dir":"`+dir2+`"}
		]
	}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.WritePolicy != "all" {
		t.Fatalf("WritePolicy: got %q want %q", cfg.WritePolicy, "all")
	}
	if len(cfg.Backends) != 2 {
		t.Fatalf("Backends: got %d want 2", len(cfg.Backends))
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"NoBackends", Config{}},
		{"EmptyDir", Config{Backends: []BackendConfig{{ID: "a"}}}},
		{"DuplicateID", Config{Backends: []BackendConfig{
			{ID: "a", Dir: "/tmp/x"},
			{ID: "a", Dir: "/tmp/y"},
		}}},
		{"BadWritePolicy", Config{WritePolicy: "quorum", Backends: []BackendConfig{{Dir: "/tmp/x"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Fatalf("Validate accepted invalid config")
			}
		})
	}
}

func TestOpen_SingleBackend(t *testing.T) {
	cfg := Config{Backends: []BackendConfig{{Dir: t.TempDir()}}}
	arc, err := cfg.Open("")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	id, err := arc.Put([]byte("receipt bytes"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !arc.Has(id) {
		t.Fatalf("Has returned false after Put")
	}
}

func TestOpen_WritePolicyAll(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	cfg := Config{
		WritePolicy: "all",
		Backends: []BackendConfig{
			{ID: "primary", Dir: dir1},
			{ID: "mirror", Dir: dir2},
		},
	}
	arc, err := cfg.Open("")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	rep, ok := arc.(storage.ReplicatingArchive)
	if !ok {
		t.Fatalf("Open: got %T want storage.ReplicatingArchive", arc)
	}

	id, perBackend, err := rep.PutAll([]byte("replicated receipt"))
	if err != nil {
		t.Fatalf("PutAll failed: %v", err)
	}
	if len(perBackend) != 2 {
		t.Fatalf("PutAll backends: got %d want 2", len(perBackend))
	}
	for name, got := range perBackend {
		if got != id {
			t.Fatalf("backend %q CID mismatch: got %s want %s", name, got, id)
		}
	}
}

func TestOpen_PreferredBackendReorders(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	cfg := Config{
		Backends: []BackendConfig{
			{ID: "primary", Dir: dir1},
			{ID: "mirror", Dir: dir2},
		},
	}
	arc, err := cfg.Open("mirror")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// With write_policy "first", writes go to the preferred backend only.
	id, err := arc.Put([]byte("preferred write"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entries, err := os.ReadDir(dir1)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("primary backend received a write under preferred=mirror")
	}
	if !arc.Has(id) {
		t.Fatalf("Has returned false after Put")
	}
}

func TestOpen_UnknownPreferredBackend(t *testing.T) {
	cfg := Config{Backends: []BackendConfig{{Dir: t.TempDir()}}}
	if _, err := cfg.Open("nope"); err == nil {
		t.Fatalf("Open accepted unknown preferred backend")
	}
}
