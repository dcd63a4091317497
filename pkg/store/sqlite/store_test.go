package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ChrisMcGann/Curtain/pkg/core"
)

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "curtain.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, ok, err := s.Load(ctx, "missing"); err != nil || ok {
		t.Errorf("Expected missing key to report false, got ok=%v err=%v", ok, err)
	}

	settings := core.DefaultSettings()
	settings.PlotTitle = "Volcano"
	settings.ColorMap["A"] = "#fd7f6f"
	settings.ConditionOrder = []string{"A"}
	settings.Extra["legendStatus"] = core.Map(map[string]core.Value{"A": core.Bool(true)})

	if err := s.Save(ctx, "session", settings); err != nil {
		t.Fatalf("Save: %v", err)
	}
	settings.PlotTitle = "Volcano 2"
	if err := s.Save(ctx, "session", settings); err != nil {
		t.Fatalf("Save over existing key: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen to prove the record was persisted.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer s.Close()

	got, ok, err := s.Load(ctx, "session")
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, settings) {
		t.Errorf("Expected %+v, got %+v", settings, got)
	}

	keys, err := s.Keys(ctx)
	if err != nil || !reflect.DeepEqual(keys, []string{"session"}) {
		t.Errorf("Expected [session], got %v (%v)", keys, err)
	}

	if err := s.Delete(ctx, "session"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Load(ctx, "session"); ok {
		t.Error("Expected record to be gone after Delete")
	}
	if err := s.Delete(ctx, "session"); err != nil {
		t.Errorf("Deleting a missing key should not fail: %v", err)
	}
}
