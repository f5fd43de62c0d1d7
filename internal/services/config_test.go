package services

import "testing"

func TestLoadProcessorConfigDefaults(t *testing.T) {
	t.Setenv("DDB_TABLE", "documents")
	t.Setenv("OUTPUT_BUCKET", "out")

	cfg, err := LoadProcessorConfig()
	if err != nil {
		t.Fatalf("LoadProcessorConfig: %v", err)
	}
	if cfg.StatusTable != "documents" || cfg.OutputBucket != "out" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.OutputPrefix != "processed/" {
		t.Errorf("OutputPrefix = %q, want processed/", cfg.OutputPrefix)
	}
	if cfg.MaxSyncPages != 1 {
		t.Errorf("MaxSyncPages = %d, want 1", cfg.MaxSyncPages)
	}
	if cfg.VertexAIRegion != "us-central1" {
		t.Errorf("VertexAIRegion = %q", cfg.VertexAIRegion)
	}
}

func TestLoadProcessorConfigOverrides(t *testing.T) {
	t.Setenv("DDB_TABLE", "documents")
	t.Setenv("OUTPUT_BUCKET", "out")
	t.Setenv("OUTPUT_PREFIX", "")
	t.Setenv("MAX_SYNC_PAGES", "0")

	cfg, err := LoadProcessorConfig()
	if err != nil {
		t.Fatalf("LoadProcessorConfig: %v", err)
	}
	if cfg.OutputPrefix != "" {
		t.Errorf("an explicitly empty OUTPUT_PREFIX should be kept, got %q", cfg.OutputPrefix)
	}
	if cfg.MaxSyncPages != 0 {
		t.Errorf("MaxSyncPages = %d, want 0", cfg.MaxSyncPages)
	}
}

func TestLoadProcessorConfigRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing table", env: map[string]string{"DDB_TABLE": "", "OUTPUT_BUCKET": "out"}},
		{name: "missing bucket", env: map[string]string{"DDB_TABLE": "documents", "OUTPUT_BUCKET": ""}},
		{name: "bad page limit", env: map[string]string{"DDB_TABLE": "documents", "OUTPUT_BUCKET": "out", "MAX_SYNC_PAGES": "many"}},
		{name: "negative page limit", env: map[string]string{"DDB_TABLE": "documents", "OUTPUT_BUCKET": "out", "MAX_SYNC_PAGES": "-2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadProcessorConfig(); err == nil {
				t.Error("expected a configuration error")
			}
		})
	}
}
