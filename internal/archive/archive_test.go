package archive

import "testing"

func TestIsGCSURI(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"gs://bucket/reports/due.csv", true},
		{"gs://bucket", true},
		{"/tmp/due.csv", false},
		{"https://example.com/due.csv", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsGCSURI(tt.input); got != tt.want {
			t.Errorf("IsGCSURI(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSplitGCSURI(t *testing.T) {
	bucket, object, err := splitGCSURI("gs://payables-reports/2025/07/due.csv")
	if err != nil {
		t.Fatalf("splitGCSURI failed: %v", err)
	}
	if bucket != "payables-reports" {
		t.Errorf("bucket = %q, want payables-reports", bucket)
	}
	if object != "2025/07/due.csv" {
		t.Errorf("object = %q, want 2025/07/due.csv", object)
	}

	if _, _, err := splitGCSURI("gs://only-bucket"); err == nil {
		t.Error("expected error for URI without object path")
	}
	if _, _, err := splitGCSURI("/local/path"); err == nil {
		t.Error("expected error for non-GCS path")
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gs://bucket/reports/due.csv", "due.csv"},
		{"gs://bucket/due.csv", "due.csv"},
		{"gs://bucket", "bucket"},
	}
	for _, tt := range tests {
		if got := Filename(tt.input); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
