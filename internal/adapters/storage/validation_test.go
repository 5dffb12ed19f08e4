package storage

import "testing"

func TestValidateContentType(t *testing.T) {
	s := &MinIOService{}

	for _, ct := range []string{"text/csv", "text/csv; charset=utf-8", "Application/JSON"} {
		if err := s.ValidateContentType(ct); err != nil {
			t.Errorf("%q: unexpected error %v", ct, err)
		}
	}
	for _, ct := range []string{"", "image/png", "application/octet-stream"} {
		if err := s.ValidateContentType(ct); err == nil {
			t.Errorf("%q: expected rejection", ct)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	s := &MinIOService{maxFileSize: 100}

	if err := s.ValidateFileSize(100); err != nil {
		t.Fatalf("limit itself must pass: %v", err)
	}
	if err := s.ValidateFileSize(101); err == nil {
		t.Fatal("expected oversize rejection")
	}
	if err := s.ValidateFileSize(0); err == nil {
		t.Fatal("expected empty file rejection")
	}

	unlimited := &MinIOService{}
	if err := unlimited.ValidateFileSize(1 << 40); err != nil {
		t.Fatalf("no limit configured: %v", err)
	}
}
