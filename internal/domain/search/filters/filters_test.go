package filters

import "testing"

func TestNew_TrimsSearchText(t *testing.T) {
	f, err := New("  luke  ", false, nil, nil, nil, 0, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.SearchText() != "luke" {
		t.Errorf("expected trimmed text, got %q", f.SearchText())
	}
}

func TestNew_PaginationBounds(t *testing.T) {
	tests := []struct {
		name     string
		from     int
		size     int
		wantErr  bool
		wantSize int
	}{
		{name: "negative from", from: -1, size: 10, wantErr: true},
		{name: "negative size", from: 0, size: -5, wantErr: true},
		{name: "zero size defaults", from: 0, size: 0, wantSize: DefaultPageSize},
		{name: "oversized size clamps", from: 0, size: 5000, wantSize: MaxPageSize},
		{name: "normal window", from: 50, size: 10, wantSize: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New("x", false, nil, nil, nil, tt.from, tt.size)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Size() != tt.wantSize {
				t.Errorf("expected size %d, got %d", tt.wantSize, f.Size())
			}
			if f.From() != tt.from {
				t.Errorf("expected from %d, got %d", tt.from, f.From())
			}
		})
	}
}

func TestNew_RejectsEmptyTypeEntries(t *testing.T) {
	if _, err := New("", false, []string{"Object", ""}, nil, nil, 0, 25); err == nil {
		t.Fatal("expected error for empty type entry")
	}
}

func TestNewAttributeRange_RequiresKey(t *testing.T) {
	if _, err := NewAttributeRange("", nil, nil); err == nil {
		t.Fatal("expected error for empty key")
	}

	// Bounds stay optional: a keyed range with neither bound is accepted.
	if _, err := NewAttributeRange("overallQuality", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHasTypes(t *testing.T) {
	f, err := New("", false, nil, nil, nil, 0, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.HasTypes() {
		t.Error("expected HasTypes to be false without types")
	}

	f, err = New("", false, []string{"Account"}, nil, nil, 0, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.HasTypes() {
		t.Error("expected HasTypes to be true with types")
	}
}
