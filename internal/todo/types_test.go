package todo

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		input   string
		want    Filter
		wantErr bool
	}{
		{"pending", FilterPending, false},
		{" Completed ", FilterCompleted, false},
		{"p", FilterPending, false},
		{"c", FilterCompleted, false},
		{"done", FilterCompleted, false},
		{"", "", true},
		{"archived", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFilter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFilter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFilter(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterStatus(t *testing.T) {
	if got := FilterPending.Status(); got != StatusPending {
		t.Errorf("FilterPending.Status(): got %q, want %q", got, StatusPending)
	}
	if got := FilterCompleted.Status(); got != StatusCompleted {
		t.Errorf("FilterCompleted.Status(): got %q, want %q", got, StatusCompleted)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("UP"); err != nil || d != Up {
		t.Errorf("ParseDirection(UP): got %q, %v", d, err)
	}
	if d, err := ParseDirection("down"); err != nil || d != Down {
		t.Errorf("ParseDirection(down): got %q, %v", d, err)
	}
	if _, err := ParseDirection("left"); err == nil {
		t.Error("expected error for left")
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    SortOrder
		wantErr bool
	}{
		{"", SortAuto, false},
		{"auto", SortAuto, false},
		{"asc", SortAscending, false},
		{"descending", SortDescending, false},
		{"random", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortOrder(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortOrder(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseSortOrder(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDueDate(t *testing.T) {
	valid := []string{"2024-01-10", " 2024-02-29 ", "1999-12-31"}
	for _, s := range valid {
		if _, err := ParseDueDate(s); err != nil {
			t.Errorf("ParseDueDate(%q): unexpected error %v", s, err)
		}
	}

	invalid := []string{"", "2024-13-01", "2023-02-29", "10/01/2024", "2024-1-5", "tomorrow"}
	for _, s := range invalid {
		_, err := ParseDueDate(s)
		if err == nil {
			t.Errorf("ParseDueDate(%q): expected error", s)
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDueDate(%q): got %v, want ErrInvalidDate", s, err)
		}
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := &ValidationError{Path: "text", Err: ErrEmptyText}
	if got := err.Error(); got != "text: text is empty" {
		t.Errorf("Error(): got %q", got)
	}
	if !errors.Is(err, ErrEmptyText) {
		t.Error("expected errors.Is to match ErrEmptyText")
	}

	bare := &ValidationError{Err: ErrInvalidDate}
	if got := bare.Error(); got != ErrInvalidDate.Error() {
		t.Errorf("Error() without path: got %q", got)
	}
}

func TestPersistErrorFormat(t *testing.T) {
	cause := errors.New("disk full")
	err := &PersistError{Key: "todos", Err: cause}
	if !strings.Contains(err.Error(), "todos") || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error(): got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to match the cause")
	}
}
