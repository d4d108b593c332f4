package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("record review: %w", &ErrStorage{Op: "save review item", Err: cause})

	if !IsStorage(err) {
		t.Fatal("IsStorage = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach the wrapped cause")
	}
	if IsConflict(err) || IsNotFound(err) || IsValidation(err) {
		t.Error("storage error matched another kind")
	}
}

func TestValidationMessage(t *testing.T) {
	err := Validation("quality", "must be in [0,5], got %d", 7)
	want := "invalid quality: must be in [0,5], got 7"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsValidation(err) {
		t.Error("IsValidation = false, want true")
	}
}

func TestNotFoundAndConflict(t *testing.T) {
	nf := fmt.Errorf("wrap: %w", &ErrNotFound{Kind: "item", ID: "w1"})
	if !IsNotFound(nf) {
		t.Error("IsNotFound = false, want true")
	}
	c := &ErrConflict{UserID: "u1", ItemID: "w1"}
	if !IsConflict(c) {
		t.Error("IsConflict = false, want true")
	}
	if c.Error() != "concurrent update of u1/w1" {
		t.Errorf("Error() = %q", c.Error())
	}
}
