package strings

import (
	"errors"
	"testing"

	"golang.org/x/text/language"
)

func TestLookupResolvesRegisteredMessage(t *testing.T) {
	tbl := New(language.English)
	if err := tbl.LoadMessages(language.English, map[uint16]string{42: "Hello"}); err != nil {
		t.Fatalf("LoadMessages: %v", err)
	}
	got, err := tbl.Lookup(42)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != "Hello" {
		t.Errorf("Lookup(42) = %q, want %q", got, "Hello")
	}
}

func TestLookupMissingStringErrors(t *testing.T) {
	tbl := New(language.English)
	if _, err := tbl.Lookup(999); !errors.Is(err, ErrStringNotFound) {
		t.Errorf("Lookup(999) error = %v, want ErrStringNotFound", err)
	}
}

func TestSetLanguageSwitchesLookup(t *testing.T) {
	tbl := New(language.English)
	if err := tbl.LoadMessages(language.English, map[uint16]string{1: "Hello"}); err != nil {
		t.Fatalf("LoadMessages(en): %v", err)
	}
	if err := tbl.LoadMessages(language.French, map[uint16]string{1: "Bonjour"}); err != nil {
		t.Fatalf("LoadMessages(fr): %v", err)
	}
	tbl.SetLanguage(language.French)

	got, err := tbl.Lookup(1)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != "Bonjour" {
		t.Errorf("Lookup(1) = %q, want %q", got, "Bonjour")
	}
}
