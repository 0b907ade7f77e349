// Package strings implements the lookup half of the DrawString opcode's
// localized-string contract (spec.md §4.6, opcode 18): resolving a
// str_id to displayable text for a configured language. The concrete
// table content (what each str_id actually says, in which languages) is
// out of scope per spec.md §1 ("localized string tables beyond the
// lookup contract"); this package only owns the lookup mechanism, backed
// by go-i18n/v2's Bundle/Localizer the way the teacher's own transitive
// dependency closure already pulls in that library for text handling.
package strings

import (
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Table resolves a bytecode str_id to localized text for one active
// language.
type Table struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
}

// New returns an empty Table for the given default language; messages
// are added via LoadMessages before any Lookup.
func New(defaultLang language.Tag) *Table {
	bundle := i18n.NewBundle(defaultLang)
	return &Table{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, defaultLang.String()),
	}
}

// messageID renders a bytecode str_id as the i18n message key Table
// stores it under.
func messageID(strID uint16) string {
	return fmt.Sprintf("str_%d", strID)
}

// LoadMessages registers id -> text entries for lang, overwriting any
// prior entry for the same (lang, id) pair.
func (t *Table) LoadMessages(lang language.Tag, entries map[uint16]string) error {
	messages := make([]*i18n.Message, 0, len(entries))
	for id, text := range entries {
		messages = append(messages, &i18n.Message{ID: messageID(id), Other: text})
	}
	return t.bundle.AddMessages(lang, messages...)
}

// SetLanguage switches which language Lookup resolves against.
func (t *Table) SetLanguage(lang language.Tag) {
	t.localizer = i18n.NewLocalizer(t.bundle, lang.String())
}

// Lookup resolves strID to its localized text in the current language.
// ErrStringNotFound is returned for an id with no registered message.
func (t *Table) Lookup(strID uint16) (string, error) {
	text, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID(strID)})
	if err != nil {
		return "", fmt.Errorf("%w: str_id=%d: %v", ErrStringNotFound, strID, err)
	}
	return text, nil
}
