package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestLookup(t *testing.T) {
	t.Run("Unknown key returns the key", func(t *testing.T) {
		if got := Lookup("unknown.key"); got != "unknown.key" {
			t.Errorf("expected '%s' but found '%s'", "unknown.key", got)
		}
	})

	t.Run("Key with format verbs is returned unchanged", func(t *testing.T) {
		if got := Lookup("missing %d %s"); got != "missing %d %s" {
			t.Errorf("expected '%s' but found '%s'", "missing %d %s", got)
		}
	})

	t.Run("Default table", func(t *testing.T) {
		if got := Lookup("app.title"); got != "Next to Go Racing" {
			t.Errorf("expected '%s' but found '%s'", "Next to Go Racing", got)
		}
	})

	t.Run("Named table", func(t *testing.T) {
		got := Lookup("category.greyhound", WithTable("Accessibility"))
		if got != "Greyhound Racing" {
			t.Errorf("expected '%s' but found '%s'", "Greyhound Racing", got)
		}
		if got := Lookup("category.greyhound"); got != "category.greyhound" {
			t.Errorf("expected key from default table but found '%s'", got)
		}
	})

	t.Run("Unknown table returns the key", func(t *testing.T) {
		if got := Lookup("app.title", WithTable("Missing")); got != "app.title" {
			t.Errorf("expected '%s' but found '%s'", "app.title", got)
		}
	})

	t.Run("Comment does not change the result", func(t *testing.T) {
		got := Lookup("column.race", WithComment("Column header for the race number"))
		if got != Lookup("column.race") {
			t.Errorf("expected '%s' but found '%s'", Lookup("column.race"), got)
		}
	})

	t.Run("Arguments", func(t *testing.T) {
		if got := Sprintf("race.number", 7); got != "R7" {
			t.Errorf("expected '%s' but found '%s'", "R7", got)
		}
	})

	t.Run("Message is returned as stored without arguments", func(t *testing.T) {
		if got := Lookup("race.list.subtitle"); got != "Next %d races" {
			t.Errorf("expected '%s' but found '%s'", "Next %d races", got)
		}
		if got := Lookup("race.list.updated"); got != "Updated %s" {
			t.Errorf("expected '%s' but found '%s'", "Updated %s", got)
		}
	})

	t.Run("Literal percent sign", func(t *testing.T) {
		b, err := Load(fstest.MapFS{
			"locales/en-US/Localizable.yaml": {Data: []byte("locale: en-US\ntable: Localizable\nmessages:\n  confidence: \"100% sure\"\n")},
		})
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		if got := b.Localizer("en-US").Lookup("confidence"); got != "100% sure" {
			t.Errorf("expected '%s' but found '%s'", "100% sure", got)
		}
	})
}

func TestLocalizer(t *testing.T) {
	b, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded resources: %v", err)
	}
	if diff := cmp.Diff([]string{"en-US", "pt-BR"}, b.Locales()); diff != "" {
		t.Errorf("unexpected locales (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Accessibility", "Localizable"}, b.Tables()); diff != "" {
		t.Errorf("unexpected tables (-want +got):\n%s", diff)
	}

	t.Run("Translated", func(t *testing.T) {
		l := b.Localizer("pt-BR")
		if l.Locale() != "pt-BR" {
			t.Fatalf("expected locale '%s' but found '%s'", "pt-BR", l.Locale())
		}
		if got := l.Lookup("race.list.subtitle", WithArgs(5)); got != "Próximas 5 corridas" {
			t.Errorf("expected '%s' but found '%s'", "Próximas 5 corridas", got)
		}
	})

	t.Run("Falls back to base locale", func(t *testing.T) {
		l := b.Localizer("pt-BR")
		if got := l.Lookup("race.number", WithArgs(3)); got != "R3" {
			t.Errorf("expected '%s' but found '%s'", "R3", got)
		}
	})

	t.Run("Unsupported locale", func(t *testing.T) {
		for _, locale := range []string{"fr-FR", "", "not a locale"} {
			if l := b.Localizer(locale); l.Locale() != BaseLocale {
				t.Errorf("expected locale '%s' for '%s' but found '%s'", BaseLocale, locale, l.Locale())
			}
		}
	})

	t.Run("Nil localizer", func(t *testing.T) {
		var l *Localizer
		if got := l.Lookup("app.title"); got != "app.title" {
			t.Errorf("expected '%s' but found '%s'", "app.title", got)
		}
	})
}

func TestSetDefault(t *testing.T) {
	b, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded resources: %v", err)
	}
	prev := Default()
	defer SetDefault(prev)

	SetDefault(b.Localizer("pt-BR"))
	if got := Lookup("app.title"); got != "Próximas Corridas" {
		t.Errorf("expected '%s' but found '%s'", "Próximas Corridas", got)
	}
	SetDefault(nil)
	if Default().Locale() != "pt-BR" {
		t.Errorf("expected nil localizer to be ignored")
	}
}

func TestLoadTrimsLocale(t *testing.T) {
	b, err := Load(fstest.MapFS{
		"locales/en-US/Localizable.yaml": {Data: []byte("locale: en-US\ntable: Localizable\nmessages:\n  a: \"A\"\n")},
		"locales/pt-BR/Localizable.yaml": {Data: []byte("locale: \" pt-BR\"\ntable: Localizable\nmessages:\n  a: \"B\"\n")},
	})
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if diff := cmp.Diff([]string{"en-US", "pt-BR"}, b.Locales()); diff != "" {
		t.Errorf("unexpected locales (-want +got):\n%s", diff)
	}
	if got := b.Localizer("pt-BR").Lookup("a"); got != "B" {
		t.Errorf("expected '%s' but found '%s'", "B", got)
	}
}

func TestLoadRejectsInvalidResources(t *testing.T) {
	base := &fstest.MapFile{Data: []byte("locale: en-US\ntable: Localizable\nmessages:\n  a: \"A\"\n")}
	tests := map[string]fstest.MapFS{
		"empty": {},
		"missing base locale": {
			"locales/pt-BR/Localizable.yaml": {Data: []byte("locale: pt-BR\ntable: Localizable\nmessages:\n  a: \"A\"\n")},
		},
		"locale mismatch": {
			"locales/en-US/Localizable.yaml": base,
			"locales/pt-BR/Localizable.yaml": {Data: []byte("locale: en-GB\ntable: Localizable\nmessages:\n  a: \"A\"\n")},
		},
		"table mismatch": {
			"locales/en-US/Localizable.yaml":   base,
			"locales/en-US/Accessibility.yaml": {Data: []byte("locale: en-US\ntable: Other\nmessages:\n  a: \"A\"\n")},
		},
		"no messages": {
			"locales/en-US/Localizable.yaml": {Data: []byte("locale: en-US\ntable: Localizable\n")},
		},
		"malformed yaml": {
			"locales/en-US/Localizable.yaml": {Data: []byte("locale: [en-US\n")},
		},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(fsys); err == nil {
				t.Errorf("expected an error but found none")
			}
		})
	}
}
