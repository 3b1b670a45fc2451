package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language is a supported interface language.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

var supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

// DetectLanguage resolves the configured language. "auto" (or anything
// unknown) falls back to the locale environment, then English.
func DetectLanguage(configured string) Language {
	switch Language(strings.ToLower(configured)) {
	case English:
		return English
	case Spanish:
		return Spanish
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return matchLocale(v)
		}
	}
	return English
}

// matchLocale maps a POSIX locale such as es_ES.UTF-8 to a Language.
func matchLocale(locale string) Language {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return English
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return English
	}
	if supported[index] == language.Spanish {
		return Spanish
	}
	return English
}

// Tag returns the x/text tag for l.
func (l Language) Tag() language.Tag {
	if l == Spanish {
		return language.Spanish
	}
	return language.English
}

// Upper upper-cases s with l's casing rules.
func (l Language) Upper(s string) string {
	return cases.Upper(l.Tag()).String(s)
}

// Texts holds every translated string the screens show.
type Texts struct {
	Loading        string
	Copyright      string
	LanguagePrompt string
	ProtocolTitle  string
	Protocol       []string
	Begin          string
	Back           string
	Complete       string // format with the percentage
	SelectFile     string
	Signal         string
	FinalTitle     string
	FinalMessage   string
	FinalPraise    string
}

var texts = map[Language]Texts{
	English: {
		Loading:        "Loading",
		Copyright:      "(C) 1856 LUMON INDUSTRIES CORP.",
		LanguagePrompt: "SELECT LANGUAGE / SELECCIONE IDIOMA",
		ProtocolTitle:  "> IMPORTANT PROTOCOL <",
		Protocol: []string{
			"1. Hover over the numbers to classify them by emotions.",
			"2. Press [1] for Happiness.",
			"3. Press [2] for Love.",
			"4. Press [3] for Sadness.",
		},
		Begin:        "Press [ENTER] to begin extraction.",
		Back:         "BACK",
		Complete:     "%d%% Complete",
		SelectFile:   "SELECT FILE",
		Signal:       "SIGNAL",
		FinalTitle:   "100% COMPLETE",
		FinalMessage: "EVEN SEVERED I WOULD NEVER FORGET YOU",
		FinalPraise:  "MICHELLE.",
	},
	Spanish: {
		Loading:        "Cargando",
		Copyright:      "(C) 1856 LUMON INDUSTRIES CORP.",
		LanguagePrompt: "SELECT LANGUAGE / SELECCIONE IDIOMA",
		ProtocolTitle:  "> PROTOCOLO IMPORTANTE <",
		Protocol: []string{
			"1. Pasa el cursor sobre los números para clasificarlos por emociones.",
			"2. Presiona [1] para Felicidad.",
			"3. Presiona [2] para Amor.",
			"4. Presiona [3] para Tristeza.",
		},
		Begin:        "Presiona [ENTER] para comenzar la extracción.",
		Back:         "VOLVER",
		Complete:     "%d%% Completado",
		SelectFile:   "SELECCIONE ARCHIVO",
		Signal:       "SEÑAL",
		FinalTitle:   "100% COMPLETADO",
		FinalMessage: "YO NI CERCENADO TE OLVIDARÍA",
		FinalPraise:  "MICHELLE.",
	},
}

// Text returns the strings for l.
func (l Language) Text() Texts {
	if t, ok := texts[l]; ok {
		return t
	}
	return texts[English]
}

// CompleteLabel renders the header percentage.
func (l Language) CompleteLabel(percent int) string {
	return fmt.Sprintf(l.Text().Complete, percent)
}

// ProtocolText is the instructions screen body, typed out character by
// character.
func (l Language) ProtocolText() string {
	t := l.Text()
	var b strings.Builder
	b.WriteString(t.ProtocolTitle + "\n\n")
	for _, line := range t.Protocol {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + t.Begin)
	return b.String()
}

// ProtocolMarkdown renders the instructions as markdown for `mdr protocol`.
func (l Language) ProtocolMarkdown() string {
	t := l.Text()
	var b strings.Builder
	b.WriteString("# " + strings.Trim(t.ProtocolTitle, "<> ") + "\n\n")
	for _, line := range t.Protocol {
		// drop the list number, markdown numbers the list itself
		if i := strings.Index(line, ". "); i >= 0 {
			line = line[i+2:]
		}
		b.WriteString("1. " + line + "\n")
	}
	b.WriteString("\n" + t.Begin + "\n")
	return b.String()
}
