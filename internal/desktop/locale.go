package desktop

import (
	"os"
	"strings"
)

// Locale is a POSIX message locale: lang_COUNTRY.ENCODING@MODIFIER.
type Locale struct {
	Lang     string
	Country  string
	Modifier string
}

// ParseLocale splits a locale name. "C", "POSIX" and malformed names yield
// ok == false.
func ParseLocale(s string) (Locale, bool) {
	var l Locale
	if i := strings.IndexByte(s, '@'); i >= 0 {
		l.Modifier = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '_'); i >= 0 {
		l.Country = s[i+1:]
		s = s[:i]
		if !isAlpha(l.Country) {
			return Locale{}, false
		}
	}
	l.Lang = s
	if !isAlpha(l.Lang) || l.Lang == "C" || l.Lang == "POSIX" {
		return Locale{}, false
	}
	return l, true
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// CurrentLocale reads LC_ALL, LC_MESSAGES and LANG in that order.
func CurrentLocale() Locale {
	return localeFromEnv(os.Getenv)
}

func localeFromEnv(getenv func(string) string) Locale {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(name); v != "" {
			l, _ := ParseLocale(v)
			return l
		}
	}
	return Locale{}
}

// Keys returns the localized key suffixes to try, most specific first.
func (l Locale) Keys() []string {
	if l.Lang == "" {
		return nil
	}
	var keys []string
	if l.Country != "" && l.Modifier != "" {
		keys = append(keys, l.Lang+"_"+l.Country+"@"+l.Modifier)
	}
	if l.Country != "" {
		keys = append(keys, l.Lang+"_"+l.Country)
	}
	if l.Modifier != "" {
		keys = append(keys, l.Lang+"@"+l.Modifier)
	}
	return append(keys, l.Lang)
}
