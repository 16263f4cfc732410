package diagfmt

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// ParseLocale understands BCP 47 tags as well as POSIX locale names
// such as "ru_RU.UTF-8". Unparsable input yields English.
func ParseLocale(s string) language.Tag {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// EnvLocale picks the locale from LC_ALL, LC_MESSAGES or LANG.
func EnvLocale() language.Tag {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" {
			return ParseLocale(v)
		}
	}
	return language.English
}
