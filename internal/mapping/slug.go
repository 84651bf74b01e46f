package mapping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks разбирает символы на базу + диакритику (NFD)
// и удаляет комбинирующие знаки: "ó" → "o".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Slug нормализует заголовок колонки для сравнения:
// убирает акценты, пробелы и не-ASCII символы, приводит к нижнему регистру.
//
// "Última ejecución" и "Ultima ejecucion" дают одинаковый slug,
// поэтому заголовки в таблице можно писать как с акцентами, так и без.
func Slug(title string) string {
	stripped, _, err := transform.String(stripMarks, title)
	if err != nil {
		stripped = title
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if r == ' ' || r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
