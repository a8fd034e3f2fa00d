// Package textnorm приводит текст клипа к каноническому виду и считает его отпечаток.
package textnorm

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// isSpace повторяет класс \s: юникодные пробелы плюс BOM, но без NEL (U+0085).
func isSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\ufeff'
}

// Normalize схлопывает пробельные последовательности в один пробел,
// обрезает края и приводит к нижнему регистру.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	collapsed := strings.Join(strings.FieldsFunc(text, isSpace), " ")
	if collapsed == "" {
		return ""
	}
	// cases.Caser не потокобезопасен
	return cases.Lower(language.Und).String(collapsed)
}

// Hash считает 32-битный полиномиальный хеш (множитель 31) по UTF-16 code units.
// Арифметика знаковая 32-битная, результат печатается как беззнаковое десятичное.
// Совместим с хешами, уже сохранёнными расширением.
func Hash(s string) string {
	var h int32
	for _, cu := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(cu)
	}
	return strconv.FormatUint(uint64(uint32(h)), 10)
}
