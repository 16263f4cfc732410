package diagfmt

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"mycompiler/internal/diag"
)

// Template is the wording of one diagnostic code in one language.
// Placeholders {0}, {1}, ... refer to the diagnostic's arguments.
type Template struct {
	Code diag.Code
	Lang language.Tag
	Text string
}

var builtinTemplates = []Template{
	{diag.BackendUnknownIdentifier, language.English, "Unknown identifier '{0}'"},
	{diag.BackendUnknownIdentifier, language.Russian, "Неизвестный идентификатор '{0}'"},
	{diag.BackendCannotConvert, language.English, "Can't convert type '{0}' to '{1}'"},
	{diag.BackendCannotConvert, language.Russian, "Невозможно преобразовать тип '{0}' в '{1}'"},
	{diag.BackendUnusedVariable, language.English, "Variable '{0}' is declared but never used"},
	{diag.BackendUnusedVariable, language.Russian, "Переменная '{0}' объявлена, но не используется"},
	{diag.BackendUnusedImport, language.English, "Unnecessary import '{0}'"},
	{diag.BackendUnusedImport, language.Russian, "Лишний импорт '{0}'"},
	{diag.BackendMissingReturn, language.English, "Not all code paths return a value"},
	{diag.BackendMissingReturn, language.Russian, "Не все пути выполнения возвращают значение"},
	{diag.BackendArgumentCount, language.English, "Wrong number of arguments in call to '{0}'"},
	{diag.BackendArgumentCount, language.Russian, "Неверное число аргументов при вызове '{0}'"},
	{diag.BackendRedeclared, language.English, "'{0}' is already defined in this scope"},
	{diag.BackendRedeclared, language.Russian, "'{0}' уже определён в этой области видимости"},
	{diag.BackendInvalidOperation, language.English, "Invalid operation: {0}"},
	{diag.BackendInvalidOperation, language.Russian, "Недопустимая операция: {0}"},
	{diag.BackendNotCallable, language.English, "'{0}' is not callable"},
	{diag.BackendNotCallable, language.Russian, "'{0}' нельзя вызвать"},
	{diag.BackendSyntax, language.English, "Generated code does not parse: {0}"},
	{diag.BackendSyntax, language.Russian, "Сгенерированный код не разбирается: {0}"},
	{diag.BackendToolchain, language.English, "Go toolchain failed: {0}"},
	{diag.BackendToolchain, language.Russian, "Сбой инструментов Go: {0}"},
	{diag.BackendToolchainUnavailable, language.English, "Go toolchain '{0}' not found"},
	{diag.BackendToolchainUnavailable, language.Russian, "Инструменты Go '{0}' не найдены"},
	{diag.LowerArityMismatch, language.English, "Tuple and array sizes do not match ({0} names, {1} values)"},
	{diag.LowerArityMismatch, language.Russian, "Размерности массива и кортежа не совпадают (имён: {0}, значений: {1})"},
}

// Catalog holds message templates keyed by diagnostic code.
type Catalog struct {
	builder *catalog.Builder
	arity   map[diag.Code]int
	langs   []language.Tag
	matcher language.Matcher
}

var placeholder = regexp.MustCompile(`\{(\d+)\}`)

// NewCatalog compiles templates. English is the fallback language, so
// every code should have an English entry.
func NewCatalog(templates ...Template) (*Catalog, error) {
	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		arity:   make(map[diag.Code]int),
	}
	for _, t := range templates {
		format, arity, err := compileTemplate(t.Text)
		if err != nil {
			return nil, fmt.Errorf("template %s/%s: %w", t.Code.ID(), t.Lang, err)
		}
		if err := c.builder.SetString(t.Lang, t.Code.ID(), format); err != nil {
			return nil, err
		}
		c.arity[t.Code] = max(c.arity[t.Code], arity)
		if !slices.Contains(c.langs, t.Lang) {
			c.langs = append(c.langs, t.Lang)
		}
	}
	// первый язык матчера служит запасным
	if i := slices.Index(c.langs, language.English); i > 0 {
		c.langs = slices.Insert(slices.Delete(c.langs, i, i+1), 0, language.English)
	}
	c.matcher = language.NewMatcher(c.langs)
	return c, nil
}

// compileTemplate turns {N} placeholders into explicit printf indexes.
func compileTemplate(text string) (string, int, error) {
	arity := 0
	var convErr error
	format := placeholder.ReplaceAllStringFunc(strings.ReplaceAll(text, "%", "%%"), func(m string) string {
		n, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil {
			convErr = err
			return m
		}
		arity = max(arity, n+1)
		return "%[" + strconv.Itoa(n+1) + "]s"
	})
	return format, arity, convErr
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(builtinTemplates...)
	if err != nil {
		panic(err)
	}
	return c
})

// DefaultCatalog returns the built-in English and Russian templates.
func DefaultCatalog() *Catalog { return defaultCatalog() }

// Match returns the catalog language closest to tag.
func (c *Catalog) Match(tag language.Tag) language.Tag {
	if len(c.langs) == 0 {
		return language.English
	}
	_, idx, _ := c.matcher.Match(tag)
	return c.langs[idx]
}

// Printer returns a printer for the catalog language closest to tag.
func (c *Catalog) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(c.Match(tag), message.Catalog(c.builder))
}

// Has reports whether code has a template.
func (c *Catalog) Has(code diag.Code) bool {
	_, ok := c.arity[code]
	return ok
}

// Render formats code with args. It fails when code has no template or
// fewer arguments than the template refers to.
func (c *Catalog) Render(p *message.Printer, code diag.Code, args []string) (string, bool) {
	arity, ok := c.arity[code]
	if !ok || len(args) < arity {
		return "", false
	}
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return p.Sprintf(code.ID(), vals...), true
}

// Languages lists the languages with at least one template, English first.
func (c *Catalog) Languages() []language.Tag {
	return slices.Clone(c.langs)
}
