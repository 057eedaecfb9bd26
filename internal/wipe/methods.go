package wipe

import (
	"encoding/hex"
	"fmt"
)

// PassKind определяет вид прохода перезаписи
type PassKind int

const (
	PassFixed PassKind = iota
	PassRandom
)

func (k PassKind) String() string {
	switch k {
	case PassFixed:
		return "fixed"
	case PassRandom:
		return "random"
	default:
		return "unknown"
	}
}

// PassSpec описывает один проход: фиксированный паттерн или свежие случайные данные
type PassSpec struct {
	kind    PassKind
	pattern []byte
}

// Fixed создаёт проход с повторяющимся паттерном. Пустой паттерн недопустим.
func Fixed(pattern ...byte) PassSpec {
	if len(pattern) == 0 {
		panic("wipe: пустой паттерн")
	}
	p := make([]byte, len(pattern))
	copy(p, pattern)
	return PassSpec{kind: PassFixed, pattern: p}
}

// Random создаёт проход криптографически стойкими случайными данными
func Random() PassSpec {
	return PassSpec{kind: PassRandom}
}

func (p PassSpec) Kind() PassKind {
	return p.kind
}

// Pattern возвращает копию паттерна (nil для случайного прохода)
func (p PassSpec) Pattern() []byte {
	if p.kind != PassFixed {
		return nil
	}
	out := make([]byte, len(p.pattern))
	copy(out, p.pattern)
	return out
}

// String возвращает идентификатор паттерна для прогресса: "random" или "0x00ff..."
func (p PassSpec) String() string {
	if p.kind == PassRandom {
		return "random"
	}
	return "0x" + hex.EncodeToString(p.pattern)
}

// WipeMethod имя метода затирания
type WipeMethod string

const (
	MethodZeros   WipeMethod = "zeros"
	MethodOnes    WipeMethod = "ones"
	MethodRandom  WipeMethod = "random"
	MethodDOD3    WipeMethod = "dod3"
	MethodDOD7    WipeMethod = "dod7"
	MethodGutmann WipeMethod = "gutmann"
)

// Method упорядоченная последовательность проходов. Порядок значим.
type Method struct {
	Name   WipeMethod
	Passes []PassSpec
}

// Description краткое описание метода для info/methods
func (m Method) Description() string {
	return methodDescriptions[m.Name]
}

var methodOrder = []WipeMethod{
	MethodZeros, MethodOnes, MethodRandom, MethodDOD3, MethodDOD7, MethodGutmann,
}

var methodDescriptions = map[WipeMethod]string{
	MethodZeros:   "Single pass with zeros",
	MethodOnes:    "Single pass with ones",
	MethodRandom:  "Single pass with random data",
	MethodDOD3:    "DoD 5220.22-M 3-pass standard",
	MethodDOD7:    "DoD 5220.22-M 7-pass standard",
	MethodGutmann: "35-pass Gutmann method",
}

// gutmannFixed 27 фиксированных проходов Гутмана, по три байта на мотив
var gutmannFixed = [27][3]byte{
	{0x55, 0x55, 0x55}, {0xAA, 0xAA, 0xAA}, {0x92, 0x49, 0x24}, {0x49, 0x24, 0x92},
	{0x24, 0x92, 0x49}, {0x00, 0x00, 0x00}, {0x11, 0x11, 0x11}, {0x22, 0x22, 0x22},
	{0x33, 0x33, 0x33}, {0x44, 0x44, 0x44}, {0x55, 0x55, 0x55}, {0x66, 0x66, 0x66},
	{0x77, 0x77, 0x77}, {0x88, 0x88, 0x88}, {0x99, 0x99, 0x99}, {0xAA, 0xAA, 0xAA},
	{0xBB, 0xBB, 0xBB}, {0xCC, 0xCC, 0xCC}, {0xDD, 0xDD, 0xDD}, {0xEE, 0xEE, 0xEE},
	{0xFF, 0xFF, 0xFF}, {0x92, 0x49, 0x24}, {0x49, 0x24, 0x92}, {0x24, 0x92, 0x49},
	{0x6D, 0xB6, 0xDB}, {0xB6, 0xDB, 0x6D}, {0xDB, 0x6D, 0xB6},
}

// catalog строится один раз и никогда не изменяется; наружу отдаются только копии
var catalog = buildCatalog()

func buildCatalog() map[WipeMethod][]PassSpec {
	gutmann := make([]PassSpec, 0, 35)
	for i := 0; i < 4; i++ {
		gutmann = append(gutmann, Random())
	}
	for _, m := range gutmannFixed {
		gutmann = append(gutmann, Fixed(m[:]...))
	}
	for i := 0; i < 4; i++ {
		gutmann = append(gutmann, Random())
	}

	return map[WipeMethod][]PassSpec{
		MethodZeros:  {Fixed(0x00)},
		MethodOnes:   {Fixed(0xFF)},
		MethodRandom: {Random()},
		MethodDOD3:   {Fixed(0x00), Fixed(0xFF), Random()},
		MethodDOD7: {
			Fixed(0xF6), Fixed(0x00), Fixed(0xFF), Random(),
			Fixed(0x00), Fixed(0xFF), Random(),
		},
		MethodGutmann: gutmann,
	}
}

// ResolveMethod возвращает последовательность проходов по имени метода
func ResolveMethod(name string) (Method, error) {
	passes, ok := catalog[WipeMethod(name)]
	if !ok {
		return Method{}, newError(KindUnknownMethod, "resolve", "", 0,
			fmt.Errorf("%w: %q (доступны: %v)", ErrUnknownMethod, name, MethodNames()))
	}

	out := make([]PassSpec, len(passes))
	for i, p := range passes {
		if p.kind == PassFixed {
			out[i] = Fixed(p.pattern...)
		} else {
			out[i] = Random()
		}
	}
	return Method{Name: WipeMethod(name), Passes: out}, nil
}

// MethodNames возвращает имена методов в каноническом порядке
func MethodNames() []string {
	names := make([]string, len(methodOrder))
	for i, m := range methodOrder {
		names[i] = string(m)
	}
	return names
}

// GetMethodPasses возвращает количество проходов для метода (0 для неизвестного)
func GetMethodPasses(method WipeMethod) int {
	return len(catalog[method])
}
