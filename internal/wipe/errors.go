package wipe

import (
	"errors"
	"fmt"
)

// ErrorKind классифицирует ошибки уничтожения файла
type ErrorKind string

const (
	// KindNotFound: путь не существует или не является обычным файлом.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindUnknownMethod: имя метода отсутствует в каталоге.
	KindUnknownMethod ErrorKind = "UNKNOWN_METHOD"

	// KindIOFailure: ошибка записи, синхронизации или удаления.
	KindIOFailure ErrorKind = "IO_FAILURE"

	// KindInterrupted: операция прервана, файл в неопределённом состоянии.
	KindInterrupted ErrorKind = "INTERRUPTED"
)

var (
	ErrNotFound      = errors.New("target not found")
	ErrUnknownMethod = errors.New("unknown method")
	ErrIOFailure     = errors.New("i/o failure")
	ErrInterrupted   = errors.New("interrupted")
)

// ShredError описывает ошибку операции с указанием вида, шага и прохода.
//
// Interrupted означает, что файл частично перезаписан и НЕ удалён;
// вызывающая сторона не должна трактовать это как успех.
type ShredError struct {
	Kind ErrorKind
	Op   string // stat, resolve, open, write, sync, verify, remove ...
	Path string
	Pass int // 1-based, 0 если ошибка вне прохода
	Err  error
}

func (e *ShredError) Error() string {
	msg := fmt.Sprintf("%s: %s %s", e.Kind, e.Op, e.Path)
	if e.Pass > 0 {
		msg += fmt.Sprintf(" (pass %d)", e.Pass)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShredError) Unwrap() error {
	return e.Err
}

// Is сопоставляет ошибку с sentinel-ошибкой её вида.
func (e *ShredError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindUnknownMethod:
		return ErrUnknownMethod
	case KindIOFailure:
		return ErrIOFailure
	case KindInterrupted:
		return ErrInterrupted
	default:
		return nil
	}
}

// KindOf возвращает вид ошибки или пустую строку для посторонних ошибок.
func KindOf(err error) ErrorKind {
	var se *ShredError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func newError(kind ErrorKind, op, path string, pass int, err error) *ShredError {
	return &ShredError{Kind: kind, Op: op, Path: path, Pass: pass, Err: err}
}
