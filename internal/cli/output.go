package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"datasanitizer/internal/system"
	"datasanitizer/internal/wipe"
)

// ErrNotInteractive подтверждение невозможно без терминала
var ErrNotInteractive = errors.New("stdin не является терминалом: используйте --force")

// PrintMethods выводит каталог методов в каноническом порядке
func PrintMethods(w io.Writer) error {
	fmt.Fprintln(w, "Secure Data Sanitization Methods:")
	fmt.Fprintln(w, strings.Repeat("=", 50))

	for _, name := range wipe.MethodNames() {
		m, err := wipe.ResolveMethod(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-8s : %2d pass(es)  %s\n", m.Name, len(m.Passes), m.Description())
	}

	fmt.Fprintln(w, "\nNotes:")
	fmt.Fprintln(w, "- More passes = more secure but slower")
	fmt.Fprintln(w, "- Modern drives may need manufacturer tools")
	fmt.Fprintln(w, "- Physical destruction is most secure")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	return nil
}

// PrintPasses выводит последовательность проходов одного метода
func PrintPasses(w io.Writer, name string) error {
	m, err := wipe.ResolveMethod(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (%d):\n", m.Name, len(m.Passes))
	for i, p := range m.Passes {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, p)
	}
	return nil
}

// PrintRecoveryNotes выводит справку о восстановлении данных для goos
func PrintRecoveryNotes(w io.Writer, goos string) {
	fmt.Fprintln(w, "File Recovery Prevention:")
	fmt.Fprintln(w, "- Standard deletion only removes file system references")
	fmt.Fprintln(w, "- Data remains on disk until overwritten")
	fmt.Fprintln(w, "- SSD TRIM commands may complicate secure deletion")
	fmt.Fprintln(w, "- Multiple overwrite passes increase security")

	fmt.Fprintln(w, "\nFactors affecting recovery:")
	switch goos {
	case "windows":
		fmt.Fprintln(w, "- Windows: NTFS may keep file in Recycle Bin")
	case "darwin":
		fmt.Fprintln(w, "- macOS: APFS uses copy-on-write, complicating deletion")
	default:
		fmt.Fprintln(w, "- Linux: ext4 journals may retain file metadata")
	}

	fmt.Fprintln(w, "\nStorage considerations:")
	fmt.Fprintln(w, "- HDDs: Overwriting is generally effective")
	fmt.Fprintln(w, "- SSDs: Wear leveling may leave data copies")
	fmt.Fprintln(w, "- Use manufacturer's secure erase for SSDs when possible")
}

// PrintVolume выводит сведения о томе
func PrintVolume(w io.Writer, v *system.VolumeInfo) {
	if v == nil {
		return
	}
	fmt.Fprintf(w, "Том %s: %.1f GB всего, %.1f GB свободно, запись: %t\n",
		v.Path, gb(v.TotalSize), gb(v.FreeSize), v.IsWritable)
}

// PrintOperations выводит итоги по файлам
func PrintOperations(w io.Writer, ops []*wipe.ShredOperation) {
	fmt.Fprintln(w, "\nРезультаты:")
	fmt.Fprintln(w, strings.Repeat("=", 18))
	for _, op := range ops {
		if op == nil {
			continue
		}
		mark := "✓"
		switch op.Status {
		case wipe.StatusCompleted:
		case wipe.StatusSkipped, wipe.StatusInterrupted:
			mark = "⚠"
		default:
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s - %s (%s, %d pass(es), %d bytes)\n", mark, op.Path, op.Status, op.Method, op.Passes, op.Size)
		if op.Warning != "" {
			fmt.Fprintf(w, "  Предупреждение: %s\n", op.Warning)
		}
		if op.Error != "" {
			fmt.Fprintf(w, "  Ошибка: %s\n", op.Error)
		}
	}
}

// PrintWipeResult выводит итог затирания свободного места
func PrintWipeResult(w io.Writer, res *wipe.WipeResult) {
	if res == nil {
		return
	}
	fmt.Fprintf(w, "Заполнено %d MB свободного места за %s (%.1f MB/s)\n",
		res.BytesWritten/(1024*1024), res.Duration.Round(1e6), res.SpeedMBps)
	if res.DiskFull {
		fmt.Fprintln(w, "Диск заполнен, временный файл удалён")
	}
	if res.Cancelled {
		fmt.Fprintln(w, "Затирание прервано")
	}
}

// ShowShredProgress печатает проходы по мере их завершения. Возвращается,
// когда канал закрыт.
func ShowShredProgress(w io.Writer, progress <-chan wipe.ProgressInfo) {
	current := ""
	for p := range progress {
		if p.Path != current {
			current = p.Path
			fmt.Fprintf(w, "[*] Shredding: %s\n", p.Path)
			fmt.Fprintf(w, "    Size: %d bytes, %d pass(es)\n", p.TotalBytes, p.TotalPasses)
		}
		if p.Done {
			fmt.Fprintf(w, "    Pass %d/%d: Writing %s\n", p.Pass, p.TotalPasses, p.Pattern)
		}
	}
}

// ShowWipeProgress печатает объём записанного не чаще раза в секунду
func ShowWipeProgress(w io.Writer, progress <-chan wipe.ProgressInfo) {
	var last wipe.ProgressInfo
	var printed time.Time
	seen := false

	for p := range progress {
		last, seen = p, true
		if time.Since(printed) < time.Second {
			continue
		}
		printed = time.Now()
		fmt.Fprintf(w, "\rЗаписано: %.1f GB | Скорость: %.1f MB/s", gb(last.BytesWritten), last.SpeedMBps)
	}

	if seen {
		fmt.Fprintf(w, "\rЗаписано: %.1f GB | Скорость: %.1f MB/s\n", gb(last.BytesWritten), last.SpeedMBps)
	}
}

// Confirm показывает предупреждение и ждёт ввода YES. Без терминала
// возвращает ErrNotInteractive: деструктивная операция не подтверждается молча.
func Confirm(in io.Reader, out io.Writer, interactive bool, action string, targets []string) (bool, error) {
	if !interactive {
		return false, ErrNotInteractive
	}

	fmt.Fprintln(out, strings.Repeat("!", 60))
	fmt.Fprintln(out, "WARNING: This tool PERMANENTLY DESTROYS data!")
	fmt.Fprintln(out, "The deleted data CANNOT be recovered!")
	fmt.Fprintln(out, strings.Repeat("!", 60))
	fmt.Fprintf(out, "\n%s:\n", action)
	for _, t := range targets {
		fmt.Fprintf(out, "  %s\n", t)
	}
	fmt.Fprint(out, "\nType 'YES' to continue: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("ошибка чтения подтверждения: %w", err)
	}
	return strings.TrimRight(line, "\r\n") == "YES", nil
}

func gb(b uint64) float64 {
	return float64(b) / (1024 * 1024 * 1024)
}
