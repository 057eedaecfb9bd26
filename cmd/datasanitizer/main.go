package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"datasanitizer/internal/cli"
	"datasanitizer/internal/config"
	"datasanitizer/internal/logging"
	"datasanitizer/internal/reporting"
	"datasanitizer/internal/security"
	"datasanitizer/internal/system"
	"datasanitizer/internal/wipe"
)

const (
	Version = "1.0.0"
	AppName = "datasanitizer"

	// Exit codes
	EXIT_SUCCESS     = 0
	EXIT_ERROR       = 1
	EXIT_PARTIAL     = 2
	EXIT_INTERRUPTED = 130
)

var (
	cfg        *config.Config
	logger     *logging.EnterpriseLogger
	dryRun     bool
	verbose    bool
	configPath string
	profile    string
	report     bool
)

// exitError несёт код выхода процесса
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "datasanitizer",
	Short: "Безопасное уничтожение файлов и затирание свободного места",
	Long: `Перезаписывает файлы по выбранной схеме проходов, переименовывает и удаляет их.
Может заполнить свободное место тома случайными данными.

WARNING: This tool permanently destroys data. Always backup important files!`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var shredCmd = &cobra.Command{
	Use:   "shred [файлы...]",
	Short: "Уничтожить файлы",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShred,
}

var wipeCmd = &cobra.Command{
	Use:   "wipe <директория>",
	Short: "Затереть свободное место тома, содержащего директорию",
	Args:  cobra.ExactArgs(1),
	RunE:  runWipe,
}

var infoCmd = &cobra.Command{
	Use:   "info [путь]",
	Short: "Показать методы и сведения о восстановлении данных",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

var methodsCmd = &cobra.Command{
	Use:   "methods [метод]",
	Short: "Показать методы затирания и их проходы",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMethods,
}

func init() {
	reporting.Version = Version

	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Тестовый режим")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный вывод")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Путь к конфигурации")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "Профиль (quick/standard/thorough/paranoid)")
	rootCmd.PersistentFlags().BoolVar(&report, "report", false, "Сохранить отчёт о запуске")

	shredCmd.Flags().StringP("method", "m", "", "Метод затирания (по умолчанию из конфигурации)")
	shredCmd.Flags().BoolP("force", "f", false, "Пропустить подтверждение")
	shredCmd.Flags().Bool("verify", false, "Проверять каждый проход чтением")

	wipeCmd.Flags().BoolP("force", "f", false, "Пропустить подтверждение")
	wipeCmd.Flags().Int64("max-bytes", 0, "Ограничение объёма записи в байтах (0 = до заполнения)")
	wipeCmd.Flags().String("max-duration", "", "Максимальное время работы (например: 30m, 2h)")

	rootCmd.AddCommand(shredCmd, wipeCmd, infoCmd, methodsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[!] Error: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(EXIT_ERROR)
	}
}

// setup загружает конфигурацию, применяет профиль и создаёт логгер
func setup() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if profile != "" {
		if err := config.ApplyProfile(cfg, profile); err != nil {
			return fmt.Errorf("ошибка применения профиля %s: %w", profile, err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("невалидная конфигурация: %w", err)
	}

	if report {
		cfg.Reporting.Enabled = true
	}

	logger, err = logging.NewEnterpriseLogger(cfg, verbose)
	if err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	if profile != "" {
		logger.Log("INFO", "Применён профиль", "profile", profile)
	}
	return nil
}

// signalContext отменяет контекст по SIGINT/SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Log("WARN", "Получен сигнал, операция прерывается", "signal", sig.String())
			fmt.Printf("\n[!] Получен сигнал %s, завершаем работу...\n", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func confirm(action string, targets []string) (bool, error) {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	ok, err := cli.Confirm(os.Stdin, os.Stdout, interactive, action, targets)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Println("Operation cancelled.")
		logger.Log("INFO", "Операция отменена пользователем")
	}
	return ok, nil
}

func runShred(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	if err := setup(); err != nil {
		return err
	}
	defer logger.Close()

	method, _ := cmd.Flags().GetString("method")
	if method == "" {
		method = cfg.Shred.DefaultMethod
	}
	if _, err := wipe.ResolveMethod(method); err != nil {
		return err
	}
	if cmd.Flags().Changed("verify") {
		cfg.Shred.Verify, _ = cmd.Flags().GetBool("verify")
	}

	force, _ := cmd.Flags().GetBool("force")
	if !force && !dryRun && cfg.Security.RequireConfirmation {
		ok, err := confirm("Target files", args)
		if err != nil || !ok {
			return err
		}
	}

	ctx, stop := signalContext(context.Background())
	defer stop()

	logger.Log("INFO", "Запуск "+AppName, "version", Version, "command", "shred", "dry_run", dryRun)

	progressChan := make(chan wipe.ProgressInfo, 100)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		cli.ShowShredProgress(os.Stdout, progressChan)
	}()

	session := wipe.NewShredSession(args, method, cfg.Shred.MaxConcurrent, dryRun, &wipe.EngineConfig{
		ChunkSize:    int(cfg.Shred.ChunkSize),
		MaxSpeedMBps: cfg.Shred.MaxSpeedMBps,
		Verify:       cfg.Shred.Verify,
		NameLength:   cfg.Shred.NameLength,
		Progress:     progressChan,
	}, logger)
	session.Skip = func(path string) (bool, string) {
		return security.ShouldSkip(cfg, path)
	}

	ops := session.Execute(ctx)
	close(progressChan)
	<-progressDone

	fmt.Println()
	cli.PrintOperations(os.Stdout, ops)
	if !dryRun {
		fmt.Println()
		cli.PrintRecoveryNotes(os.Stdout, runtime.GOOS)
	}

	code := shredExitCode(ops)
	r := reporting.GenerateReport(ops, cfg, "shred", profile, dryRun, startTime, time.Now(), code)
	saveReport(r)

	switch code {
	case EXIT_SUCCESS:
		return nil
	case EXIT_INTERRUPTED:
		return &exitError{code: code, err: wipe.ErrInterrupted}
	case EXIT_PARTIAL:
		return &exitError{code: code, err: fmt.Errorf("часть файлов не обработана")}
	default:
		return &exitError{code: code, err: fmt.Errorf("ни один файл не уничтожен")}
	}
}

// shredExitCode: прерывание важнее всего; затем полный успех, частичный или ошибка
func shredExitCode(ops []*wipe.ShredOperation) int {
	completed := 0
	for _, op := range ops {
		if op == nil {
			continue
		}
		switch op.Status {
		case wipe.StatusInterrupted:
			return EXIT_INTERRUPTED
		case wipe.StatusCompleted:
			completed++
		}
	}
	switch {
	case completed == len(ops):
		return EXIT_SUCCESS
	case completed > 0:
		return EXIT_PARTIAL
	default:
		return EXIT_ERROR
	}
}

func runWipe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	dir := args[0]

	if err := setup(); err != nil {
		return err
	}
	defer logger.Close()

	if cmd.Flags().Changed("max-bytes") {
		cfg.FreeSpace.MaxBytes, _ = cmd.Flags().GetInt64("max-bytes")
	}
	if s, _ := cmd.Flags().GetString("max-duration"); s != "" {
		if _, err := time.ParseDuration(s); err != nil {
			return fmt.Errorf("неверный формат max-duration: %w", err)
		}
		cfg.FreeSpace.MaxDuration = s
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s не является директорией", dir)
	}

	vol, err := system.GetVolumeInfo(dir)
	if err != nil {
		logger.Log("WARN", "Не удалось получить сведения о томе", "dir", dir, "error", err.Error())
	} else {
		cli.PrintVolume(os.Stdout, vol)
	}

	if dryRun {
		logger.Log("INFO", "DRY RUN: свободное место не затирается", "dir", dir)
		return nil
	}

	force, _ := cmd.Flags().GetBool("force")
	if !force && cfg.Security.RequireConfirmation {
		ok, err := confirm("Target directory", []string{dir})
		if err != nil || !ok {
			return err
		}
	}

	ctx, stop := signalContext(context.Background())
	defer stop()
	if d := cfg.GetMaxDuration(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	logger.Log("INFO", "Запуск "+AppName, "version", Version, "command", "wipe", "dir", dir)

	progressChan := make(chan wipe.ProgressInfo, 100)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		cli.ShowWipeProgress(os.Stdout, progressChan)
	}()

	wiper := wipe.NewFreeSpaceWiper(&wipe.FreeSpaceConfig{
		ChunkSize: int(cfg.FreeSpace.ChunkSize),
		MaxBytes:  cfg.FreeSpace.MaxBytes,
		Logger:    logger,
		Progress:  progressChan,
	})
	res, werr := wiper.Wipe(ctx, dir)
	close(progressChan)
	<-progressDone

	cli.PrintWipeResult(os.Stdout, res)

	code := EXIT_SUCCESS
	switch {
	case werr == nil:
	case errors.Is(werr, wipe.ErrInterrupted):
		code = EXIT_INTERRUPTED
	default:
		code = EXIT_ERROR
	}

	r := reporting.GenerateReport(nil, cfg, "wipe", profile, false, startTime, time.Now(), code)
	r.AttachFreeSpace(dir, res, werr)
	saveReport(r)

	if werr != nil {
		return &exitError{code: code, err: werr}
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	if err := cli.PrintMethods(os.Stdout); err != nil {
		return err
	}

	if len(args) == 0 {
		return nil
	}
	if _, err := os.Stat(args[0]); err != nil {
		return nil
	}

	fmt.Println()
	cli.PrintRecoveryNotes(os.Stdout, runtime.GOOS)
	if vol, err := system.GetVolumeInfo(args[0]); err == nil {
		fmt.Println()
		cli.PrintVolume(os.Stdout, vol)
	}
	return nil
}

func runMethods(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return cli.PrintPasses(cmd.OutOrStdout(), args[0])
	}
	return cli.PrintMethods(cmd.OutOrStdout())
}

func saveReport(r *reporting.Report) {
	if !cfg.Reporting.Enabled {
		return
	}
	path, err := reporting.SaveReport(r, cfg)
	if err != nil {
		logger.Log("WARN", "Ошибка сохранения отчёта", "error", err.Error())
		return
	}
	logger.Log("INFO", "Отчёт сохранён", "run_id", r.RunID, "file", path)
}
