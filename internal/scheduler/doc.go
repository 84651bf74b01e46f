// Package scheduler реализует поллинг контрольной таблицы
// и выполнение per-company задач по интервалу.
//
// Структура:
//   - row.go       — парсинг строки таблицы в дескриптор задачи
//   - select.go    — выборка due задач (чистая функция от rows и now)
//   - updater.go   — запись last_run/next_run обратно в таблицу
//   - scheduler.go — один цикл: read → parse → select → dispatch → record
//   - driver.go    — запуск циклов по cron-расписанию без перекрытия
//
// Ядро не знает про Smartsheet и Bind: строки приходят через RowReader,
// записи уходят через SheetWriter, задача компании — runner.Executor.
// Текущее время инжектируется (Config.Now), что делает выборку
// детерминированно тестируемой.
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Reader:   control,
//	    Runner:   run,
//	    Updater:  scheduler.NewUpdater(control, logger),
//	    Executor: invoicesService,
//	    Defaults: scheduler.LoadDefaults("America/Mexico_City"),
//	    Logger:   logger,
//	})
//
//	driver, _ := scheduler.NewDriver(scheduler.DriverConfig{
//	    Scheduler: sched,
//	    PollSpec:  "@every 1m",
//	})
//	driver.Start(ctx)
//	defer driver.Stop()
package scheduler
