// Package runner запускает due задачи одного цикла конкурентно.
//
// Задача компании — непрозрачная capability (интерфейс Executor),
// инжектируемая извне. Runner гарантирует, что задачи не ждут друг
// друга, ошибки изолированы в Outcome, и одна компания никогда
// не выполняется в два потока одновременно.
package runner
